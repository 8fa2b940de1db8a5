package Ledger

import (
	"testing"
	"time"

	"DentalClinic/Models"
)

func TestTreatmentsForPatientOrdering(t *testing.T) {
	db := openTestDB(t)
	patient := createTestPatient(t, db, "Ibrahim Said")

	first := mustCreateTreatment(t, db, CreateTreatmentInput{PatientID: patient.ID, Description: "Cleaning", TotalAmount: 100})
	second := mustCreateTreatment(t, db, CreateTreatmentInput{PatientID: patient.ID, Description: "Crown", TotalAmount: 200})
	third := mustCreateTreatment(t, db, CreateTreatmentInput{PatientID: patient.ID, Description: "Implant", TotalAmount: 300})

	// Spread creation times so the ordering is deterministic.
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, treatment := range []*Models.Treatment{first, second, third} {
		err := db.Model(&Models.Treatment{}).Where("id = ?", treatment.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error
		if err != nil {
			t.Fatalf("set created_at: %v", err)
		}
	}

	// Closing the newest one pushes it behind the open treatments.
	if _, err := MarkCompleted(db, third.TreatmentID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	treatments, err := TreatmentsForPatient(db, patient.ID)
	if err != nil {
		t.Fatalf("list treatments: %v", err)
	}
	if len(treatments) != 3 {
		t.Fatalf("got %d treatments, want 3", len(treatments))
	}
	got := []string{treatments[0].TreatmentID, treatments[1].TreatmentID, treatments[2].TreatmentID}
	want := []string{second.TreatmentID, first.TreatmentID, third.TreatmentID}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPaymentsForTreatmentOrdering(t *testing.T) {
	db := openTestDB(t)
	patient := createTestPatient(t, db, "Laila Mourad")
	treatment := mustCreateTreatment(t, db, CreateTreatmentInput{
		PatientID:   patient.ID,
		TotalAmount: 1000,
		Date:        time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	})

	dates := []time.Time{
		time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC),
	}
	for _, date := range dates {
		if _, err := RecordPayment(db, treatment.TreatmentID, PaymentInput{
			Amount:        100,
			PaymentMethod: Models.MethodCash,
			Date:          date,
		}); err != nil {
			t.Fatalf("record payment: %v", err)
		}
	}

	payments, err := PaymentsForTreatment(db, treatment.TreatmentID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	// Three recorded plus the zero-amount opening payment.
	if len(payments) != 4 {
		t.Fatalf("got %d payments, want 4", len(payments))
	}
	for i := 1; i < len(payments); i++ {
		if payments[i].PaymentDate.After(payments[i-1].PaymentDate) {
			t.Errorf("payments out of order at position %d", i)
		}
	}
}

func TestPatientBalance(t *testing.T) {
	db := openTestDB(t)
	patient := createTestPatient(t, db, "Adel Imam")

	mustCreateTreatment(t, db, CreateTreatmentInput{PatientID: patient.ID, TotalAmount: 500, InitialPayment: 200})
	mustCreateTreatment(t, db, CreateTreatmentInput{PatientID: patient.ID, TotalAmount: 300})
	removed := mustCreateTreatment(t, db, CreateTreatmentInput{PatientID: patient.ID, TotalAmount: 900})

	err := db.Model(&Models.Treatment{}).Where("id = ?", removed.ID).
		Update("is_deleted", true).Error
	if err != nil {
		t.Fatalf("soft delete treatment: %v", err)
	}

	balance, err := PatientBalance(db, patient.ID)
	if err != nil {
		t.Fatalf("patient balance: %v", err)
	}
	if balance != 600 {
		t.Errorf("got balance %v, want 600", balance)
	}

	empty := createTestPatient(t, db, "No Treatments Yet")
	balance, err = PatientBalance(db, empty.ID)
	if err != nil {
		t.Fatalf("patient balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("got balance %v for empty patient, want 0", balance)
	}
}

func TestPatientTreatmentReport(t *testing.T) {
	db := openTestDB(t)

	withTreatment := createTestPatient(t, db, "Aya Kamel")
	withoutTreatment := createTestPatient(t, db, "Ziad Hamdy")
	deleted := createTestPatient(t, db, "Former Patient")
	if err := db.Model(&deleted).Update("is_deleted", true).Error; err != nil {
		t.Fatalf("soft delete patient: %v", err)
	}

	older := mustCreateTreatment(t, db, CreateTreatmentInput{
		PatientID:   withTreatment.ID,
		Description: "Cleaning",
		TotalAmount: 100,
	})
	latest := mustCreateTreatment(t, db, CreateTreatmentInput{
		PatientID:      withTreatment.ID,
		Description:    "Veneers",
		TotalAmount:    2000,
		InitialPayment: 500,
	})

	// Push the older treatment's update into the past so the report picks
	// the other one.
	past := time.Now().Add(-48 * time.Hour)
	err := db.Model(&Models.Treatment{}).Where("id = ?", older.ID).
		Update("updated_at", past).Error
	if err != nil {
		t.Fatalf("set updated_at: %v", err)
	}

	// A payment dated after the treatment's last update becomes the
	// display date.
	futureDate := time.Now().Add(24 * time.Hour).Round(time.Second)
	if _, err := RecordPayment(db, latest.TreatmentID, PaymentInput{
		Amount:        300,
		PaymentMethod: Models.MethodCash,
		Date:          futureDate,
	}); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	rows, err := PatientTreatmentReport(db)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// Rows come back ordered by patient name.
	first, second := rows[0], rows[1]
	if first.PatientID != withTreatment.ID || first.Name != "Aya Kamel" {
		t.Fatalf("unexpected first row: %d %q", first.PatientID, first.Name)
	}
	if second.PatientID != withoutTreatment.ID || second.Name != "Ziad Hamdy" {
		t.Fatalf("unexpected second row: %d %q", second.PatientID, second.Name)
	}

	if first.TreatmentID == nil || *first.TreatmentID != latest.TreatmentID {
		t.Errorf("report picked the wrong treatment")
	}
	if first.Status == nil || *first.Status != Models.StatusPartiallyPaid {
		t.Errorf("report status should come from the latest cost revision")
	}
	if first.AmountPaid == nil || *first.AmountPaid != 800 {
		t.Errorf("report paid total should reflect all payments")
	}
	if first.DisplayDate == nil || !first.DisplayDate.Equal(futureDate) {
		t.Errorf("display date should be the later payment date")
	}

	if second.TreatmentID != nil || second.Status != nil || second.DisplayDate != nil {
		t.Errorf("patient without treatments should have empty treatment columns")
	}
}

func TestPaymentsReport(t *testing.T) {
	db := openTestDB(t)
	patient := createTestPatient(t, db, "Hassan Omar")

	opened := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	treatment := mustCreateTreatment(t, db, CreateTreatmentInput{
		PatientID:   patient.ID,
		Description: "Root Canal",
		TotalAmount: 1000,
		Date:        opened,
	})

	cashDate := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	upiDate := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)
	if _, err := RecordPayment(db, treatment.TreatmentID, PaymentInput{
		Amount: 100, PaymentMethod: Models.MethodCash, Date: cashDate,
	}); err != nil {
		t.Fatalf("record cash payment: %v", err)
	}
	if _, err := RecordPayment(db, treatment.TreatmentID, PaymentInput{
		Amount: 200, PaymentMethod: Models.MethodUPI, Date: upiDate,
	}); err != nil {
		t.Fatalf("record upi payment: %v", err)
	}

	t.Run("unfiltered", func(t *testing.T) {
		summary, err := PaymentsReport(db, PaymentReportFilter{})
		if err != nil {
			t.Fatalf("build report: %v", err)
		}
		// Two recorded payments plus the zero-amount opening payment.
		if len(summary.Rows) != 3 {
			t.Fatalf("got %d rows, want 3", len(summary.Rows))
		}
		if summary.Total != 300 || summary.TotalCash != 100 || summary.TotalOther != 200 {
			t.Errorf("got total=%v cash=%v other=%v, want 300/100/200",
				summary.Total, summary.TotalCash, summary.TotalOther)
		}
		if summary.Rows[0].PaymentMethod != Models.MethodUPI {
			t.Errorf("rows should be newest first")
		}
		if summary.Rows[0].PatientName != "Hassan Omar" {
			t.Errorf("patient name not joined: %q", summary.Rows[0].PatientName)
		}
	})

	t.Run("by method", func(t *testing.T) {
		summary, err := PaymentsReport(db, PaymentReportFilter{PaymentMethod: Models.MethodUPI})
		if err != nil {
			t.Fatalf("build report: %v", err)
		}
		if len(summary.Rows) != 1 || summary.Total != 200 {
			t.Errorf("got %d rows total=%v, want 1 row total=200", len(summary.Rows), summary.Total)
		}
	})

	t.Run("by date range", func(t *testing.T) {
		summary, err := PaymentsReport(db, PaymentReportFilter{From: cashDate, To: cashDate})
		if err != nil {
			t.Fatalf("build report: %v", err)
		}
		if len(summary.Rows) != 1 || summary.Total != 100 {
			t.Errorf("got %d rows total=%v, want 1 row total=100", len(summary.Rows), summary.Total)
		}
	})

	t.Run("by treatment search", func(t *testing.T) {
		summary, err := PaymentsReport(db, PaymentReportFilter{TreatmentSearch: "root"})
		if err != nil {
			t.Fatalf("build report: %v", err)
		}
		if len(summary.Rows) != 3 {
			t.Errorf("case-insensitive search got %d rows, want 3", len(summary.Rows))
		}

		summary, err = PaymentsReport(db, PaymentReportFilter{TreatmentSearch: "braces"})
		if err != nil {
			t.Fatalf("build report: %v", err)
		}
		if len(summary.Rows) != 0 {
			t.Errorf("unmatched search got %d rows, want 0", len(summary.Rows))
		}
	})

	t.Run("excludes deleted payments", func(t *testing.T) {
		payments, err := PaymentsForTreatment(db, treatment.TreatmentID)
		if err != nil {
			t.Fatalf("load payments: %v", err)
		}
		var upi Models.Payment
		for _, payment := range payments {
			if payment.PaymentMethod == Models.MethodUPI {
				upi = payment
			}
		}
		if _, err := DeletePayment(db, upi.ID); err != nil {
			t.Fatalf("delete payment: %v", err)
		}

		summary, err := PaymentsReport(db, PaymentReportFilter{})
		if err != nil {
			t.Fatalf("build report: %v", err)
		}
		if len(summary.Rows) != 2 || summary.Total != 100 {
			t.Errorf("got %d rows total=%v, want 2 rows total=100", len(summary.Rows), summary.Total)
		}
	})
}
