package Ledger

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"DentalClinic/Models"
)

// FindTreatment loads a live treatment by its public code.
func FindTreatment(db *gorm.DB, treatmentCode string) (*Models.Treatment, error) {
	return findTreatment(db, treatmentCode)
}

// TreatmentsForPatient lists a patient's live treatments, open ones first,
// newest first within each group.
func TreatmentsForPatient(db *gorm.DB, patientID uint) ([]Models.Treatment, error) {
	var treatments []Models.Treatment
	err := db.Where("patient_id = ? AND is_deleted = ?", patientID, false).
		Order("is_active DESC").Order("created_at DESC").
		Find(&treatments).Error
	return treatments, err
}

// PaymentsForTreatment lists a treatment's live payments, newest first.
// Soft-deleted payments stay in the table but are not returned.
func PaymentsForTreatment(db *gorm.DB, treatmentCode string) ([]Models.Payment, error) {
	var payments []Models.Payment
	err := db.Where("treatment_id = ? AND is_deleted = ?", treatmentCode, false).
		Order("payment_date DESC").
		Find(&payments).Error
	return payments, err
}

// CostHistoryForTreatment lists a treatment's cost revisions, newest first.
func CostHistoryForTreatment(db *gorm.DB, treatmentCode string) ([]Models.TreatmentCost, error) {
	var costs []Models.TreatmentCost
	err := db.Where("treatment_id = ? AND is_deleted = ?", treatmentCode, false).
		Order("effective_from DESC").
		Find(&costs).Error
	return costs, err
}

// PatientBalance sums the outstanding amounts over a patient's live
// treatments.
func PatientBalance(db *gorm.DB, patientID uint) (float64, error) {
	var balance float64
	err := db.Model(&Models.Treatment{}).
		Where("patient_id = ? AND is_deleted = ?", patientID, false).
		Select("COALESCE(SUM(amount_pending), 0)").
		Scan(&balance).Error
	return balance, err
}

// PatientTreatmentReport builds the cross-patient account listing: every
// live patient with their most recently updated live treatment, the
// status from its latest cost revision, and the later of last payment
// date and treatment update as the display date. The rows are assembled
// in Go rather than one large SQL statement; the data set is desktop
// sized.
func PatientTreatmentReport(db *gorm.DB) ([]Models.PatientTreatmentRow, error) {
	var patients []Models.Patient
	if err := db.Where("is_deleted = ?", false).Order("name").Find(&patients).Error; err != nil {
		return nil, err
	}

	rows := make([]Models.PatientTreatmentRow, 0, len(patients))
	for _, patient := range patients {
		row := Models.PatientTreatmentRow{PatientID: patient.ID, Name: patient.Name}

		var treatment Models.Treatment
		err := db.Where("patient_id = ? AND is_deleted = ?", patient.ID, false).
			Order("updated_at DESC").
			First(&treatment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rows = append(rows, row)
			continue
		}
		if err != nil {
			return nil, err
		}

		status := Models.DeriveStatus(treatment.TotalAmount, treatment.AmountPaid)
		var latestCost Models.TreatmentCost
		if err := db.Where("treatment_id = ? AND is_deleted = ?", treatment.TreatmentID, false).
			Order("effective_from DESC").
			First(&latestCost).Error; err == nil {
			status = latestCost.Status
		}

		displayDate := treatment.UpdatedAt
		var lastPayment Models.Payment
		if err := db.Where("treatment_id = ? AND is_deleted = ?", treatment.TreatmentID, false).
			Order("payment_date DESC").
			First(&lastPayment).Error; err == nil && lastPayment.PaymentDate.After(displayDate) {
			displayDate = lastPayment.PaymentDate
		}

		code := treatment.TreatmentID
		description := treatment.Description
		total := treatment.TotalAmount
		paid := treatment.AmountPaid
		pending := treatment.AmountPending
		row.TreatmentID = &code
		row.Description = &description
		row.TotalAmount = &total
		row.AmountPaid = &paid
		row.AmountPending = &pending
		row.Status = &status
		row.DisplayDate = &displayDate

		rows = append(rows, row)
	}

	return rows, nil
}

// PaymentReportFilter narrows the payments report. Zero values leave the
// corresponding dimension unfiltered.
type PaymentReportFilter struct {
	From            time.Time
	To              time.Time
	PaymentMethod   string
	TreatmentSearch string
}

// PaymentsReport lists live payments across all patients, newest first,
// with total, cash, and non-cash sums.
func PaymentsReport(db *gorm.DB, filter PaymentReportFilter) (*Models.PaymentReportSummary, error) {
	query := db.Table("payments").
		Select("patients.name AS patient_name, treatments.treatment_id, " +
			"treatments.description AS treatment_description, payments.amount, " +
			"payments.payment_method, payments.payment_date").
		Joins("JOIN treatments ON treatments.treatment_id = payments.treatment_id").
		Joins("JOIN patients ON patients.id = treatments.patient_id").
		Where("payments.is_deleted = ?", false)

	if !filter.From.IsZero() {
		query = query.Where("payments.payment_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("payments.payment_date <= ?", filter.To)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payments.payment_method = ?", filter.PaymentMethod)
	}
	if search := strings.TrimSpace(filter.TreatmentSearch); search != "" {
		query = query.Where("LOWER(treatments.description) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var rows []Models.PaymentReportRow
	if err := query.Order("payments.payment_date DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &Models.PaymentReportSummary{Rows: rows}
	for _, row := range rows {
		summary.Total += row.Amount
		if row.PaymentMethod == Models.MethodCash {
			summary.TotalCash += row.Amount
		} else {
			summary.TotalOther += row.Amount
		}
	}
	return summary, nil
}
