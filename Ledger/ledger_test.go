package Ledger

import (
	"math"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"DentalClinic/Models"
)

// openTestDB opens a fresh in-memory database. The pool is pinned to a
// single connection because each sqlite :memory: connection is its own
// empty database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&Models.Patient{}, &Models.Treatment{}, &Models.Payment{}, &Models.TreatmentCost{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// openFileTestDB opens a file-backed database in a scratch directory so
// multiple connections can contend for the write lock, with the busy
// handler waiting instead of failing fast.
func openFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	err = db.AutoMigrate(&Models.Patient{}, &Models.Treatment{}, &Models.Payment{}, &Models.TreatmentCost{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestPatient(t *testing.T, db *gorm.DB, name string) Models.Patient {
	t.Helper()
	patient := Models.Patient{Name: name, Age: 35, Mobile: "5550100", Gender: "F"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}

func mustCreateTreatment(t *testing.T, db *gorm.DB, input CreateTreatmentInput) *Models.Treatment {
	t.Helper()
	treatment, err := CreateTreatment(db, input)
	if err != nil {
		t.Fatalf("create treatment: %v", err)
	}
	return treatment
}

func reloadTreatment(t *testing.T, db *gorm.DB, code string) *Models.Treatment {
	t.Helper()
	treatment, err := FindTreatment(db, code)
	if err != nil {
		t.Fatalf("reload treatment %s: %v", code, err)
	}
	return treatment
}

// assertReconciled checks the two ledger invariants: amount_paid equals
// the sum of live payments, and amount_pending equals the clamped
// difference of total and paid.
func assertReconciled(t *testing.T, db *gorm.DB, code string) {
	t.Helper()

	treatment := reloadTreatment(t, db, code)

	var paymentSum float64
	err := db.Model(&Models.Payment{}).
		Where("treatment_id = ? AND is_deleted = ?", code, false).
		Select("COALESCE(SUM(amount), 0)").Scan(&paymentSum).Error
	if err != nil {
		t.Fatalf("sum payments: %v", err)
	}

	if math.Abs(treatment.AmountPaid-paymentSum) > Models.StatusEpsilon {
		t.Errorf("amount_paid %v does not match payment sum %v", treatment.AmountPaid, paymentSum)
	}
	wantPending := Models.PendingAmount(treatment.TotalAmount, treatment.AmountPaid)
	if math.Abs(treatment.AmountPending-wantPending) > Models.StatusEpsilon {
		t.Errorf("amount_pending %v, want %v", treatment.AmountPending, wantPending)
	}
}

func latestCost(t *testing.T, db *gorm.DB, code string) Models.TreatmentCost {
	t.Helper()
	costs, err := CostHistoryForTreatment(db, code)
	if err != nil {
		t.Fatalf("load cost history: %v", err)
	}
	if len(costs) == 0 {
		t.Fatalf("no cost revisions for %s", code)
	}
	return costs[0]
}
