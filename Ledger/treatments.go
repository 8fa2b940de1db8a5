package Ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"DentalClinic/Models"
)

// CreateTreatmentInput carries the form values for a new treatment. The
// caller has already validated the shape; amounts are re-checked here as a
// second line of defence.
type CreateTreatmentInput struct {
	PatientID      uint
	Description    string
	TotalAmount    float64
	InitialPayment float64
	PaymentMethod  string
	Notes          string
	Date           time.Time
}

// CreateTreatment opens a treatment ledger for a patient. The treatment
// row, the first cost revision, and the initial payment commit together
// or not at all. A zero initial payment is still recorded so the audit
// trail starts at inception.
func CreateTreatment(db *gorm.DB, input CreateTreatmentInput) (*Models.Treatment, error) {
	if input.TotalAmount <= 0 {
		return nil, &ValidationError{Field: "total_amount", Message: "must be greater than zero"}
	}
	if input.InitialPayment < 0 {
		return nil, &ValidationError{Field: "initial_payment", Message: "must not be negative"}
	}
	if input.PaymentMethod != "" && !Models.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, &ValidationError{Field: "payment_method", Message: "unknown payment method"}
	}

	var patient Models.Patient
	if err := db.Where("id = ? AND is_deleted = ?", input.PatientID, false).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, &PersistenceError{Op: "create treatment", Err: err}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	method := input.PaymentMethod
	if method == "" {
		method = Models.MethodCash
	}

	treatment := Models.Treatment{
		TreatmentID:   Models.GenerateTreatmentCode(),
		PatientID:     input.PatientID,
		Description:   input.Description,
		TotalAmount:   input.TotalAmount,
		AmountPaid:    input.InitialPayment,
		AmountPending: Models.PendingAmount(input.TotalAmount, input.InitialPayment),
		Notes:         input.Notes,
		IsActive:      true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&treatment).Error; err != nil {
			return err
		}

		cost := Models.TreatmentCost{
			TreatmentID:   treatment.TreatmentID,
			Cost:          input.TotalAmount,
			Status:        Models.DeriveStatus(input.TotalAmount, input.InitialPayment),
			Notes:         "Initial cost",
			EffectiveFrom: date,
		}
		if err := tx.Create(&cost).Error; err != nil {
			return err
		}

		notes := input.Notes
		if input.InitialPayment == 0 && notes == "" {
			notes = "No initial payment"
		}
		payment := Models.Payment{
			TreatmentID:   treatment.TreatmentID,
			Amount:        input.InitialPayment,
			PaymentDate:   date,
			PaymentMethod: method,
			Notes:         notes,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, &PersistenceError{Op: "create treatment", Err: err}
	}

	return &treatment, nil
}

// ReviseCost appends a new cost revision and moves the treatment's total
// to the new cost. This is the only operation that changes total_amount;
// amount_paid is never touched.
func ReviseCost(db *gorm.DB, treatmentCode string, newCost float64, notes string) (*Models.Treatment, error) {
	if newCost <= 0 {
		return nil, &ValidationError{Field: "cost", Message: "must be greater than zero"}
	}

	treatment, err := findTreatment(db, treatmentCode)
	if err != nil {
		return nil, err
	}
	if !treatment.IsActive {
		return nil, ErrTreatmentClosed
	}
	if notes == "" {
		notes = "Cost updated"
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		cost := Models.TreatmentCost{
			TreatmentID:   treatment.TreatmentID,
			Cost:          newCost,
			Status:        Models.DeriveStatus(newCost, treatment.AmountPaid),
			Notes:         notes,
			EffectiveFrom: time.Now(),
		}
		if err := tx.Create(&cost).Error; err != nil {
			return err
		}
		return tx.Model(&Models.Treatment{}).Where("id = ?", treatment.ID).
			Updates(map[string]interface{}{
				"total_amount":   newCost,
				"amount_pending": Models.PendingAmount(newCost, treatment.AmountPaid),
			}).Error
	})
	if err != nil {
		return nil, &PersistenceError{Op: "revise cost", Err: err}
	}

	return findTreatment(db, treatmentCode)
}

// MarkCompleted closes a treatment for further payments and cost changes.
func MarkCompleted(db *gorm.DB, treatmentCode string) (*Models.Treatment, error) {
	return setActive(db, treatmentCode, false)
}

// Reopen makes a completed treatment editable again.
func Reopen(db *gorm.DB, treatmentCode string) (*Models.Treatment, error) {
	return setActive(db, treatmentCode, true)
}

func setActive(db *gorm.DB, treatmentCode string, active bool) (*Models.Treatment, error) {
	treatment, err := findTreatment(db, treatmentCode)
	if err != nil {
		return nil, err
	}
	if treatment.IsActive == active {
		return nil, ErrInvalidTransition
	}

	if err := db.Model(treatment).Update("is_active", active).Error; err != nil {
		return nil, &PersistenceError{Op: "update treatment state", Err: err}
	}
	return findTreatment(db, treatmentCode)
}

func findTreatment(db *gorm.DB, treatmentCode string) (*Models.Treatment, error) {
	var treatment Models.Treatment
	err := db.Where("treatment_id = ? AND is_deleted = ?", treatmentCode, false).First(&treatment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTreatmentNotFound
		}
		return nil, &PersistenceError{Op: "load treatment", Err: err}
	}
	return &treatment, nil
}
