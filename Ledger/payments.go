package Ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"DentalClinic/Models"
)

// PaymentInput carries the values for a new payment against a treatment.
type PaymentInput struct {
	Amount               float64
	PaymentMethod        string
	TransactionReference string
	Notes                string
	Date                 time.Time
}

// EditPaymentInput carries replacement values for an existing payment.
// TreatmentID, when set, must match the payment's own treatment.
type EditPaymentInput struct {
	TreatmentID          string
	Amount               float64
	PaymentMethod        string
	TransactionReference string
	Notes                string
	Date                 time.Time
}

// RecordPayment adds a payment to an active treatment. The paid total is
// shifted additively so two concurrent payments both apply, the payment
// row is inserted, and the latest cost revision's status is recomputed,
// all in one atomic unit. Overpayment is not rejected; it just derives as
// PAID.
func RecordPayment(db *gorm.DB, treatmentCode string, input PaymentInput) (*Models.Treatment, error) {
	if input.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if !Models.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, &ValidationError{Field: "payment_method", Message: "unknown payment method"}
	}

	treatment, err := findTreatment(db, treatmentCode)
	if err != nil {
		return nil, err
	}
	if !treatment.IsActive {
		return nil, ErrTreatmentClosed
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := applyPaidDelta(tx, treatment.TreatmentID, input.Amount); err != nil {
			return err
		}

		payment := Models.Payment{
			TreatmentID:          treatment.TreatmentID,
			Amount:               input.Amount,
			PaymentDate:          date,
			PaymentMethod:        input.PaymentMethod,
			TransactionReference: input.TransactionReference,
			Notes:                input.Notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return refreshLatestCostStatus(tx, treatment.TreatmentID)
	})
	if err != nil {
		return nil, &PersistenceError{Op: "record payment", Err: err}
	}

	return findTreatment(db, treatmentCode)
}

// EditPayment updates a payment in place and shifts the treatment's paid
// total by the difference. Submitting values identical to the stored
// payment is a no-op.
func EditPayment(db *gorm.DB, paymentID uint, input EditPaymentInput) (*Models.Payment, error) {
	var payment Models.Payment
	err := db.Where("id = ? AND is_deleted = ?", paymentID, false).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, &PersistenceError{Op: "load payment", Err: err}
	}

	if input.TreatmentID != "" && input.TreatmentID != payment.TreatmentID {
		return nil, ErrInvalidEdit
	}
	if input.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if !Models.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, &ValidationError{Field: "payment_method", Message: "unknown payment method"}
	}

	sameDate := input.Date.IsZero() || input.Date.Equal(payment.PaymentDate)
	if input.Amount == payment.Amount &&
		input.PaymentMethod == payment.PaymentMethod &&
		input.TransactionReference == payment.TransactionReference &&
		input.Notes == payment.Notes &&
		sameDate {
		return &payment, nil
	}

	delta := input.Amount - payment.Amount

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"amount":                input.Amount,
			"payment_method":        input.PaymentMethod,
			"transaction_reference": input.TransactionReference,
			"notes":                 input.Notes,
		}
		if !input.Date.IsZero() {
			updates["payment_date"] = input.Date
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return err
		}
		if err := applyPaidDelta(tx, payment.TreatmentID, delta); err != nil {
			return err
		}
		return refreshLatestCostStatus(tx, payment.TreatmentID)
	})
	if err != nil {
		return nil, &PersistenceError{Op: "edit payment", Err: err}
	}

	return &payment, nil
}

// DeletePayment soft-deletes a payment and backs its amount out of the
// treatment's paid total. The row stays in history with is_deleted set.
// Callers should re-fetch the treatment afterwards rather than trust any
// locally cached totals.
func DeletePayment(db *gorm.DB, paymentID uint) (*Models.Treatment, error) {
	var payment Models.Payment
	err := db.Where("id = ? AND is_deleted = ?", paymentID, false).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, &PersistenceError{Op: "load payment", Err: err}
	}

	treatment, err := findTreatment(db, payment.TreatmentID)
	if err != nil {
		return nil, err
	}
	if !treatment.IsActive {
		return nil, ErrTreatmentClosed
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&payment).Update("is_deleted", true).Error; err != nil {
			return err
		}
		if err := applyPaidDelta(tx, payment.TreatmentID, -payment.Amount); err != nil {
			return err
		}
		return refreshLatestCostStatus(tx, payment.TreatmentID)
	})
	if err != nil {
		return nil, &PersistenceError{Op: "delete payment", Err: err}
	}

	return findTreatment(db, payment.TreatmentID)
}

// applyPaidDelta shifts amount_paid additively, clamped at zero from
// below, and re-derives amount_pending in the same statement so the two
// columns can never drift apart.
func applyPaidDelta(tx *gorm.DB, treatmentCode string, delta float64) error {
	return tx.Model(&Models.Treatment{}).Where("treatment_id = ?", treatmentCode).
		Updates(map[string]interface{}{
			"amount_paid":    gorm.Expr("MAX(0, amount_paid + ?)", delta),
			"amount_pending": gorm.Expr("MAX(0, total_amount - MAX(0, amount_paid + ?))", delta),
		}).Error
}

// refreshLatestCostStatus recomputes the status stored on the most recent
// cost revision from the treatment's current totals. Older revisions keep
// the status they had when they were written; history is not rewritten.
func refreshLatestCostStatus(tx *gorm.DB, treatmentCode string) error {
	var treatment Models.Treatment
	if err := tx.Where("treatment_id = ?", treatmentCode).First(&treatment).Error; err != nil {
		return err
	}

	var latest Models.TreatmentCost
	if err := tx.Where("treatment_id = ? AND is_deleted = ?", treatmentCode, false).
		Order("effective_from DESC").First(&latest).Error; err != nil {
		return err
	}

	return tx.Model(&latest).
		Update("status", Models.DeriveStatus(treatment.TotalAmount, treatment.AmountPaid)).Error
}
