package Models

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// Payment status values stored on the latest cost revision.
const (
	StatusPending       = "PENDING"
	StatusPartiallyPaid = "PARTIALLY_PAID"
	StatusPaid          = "PAID"
)

// Accepted payment methods.
const (
	MethodCash         = "CASH"
	MethodCard         = "CARD"
	MethodUPI          = "UPI"
	MethodBankTransfer = "BANK_TRANSFER"
)

// StatusEpsilon absorbs float rounding when comparing paid against total.
const StatusEpsilon = 0.005

type Treatment struct {
	gorm.Model
	TreatmentID   string  `json:"treatment_id" gorm:"not null;uniqueIndex"`
	PatientID     uint    `json:"patient_id" gorm:"not null;index"`
	Description   string  `json:"description"`
	TotalAmount   float64 `json:"total_amount"`
	AmountPaid    float64 `json:"amount_paid"`
	AmountPending float64 `json:"amount_pending"`
	Notes         string  `json:"notes"`
	IsActive      bool    `json:"is_active" gorm:"default:true"`
	IsDeleted     bool    `json:"is_deleted" gorm:"default:false"`
}

// Payment rows key off the treatment's public code so they stay stable
// across database rebuilds.
type Payment struct {
	gorm.Model
	TreatmentID          string    `json:"treatment_id" gorm:"not null;index"`
	Amount               float64   `json:"amount"`
	PaymentDate          time.Time `json:"payment_date"`
	PaymentMethod        string    `json:"payment_method"`
	TransactionReference string    `json:"transaction_reference"`
	Notes                string    `json:"notes"`
	IsDeleted            bool      `json:"is_deleted" gorm:"default:false"`
}

// TreatmentCost is an append-only audit entry: the treatment's cost at a
// point in time and the payment status as of that time. Only the most
// recent revision's status is kept current.
type TreatmentCost struct {
	gorm.Model
	TreatmentID   string    `json:"treatment_id" gorm:"not null;index"`
	Cost          float64   `json:"cost"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	EffectiveFrom time.Time `json:"effective_from"`
	IsDeleted     bool      `json:"is_deleted" gorm:"default:false"`
}

// DeriveStatus maps the current totals to a payment status. Slight
// overpayment counts as PAID, not a separate state.
func DeriveStatus(total, paid float64) string {
	if math.Abs(total-paid) <= StatusEpsilon || paid > total {
		return StatusPaid
	}
	if paid > 0 {
		return StatusPartiallyPaid
	}
	return StatusPending
}

// PendingAmount is the only legitimate way to compute the outstanding
// balance; the stored column must always match it.
func PendingAmount(total, paid float64) float64 {
	return math.Max(0, total-paid)
}

func IsValidPaymentMethod(method string) bool {
	switch method {
	case MethodCash, MethodCard, MethodUPI, MethodBankTransfer:
		return true
	}
	return false
}

// GenerateTreatmentCode builds the public treatment code: a time-ordered
// prefix plus a 4-digit random suffix. Collisions are not checked here;
// the unique index on treatments.treatment_id rejects them inside the
// create transaction.
func GenerateTreatmentCode() string {
	return fmt.Sprintf("TRT%s-%04d", time.Now().Format("20060102150405"), rand.Intn(10000))
}
