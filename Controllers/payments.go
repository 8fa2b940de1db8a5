package Controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"DentalClinic/Ledger"
)

// PaymentController handles payment-related API endpoints
type PaymentController struct {
	DB *gorm.DB
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

type PaymentRequest struct {
	TreatmentID          string  `json:"treatment_id"`
	Amount               float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod        string  `json:"payment_method" validate:"required,oneof=CASH CARD UPI BANK_TRANSFER"`
	TransactionReference string  `json:"transaction_reference"`
	Notes                string  `json:"notes"`
	Date                 string  `json:"date"`
}

func parsePaymentDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

// RecordPayment records a payment against the treatment in the path.
// Overpayment is confirmed by the caller beforehand; the ledger accepts
// it and derives the status as PAID.
func (c *PaymentController) RecordPayment(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	var input PaymentRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	date, err := parsePaymentDate(input.Date)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	treatment, err := Ledger.RecordPayment(c.DB, code, Ledger.PaymentInput{
		Amount:               input.Amount,
		PaymentMethod:        input.PaymentMethod,
		TransactionReference: input.TransactionReference,
		Notes:                input.Notes,
		Date:                 date,
	})
	if err != nil {
		return ledgerError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(treatment)
}

// UpdatePayment edits a payment in place and shifts the treatment's paid
// total by the difference.
func (c *PaymentController) UpdatePayment(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	var input PaymentRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	date, err := parsePaymentDate(input.Date)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	payment, err := Ledger.EditPayment(c.DB, uint(id), Ledger.EditPaymentInput{
		TreatmentID:          input.TreatmentID,
		Amount:               input.Amount,
		PaymentMethod:        input.PaymentMethod,
		TransactionReference: input.TransactionReference,
		Notes:                input.Notes,
		Date:                 date,
	})
	if err != nil {
		return ledgerError(ctx, err)
	}

	return ctx.JSON(payment)
}

// DeletePayment soft deletes a payment and returns the re-read treatment
// so the caller can refresh its totals.
func (c *PaymentController) DeletePayment(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	treatment, err := Ledger.DeletePayment(c.DB, uint(id))
	if err != nil {
		return ledgerError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message":   "Payment deleted successfully",
		"treatment": treatment,
	})
}
