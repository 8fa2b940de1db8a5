package Controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"DentalClinic/Ledger"
)

// TreatmentController handles treatment-related API endpoints
type TreatmentController struct {
	DB *gorm.DB
}

// NewTreatmentController creates a new TreatmentController
func NewTreatmentController(db *gorm.DB) *TreatmentController {
	return &TreatmentController{DB: db}
}

type CreateTreatmentInput struct {
	Description    string  `json:"description" validate:"required"`
	TotalAmount    float64 `json:"total_amount" validate:"required,gt=0"`
	InitialPayment float64 `json:"initial_payment" validate:"gte=0"`
	PaymentMethod  string  `json:"payment_method" validate:"omitempty,oneof=CASH CARD UPI BANK_TRANSFER"`
	Notes          string  `json:"notes"`
	Date           string  `json:"date"`
}

type ReviseCostInput struct {
	Cost  float64 `json:"cost" validate:"required,gt=0"`
	Notes string  `json:"notes"`
}

// CreateTreatment opens a new treatment ledger for the patient in the
// path.
func (c *TreatmentController) CreateTreatment(ctx *fiber.Ctx) error {
	patientID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient ID"})
	}

	var input CreateTreatmentInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	var date time.Time
	if input.Date != "" {
		date, err = time.Parse("2006-01-02", input.Date)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
		}
	}

	treatment, err := Ledger.CreateTreatment(c.DB, Ledger.CreateTreatmentInput{
		PatientID:      uint(patientID),
		Description:    input.Description,
		TotalAmount:    input.TotalAmount,
		InitialPayment: input.InitialPayment,
		PaymentMethod:  input.PaymentMethod,
		Notes:          input.Notes,
		Date:           date,
	})
	if err != nil {
		return ledgerError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(treatment)
}

// GetTreatment returns a treatment with its payment and cost history.
func (c *TreatmentController) GetTreatment(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	treatment, err := Ledger.FindTreatment(c.DB, code)
	if err != nil {
		return ledgerError(ctx, err)
	}

	payments, err := Ledger.PaymentsForTreatment(c.DB, code)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve payments"})
	}

	costs, err := Ledger.CostHistoryForTreatment(c.DB, code)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve cost history"})
	}

	return ctx.JSON(fiber.Map{
		"treatment":    treatment,
		"payments":     payments,
		"cost_history": costs,
	})
}

// ReviseCost appends a new cost revision to the treatment.
func (c *TreatmentController) ReviseCost(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	var input ReviseCostInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	treatment, err := Ledger.ReviseCost(c.DB, code, input.Cost, input.Notes)
	if err != nil {
		return ledgerError(ctx, err)
	}

	return ctx.JSON(treatment)
}

// MarkCompleted closes the treatment for further edits.
func (c *TreatmentController) MarkCompleted(ctx *fiber.Ctx) error {
	treatment, err := Ledger.MarkCompleted(c.DB, ctx.Params("code"))
	if err != nil {
		return ledgerError(ctx, err)
	}
	return ctx.JSON(treatment)
}

// Reopen makes a completed treatment editable again.
func (c *TreatmentController) Reopen(ctx *fiber.Ctx) error {
	treatment, err := Ledger.Reopen(c.DB, ctx.Params("code"))
	if err != nil {
		return ledgerError(ctx, err)
	}
	return ctx.JSON(treatment)
}
