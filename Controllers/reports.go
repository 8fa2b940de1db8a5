package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"DentalClinic/Ledger"
	"DentalClinic/Models"
)

// ReportController handles the read-only report endpoints
type ReportController struct {
	DB *gorm.DB
}

// NewReportController creates a new ReportController
func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// PatientTreatments returns the cross-patient account listing: every
// live patient with their latest treatment, status, and display date.
func (c *ReportController) PatientTreatments(ctx *fiber.Ctx) error {
	rows, err := Ledger.PatientTreatmentReport(c.DB)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}
	return ctx.JSON(rows)
}

// Payments returns the filtered payments report with total, cash, and
// non-cash sums. Query parameters: from, to (YYYY-MM-DD), method,
// treatment (description substring).
func (c *ReportController) Payments(ctx *fiber.Ctx) error {
	var filter Ledger.PaymentReportFilter

	if from := ctx.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from date. Use YYYY-MM-DD"})
		}
		filter.From = parsed
	}
	if to := ctx.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to date. Use YYYY-MM-DD"})
		}
		// Include the whole end day
		filter.To = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if method := ctx.Query("method"); method != "" && method != "All" {
		if !Models.IsValidPaymentMethod(method) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown payment method"})
		}
		filter.PaymentMethod = method
	}
	filter.TreatmentSearch = ctx.Query("treatment")

	summary, err := Ledger.PaymentsReport(c.DB, filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}
	return ctx.JSON(summary)
}
