package Controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"DentalClinic/Ledger"
)

// ledgerError translates core error kinds into HTTP responses. Validation
// problems and user-correctable conflicts go back verbatim; persistence
// failures are logged and surfaced as a generic retryable message.
func ledgerError(ctx *fiber.Ctx, err error) error {
	var validation *Ledger.ValidationError
	switch {
	case errors.As(err, &validation):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Error()})
	case errors.Is(err, Ledger.ErrPatientNotFound),
		errors.Is(err, Ledger.ErrTreatmentNotFound),
		errors.Is(err, Ledger.ErrPaymentNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, Ledger.ErrTreatmentClosed),
		errors.Is(err, Ledger.ErrInvalidEdit),
		errors.Is(err, Ledger.ErrInvalidTransition):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Println("ledger operation failed:", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Operation failed. Please try again."})
	}
}
