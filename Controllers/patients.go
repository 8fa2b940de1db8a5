package Controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"DentalClinic/Ledger"
	"DentalClinic/Models"
)

// PatientController handles patient-related API endpoints
type PatientController struct {
	DB *gorm.DB
}

// NewPatientController creates a new PatientController
func NewPatientController(db *gorm.DB) *PatientController {
	return &PatientController{DB: db}
}

type PatientInput struct {
	Name   string `json:"name" validate:"required"`
	Age    int    `json:"age" validate:"gte=0,lte=150"`
	Mobile string `json:"mobile"`
	Gender string `json:"gender"`
}

// GetPatients retrieves all non-deleted patients
func (c *PatientController) GetPatients(ctx *fiber.Ctx) error {
	var patients []Models.Patient
	result := c.DB.Where("is_deleted = ?", false).Order("name").Find(&patients)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve patients"})
	}

	return ctx.JSON(patients)
}

// GetPatient retrieves a single patient by ID
func (c *PatientController) GetPatient(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient ID"})
	}

	var patient Models.Patient
	result := c.DB.Where("id = ? AND is_deleted = ?", id, false).First(&patient)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	return ctx.JSON(patient)
}

// CreatePatient creates a new patient
func (c *PatientController) CreatePatient(ctx *fiber.Ctx) error {
	var input PatientInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	patient := Models.Patient{
		Name:   strings.TrimSpace(input.Name),
		Age:    input.Age,
		Mobile: input.Mobile,
		Gender: input.Gender,
	}

	result := c.DB.Create(&patient)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE") ||
			strings.Contains(result.Error.Error(), "unique constraint") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A patient with this name already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create patient"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(patient)
}

// UpdatePatient updates an existing patient
func (c *PatientController) UpdatePatient(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient ID"})
	}

	var patient Models.Patient
	result := c.DB.Where("id = ? AND is_deleted = ?", id, false).First(&patient)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	var input PatientInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	if err := c.DB.Model(&patient).Updates(map[string]interface{}{
		"name":   strings.TrimSpace(input.Name),
		"age":    input.Age,
		"mobile": input.Mobile,
		"gender": input.Gender,
	}).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update patient"})
	}

	return ctx.JSON(patient)
}

// DeletePatient soft deletes a patient; treatments and payments stay in
// history.
func (c *PatientController) DeletePatient(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient ID"})
	}

	var patient Models.Patient
	result := c.DB.Where("id = ? AND is_deleted = ?", id, false).First(&patient)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
	}

	if err := c.DB.Model(&patient).Update("is_deleted", true).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete patient"})
	}

	return ctx.JSON(fiber.Map{"message": "Patient deleted successfully"})
}

// GetPatientTreatments lists the patient's treatments, active first then
// newest first.
func (c *PatientController) GetPatientTreatments(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient ID"})
	}

	treatments, err := Ledger.TreatmentsForPatient(c.DB, uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve treatments"})
	}

	return ctx.JSON(treatments)
}

// GetPatientBalance returns the patient's total outstanding amount.
func (c *PatientController) GetPatientBalance(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient ID"})
	}

	balance, err := Ledger.PatientBalance(c.DB, uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to calculate balance"})
	}

	return ctx.JSON(fiber.Map{
		"patient_id": id,
		"balance":    balance,
	})
}
