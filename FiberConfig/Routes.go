package FiberConfig

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"DentalClinic/Controllers"
	"DentalClinic/Models"
	"DentalClinic/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	patientController := Controllers.NewPatientController(db)
	treatmentController := Controllers.NewTreatmentController(db)
	paymentController := Controllers.NewPaymentController(db)
	reportController := Controllers.NewReportController(db)

	app.Post("/api/Login", Controllers.Login)
	app.Get("/api/Logout", Controllers.Logout)
	app.Get("/api/User", middleware.Verify(1), Controllers.User)
	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)

	api := app.Group("/api")

	// Patient routes
	patients := api.Group("/patients", middleware.Verify(1))
	patients.Get("/", patientController.GetPatients)
	patients.Post("/", patientController.CreatePatient)
	patients.Get("/:id", patientController.GetPatient)
	patients.Put("/:id", patientController.UpdatePatient)
	patients.Delete("/:id", middleware.Verify(3), patientController.DeletePatient)
	patients.Get("/:id/treatments", patientController.GetPatientTreatments)
	patients.Get("/:id/balance", patientController.GetPatientBalance)
	patients.Post("/:id/treatments", treatmentController.CreateTreatment)

	// Treatment routes, keyed by the public treatment code
	treatments := api.Group("/treatments", middleware.Verify(1))
	treatments.Get("/:code", treatmentController.GetTreatment)
	treatments.Post("/:code/payments", paymentController.RecordPayment)
	treatments.Post("/:code/cost", treatmentController.ReviseCost)
	treatments.Post("/:code/complete", treatmentController.MarkCompleted)
	treatments.Post("/:code/reopen", treatmentController.Reopen)

	// Direct payment routes
	payments := api.Group("/payments", middleware.Verify(1))
	payments.Put("/:id", paymentController.UpdatePayment)
	payments.Delete("/:id", paymentController.DeletePayment)

	// Report routes
	reports := api.Group("/reports", middleware.Verify(1))
	reports.Get("/patients", reportController.PatientTreatments)
	reports.Get("/payments", reportController.Payments)
}

func FiberConfig() {
	log.Println("Server Up...")
	app := fiber.New()

	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)

	addr := os.Getenv("CLINIC_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Fatal(app.Listen(addr))
}
