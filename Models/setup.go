package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	path := os.Getenv("CLINIC_DB_PATH")
	if path == "" {
		path = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	DB = connection

	// 1. Base tables with no dependencies
	DB.AutoMigrate(
		&User{},
		&Patient{},
	)

	// 2. Ledger tables; Payment and TreatmentCost reference
	// Treatment.treatment_id (the public code, not the row id)
	DB.AutoMigrate(
		&Treatment{},
		&Payment{},
		&TreatmentCost{},
	)
}
