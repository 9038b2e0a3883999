package main

import (
	"log"
	"os"

	"kelly-ai-client/internal/model"
	"kelly-ai-client/pkg/database"

	"github.com/joho/godotenv"
)

// Creates the table behind STORE_DRIVER=postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for secure_items...")
	if err := db.AutoMigrate(&model.SecureItem{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed.")
}
