package main

import (
	"os"

	"askq-be/internal/model"
	"askq-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		color.Yellow("Info: no .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		dsn = database.DefaultSQLiteDSN
		color.Yellow("DB_CONNECTION_STRING is not set, using %s", dsn)
	}

	// 2. Connect
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: failed to connect to database: %v", err)
		os.Exit(1)
	}

	// 3. AutoMigrate
	color.Cyan("Running AutoMigrate for %d tables...", len(model.All()))
	if err := database.Migrate(db); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	color.Green("Database migration completed.")
}
