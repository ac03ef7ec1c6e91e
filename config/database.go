package config

import (
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitReportingDB connects to the PostgreSQL reporting database used to run
// generated queries. Returns nil when REPORTING_DATABASE_URL is unset; query
// generation still works, only execution is disabled.
func InitReportingDB() *gorm.DB {
	dsn := os.Getenv("REPORTING_DATABASE_URL")
	if dsn == "" {
		log.Println("REPORTING_DATABASE_URL not set, query execution disabled")
		return nil
	}

	// In production, suppress SQL logs unless explicitly re-enabled.
	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))
	logLevel := logger.Info
	if environment == "production" && debugSQL != "true" {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	})
	if err != nil {
		log.Printf("Warning: failed to connect to reporting database: %v", err)
		return nil
	}

	log.Println("Reporting database connected successfully")
	return db
}
