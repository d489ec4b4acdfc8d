package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a GORM connection against Postgres. Credentials come from
// the environment or, when DB_SECRET_ID is set, from AWS Secrets Manager.
func Connect(port uint, host, dbname, secretID string) (*gorm.DB, error) {
	var sslMode string
	if os.Getenv("DB_SSL_MODE_DISABLE") == "true" {
		sslMode = " sslmode=disable"
	}
	username, password, err := retrieveCredentials(secretID)
	if err != nil {
		return nil, fmt.Errorf("db credentials: %w", err)
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s", host, username, password, dbname, port, sslMode)
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	return database, nil
}
