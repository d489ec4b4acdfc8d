package db

import (
	"os"
	"strconv"

	"gorm.io/gorm"
)

// GetDB resolves connection settings from the environment and connects.
func GetDB() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	port, err := strconv.ParseUint(os.Getenv("DB_PORT"), 10, 32)
	if err != nil {
		port = 5432 // default PostgreSQL port
	}

	name := os.Getenv("DB_NAME")
	secretID := os.Getenv("DB_SECRET_ID")
	return Connect(uint(port), host, name, secretID)
}
