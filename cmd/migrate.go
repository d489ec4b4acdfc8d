package main

import (
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/activity"
	"github.com/harborcre/api-brokerage/internal/broker"
	"github.com/harborcre/api-brokerage/internal/client"
	"github.com/harborcre/api-brokerage/internal/commission"
	"github.com/harborcre/api-brokerage/internal/contact"
	"github.com/harborcre/api-brokerage/internal/deal"
	"github.com/harborcre/api-brokerage/internal/payment"
	"github.com/harborcre/api-brokerage/internal/property"
	"github.com/harborcre/api-brokerage/internal/quickbooks"
	"github.com/harborcre/api-brokerage/internal/sitesubmit"
)

// migrateAll runs every package's AutoMigrate in FK dependency order.
func migrateAll(db *gorm.DB) error {
	steps := []func(*gorm.DB) error{
		broker.Migrate,
		contact.Migrate,
		commission.Migrate,
		payment.Migrate,
		deal.Migrate,
		client.Migrate,
		property.Migrate,
		sitesubmit.Migrate,
		activity.Migrate,
		quickbooks.Migrate,
	}
	for _, step := range steps {
		if err := step(db); err != nil {
			return err
		}
	}
	return nil
}
