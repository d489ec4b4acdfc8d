package client

import (
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/contact"
	"github.com/harborcre/api-brokerage/internal/deal"
)

// Client is a company the brokerage works with (tenant, landlord, investor).
type Client struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state" gorm:"size:2"`
	Zip         string `json:"zip" gorm:"size:10"`
	Description string `json:"description"`

	Contacts []contact.Contact `gorm:"foreignKey:ClientID" json:"contacts"`
	Deals    []deal.Deal       `gorm:"foreignKey:ClientID" json:"deals"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Client{})
}
