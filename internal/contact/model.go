package contact

import (
	"gorm.io/gorm"
)

// Contact is a person, optionally affiliated with a client company.
type Contact struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"index"`
	Phone     string `json:"phone"`
	Mobile    string `json:"mobile"`
	Title     string `json:"title"`
	ClientID  *uint  `json:"clientId" gorm:"index"`
	Notes     string `json:"notes"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Contact{})
}
