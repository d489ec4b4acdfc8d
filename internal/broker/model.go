package broker

import (
	"gorm.io/gorm"
)

// Broker is an agent account and the authentication principal.
type Broker struct {
	gorm.Model
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email" gorm:"unique"`
	Phone             string `json:"phone"`
	Photo             string `json:"photo"`
	PasswordHash      string `json:"-"`
	MustResetPassword bool   `json:"-"`
	IsAdmin           bool   `json:"isAdmin"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Broker{})
}
