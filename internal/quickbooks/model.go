package quickbooks

import (
	"time"

	"gorm.io/gorm"
)

// Token holds the OAuth pair for one QuickBooks company (realm).
type Token struct {
	gorm.Model
	RealmID          string    `json:"realmId" gorm:"size:50;uniqueIndex"`
	AccessToken      string    `json:"-"`
	RefreshToken     string    `json:"-"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Token{})
}
