package sitesubmit

import (
	"time"

	"gorm.io/gorm"
)

// Submit stages.
const (
	StageSubmitted   = "Submitted"
	StageShortlisted = "Shortlisted"
	StageToured      = "Toured"
	StageLOI         = "LOI"
	StageRejected    = "Rejected"
)

var validStages = map[string]bool{
	StageSubmitted:   true,
	StageShortlisted: true,
	StageToured:      true,
	StageLOI:         true,
	StageRejected:    true,
}

// SiteSubmit proposes a property to a client for tenant placement.
type SiteSubmit struct {
	gorm.Model
	Code        string    `json:"code" gorm:"size:40;uniqueIndex"` // opaque external reference
	ClientID    uint      `json:"clientId" gorm:"not null;index"`
	PropertyID  uint      `json:"propertyId" gorm:"not null;index"`
	DealID      *uint     `json:"dealId" gorm:"index"`
	Stage       string    `json:"stage" gorm:"size:20;not null;default:'Submitted'"`
	Notes       string    `json:"notes"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SiteSubmit{})
}
