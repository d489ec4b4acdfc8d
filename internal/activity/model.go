package activity

import (
	"time"

	"gorm.io/gorm"
)

// Activity types.
const (
	TypeNote  = "note"
	TypeCall  = "call"
	TypeTask  = "task"
	TypeEmail = "email"
)

// Task statuses.
const (
	StatusOpen = "Open"
	StatusDone = "Done"
)

// Activity is a timeline entry (note, call log, task, or sent email)
// anchored to any combination of deal, client, contact and property.
type Activity struct {
	gorm.Model
	Type    string `json:"type" gorm:"size:10;not null;index"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Status  string `json:"status" gorm:"size:10"` // tasks only

	DueDate *time.Time `json:"dueDate"`

	DealID     *uint `json:"dealId" gorm:"index"`
	ClientID   *uint `json:"clientId" gorm:"index"`
	ContactID  *uint `json:"contactId" gorm:"index"`
	PropertyID *uint `json:"propertyId" gorm:"index"`
	BrokerID   uint  `json:"brokerId" gorm:"not null;index"` // author

	// set for type=email, correlates with the provider send
	EmailMessageID string `json:"emailMessageId" gorm:"size:40"`
}

var validTypes = map[string]bool{
	TypeNote:  true,
	TypeCall:  true,
	TypeTask:  true,
	TypeEmail: true,
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Activity{})
}
