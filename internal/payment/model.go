package payment

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses.
const (
	StatusPending  = "Pending"
	StatusReceived = "Received"
	StatusOverdue  = "Overdue"
)

// Payment is one installment of a deal's gross commission.
type Payment struct {
	gorm.Model
	DealID        uint       `json:"dealId" gorm:"not null;index"`
	PaymentNumber int        `json:"paymentNumber" gorm:"not null"`
	Amount        float64    `json:"amount" gorm:"not null"`
	EstimatedDate time.Time  `json:"estimatedDate" gorm:"index"`
	ReceivedDate  *time.Time `json:"receivedDate"`
	Status        string     `json:"status" gorm:"size:20;not null;default:'Pending';index"`

	// QuickBooks linkage
	QBInvoiceID     string     `json:"qbInvoiceId" gorm:"size:50"`
	InvoiceSentDate *time.Time `json:"invoiceSentDate"`

	Splits []Split `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"splits"`
}

// Split is one broker's share of one payment.
type Split struct {
	gorm.Model
	PaymentID uint    `json:"paymentId" gorm:"not null;index"`
	BrokerID  uint    `json:"brokerId" gorm:"not null;index"`
	Amount    float64 `json:"amount" gorm:"not null"`
}

// TableName keeps the table distinct from commission splits.
func (Split) TableName() string { return "payment_splits" }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Payment{}, &Split{})
}
