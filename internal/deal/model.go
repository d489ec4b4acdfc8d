package deal

import (
	"time"

	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/commission"
	"github.com/harborcre/api-brokerage/internal/payment"
)

// Deal is a brokerage transaction moving through the kanban pipeline.
type Deal struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	ClientID   uint   `json:"clientId" gorm:"not null;index"`
	ContactID  *uint  `json:"contactId"`
	PropertyID *uint  `json:"propertyId"`
	BrokerID   uint   `json:"brokerId" gorm:"not null;index"` // owning broker

	Stage          string `json:"stage" gorm:"size:30;not null;default:'Prospect';index"`
	KanbanPosition int    `json:"kanbanPosition" gorm:"not null;default:0"`

	// Fee structure. FlatFee overrides FeePercent when > 0.
	DealValue          float64 `json:"dealValue"`
	FeePercent         float64 `json:"feePercent"`
	FlatFee            float64 `json:"flatFee"`
	ReferralFeePercent float64 `json:"referralFeePercent"`
	ReferralPayeeID    *uint   `json:"referralPayeeId"` // client owed the referral fee
	HousePercent       float64 `json:"housePercent"`
	NumberOfPayments   int     `json:"numberOfPayments" gorm:"not null;default:1"`

	TargetCloseDate *time.Time `json:"targetCloseDate"`
	BookedDate      *time.Time `json:"bookedDate"`
	ClosedDate      *time.Time `json:"closedDate"`
	LossReason      string     `json:"lossReason"`

	CommissionSplits []commission.Split `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"commissionSplits"`
	Payments         []payment.Payment  `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"payments"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Deal{})
}

// CommissionInputs maps the deal's fee fields into the calculator.
func (d *Deal) CommissionInputs() commission.Inputs {
	return commission.Inputs{
		DealValue:          d.DealValue,
		FeePercent:         d.FeePercent,
		FlatFee:            d.FlatFee,
		ReferralFeePercent: d.ReferralFeePercent,
		HousePercent:       d.HousePercent,
	}
}
