package commission

import (
	"gorm.io/gorm"
)

// Split roles are informational labels for how a broker earned the share.
const (
	RoleOrigination = "origination"
	RoleSite        = "site"
	RoleDeal        = "deal"
)

// Split allocates a fraction of a deal's AGCI to one broker.
type Split struct {
	gorm.Model
	DealID       uint    `json:"dealId" gorm:"not null;index"`
	BrokerID     uint    `json:"brokerId" gorm:"not null;index"`
	SplitPercent float64 `json:"splitPercent" gorm:"not null"` // fraction of AGCI, 0-1
	Role         string  `json:"role" gorm:"size:20"`
}

// TableName keeps the table distinct from payment splits.
func (Split) TableName() string { return "commission_splits" }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Split{})
}
