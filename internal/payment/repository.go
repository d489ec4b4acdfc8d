package payment

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) CreateInBatch(payments []*Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.DB.Create(payments).Error
}

func (r *Repository) FindByID(id uint) (*Payment, error) {
	var p Payment
	if err := r.DB.Preload("Splits").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindByDeal(dealID uint) ([]Payment, error) {
	var payments []Payment
	err := r.DB.Preload("Splits").
		Where("deal_id = ?", dealID).
		Order("payment_number").
		Find(&payments).Error
	return payments, err
}

// DeletePendingByDeal removes not-yet-received payments of a deal so they
// can be regenerated. Received payments are history and stay.
func (r *Repository) DeletePendingByDeal(tx *gorm.DB, dealID uint) error {
	var ids []uint
	if err := tx.Model(&Payment{}).
		Where("deal_id = ? AND status <> ?", dealID, StatusReceived).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("payment_id IN ?", ids).Delete(&Split{}).Error; err != nil {
		return err
	}
	return tx.Delete(&Payment{}, ids).Error
}

func (r *Repository) Update(p *Payment) error {
	return r.DB.Save(p).Error
}

// BrokerSplits returns a broker's payment splits joined with the payment
// status, optionally filtered to received / outstanding.
func (r *Repository) BrokerSplits(brokerID uint, statuses []string) ([]Split, error) {
	var splits []Split
	q := r.DB.
		Joins("JOIN payments ON payments.id = payment_splits.payment_id").
		Where("payment_splits.broker_id = ?", brokerID)
	if len(statuses) > 0 {
		q = q.Where("payments.status IN ?", statuses)
	}
	err := q.Find(&splits).Error
	return splits, err
}

// BrokerPayments lists payments that carry a split for the broker.
func (r *Repository) BrokerPayments(brokerID uint) ([]Payment, error) {
	var payments []Payment
	err := r.DB.Preload("Splits").
		Joins("JOIN payment_splits ON payment_splits.payment_id = payments.id").
		Where("payment_splits.broker_id = ?", brokerID).
		Group("payments.id").
		Order("payments.estimated_date").
		Find(&payments).Error
	return payments, err
}

// OpenDealCount counts a broker's deals still working the pipeline. Queried
// by table name so this package stays below the deal package.
func (r *Repository) OpenDealCount(brokerID uint) (int64, error) {
	var n int64
	err := r.DB.Table("deals").
		Where("broker_id = ? AND stage NOT IN ? AND deleted_at IS NULL",
			brokerID, []string{"ClosedPaid", "Lost"}).
		Count(&n).Error
	return n, err
}

// MarkOverdue flips pending payments whose estimated date has passed.
// Returns the number of rows changed.
func (r *Repository) MarkOverdue(now time.Time) (int64, error) {
	res := r.DB.Model(&Payment{}).
		Where("status = ? AND estimated_date < ?", StatusPending, now).
		Update("status", StatusOverdue)
	return res.RowsAffected, res.Error
}
