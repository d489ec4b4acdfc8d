package activity

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(a *Activity) error {
	return r.DB.Create(a).Error
}

func (r *Repository) FindByID(id uint) (*Activity, error) {
	var a Activity
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ListAll() ([]Activity, error) {
	var activities []Activity
	err := r.DB.Order("created_at DESC").Limit(200).Find(&activities).Error
	return activities, err
}

func (r *Repository) ListByDeal(dealID uint) ([]Activity, error) {
	var activities []Activity
	err := r.DB.Where("deal_id = ?", dealID).Order("created_at DESC").Find(&activities).Error
	return activities, err
}

func (r *Repository) ListByContact(contactID uint) ([]Activity, error) {
	var activities []Activity
	err := r.DB.Where("contact_id = ?", contactID).Order("created_at DESC").Find(&activities).Error
	return activities, err
}

func (r *Repository) Update(a *Activity) error {
	return r.DB.Save(a).Error
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Delete(&Activity{}, id).Error
}
