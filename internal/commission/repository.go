package commission

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(s *Split) error {
	return r.DB.Create(s).Error
}

func (r *Repository) FindByID(id uint) (*Split, error) {
	var s Split
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) FindByDeal(dealID uint) ([]Split, error) {
	var splits []Split
	err := r.DB.Where("deal_id = ?", dealID).Order("id").Find(&splits).Error
	return splits, err
}

func (r *Repository) Update(s *Split) error {
	return r.DB.Save(s).Error
}

func (r *Repository) Delete(s *Split) error {
	return r.DB.Delete(s).Error
}
