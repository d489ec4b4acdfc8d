package sitesubmit

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(s *SiteSubmit) error {
	return r.DB.Create(s).Error
}

func (r *Repository) FindByID(id uint) (*SiteSubmit, error) {
	var s SiteSubmit
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) ListAll() ([]SiteSubmit, error) {
	var submits []SiteSubmit
	err := r.DB.Order("submitted_at DESC").Find(&submits).Error
	return submits, err
}

func (r *Repository) ListByClient(clientID uint) ([]SiteSubmit, error) {
	var submits []SiteSubmit
	err := r.DB.Where("client_id = ?", clientID).Order("submitted_at DESC").Find(&submits).Error
	return submits, err
}

func (r *Repository) ListByProperty(propertyID uint) ([]SiteSubmit, error) {
	var submits []SiteSubmit
	err := r.DB.Where("property_id = ?", propertyID).Order("submitted_at DESC").Find(&submits).Error
	return submits, err
}

func (r *Repository) Update(s *SiteSubmit) error {
	return r.DB.Save(s).Error
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Delete(&SiteSubmit{}, id).Error
}
