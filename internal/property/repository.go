package property

import (
	"gorm.io/gorm"
)

const searchLimit = 10

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(p *Property) error {
	return r.DB.Create(p).Error
}

func (r *Repository) FindByID(id uint) (*Property, error) {
	var p Property
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListAll() ([]Property, error) {
	var properties []Property
	err := r.DB.Order("name").Find(&properties).Error
	return properties, err
}

// Search matches name, street or city, case-insensitively.
func (r *Repository) Search(q string) ([]Property, error) {
	var properties []Property
	pattern := "%" + q + "%"
	err := r.DB.
		Where("name ILIKE ? OR street ILIKE ? OR city ILIKE ?", pattern, pattern, pattern).
		Order("name").
		Limit(searchLimit).
		Find(&properties).Error
	return properties, err
}

// FindInBounds returns properties whose coordinates fall inside the box.
func (r *Repository) FindInBounds(minLat, maxLat, minLng, maxLng float64) ([]Property, error) {
	var properties []Property
	err := r.DB.
		Where("latitude >= ? AND latitude < ? AND longitude >= ? AND longitude < ?",
			minLat, maxLat, minLng, maxLng).
		Find(&properties).Error
	return properties, err
}

func (r *Repository) Update(id uint, data *Property) error {
	var existing Property
	if err := r.DB.First(&existing, id).Error; err != nil {
		return err
	}

	existing.Name = data.Name
	existing.Street = data.Street
	existing.City = data.City
	existing.State = data.State
	existing.Zip = data.Zip
	existing.Latitude = data.Latitude
	existing.Longitude = data.Longitude
	existing.PropertyType = data.PropertyType
	existing.BuildingSqft = data.BuildingSqft
	existing.AvailableSqft = data.AvailableSqft
	existing.RentPSF = data.RentPSF
	existing.Description = data.Description

	return r.DB.Save(&existing).Error
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Delete(&Property{}, id).Error
}
