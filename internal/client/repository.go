package client

import (
	"gorm.io/gorm"
)

// searchLimit bounds search-as-you-type results.
const searchLimit = 10

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(c *Client) error {
	return r.DB.Create(c).Error
}

func (r *Repository) FindByID(id uint) (*Client, error) {
	var c Client
	err := r.DB.Preload("Contacts").
		Preload("Deals").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListAll() ([]Client, error) {
	var clients []Client
	err := r.DB.Order("name").Find(&clients).Error
	return clients, err
}

// Search does a case-insensitive prefix/substring match on the name.
func (r *Repository) Search(q string) ([]Client, error) {
	var clients []Client
	err := r.DB.Where("name ILIKE ?", "%"+q+"%").
		Order("name").
		Limit(searchLimit).
		Find(&clients).Error
	return clients, err
}

func (r *Repository) Update(id uint, data *Client) error {
	var existing Client
	if err := r.DB.First(&existing, id).Error; err != nil {
		return err
	}

	existing.Name = data.Name
	existing.Industry = data.Industry
	existing.Website = data.Website
	existing.Phone = data.Phone
	existing.Street = data.Street
	existing.City = data.City
	existing.State = data.State
	existing.Zip = data.Zip
	existing.Description = data.Description

	return r.DB.Save(&existing).Error
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Delete(&Client{}, id).Error
}
