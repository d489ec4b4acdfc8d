package contact

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

func (r *Repository) Create(c *Contact) error {
	return r.DB.Create(c).Error
}

func (r *Repository) FindByID(id uint) (*Contact, error) {
	var c Contact
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListAll() ([]Contact, error) {
	var contacts []Contact
	err := r.DB.Order("last_name, first_name").Find(&contacts).Error
	return contacts, err
}

// Search matches first name, last name or email, case-insensitively.
func (r *Repository) Search(q string) ([]Contact, error) {
	var contacts []Contact
	pattern := "%" + q + "%"
	err := r.DB.
		Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern).
		Order("last_name, first_name").
		Limit(searchLimit).
		Find(&contacts).Error
	return contacts, err
}

func (r *Repository) Update(id uint, data *Contact) error {
	var existing Contact
	if err := r.DB.First(&existing, id).Error; err != nil {
		return err
	}

	existing.FirstName = data.FirstName
	existing.LastName = data.LastName
	existing.Email = data.Email
	existing.Phone = data.Phone
	existing.Mobile = data.Mobile
	existing.Title = data.Title
	existing.ClientID = data.ClientID
	existing.Notes = data.Notes

	return r.DB.Save(&existing).Error
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Delete(&Contact{}, id).Error
}
