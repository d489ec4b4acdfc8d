package broker

import (
	"gorm.io/gorm"
)

type Repository interface {
	FindByEmail(db *gorm.DB, email string) (*Broker, error)
	Save(db *gorm.DB, b *Broker) error
	FindByID(db *gorm.DB, id uint) (*Broker, error)
	ListAll(db *gorm.DB) ([]Broker, error)
	Update(db *gorm.DB, id uint, data *Broker) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*Broker, error) {
	var b Broker
	if err := db.Where("email = ?", email).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) Save(db *gorm.DB, b *Broker) error {
	return db.Save(b).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Broker, error) {
	var b Broker
	err := db.First(&b, id).Error
	return &b, err
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Broker, error) {
	var brokers []Broker
	err := db.Order("last_name, first_name").Find(&brokers).Error
	return brokers, err
}

func (r *repositoryImpl) Update(db *gorm.DB, id uint, data *Broker) error {
	var existing Broker
	if err := db.First(&existing, id).Error; err != nil {
		return err
	}

	existing.FirstName = data.FirstName
	existing.LastName = data.LastName
	existing.Email = data.Email
	existing.Phone = data.Phone
	existing.Photo = data.Photo

	return db.Save(&existing).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Broker{}, id).Error
}
