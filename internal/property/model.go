package property

import (
	"gorm.io/gorm"
)

// Property is a real-estate asset. Latitude/Longitude drive the map browser.
type Property struct {
	gorm.Model
	Name          string  `json:"name" gorm:"not null"`
	Street        string  `json:"street"`
	City          string  `json:"city" gorm:"index"`
	State         string  `json:"state" gorm:"size:2"`
	Zip           string  `json:"zip" gorm:"size:10"`
	Latitude      float64 `json:"latitude" gorm:"index"`
	Longitude     float64 `json:"longitude" gorm:"index"`
	PropertyType  string  `json:"propertyType" gorm:"size:50"` // retail, office, industrial, land
	BuildingSqft  float64 `json:"buildingSqft"`
	AvailableSqft float64 `json:"availableSqft"`
	RentPSF       float64 `json:"rentPsf"` // asking rent per square foot per year
	Description   string  `json:"description"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Property{})
}
