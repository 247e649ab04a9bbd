package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is a subject property registered for evaluation.
type Property struct {
	PropertyID   uuid.UUID    `gorm:"column:property_id;type:uuid;primaryKey" json:"property_id"`
	Street       string       `gorm:"column:street;not null" json:"street"`
	City         string       `gorm:"column:city;not null" json:"city"`
	State        string       `gorm:"column:state;not null" json:"state"`
	Zip          string       `gorm:"column:zip;not null;index" json:"zip"`
	PropertyType PropertyType `gorm:"column:property_type;type:varchar(20);not null" json:"property_type"`
	Beds         *int         `gorm:"column:beds" json:"beds"`
	Baths        *float64     `gorm:"column:baths" json:"baths"`
	Sqft         *int         `gorm:"column:sqft" json:"sqft"`
	Latitude     *float64     `gorm:"column:latitude;type:decimal(9,6)" json:"latitude"`
	Longitude    *float64     `gorm:"column:longitude;type:decimal(9,6)" json:"longitude"`
	Notes        string       `gorm:"column:notes" json:"notes"`
	CreatedAt    time.Time    `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Property) TableName() string {
	return "Properties"
}

// BeforeCreate sets property_id if not already set (DBs without default uuid).
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyID == uuid.Nil {
		p.PropertyID = uuid.New()
	}
	return nil
}

// Address returns the full street address used for self-exclusion when
// matching comparables.
func (p *Property) Address() string {
	return p.Street
}
