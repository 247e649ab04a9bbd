package domain

import "time"

// GeocodeCache caches address lookups so repeated property registrations at
// the same address skip the geocoder.
type GeocodeCache struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Address   string    `gorm:"size:500;not null;uniqueIndex" json:"address"`
	Lat       float64   `gorm:"type:decimal(9,6);not null" json:"lat"`
	Lng       float64   `gorm:"type:decimal(9,6);not null" json:"lng"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (GeocodeCache) TableName() string {
	return "geocode_cache"
}
