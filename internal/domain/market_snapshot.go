package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MarketSnapshot is one cached provider result set, keyed by
// (zip, home_type, keywords). At most one live row exists per key: a new
// fetch replaces the existing row, never duplicates it. Stale snapshots are
// superseded, not deleted.
type MarketSnapshot struct {
	SnapshotID uuid.UUID      `gorm:"column:snapshot_id;type:uuid;primaryKey" json:"snapshot_id"`
	Zip        string         `gorm:"column:zip;not null;uniqueIndex:idx_snapshot_key" json:"zip"`
	HomeType   PropertyType   `gorm:"column:home_type;type:varchar(20);not null;uniqueIndex:idx_snapshot_key" json:"home_type"`
	Keywords   string         `gorm:"column:keywords;not null;default:'';uniqueIndex:idx_snapshot_key" json:"keywords"`
	Payload    datatypes.JSON `gorm:"column:payload;not null" json:"payload"`
	FetchedAt  time.Time      `gorm:"column:fetched_at;not null" json:"fetched_at"`
	ExpiresAt  *time.Time     `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt  time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (MarketSnapshot) TableName() string {
	return "MarketSnapshots"
}

// BeforeCreate sets snapshot_id if not already set.
func (m *MarketSnapshot) BeforeCreate(tx *gorm.DB) error {
	if m.SnapshotID == uuid.Nil {
		m.SnapshotID = uuid.New()
	}
	return nil
}

// Fresh reports whether the snapshot is still usable at now. A nil expiry
// means the snapshot never expires.
func (m *MarketSnapshot) Fresh(now time.Time) bool {
	return m.ExpiresAt == nil || m.ExpiresAt.After(now)
}

// Listings decodes the stored payload.
func (m *MarketSnapshot) Listings() ([]Listing, error) {
	if len(m.Payload) == 0 {
		return nil, nil
	}
	var out []Listing
	if err := json.Unmarshal(m.Payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}
