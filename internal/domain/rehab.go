package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConditionTier grades how heavy a renovation line is.
type ConditionTier string

const (
	TierCosmetic ConditionTier = "cosmetic"
	TierModerate ConditionTier = "moderate"
	TierHeavy    ConditionTier = "heavy"
)

// ValidConditionTier reports whether s names a known tier.
func ValidConditionTier(s string) bool {
	switch ConditionTier(s) {
	case TierCosmetic, TierModerate, TierHeavy:
		return true
	}
	return false
}

// RehabEstimate is an ordered budget of renovation line items for one
// property. The total is never stored; it is recomputed from the items so it
// cannot drift out of sync.
type RehabEstimate struct {
	EstimateID uuid.UUID       `gorm:"column:estimate_id;type:uuid;primaryKey" json:"estimate_id"`
	PropertyID uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	LineItems  []RehabLineItem `gorm:"foreignKey:EstimateID;references:EstimateID" json:"line_items"`
	CreatedAt  time.Time       `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"column:updatedAt" json:"updatedAt"`
}

func (RehabEstimate) TableName() string {
	return "RehabEstimates"
}

// BeforeCreate sets estimate_id if not already set.
func (e *RehabEstimate) BeforeCreate(tx *gorm.DB) error {
	if e.EstimateID == uuid.Nil {
		e.EstimateID = uuid.New()
	}
	return nil
}

// TotalCost is sum(quantity x unit cost) over line items, whole currency units.
func (e *RehabEstimate) TotalCost() int64 {
	var total int64
	for _, li := range e.LineItems {
		total += int64(li.Quantity) * li.UnitCost
	}
	return total
}

// RehabLineItem is one budgeted renovation entry.
type RehabLineItem struct {
	LineItemID uuid.UUID     `gorm:"column:line_item_id;type:uuid;primaryKey" json:"line_item_id"`
	EstimateID uuid.UUID     `gorm:"column:estimate_id;type:uuid;not null;index" json:"estimate_id"`
	Category   string        `gorm:"column:category;not null" json:"category"` // room or work category
	Tier       ConditionTier `gorm:"column:tier;type:varchar(10);not null" json:"tier"`
	Quantity   int           `gorm:"column:quantity;not null" json:"quantity"`  // >= 1
	UnitCost   int64         `gorm:"column:unit_cost;not null" json:"unit_cost"` // whole currency units, >= 0
	Note       *string       `gorm:"column:note" json:"note"`
	Position   int           `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt  time.Time     `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `gorm:"column:updatedAt" json:"updatedAt"`
}

func (RehabLineItem) TableName() string {
	return "RehabLineItems"
}

// BeforeCreate sets line_item_id if not already set.
func (li *RehabLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.LineItemID == uuid.Nil {
		li.LineItemID = uuid.New()
	}
	return nil
}
