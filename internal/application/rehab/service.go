package rehab

import (
	"context"
	"errors"
	"fmt"

	"dealdesk-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("Rehab estimate not found")
	ErrInvalidLineItem = errors.New("Invalid rehab line item")
)

// Service manages renovation budgets. The estimate total is never stored;
// callers recompute it from the line items.
type Service struct {
	DB *gorm.DB
}

type LineItemInput struct {
	Category string
	Tier     string
	Quantity int
	UnitCost int64
	Note     *string
}

func validateItems(items []LineItemInput) error {
	for _, it := range items {
		if it.Category == "" || !domain.ValidConditionTier(it.Tier) || it.Quantity < 1 || it.UnitCost < 0 {
			return ErrInvalidLineItem
		}
	}
	return nil
}

// CreateEstimate stores a new estimate with its line items in order.
func (s *Service) CreateEstimate(ctx context.Context, propertyID uuid.UUID, items []LineItemInput) (*domain.RehabEstimate, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	estimate := &domain.RehabEstimate{PropertyID: propertyID}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(estimate).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to create rehab estimate: %v", err)
	}
	for i, it := range items {
		li := domain.RehabLineItem{
			EstimateID: estimate.EstimateID,
			Category:   it.Category,
			Tier:       domain.ConditionTier(it.Tier),
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
			Note:       it.Note,
			Position:   i,
		}
		if err := tx.Create(&li).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("Failed to create rehab line item: %v", err)
		}
		estimate.LineItems = append(estimate.LineItems, li)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Failed to create rehab estimate: %v", err)
	}
	return estimate, nil
}

// GetByProperty returns the property's latest estimate with its items.
func (s *Service) GetByProperty(ctx context.Context, propertyID uuid.UUID) (*domain.RehabEstimate, error) {
	var estimate domain.RehabEstimate
	err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order(`"createdAt" DESC`).
		Preload("LineItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		First(&estimate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &estimate, nil
}

// ReplaceLineItems swaps an estimate's items for a new ordered set.
func (s *Service) ReplaceLineItems(ctx context.Context, estimateID uuid.UUID, items []LineItemInput) (*domain.RehabEstimate, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	var estimate domain.RehabEstimate
	if err := s.DB.WithContext(ctx).Where("estimate_id = ?", estimateID).First(&estimate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Where("estimate_id = ?", estimateID).Delete(&domain.RehabLineItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	estimate.LineItems = nil
	for i, it := range items {
		li := domain.RehabLineItem{
			EstimateID: estimateID,
			Category:   it.Category,
			Tier:       domain.ConditionTier(it.Tier),
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
			Note:       it.Note,
			Position:   i,
		}
		if err := tx.Create(&li).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		estimate.LineItems = append(estimate.LineItems, li)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &estimate, nil
}
