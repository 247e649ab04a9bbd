package properties

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dealdesk-backend/internal/application/comps"
	"dealdesk-backend/internal/application/deals"
	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/infrastructure/geocode"
	"dealdesk-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service handles subject-property CRUD and the registration flow that
// triggers an automatic first evaluation.
type Service struct {
	DB       *gorm.DB
	Geocoder geocode.Geocoder
	Deals    *deals.Service
}

type CreatePropertyInput struct {
	Street       string
	City         string
	State        string
	Zip          string
	PropertyType string
	Beds         *int
	Baths        *float64
	Sqft         *int
	Notes        string
}

// CreateProperty validates and persists a new subject property, geocoding
// its address best-effort, then attempts an automatic evaluation. When the
// market is too thin (no data, or fewer than three comparables) the property
// still persists and the evaluation is simply absent; any other evaluation
// failure rolls the whole registration back.
func (s *Service) CreateProperty(ctx context.Context, in CreatePropertyInput) (*domain.Property, *domain.Evaluation, error) {
	if !validation.IsValidStreet(in.Street) {
		return nil, nil, ErrInvalidAddress
	}
	if !validation.IsValidZip(in.Zip) {
		return nil, nil, ErrInvalidZip
	}
	propertyType, ok := domain.ParsePropertyType(in.PropertyType)
	if !ok {
		return nil, nil, ErrInvalidType
	}

	property := &domain.Property{
		Street:       strings.TrimSpace(in.Street),
		City:         strings.TrimSpace(in.City),
		State:        strings.ToUpper(strings.TrimSpace(in.State)),
		Zip:          strings.TrimSpace(in.Zip),
		PropertyType: propertyType,
		Beds:         in.Beds,
		Baths:        in.Baths,
		Sqft:         in.Sqft,
		Notes:        in.Notes,
	}

	// Geocoding is best effort; a property without coordinates is fine.
	if s.Geocoder != nil {
		address := fmt.Sprintf("%s, %s, %s %s", property.Street, property.City, property.State, property.Zip)
		if loc, err := s.Geocoder.Lookup(ctx, address); err != nil {
			log.Warn().Err(err).Str("address", address).Msg("Geocoding failed, storing property without coordinates")
		} else {
			property.Latitude = &loc.Lat
			property.Longitude = &loc.Lng
		}
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(property).Error; err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("Failed to create property: %v", err)
	}

	var evaluation *domain.Evaluation
	if s.Deals != nil {
		ev, err := s.Deals.EvaluateWith(ctx, tx, property, deals.EvaluateOptions{})
		if err != nil {
			var insufficient *comps.InsufficientComparablesError
			if errors.Is(err, comps.ErrNoMarketData) || errors.As(err, &insufficient) {
				log.Warn().Err(err).
					Str("property_id", property.PropertyID.String()).
					Str("zip", property.Zip).
					Msg("Automatic evaluation skipped, not enough market data")
			} else {
				tx.Rollback()
				return nil, nil, err
			}
		} else {
			evaluation = ev
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, fmt.Errorf("Failed to create property: %v", err)
	}
	return property, evaluation, nil
}

// GetProperty returns one property by id.
func (s *Service) GetProperty(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// GetAllProperties returns every registered property, newest first.
func (s *Service) GetAllProperties(ctx context.Context) ([]domain.Property, error) {
	var list []domain.Property
	if err := s.DB.WithContext(ctx).Order(`"createdAt" DESC`).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch properties: %v", err)
	}
	return list, nil
}

type UpdatePropertyInput struct {
	Beds  *int
	Baths *float64
	Sqft  *int
	Notes *string
}

// UpdateProperty applies partial updates to the mutable property fields.
// Address and type are fixed after registration; re-register to change them.
func (s *Service) UpdateProperty(ctx context.Context, propertyID uuid.UUID, in UpdatePropertyInput) (*domain.Property, error) {
	property, err := s.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Beds != nil {
		updates["beds"] = *in.Beds
	}
	if in.Baths != nil {
		updates["baths"] = *in.Baths
	}
	if in.Sqft != nil {
		updates["sqft"] = *in.Sqft
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) == 0 {
		return nil, errors.New("No valid changes provided")
	}
	if err := s.DB.WithContext(ctx).Model(property).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(property)
	return property, nil
}
