package deals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dealdesk-backend/internal/application/comps"
	"dealdesk-backend/internal/application/marketdata"
	"dealdesk-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service runs evaluations end to end: market data, comparable matching,
// the financial calculation, and persistence of the immutable result.
type Service struct {
	DB       *gorm.DB
	Market   *marketdata.Service
	Settings Settings
}

// EvaluateOptions carry the per-run inputs beyond the property itself.
type EvaluateOptions struct {
	LenderID   *uuid.UUID
	Keywords   string   // free-text provider filter, part of the cache key
	CapRate    *float64 // rental metrics supplied by the caller, stored as-is
	CashOnCash *float64
}

// EvaluateProperty loads the subject property and produces a new Evaluation.
// Each run appends a row; earlier evaluations are history, never overwritten.
func (s *Service) EvaluateProperty(ctx context.Context, propertyID uuid.UUID, opts EvaluateOptions) (*domain.Evaluation, error) {
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return s.EvaluateWith(ctx, s.DB, &property, opts)
}

// EvaluateWith runs the evaluation against db, which may be a transaction so
// a caller can tie the evaluation's fate to other writes.
func (s *Service) EvaluateWith(ctx context.Context, db *gorm.DB, property *domain.Property, opts EvaluateOptions) (*domain.Evaluation, error) {
	listings, err := s.Market.GetListings(ctx, property.Zip, property.PropertyType, opts.Keywords)
	if err != nil {
		return nil, err
	}

	comparables, err := comps.FindComparables(listings, comps.Criteria{
		PropertyType:   property.PropertyType,
		Beds:           property.Beds,
		Baths:          property.Baths,
		Sqft:           property.Sqft,
		ExcludeAddress: property.Address(),
	})
	if err != nil {
		return nil, err
	}

	estimate, err := s.latestEstimate(ctx, db, property.PropertyID)
	if err != nil {
		return nil, err
	}

	var (
		terms    *LenderTerms
		lenderID *uuid.UUID
	)
	if opts.LenderID != nil {
		var lender domain.Lender
		if err := db.WithContext(ctx).Where("lender_id = ?", *opts.LenderID).First(&lender).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLenderNotFound
			}
			return nil, err
		}
		terms, err = TermsFromLender(&lender)
		if err != nil {
			return nil, err
		}
		lenderID = opts.LenderID
	}

	breakdown, err := Calculate(comparables, estimate, s.Settings, terms)
	if err != nil {
		return nil, err
	}

	compsJSON, err := json.Marshal(comparables)
	if err != nil {
		return nil, fmt.Errorf("encode comparables: %w", err)
	}

	evaluation := &domain.Evaluation{
		PropertyID:         property.PropertyID,
		LenderID:           lenderID,
		ARV:                breakdown.ARV,
		RepairCost:         breakdown.RepairCost,
		MaxOffer:           breakdown.MaxOffer,
		Profit:             breakdown.Profit,
		ROI:                breakdown.ROI,
		AgentCommission:    breakdown.AgentCommission,
		SellingClosingCost: breakdown.SellingClosingCost,
		BuyingClosingCost:  breakdown.BuyingClosingCost,
		PropertyTaxes:      breakdown.PropertyTaxes,
		Insurance:          breakdown.Insurance,
		Utilities:          breakdown.Utilities,
		ContingencyBuffer:  breakdown.ContingencyBuffer,
		LoanAmount:         breakdown.LoanAmount,
		MonthlyPayment:     breakdown.MonthlyPayment,
		TotalInterest:      breakdown.TotalInterest,
		OriginationFee:     breakdown.OriginationFee,
		LoanServiceFee:     breakdown.LoanServiceFee,
		CapRate:            opts.CapRate,
		CashOnCash:         opts.CashOnCash,
		HoldingMonths:      breakdown.HoldingMonths,
		Comparables:        datatypes.JSON(compsJSON),
	}
	if err := db.WithContext(ctx).Create(evaluation).Error; err != nil {
		return nil, fmt.Errorf("Failed to create evaluation: %v", err)
	}
	return evaluation, nil
}

// GetEvaluation returns one evaluation by id.
func (s *Service) GetEvaluation(ctx context.Context, evaluationID uuid.UUID) (*domain.Evaluation, error) {
	var evaluation domain.Evaluation
	if err := s.DB.WithContext(ctx).Where("evaluation_id = ?", evaluationID).First(&evaluation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}
	return &evaluation, nil
}

// ListByProperty returns a property's evaluation history, newest first.
func (s *Service) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.Evaluation, error) {
	var evaluations []domain.Evaluation
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).Order(`"createdAt" DESC`).Find(&evaluations).Error; err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (s *Service) latestEstimate(ctx context.Context, db *gorm.DB, propertyID uuid.UUID) (*domain.RehabEstimate, error) {
	var estimate domain.RehabEstimate
	err := db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order(`"createdAt" DESC`).
		Preload("LineItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		First(&estimate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no estimate is a valid state, repair cost 0
		}
		return nil, err
	}
	return &estimate, nil
}
