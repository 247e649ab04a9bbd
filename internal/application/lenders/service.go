package lenders

import (
	"context"
	"errors"
	"fmt"

	"dealdesk-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("Lender not found")
	ErrInvalidTerms = errors.New("Invalid lender terms")
)

// Service manages financing sources selectable at evaluation time.
type Service struct {
	DB *gorm.DB
}

type CreateLenderInput struct {
	Name           string
	AnnualRate     string
	OriginationFee string
	LoanServiceFee string
}

// CreateLender validates the rate strings parse as non-negative decimals and
// stores the lender.
func (s *Service) CreateLender(ctx context.Context, in CreateLenderInput) (*domain.Lender, error) {
	if in.Name == "" {
		return nil, ErrInvalidTerms
	}
	for _, v := range []string{in.AnnualRate, in.OriginationFee, in.LoanServiceFee} {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return nil, ErrInvalidTerms
		}
	}
	lender := &domain.Lender{
		Name:           in.Name,
		AnnualRate:     in.AnnualRate,
		OriginationFee: in.OriginationFee,
		LoanServiceFee: in.LoanServiceFee,
	}
	if err := s.DB.WithContext(ctx).Create(lender).Error; err != nil {
		return nil, fmt.Errorf("Failed to create lender: %v", err)
	}
	return lender, nil
}

// GetAllLenders returns every lender.
func (s *Service) GetAllLenders(ctx context.Context) ([]domain.Lender, error) {
	var list []domain.Lender
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GetLender returns one lender by id.
func (s *Service) GetLender(ctx context.Context, lenderID uuid.UUID) (*domain.Lender, error) {
	var lender domain.Lender
	if err := s.DB.WithContext(ctx).Where("lender_id = ?", lenderID).First(&lender).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lender, nil
}
