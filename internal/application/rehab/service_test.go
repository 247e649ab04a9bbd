package rehab

import (
	"context"
	"testing"
	"time"

	"dealdesk-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRehabTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.RehabEstimate{}, &domain.RehabLineItem{}))
	return &Service{DB: db}, db
}

func kitchenAndBath() []LineItemInput {
	return []LineItemInput{
		{Category: "kitchen", Tier: "heavy", Quantity: 1, UnitCost: 25000},
		{Category: "bathroom", Tier: "moderate", Quantity: 2, UnitCost: 8000},
	}
}

func TestCreateEstimate_PreservesItemOrder(t *testing.T) {
	svc, _ := setupRehabTest(t)
	propertyID := uuid.New()

	estimate, err := svc.CreateEstimate(context.Background(), propertyID, kitchenAndBath())
	require.NoError(t, err)
	require.Len(t, estimate.LineItems, 2)
	assert.Equal(t, "kitchen", estimate.LineItems[0].Category)
	assert.Equal(t, "bathroom", estimate.LineItems[1].Category)
	assert.Equal(t, int64(41000), estimate.TotalCost())
}

func TestCreateEstimate_RejectsBadItems(t *testing.T) {
	svc, db := setupRehabTest(t)
	ctx := context.Background()
	propertyID := uuid.New()

	cases := []LineItemInput{
		{Category: "", Tier: "heavy", Quantity: 1, UnitCost: 100},
		{Category: "roof", Tier: "catastrophic", Quantity: 1, UnitCost: 100},
		{Category: "roof", Tier: "heavy", Quantity: 0, UnitCost: 100},
		{Category: "roof", Tier: "heavy", Quantity: 1, UnitCost: -1},
	}
	for _, bad := range cases {
		_, err := svc.CreateEstimate(ctx, propertyID, []LineItemInput{bad})
		assert.ErrorIs(t, err, ErrInvalidLineItem)
	}

	var count int64
	require.NoError(t, db.Model(&domain.RehabEstimate{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetByProperty_ReturnsLatest(t *testing.T) {
	svc, db := setupRehabTest(t)
	ctx := context.Background()
	propertyID := uuid.New()

	first, err := svc.CreateEstimate(ctx, propertyID, kitchenAndBath())
	require.NoError(t, err)
	second, err := svc.CreateEstimate(ctx, propertyID, []LineItemInput{
		{Category: "roof", Tier: "cosmetic", Quantity: 1, UnitCost: 5000},
	})
	require.NoError(t, err)

	// second estimate must sort after the first
	require.NoError(t, db.Model(&domain.RehabEstimate{}).
		Where("estimate_id = ?", second.EstimateID).
		Update("createdAt", first.CreatedAt.Add(time.Second)).Error)

	latest, err := svc.GetByProperty(ctx, propertyID)
	require.NoError(t, err)
	assert.Equal(t, second.EstimateID, latest.EstimateID)
	require.Len(t, latest.LineItems, 1)
	assert.Equal(t, "roof", latest.LineItems[0].Category)
}

func TestGetByProperty_NotFound(t *testing.T) {
	svc, _ := setupRehabTest(t)
	_, err := svc.GetByProperty(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceLineItems(t *testing.T) {
	svc, db := setupRehabTest(t)
	ctx := context.Background()
	propertyID := uuid.New()

	estimate, err := svc.CreateEstimate(ctx, propertyID, kitchenAndBath())
	require.NoError(t, err)

	replaced, err := svc.ReplaceLineItems(ctx, estimate.EstimateID, []LineItemInput{
		{Category: "flooring", Tier: "cosmetic", Quantity: 3, UnitCost: 2000},
	})
	require.NoError(t, err)
	require.Len(t, replaced.LineItems, 1)
	assert.Equal(t, int64(6000), replaced.TotalCost())

	var count int64
	require.NoError(t, db.Model(&domain.RehabLineItem{}).Where("estimate_id = ?", estimate.EstimateID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReplaceLineItems_UnknownEstimate(t *testing.T) {
	svc, _ := setupRehabTest(t)
	_, err := svc.ReplaceLineItems(context.Background(), uuid.New(), kitchenAndBath())
	assert.ErrorIs(t, err, ErrNotFound)
}
