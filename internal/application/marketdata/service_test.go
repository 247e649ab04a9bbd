package marketdata

import (
	"context"
	"testing"
	"time"

	"dealdesk-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeSearcher struct {
	calls    int
	listings []domain.Listing
	err      error
}

func (f *fakeSearcher) SearchListings(ctx context.Context, q SearchQuery) ([]domain.Listing, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func price(v int64) *int64 { return &v }

func setupMarketTest(t *testing.T, searcher *fakeSearcher) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MarketSnapshot{}))
	return &Service{DB: db, Provider: searcher, TTL: 30 * 24 * time.Hour}, db
}

func TestRefreshThenGet_NoSecondProviderCall(t *testing.T) {
	searcher := &fakeSearcher{listings: []domain.Listing{
		{ID: "1", PropertyType: domain.SingleFamily, Zip: "90001", Price: price(300000)},
	}}
	svc, _ := setupMarketTest(t, searcher)
	ctx := context.Background()

	fetched, err := svc.Refresh(ctx, "90001", domain.SingleFamily, "")
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.Equal(t, 1, searcher.calls)

	cached, err := svc.GetListings(ctx, "90001", domain.SingleFamily, "")
	require.NoError(t, err)
	assert.Equal(t, 1, searcher.calls) // served from the snapshot
	require.Len(t, cached, 1)
	assert.Equal(t, "1", cached[0].ID)
	assert.Equal(t, int64(300000), *cached[0].Price)
}

func TestGetListings_MissTriggersRefresh(t *testing.T) {
	searcher := &fakeSearcher{listings: []domain.Listing{{ID: "1", PropertyType: domain.Condo}}}
	svc, _ := setupMarketTest(t, searcher)

	listings, err := svc.GetListings(context.Background(), "10001", domain.Condo, "")
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, 1, searcher.calls)
}

func TestGetListings_ExpiredTriggersExactlyOneRefresh(t *testing.T) {
	searcher := &fakeSearcher{listings: []domain.Listing{{ID: "1", PropertyType: domain.SingleFamily}}}
	svc, _ := setupMarketTest(t, searcher)
	ctx := context.Background()

	now := time.Now()
	svc.Now = func() time.Time { return now }
	_, err := svc.Refresh(ctx, "90001", domain.SingleFamily, "")
	require.NoError(t, err)
	require.Equal(t, 1, searcher.calls)

	// Jump past the 30-day expiry.
	svc.Now = func() time.Time { return now.Add(31 * 24 * time.Hour) }
	_, err = svc.GetListings(ctx, "90001", domain.SingleFamily, "")
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.calls)

	// Refreshed snapshot is fresh again.
	_, err = svc.GetListings(ctx, "90001", domain.SingleFamily, "")
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.calls)
}

func TestGetListings_NilExpiryNeverRefreshes(t *testing.T) {
	searcher := &fakeSearcher{}
	svc, db := setupMarketTest(t, searcher)
	ctx := context.Background()

	snap := domain.MarketSnapshot{
		Zip:       "90001",
		HomeType:  domain.SingleFamily,
		Keywords:  "",
		Payload:   datatypes.JSON(`[{"id":"legacy","property_type":"single_family"}]`),
		FetchedAt: time.Now().Add(-365 * 24 * time.Hour),
		ExpiresAt: nil,
	}
	require.NoError(t, db.Create(&snap).Error)

	listings, err := svc.GetListings(ctx, "90001", domain.SingleFamily, "")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "legacy", listings[0].ID)
	assert.Equal(t, 0, searcher.calls)

	fresh, err := svc.IsFresh(ctx, "90001", domain.SingleFamily, "")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestRefresh_EmptyResultIsCached(t *testing.T) {
	searcher := &fakeSearcher{listings: nil}
	svc, db := setupMarketTest(t, searcher)
	ctx := context.Background()

	listings, err := svc.Refresh(ctx, "59000", domain.Townhouse, "")
	require.NoError(t, err)
	assert.Empty(t, listings)

	var count int64
	require.NoError(t, db.Model(&domain.MarketSnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The empty snapshot serves subsequent reads.
	listings, err = svc.GetListings(ctx, "59000", domain.Townhouse, "")
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Equal(t, 1, searcher.calls)
}

func TestRefresh_UpsertsSingleRowPerKey(t *testing.T) {
	searcher := &fakeSearcher{listings: []domain.Listing{{ID: "1", PropertyType: domain.SingleFamily}}}
	svc, db := setupMarketTest(t, searcher)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "90001", domain.SingleFamily, "pool")
	require.NoError(t, err)
	searcher.listings = []domain.Listing{{ID: "2", PropertyType: domain.SingleFamily}}
	_, err = svc.Refresh(ctx, "90001", domain.SingleFamily, "pool")
	require.NoError(t, err)

	var snaps []domain.MarketSnapshot
	require.NoError(t, db.Where("zip = ? AND home_type = ? AND keywords = ?", "90001", domain.SingleFamily, "pool").Find(&snaps).Error)
	require.Len(t, snaps, 1)
	listings, err := snaps[0].Listings()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "2", listings[0].ID)

	// A different keyword filter is its own key.
	_, err = svc.Refresh(ctx, "90001", domain.SingleFamily, "")
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&domain.MarketSnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestIsFresh_MissingKey(t *testing.T) {
	svc, _ := setupMarketTest(t, &fakeSearcher{})
	fresh, err := svc.IsFresh(context.Background(), "00000", domain.Condo, "")
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestRefresh_ProviderErrorPropagates(t *testing.T) {
	searcher := &fakeSearcher{err: assert.AnError}
	svc, db := setupMarketTest(t, searcher)

	_, err := svc.GetListings(context.Background(), "90001", domain.SingleFamily, "")
	assert.ErrorIs(t, err, assert.AnError)

	var count int64
	require.NoError(t, db.Model(&domain.MarketSnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
