package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dealdesk-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Searcher is the outbound provider contract the cache sits in front of.
// One search per cache miss; pagination is the implementation's problem.
type Searcher interface {
	SearchListings(ctx context.Context, q SearchQuery) ([]domain.Listing, error)
}

// SearchQuery is what the cache hands to the provider on a refresh.
type SearchQuery struct {
	Zip      string
	HomeType domain.PropertyType
	Keywords string
}

// Service decides whether stored market data is still usable or must be
// refetched. Snapshots are keyed by (zip, home type, keywords) and upserted:
// a refresh replaces the row for its key, never appends. Two concurrent
// refreshes for one key may both hit the provider; last write wins and that
// is accepted for this workload.
type Service struct {
	DB       *gorm.DB
	Provider Searcher
	TTL      time.Duration    // applied as expiry on every refresh
	Now      func() time.Time // defaults to time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetListings returns the cached snapshot's listings when it is fresh,
// refreshing from the provider otherwise.
func (s *Service) GetListings(ctx context.Context, zip string, homeType domain.PropertyType, keywords string) ([]domain.Listing, error) {
	var snap domain.MarketSnapshot
	err := s.DB.WithContext(ctx).
		Where("zip = ? AND home_type = ? AND keywords = ?", zip, homeType, keywords).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Refresh(ctx, zip, homeType, keywords)
		}
		return nil, err
	}
	if !snap.Fresh(s.now()) {
		return s.Refresh(ctx, zip, homeType, keywords)
	}
	listings, err := snap.Listings()
	if err != nil {
		return nil, fmt.Errorf("decode market snapshot: %w", err)
	}
	return listings, nil
}

// IsFresh reports whether a fresh snapshot exists for the key. A snapshot
// with no expiry never goes stale; that is the documented policy.
func (s *Service) IsFresh(ctx context.Context, zip string, homeType domain.PropertyType, keywords string) (bool, error) {
	var snap domain.MarketSnapshot
	err := s.DB.WithContext(ctx).
		Where("zip = ? AND home_type = ? AND keywords = ?", zip, homeType, keywords).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return snap.Fresh(s.now()), nil
}

// Refresh always calls the provider and replaces (or creates) the snapshot
// for the key. An empty provider result is cached like any other; it is not
// an error.
func (s *Service) Refresh(ctx context.Context, zip string, homeType domain.PropertyType, keywords string) ([]domain.Listing, error) {
	listings, err := s.Provider.SearchListings(ctx, SearchQuery{Zip: zip, HomeType: homeType, Keywords: keywords})
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	payload, err := json.Marshal(listings)
	if err != nil {
		return nil, fmt.Errorf("encode market snapshot: %w", err)
	}
	now := s.now()
	expires := now.Add(s.TTL)

	// Plain read-modify-write upsert; no concurrency token.
	var snap domain.MarketSnapshot
	err = s.DB.WithContext(ctx).
		Where("zip = ? AND home_type = ? AND keywords = ?", zip, homeType, keywords).
		First(&snap).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		snap = domain.MarketSnapshot{
			Zip:       zip,
			HomeType:  homeType,
			Keywords:  keywords,
			Payload:   datatypes.JSON(payload),
			FetchedAt: now,
			ExpiresAt: &expires,
		}
		if err := s.DB.WithContext(ctx).Create(&snap).Error; err != nil {
			return nil, fmt.Errorf("store market snapshot: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		updates := map[string]interface{}{
			"payload":    datatypes.JSON(payload),
			"fetched_at": now,
			"expires_at": &expires,
		}
		if err := s.DB.WithContext(ctx).Model(&snap).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update market snapshot: %w", err)
		}
	}
	return listings, nil
}
