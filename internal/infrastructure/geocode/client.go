package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dealdesk-backend/internal/domain"

	"gorm.io/gorm"
)

// ErrNotFound means the geocoder returned no result for the address.
var ErrNotFound = errors.New("Address could not be geocoded")

// LatLng is one resolved coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (*LatLng, error)
}

// Config carries geocoder connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a Nominatim-style search client.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient builds a geocoder client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup queries the search endpoint and returns the first hit.
func (c *Client) Lookup(ctx context.Context, address string) (*LatLng, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	fullURL := fmt.Sprintf("%s/search?%s", c.cfg.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoder error: status %d body: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("geocoder response decode: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder lat parse: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder lon parse: %w", err)
	}
	return &LatLng{Lat: lat, Lng: lng}, nil
}

// CachingGeocoder fronts a Geocoder with the geocode_cache table so repeated
// registrations at one address skip the network.
type CachingGeocoder struct {
	DB       *gorm.DB
	Upstream Geocoder
	TTL      time.Duration
	Now      func() time.Time
}

func (g *CachingGeocoder) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Lookup checks the cache, falls back to the upstream geocoder, and stores
// the answer with an expiry.
func (g *CachingGeocoder) Lookup(ctx context.Context, address string) (*LatLng, error) {
	now := g.now()
	var cached domain.GeocodeCache
	err := g.DB.WithContext(ctx).Where("address = ?", address).First(&cached).Error
	if err == nil && cached.ExpiresAt.After(now) {
		return &LatLng{Lat: cached.Lat, Lng: cached.Lng}, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	result, lookupErr := g.Upstream.Lookup(ctx, address)
	if lookupErr != nil {
		return nil, lookupErr
	}

	entry := domain.GeocodeCache{
		Address:   address,
		Lat:       result.Lat,
		Lng:       result.Lng,
		ExpiresAt: now.Add(g.TTL),
	}
	if err == nil {
		entry.ID = cached.ID
		entry.CreatedAt = cached.CreatedAt
		g.DB.WithContext(ctx).Save(&entry)
	} else {
		g.DB.WithContext(ctx).Create(&entry)
	}
	return result, nil
}
