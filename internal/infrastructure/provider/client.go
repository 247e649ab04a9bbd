package provider

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

	"dealdesk-backend/internal/application/marketdata"
	"dealdesk-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// ErrProviderUnavailable wraps any transport failure or non-success status
// from the data provider.
var ErrProviderUnavailable = errors.New("Real-estate data provider unavailable")

const (
	defaultTimeout    = 10 * time.Second
	defaultSoldWithin = 180 // days
	maxPages          = 50  // hard stop against a provider that never ends
)

// Config carries the provider connection settings. Passed in explicitly; no
// package-level state.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	SoldWithin int // "sold in last N days" filter
}

// Client fetches recently sold listings from the provider's search API.
type Client struct {
	cfg    Config
	client *http.Client
}

var _ marketdata.Searcher = (*Client)(nil)

// NewClient builds a provider client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.SoldWithin <= 0 {
		cfg.SoldWithin = defaultSoldWithin
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// searchResponse is the provider's paged envelope.
type searchResponse struct {
	Listings       []providerListing `json:"listings"`
	TotalResults   int               `json:"total_results"`
	TotalPages     int               `json:"total_pages"`
	ResultsPerPage int               `json:"results_per_page"`
}

type providerListing struct {
	PropertyID   string `json:"property_id"`
	PropertyType string `json:"prop_type"`
	Address      struct {
		Line       string   `json:"line"`
		City       string   `json:"city"`
		StateCode  string   `json:"state_code"`
		PostalCode string   `json:"postal_code"`
		Lat        *float64 `json:"lat"`
		Lon        *float64 `json:"lon"`
	} `json:"address"`
	Price *int64   `json:"price"`
	Sqft  *int     `json:"building_size"`
	Beds  *int     `json:"beds"`
	Baths *float64 `json:"baths"`
}

// SearchListings issues one provider search and walks every page
// sequentially, concatenating results until no pages remain or a page comes
// back empty.
func (c *Client) SearchListings(ctx context.Context, q marketdata.SearchQuery) ([]domain.Listing, error) {
	propType, err := q.HomeType.ProviderString()
	if err != nil {
		return nil, err
	}

	var all []domain.Listing
	for page := 1; page <= maxPages; page++ {
		resp, err := c.fetchPage(ctx, q, propType, page)
		if err != nil {
			return nil, err
		}
		if len(resp.Listings) == 0 {
			break
		}
		for _, pl := range resp.Listings {
			all = append(all, normalize(pl))
		}
		if resp.TotalPages == 0 || page >= resp.TotalPages {
			break
		}
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, q marketdata.SearchQuery, propType string, page int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("location", q.Zip)
	params.Set("prop_type", propType)
	params.Set("status", "recently_sold")
	params.Set("sort", "sold_date")
	params.Set("sold_within_days", strconv.Itoa(c.cfg.SoldWithin))
	if q.Keywords != "" {
		params.Set("keywords", q.Keywords)
	}
	params.Set("page", strconv.Itoa(page))

	fullURL := fmt.Sprintf("%s/properties/list-sold?%s", c.cfg.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d body: %s", ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProviderUnavailable, err)
	}
	return &out, nil
}

// normalize maps one provider record to the internal listing shape. Unknown
// provider type strings are kept out of the type filter by leaving the type
// empty; they are logged once so a vocabulary drift is visible.
func normalize(pl providerListing) domain.Listing {
	l := domain.Listing{
		ID:        pl.PropertyID,
		Street:    pl.Address.Line,
		City:      pl.Address.City,
		State:     pl.Address.StateCode,
		Zip:       pl.Address.PostalCode,
		Price:     pl.Price,
		Sqft:      pl.Sqft,
		Beds:      pl.Beds,
		Baths:     pl.Baths,
		Latitude:  pl.Address.Lat,
		Longitude: pl.Address.Lon,
	}
	if t, ok := domain.PropertyTypeFromProvider(pl.PropertyType); ok {
		l.PropertyType = t
	} else {
		log.Warn().Str("prop_type", pl.PropertyType).Str("property_id", pl.PropertyID).Msg("Unrecognized provider property type")
	}
	return l
}
