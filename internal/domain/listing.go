package domain

// Listing is one normalized market record from the data provider. Optional
// fields are pointers: a missing value must stay distinguishable from zero
// (a 0-bed studio is not a listing with unknown beds). Listings are built by
// the provider client and never mutated afterwards; they live inside a cached
// market snapshot rather than as rows of their own.
type Listing struct {
	ID           string       `json:"id"`
	PropertyType PropertyType `json:"property_type"`
	Street       string       `json:"street"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	Zip          string       `json:"zip"`
	Price        *int64       `json:"price,omitempty"` // whole currency units
	Sqft         *int         `json:"sqft,omitempty"`
	Beds         *int         `json:"beds,omitempty"`
	Baths        *float64     `json:"baths,omitempty"` // half baths exist
	Latitude     *float64     `json:"latitude,omitempty"`
	Longitude    *float64     `json:"longitude,omitempty"`
}

// HasPrice reports whether the listing carries a usable sale price. Listings
// without one can never become comparables.
func (l Listing) HasPrice() bool {
	return l.Price != nil && *l.Price > 0
}

// Comparable is a listing selected as a match for a subject property,
// annotated with its sqft distance for deterministic ordering. Derived, not
// persisted on its own; evaluations embed the set they used.
type Comparable struct {
	Listing  Listing `json:"listing"`
	SqftDiff *int    `json:"sqft_diff,omitempty"` // nil when no target sqft or listing sqft
}
