package comps

import (
	"math"
	"sort"
	"strings"

	"dealdesk-backend/internal/domain"
)

// Criteria describes the subject property being matched. Optional dimensions
// are pointers; a nil target places no constraint on that dimension.
type Criteria struct {
	PropertyType   domain.PropertyType
	Beds           *int
	Baths          *float64
	Sqft           *int
	ExcludeAddress string // subject's own street line, so it never comps itself
}

// tier is one tolerance level of the progressive widening search.
type tier struct {
	bedBathTol float64 // applied to both beds and baths
	sqftPct    float64 // relative to target sqft
	cap        int
}

// Tiers widen from exact bed/bath within 10% sqft out to +-1 bed/bath within
// 30% sqft. Thin markets still produce a valuation this way; dense markets
// stop at the first, tightest tier.
var tiers = []tier{
	{bedBathTol: 0, sqftPct: 0.10, cap: 5},
	{bedBathTol: 1, sqftPct: 0.10, cap: 3},
	{bedBathTol: 1, sqftPct: 0.20, cap: 3},
	{bedBathTol: 1, sqftPct: 0.30, cap: 3},
}

const minComparables = 3

// FindComparables selects 3-5 comparables for the subject from listings.
// Tiers are tried in order and the first one producing at least three matches
// wins outright; tiers never mix. Results are ordered by ascending sqft
// distance from the target (listings without sqft last, insertion order
// otherwise), so identical inputs always produce identical output.
func FindComparables(listings []domain.Listing, criteria Criteria) ([]domain.Comparable, error) {
	candidates := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.EqualFold(string(l.PropertyType), string(criteria.PropertyType)) {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoMarketData
	}

	if criteria.ExcludeAddress != "" {
		kept := candidates[:0]
		for _, l := range candidates {
			if !strings.EqualFold(strings.TrimSpace(l.Street), strings.TrimSpace(criteria.ExcludeAddress)) {
				kept = append(kept, l)
			}
		}
		candidates = kept
	}

	best := 0
	for _, t := range tiers {
		matches := matchTier(candidates, criteria, t)
		if len(matches) > best {
			best = len(matches)
		}
		if len(matches) >= minComparables {
			sortByDistance(matches)
			if len(matches) > t.cap {
				matches = matches[:t.cap]
			}
			return matches, nil
		}
	}
	return nil, &InsufficientComparablesError{Best: best}
}

func matchTier(candidates []domain.Listing, c Criteria, t tier) []domain.Comparable {
	var out []domain.Comparable
	for _, l := range candidates {
		if !l.HasPrice() {
			continue
		}
		if c.Beds != nil && l.Beds != nil {
			if math.Abs(float64(*l.Beds-*c.Beds)) > t.bedBathTol {
				continue
			}
		}
		if c.Baths != nil && l.Baths != nil {
			if math.Abs(*l.Baths-*c.Baths) > t.bedBathTol {
				continue
			}
		}
		var diff *int
		if c.Sqft != nil && l.Sqft != nil {
			d := *l.Sqft - *c.Sqft
			if d < 0 {
				d = -d
			}
			if float64(d) > t.sqftPct*float64(*c.Sqft) {
				continue
			}
			diff = &d
		}
		out = append(out, domain.Comparable{Listing: l, SqftDiff: diff})
	}
	return out
}

// sortByDistance orders comparables by ascending sqft distance. Comparables
// without a distance (no target or no listing sqft) sort after those with
// one; the sort is stable so insertion order breaks ties.
func sortByDistance(matches []domain.Comparable) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].SqftDiff, matches[j].SqftDiff
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
}
