package comps

import (
	"testing"

	"dealdesk-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }

func listing(id string, beds int, baths float64, sqft int, price int64) domain.Listing {
	return domain.Listing{
		ID:           id,
		PropertyType: domain.SingleFamily,
		Street:       id + " Main St",
		Price:        int64Ptr(price),
		Sqft:         intPtr(sqft),
		Beds:         intPtr(beds),
		Baths:        floatPtr(baths),
	}
}

func subject() Criteria {
	return Criteria{
		PropertyType: domain.SingleFamily,
		Beds:         intPtr(3),
		Baths:        floatPtr(2),
		Sqft:         intPtr(1500),
	}
}

func TestFindComparables_TierAExactMatches(t *testing.T) {
	listings := []domain.Listing{
		listing("a", 3, 2, 1550, 300000),
		listing("b", 3, 2, 1450, 310000),
		listing("c", 3, 2, 1600, 305000),
		listing("d", 3, 2, 1500, 320000),
	}

	comps, err := FindComparables(listings, subject())
	require.NoError(t, err)
	require.Len(t, comps, 4)
	// Sorted by ascending sqft distance: d(0), a(50)/b(50), c(100)
	assert.Equal(t, "d", comps[0].Listing.ID)
	assert.Equal(t, "c", comps[3].Listing.ID)
	assert.Equal(t, 0, *comps[0].SqftDiff)
	assert.Equal(t, 100, *comps[3].SqftDiff)
}

func TestFindComparables_TierACapsAtFive(t *testing.T) {
	var listings []domain.Listing
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		listings = append(listings, listing(id, 3, 2, 1500, 300000))
	}
	comps, err := FindComparables(listings, subject())
	require.NoError(t, err)
	assert.Len(t, comps, 5)
}

func TestFindComparables_FallsBackToTierB(t *testing.T) {
	// Only two exact bed/bath matches; three more at +-1 bed within 10% sqft.
	listings := []domain.Listing{
		listing("a", 3, 2, 1500, 300000),
		listing("b", 3, 2, 1520, 310000),
		listing("c", 4, 2, 1480, 305000),
		listing("d", 2, 2, 1530, 295000),
		listing("e", 4, 3, 1400, 315000),
	}

	comps, err := FindComparables(listings, subject())
	require.NoError(t, err)
	// Tier B caps at 3 and includes the whole widened pool, never a tier mix.
	require.Len(t, comps, 3)
	ids := []string{comps[0].Listing.ID, comps[1].Listing.ID, comps[2].Listing.ID}
	assert.Equal(t, []string{"a", "b", "c"}, ids) // sorted by sqft distance 0, 20, 20-stable... a=0, b=20, c=20
}

func TestFindComparables_TierDWideSqft(t *testing.T) {
	// Matches only inside +-30% sqft.
	listings := []domain.Listing{
		listing("a", 3, 2, 1900, 300000), // ~27% off
		listing("b", 4, 2, 1150, 310000), // ~23% off
		listing("c", 2, 1, 1850, 305000), // ~23% off
	}
	comps, err := FindComparables(listings, subject())
	require.NoError(t, err)
	assert.Len(t, comps, 3)
}

func TestFindComparables_NeverReturnsUnpriced(t *testing.T) {
	zero := int64(0)
	listings := []domain.Listing{
		listing("a", 3, 2, 1500, 300000),
		listing("b", 3, 2, 1500, 310000),
		listing("c", 3, 2, 1500, 320000),
		{ID: "noprice", PropertyType: domain.SingleFamily, Beds: intPtr(3), Baths: floatPtr(2), Sqft: intPtr(1500)},
		{ID: "zeroprice", PropertyType: domain.SingleFamily, Beds: intPtr(3), Baths: floatPtr(2), Sqft: intPtr(1500), Price: &zero},
	}
	comps, err := FindComparables(listings, subject())
	require.NoError(t, err)
	for _, c := range comps {
		require.NotNil(t, c.Listing.Price)
		assert.Greater(t, *c.Listing.Price, int64(0))
	}
	assert.Len(t, comps, 3)
}

func TestFindComparables_ExcludesSubjectAddress(t *testing.T) {
	listings := []domain.Listing{
		listing("a", 3, 2, 1500, 300000),
		listing("b", 3, 2, 1500, 310000),
		listing("c", 3, 2, 1500, 320000),
		listing("d", 3, 2, 1500, 330000),
	}
	criteria := subject()
	criteria.ExcludeAddress = "A Main St" // case-insensitive match on listing "a"

	comps, err := FindComparables(listings, criteria)
	require.NoError(t, err)
	for _, c := range comps {
		assert.NotEqual(t, "a", c.Listing.ID)
	}
}

func TestFindComparables_MissingDimensionsAutoSatisfy(t *testing.T) {
	// Listings without beds/baths/sqft still match when the subject supplies
	// them, and vice versa.
	listings := []domain.Listing{
		{ID: "a", PropertyType: domain.SingleFamily, Price: int64Ptr(300000)},
		{ID: "b", PropertyType: domain.SingleFamily, Price: int64Ptr(310000)},
		{ID: "c", PropertyType: domain.SingleFamily, Price: int64Ptr(320000)},
	}
	comps, err := FindComparables(listings, subject())
	require.NoError(t, err)
	assert.Len(t, comps, 3)
	for _, c := range comps {
		assert.Nil(t, c.SqftDiff)
	}
}

func TestFindComparables_NoTargetsAtAll(t *testing.T) {
	listings := []domain.Listing{
		listing("a", 5, 4, 4000, 900000),
		listing("b", 1, 1, 600, 150000),
		listing("c", 3, 2, 1500, 300000),
	}
	comps, err := FindComparables(listings, Criteria{PropertyType: domain.SingleFamily})
	require.NoError(t, err)
	// Natural order preserved when no sqft target exists.
	require.Len(t, comps, 3)
	assert.Equal(t, "a", comps[0].Listing.ID)
	assert.Equal(t, "b", comps[1].Listing.ID)
	assert.Equal(t, "c", comps[2].Listing.ID)
}

func TestFindComparables_NoMarketData(t *testing.T) {
	listings := []domain.Listing{
		{ID: "a", PropertyType: domain.Condo, Price: int64Ptr(300000)},
	}
	_, err := FindComparables(listings, subject())
	assert.ErrorIs(t, err, ErrNoMarketData)
}

func TestFindComparables_InsufficientCarriesBestCount(t *testing.T) {
	listings := []domain.Listing{
		listing("a", 3, 2, 1500, 300000),
		listing("b", 3, 2, 1510, 310000),
	}
	_, err := FindComparables(listings, subject())
	var insufficient *InsufficientComparablesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Best)
}

func TestFindComparables_Deterministic(t *testing.T) {
	listings := []domain.Listing{
		listing("a", 3, 2, 1550, 300000),
		listing("b", 3, 2, 1450, 310000),
		listing("c", 3, 2, 1600, 305000),
		listing("d", 3, 2, 1500, 320000),
	}
	first, err := FindComparables(listings, subject())
	require.NoError(t, err)
	second, err := FindComparables(listings, subject())
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Listing.ID, second[i].Listing.ID)
	}
}
