package deals

import (
	"testing"

	"dealdesk-backend/internal/config"
	"dealdesk-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(t *testing.T) Settings {
	t.Helper()
	s, err := SettingsFromConfig(config.DealDefaults{
		SellingAgentCommissionRate: "0.06",
		SellingClosingCostRate:     "0.02",
		BuyingClosingCostRate:      "0.03",
		AnnualTaxRate:              "0.02",
		ContingencyPercentage:      "0.10",
		DownPaymentPercentage:      "0.10",
		MaxOfferRate:               "0.70",
		MonthlyInsurance:           "150",
		MonthlyUtilities:           "200",
		HoldingMonths:              6,
	})
	require.NoError(t, err)
	return s
}

func comp(price int64) domain.Comparable {
	return domain.Comparable{Listing: domain.Listing{ID: "x", PropertyType: domain.SingleFamily, Price: &price}}
}

func estimateOf(items ...domain.RehabLineItem) *domain.RehabEstimate {
	return &domain.RehabEstimate{LineItems: items}
}

func TestCalculate_SeventyPercentRule(t *testing.T) {
	comps := []domain.Comparable{comp(300000), comp(320000), comp(310000)}
	estimate := estimateOf(domain.RehabLineItem{Category: "kitchen", Tier: domain.TierHeavy, Quantity: 1, UnitCost: 50000})

	b, err := Calculate(comps, estimate, testSettings(t), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(310000), b.ARV)
	assert.Equal(t, int64(50000), b.RepairCost)
	assert.Equal(t, int64(167000), b.MaxOffer) // round(310000*0.7) - 50000
	assert.Equal(t, int64(93000), b.Profit)    // 310000 - 50000 - 167000
	require.NotNil(t, b.ROI)
	assert.InDelta(t, 55.69, *b.ROI, 0.001)
}

func TestCalculate_CostBreakdown(t *testing.T) {
	comps := []domain.Comparable{comp(300000), comp(320000), comp(310000)}
	estimate := estimateOf(domain.RehabLineItem{Category: "kitchen", Tier: domain.TierHeavy, Quantity: 1, UnitCost: 50000})

	b, err := Calculate(comps, estimate, testSettings(t), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(18600), b.AgentCommission)   // 310000 * 0.06
	assert.Equal(t, int64(6200), b.SellingClosingCost) // 310000 * 0.02
	assert.Equal(t, int64(5010), b.BuyingClosingCost)  // 167000 * 0.03
	assert.Equal(t, int64(3100), b.PropertyTaxes)      // 310000 * 0.02 / 12 * 6
	assert.Equal(t, int64(900), b.Insurance)           // 150 * 6
	assert.Equal(t, int64(1200), b.Utilities)          // 200 * 6
	assert.Equal(t, int64(5000), b.ContingencyBuffer)  // 50000 * 0.10
	assert.Equal(t, 6, b.HoldingMonths)
	assert.Nil(t, b.LoanAmount)
}

func TestCalculate_IgnoresUnpricedComparables(t *testing.T) {
	noPrice := domain.Comparable{Listing: domain.Listing{ID: "n"}}
	comps := []domain.Comparable{comp(300000), noPrice, comp(320000), comp(310000)}

	b, err := Calculate(comps, nil, testSettings(t), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(310000), b.ARV)
	assert.Equal(t, int64(0), b.RepairCost)
}

func TestCalculate_NoPricedComparables(t *testing.T) {
	noPrice := domain.Comparable{Listing: domain.Listing{ID: "n"}}
	_, err := Calculate([]domain.Comparable{noPrice}, nil, testSettings(t), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Calculate(nil, nil, testSettings(t), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculate_MalformedLineItem(t *testing.T) {
	comps := []domain.Comparable{comp(300000), comp(320000), comp(310000)}
	bad := estimateOf(domain.RehabLineItem{Category: "roof", Tier: domain.TierModerate, Quantity: 0, UnitCost: 100})
	_, err := Calculate(comps, bad, testSettings(t), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculate_ROINilWhenMaxOfferNotPositive(t *testing.T) {
	// ARV 50000, repairs 40000: MaxOffer = 35000 - 40000 = -5000.
	comps := []domain.Comparable{comp(50000), comp(50000), comp(50000)}
	estimate := estimateOf(domain.RehabLineItem{Category: "full gut", Tier: domain.TierHeavy, Quantity: 1, UnitCost: 40000})

	b, err := Calculate(comps, estimate, testSettings(t), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-5000), b.MaxOffer)
	assert.Nil(t, b.ROI)
}

func TestCalculate_Financing(t *testing.T) {
	comps := []domain.Comparable{comp(300000), comp(320000), comp(310000)}
	estimate := estimateOf(domain.RehabLineItem{Category: "kitchen", Tier: domain.TierHeavy, Quantity: 1, UnitCost: 50000})
	lender := &LenderTerms{
		AnnualRate:     decimal.RequireFromString("0.12"),
		OriginationFee: decimal.RequireFromString("0.02"),
		LoanServiceFee: decimal.RequireFromString("0.001"),
	}

	b, err := Calculate(comps, estimate, testSettings(t), lender)
	require.NoError(t, err)

	// Loan = 167000 * 0.9 = 150300
	require.NotNil(t, b.LoanAmount)
	assert.Equal(t, int64(150300), *b.LoanAmount)
	// Amortized over 6 months at 1%/month: payment ~ 25935, interest = 6*payment - principal.
	require.NotNil(t, b.MonthlyPayment)
	assert.InDelta(t, 25935, float64(*b.MonthlyPayment), 1)
	require.NotNil(t, b.TotalInterest)
	assert.InDelta(t, float64(*b.MonthlyPayment*6-*b.LoanAmount), float64(*b.TotalInterest), 3)
	require.NotNil(t, b.OriginationFee)
	assert.Equal(t, int64(3006), *b.OriginationFee) // 150300 * 0.02
	require.NotNil(t, b.LoanServiceFee)
	assert.Equal(t, int64(902), *b.LoanServiceFee) // 150300 * 0.001 * 6
}

func TestCalculate_FinancingZeroRate(t *testing.T) {
	comps := []domain.Comparable{comp(300000), comp(320000), comp(310000)}
	lender := &LenderTerms{
		AnnualRate:     decimal.Zero,
		OriginationFee: decimal.Zero,
		LoanServiceFee: decimal.Zero,
	}
	b, err := Calculate(comps, nil, testSettings(t), lender)
	require.NoError(t, err)
	require.NotNil(t, b.TotalInterest)
	assert.Equal(t, int64(0), *b.TotalInterest)
}

func TestSettingsFromConfig_Malformed(t *testing.T) {
	_, err := SettingsFromConfig(config.DealDefaults{
		SellingAgentCommissionRate: "not-a-number",
		SellingClosingCostRate:     "0.02",
		BuyingClosingCostRate:      "0.03",
		AnnualTaxRate:              "0.02",
		ContingencyPercentage:      "0.10",
		DownPaymentPercentage:      "0.10",
		MaxOfferRate:               "0.70",
		MonthlyInsurance:           "150",
		MonthlyUtilities:           "200",
		HoldingMonths:              6,
	})
	assert.Error(t, err)
}
