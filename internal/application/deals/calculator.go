package deals

import (
	"fmt"

	"dealdesk-backend/internal/config"
	"dealdesk-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Settings are the parsed evaluation rates. All arithmetic runs on decimals;
// floats would drift on currency math.
type Settings struct {
	SellingAgentCommissionRate decimal.Decimal
	SellingClosingCostRate     decimal.Decimal
	BuyingClosingCostRate      decimal.Decimal
	AnnualTaxRate              decimal.Decimal
	ContingencyPercentage      decimal.Decimal
	DownPaymentPercentage      decimal.Decimal
	MaxOfferRate               decimal.Decimal
	MonthlyInsurance           decimal.Decimal
	MonthlyUtilities           decimal.Decimal
	HoldingMonths              int
}

// SettingsFromConfig parses the config defaults, failing fast on a malformed rate.
func SettingsFromConfig(d config.DealDefaults) (Settings, error) {
	var (
		s   Settings
		err error
	)
	parse := func(name, v string) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		var dec decimal.Decimal
		dec, err = decimal.NewFromString(v)
		if err != nil {
			err = fmt.Errorf("deal setting %s: %w", name, err)
		}
		return dec
	}
	s.SellingAgentCommissionRate = parse("SELLING_AGENT_COMMISSION_RATE", d.SellingAgentCommissionRate)
	s.SellingClosingCostRate = parse("SELLING_CLOSING_COST_RATE", d.SellingClosingCostRate)
	s.BuyingClosingCostRate = parse("BUYING_CLOSING_COST_RATE", d.BuyingClosingCostRate)
	s.AnnualTaxRate = parse("ANNUAL_TAX_RATE", d.AnnualTaxRate)
	s.ContingencyPercentage = parse("CONTINGENCY_PERCENTAGE", d.ContingencyPercentage)
	s.DownPaymentPercentage = parse("DOWN_PAYMENT_PERCENTAGE", d.DownPaymentPercentage)
	s.MaxOfferRate = parse("MAX_OFFER_RATE", d.MaxOfferRate)
	s.MonthlyInsurance = parse("MONTHLY_INSURANCE", d.MonthlyInsurance)
	s.MonthlyUtilities = parse("MONTHLY_UTILITIES", d.MonthlyUtilities)
	s.HoldingMonths = d.HoldingMonths
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LenderTerms are the parsed financing terms of a selected lender.
type LenderTerms struct {
	AnnualRate     decimal.Decimal
	OriginationFee decimal.Decimal
	LoanServiceFee decimal.Decimal
}

// TermsFromLender parses a stored lender's rate strings.
func TermsFromLender(l *domain.Lender) (*LenderTerms, error) {
	annual, err := decimal.NewFromString(l.AnnualRate)
	if err != nil {
		return nil, fmt.Errorf("lender annual_rate: %w", err)
	}
	orig, err := decimal.NewFromString(l.OriginationFee)
	if err != nil {
		return nil, fmt.Errorf("lender origination_fee: %w", err)
	}
	service, err := decimal.NewFromString(l.LoanServiceFee)
	if err != nil {
		return nil, fmt.Errorf("lender loan_service_fee: %w", err)
	}
	return &LenderTerms{AnnualRate: annual, OriginationFee: orig, LoanServiceFee: service}, nil
}

// Breakdown is the computed financial result of one evaluation run. Monetary
// values are whole currency units, rounded at the edge; financing fields are
// nil when no lender was selected.
type Breakdown struct {
	ARV        int64
	RepairCost int64
	MaxOffer   int64
	Profit     int64
	ROI        *float64 // percent, 2dp; nil when MaxOffer <= 0

	AgentCommission    int64
	SellingClosingCost int64
	BuyingClosingCost  int64
	PropertyTaxes      int64
	Insurance          int64
	Utilities          int64
	ContingencyBuffer  int64

	LoanAmount     *int64
	MonthlyPayment *int64
	TotalInterest  *int64
	OriginationFee *int64
	LoanServiceFee *int64

	HoldingMonths int
}

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Calculate turns comparables plus a rehab estimate into the full deal
// breakdown. ARV is the rounded mean of the priced comparables; the max offer
// follows the 70% rule (rate configurable); ROI is left nil rather than
// forced to zero when the max offer is not positive. Lender may be nil.
func Calculate(comparables []domain.Comparable, estimate *domain.RehabEstimate, st Settings, lender *LenderTerms) (*Breakdown, error) {
	sum := decimal.Zero
	priced := 0
	for _, c := range comparables {
		if c.Listing.HasPrice() {
			sum = sum.Add(decimal.NewFromInt(*c.Listing.Price))
			priced++
		}
	}
	if priced == 0 {
		return nil, ErrInvalidInput
	}
	arv := sum.Div(decimal.NewFromInt(int64(priced))).Round(0)

	var repairCost int64
	if estimate != nil {
		for _, li := range estimate.LineItems {
			if li.Quantity < 1 || li.UnitCost < 0 {
				return nil, ErrInvalidInput
			}
		}
		repairCost = estimate.TotalCost()
	}
	repair := decimal.NewFromInt(repairCost)

	maxOffer := arv.Mul(st.MaxOfferRate).Round(0).Sub(repair)
	profit := arv.Sub(repair).Sub(maxOffer)

	months := decimal.NewFromInt(int64(st.HoldingMonths))
	b := &Breakdown{
		ARV:                arv.IntPart(),
		RepairCost:         repairCost,
		MaxOffer:           maxOffer.IntPart(),
		Profit:             profit.IntPart(),
		AgentCommission:    arv.Mul(st.SellingAgentCommissionRate).Round(0).IntPart(),
		SellingClosingCost: arv.Mul(st.SellingClosingCostRate).Round(0).IntPart(),
		BuyingClosingCost:  maxOffer.Mul(st.BuyingClosingCostRate).Round(0).IntPart(),
		PropertyTaxes:      arv.Mul(st.AnnualTaxRate).Div(twelve).Mul(months).Round(0).IntPart(),
		Insurance:          st.MonthlyInsurance.Mul(months).Round(0).IntPart(),
		Utilities:          st.MonthlyUtilities.Mul(months).Round(0).IntPart(),
		ContingencyBuffer:  repair.Mul(st.ContingencyPercentage).Round(0).IntPart(),
		HoldingMonths:      st.HoldingMonths,
	}

	if maxOffer.IsPositive() {
		roi, _ := profit.Div(maxOffer).Mul(hundred).Round(2).Float64()
		b.ROI = &roi
	}

	if lender != nil {
		applyFinancing(b, maxOffer, months, st, lender)
	}
	return b, nil
}

// applyFinancing fills the loan fields. Total interest is monthly payment
// times holding months minus principal, an interest-only style approximation
// over the holding period rather than a full amortization payoff; changing it
// would change user-visible numbers.
func applyFinancing(b *Breakdown, maxOffer, months decimal.Decimal, st Settings, lender *LenderTerms) {
	loan := maxOffer.Mul(decimal.NewFromInt(1).Sub(st.DownPaymentPercentage))
	monthlyRate := lender.AnnualRate.Div(twelve)

	var payment decimal.Decimal
	n := int64(st.HoldingMonths)
	if monthlyRate.IsZero() {
		if n > 0 {
			payment = loan.Div(decimal.NewFromInt(n))
		}
	} else {
		// payment = L * r * (1+r)^n / ((1+r)^n - 1)
		growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(decimal.NewFromInt(n))
		payment = loan.Mul(monthlyRate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
	}

	totalInterest := payment.Mul(months).Sub(loan)
	origination := loan.Mul(lender.OriginationFee)
	serviceFee := loan.Mul(lender.LoanServiceFee).Mul(months)

	b.LoanAmount = roundedInt(loan)
	b.MonthlyPayment = roundedInt(payment)
	b.TotalInterest = roundedInt(totalInterest)
	b.OriginationFee = roundedInt(origination)
	b.LoanServiceFee = roundedInt(serviceFee)
}

func roundedInt(d decimal.Decimal) *int64 {
	v := d.Round(0).IntPart()
	return &v
}
