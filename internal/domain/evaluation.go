package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lender is a financing source selectable for an evaluation. Rates and fees
// are decimal fractions stored as strings so they round-trip losslessly into
// decimal arithmetic.
type Lender struct {
	LenderID       uuid.UUID `gorm:"column:lender_id;type:uuid;primaryKey" json:"lender_id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	AnnualRate     string    `gorm:"column:annual_rate;not null" json:"annual_rate"`           // e.g. "0.12"
	OriginationFee string    `gorm:"column:origination_fee;not null" json:"origination_fee"`   // fraction of loan, one-time
	LoanServiceFee string    `gorm:"column:loan_service_fee;not null" json:"loan_service_fee"` // fraction of loan, per month
	CreatedAt      time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Lender) TableName() string {
	return "Lenders"
}

// BeforeCreate sets lender_id if not already set.
func (l *Lender) BeforeCreate(tx *gorm.DB) error {
	if l.LenderID == uuid.Nil {
		l.LenderID = uuid.New()
	}
	return nil
}

// Evaluation is the result of one deal calculation run. Immutable after
// creation: re-evaluating a property inserts a new row, preserving history.
// Monetary fields are whole currency units, rounded at the point of storage.
type Evaluation struct {
	EvaluationID uuid.UUID  `gorm:"column:evaluation_id;type:uuid;primaryKey" json:"evaluation_id"`
	PropertyID   uuid.UUID  `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	LenderID     *uuid.UUID `gorm:"column:lender_id;type:uuid" json:"lender_id"`

	ARV        int64    `gorm:"column:arv;not null" json:"arv"`
	RepairCost int64    `gorm:"column:repair_cost;not null" json:"repair_cost"`
	MaxOffer   int64    `gorm:"column:max_offer;not null" json:"max_offer"`
	Profit     int64    `gorm:"column:profit;not null" json:"profit"`
	ROI        *float64 `gorm:"column:roi" json:"roi"` // percent, 2dp; nil when MaxOffer <= 0

	AgentCommission    int64 `gorm:"column:agent_commission;not null" json:"agent_commission"`
	SellingClosingCost int64 `gorm:"column:selling_closing_cost;not null" json:"selling_closing_cost"`
	BuyingClosingCost  int64 `gorm:"column:buying_closing_cost;not null" json:"buying_closing_cost"`
	PropertyTaxes      int64 `gorm:"column:property_taxes;not null" json:"property_taxes"`
	Insurance          int64 `gorm:"column:insurance;not null" json:"insurance"`
	Utilities          int64 `gorm:"column:utilities;not null" json:"utilities"`
	ContingencyBuffer  int64 `gorm:"column:contingency_buffer;not null" json:"contingency_buffer"`

	LoanAmount     *int64 `gorm:"column:loan_amount" json:"loan_amount"`
	MonthlyPayment *int64 `gorm:"column:monthly_payment" json:"monthly_payment"`
	TotalInterest  *int64 `gorm:"column:total_interest" json:"total_interest"`
	OriginationFee *int64 `gorm:"column:origination_fee" json:"origination_fee"`
	LoanServiceFee *int64 `gorm:"column:loan_service_fee" json:"loan_service_fee"`

	// Rental metrics supplied by the caller, not computed here.
	CapRate    *float64 `gorm:"column:cap_rate" json:"cap_rate"`
	CashOnCash *float64 `gorm:"column:cash_on_cash" json:"cash_on_cash"`

	HoldingMonths int            `gorm:"column:holding_months;not null" json:"holding_months"`
	Comparables   datatypes.JSON `gorm:"column:comparables;not null" json:"comparables"`
	CreatedAt     time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (Evaluation) TableName() string {
	return "Evaluations"
}

// BeforeCreate sets evaluation_id if not already set.
func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.EvaluationID == uuid.Nil {
		e.EvaluationID = uuid.New()
	}
	return nil
}
