/*
Package strategy implements the six investment-strategy analyzers.

PURPOSE:
  Each analyzer is a pure function from an assumption set to a
  strategy-specific metric set, built by composing the engine's
  amortization and operating-metrics calculators and layering the
  strategy's own rules on top: the 70% rule for wholesale, refinance
  at ARV for BRRRR, nightly-rate-times-occupancy revenue for STR, and
  so on.

  The verdict runner evaluates all six, degrades gracefully when one
  cannot compute (missing extension inputs), and ranks the survivors
  by score.

KEY CONCEPTS IN THIS FILE (types.go):
  - Result: The common envelope every analyzer returns
  - Insight: A benchmark-driven strength or concern
  - GradeForScore: Score-to-letter mapping shared by all analyzers

SEE ALSO:
  - ltr.go, str.go, brrrr.go, flip.go, househack.go, wholesale.go
  - verdict.go: Six-way ranking
  - engine: The calculators these compose
*/
package strategy

import (
	"github.com/shopspring/decimal"
	"github.com/warp/deal-engine/engine"
)

// =============================================================================
// INSIGHTS
// =============================================================================

// InsightKind separates strengths from concerns.
type InsightKind string

const (
	InsightStrength InsightKind = "strength"
	InsightConcern  InsightKind = "concern"
)

// Insight is one benchmark-driven observation about a deal.
type Insight struct {
	Kind InsightKind `json:"kind"`
	Text string      `json:"text"`
}

func strength(text string) Insight { return Insight{Kind: InsightStrength, Text: text} }
func concern(text string) Insight  { return Insight{Kind: InsightConcern, Text: text} }

// =============================================================================
// RESULT ENVELOPE
// =============================================================================

// Result is the common envelope returned by every analyzer. Exactly
// one strategy-specific block is populated; Operating and Loan are nil
// for strategies without ongoing operations (flip, wholesale).
type Result struct {
	Strategy engine.Strategy `json:"strategy"`
	Score    int             `json:"score"`
	Grade    engine.Grade    `json:"grade"`
	Insights []Insight       `json:"insights"`

	Operating *engine.OperatingMetrics   `json:"operating,omitempty"`
	Loan      *engine.AmortizationResult `json:"loan,omitempty"`

	STR       *STRMetrics       `json:"str,omitempty"`
	BRRRR     *BRRRRMetrics     `json:"brrrr,omitempty"`
	Flip      *FlipMetrics      `json:"flip,omitempty"`
	HouseHack *HouseHackMetrics `json:"house_hack,omitempty"`
	Wholesale *WholesaleMetrics `json:"wholesale,omitempty"`
}

// GradeForScore maps a 0-100 strategy score to a letter grade.
func GradeForScore(score int) engine.Grade {
	switch {
	case score >= 85:
		return engine.GradeAPlus
	case score >= 75:
		return engine.GradeA
	case score >= 60:
		return engine.GradeB
	case score >= 45:
		return engine.GradeC
	case score >= 30:
		return engine.GradeD
	default:
		return engine.GradeF
	}
}

// clampScore bounds a score to [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// =============================================================================
// STRATEGY-SPECIFIC METRIC BLOCKS
// =============================================================================

// STRMetrics carries short-term-rental specifics.
type STRMetrics struct {
	MonthlyRevenue       decimal.Decimal `json:"monthly_revenue"`
	OccupancyRate        engine.Fraction `json:"occupancy_rate"`
	TurnoversPerMonth    float64         `json:"turnovers_per_month"`
	MonthlyPlatformFees  decimal.Decimal `json:"monthly_platform_fees"`
	MonthlyCleaningCosts decimal.Decimal `json:"monthly_cleaning_costs"`
	MonthlySupplies      decimal.Decimal `json:"monthly_supplies"`
}

// BRRRRMetrics carries buy-rehab-rent-refinance specifics.
type BRRRRMetrics struct {
	AllInCost        decimal.Decimal `json:"all_in_cost"`
	HoldingCosts     decimal.Decimal `json:"holding_costs"`
	RefinanceAmount  decimal.Decimal `json:"refinance_amount"`
	CashLeftInDeal   decimal.Decimal `json:"cash_left_in_deal"` // negative means cash-out
	PostRefiPayment  decimal.Decimal `json:"post_refi_payment"`
	PostRefiCashFlow decimal.Decimal `json:"post_refi_cash_flow"` // annual
	CashOnCash       engine.Ratio    `json:"cash_on_cash"`        // on cash left in deal
}

// FlipMetrics carries fix-and-flip specifics.
type FlipMetrics struct {
	TotalHoldingCosts decimal.Decimal `json:"total_holding_costs"`
	SellingCosts      decimal.Decimal `json:"selling_costs"`
	TotalProjectCost  decimal.Decimal `json:"total_project_cost"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	ROI               engine.Ratio    `json:"roi"`
	AnnualizedROI     engine.Ratio    `json:"annualized_roi"`
}

// HouseHackMetrics carries owner-occupied specifics.
type HouseHackMetrics struct {
	RentalIncome         decimal.Decimal `json:"rental_income"` // monthly, rented units only
	OwnerRentSavings     decimal.Decimal `json:"owner_rent_savings"`
	EffectiveHousingCost decimal.Decimal `json:"effective_housing_cost"` // monthly out-of-pocket
	LivesForFree         bool            `json:"lives_for_free"`
}

// WholesaleMetrics carries assignment-contract specifics.
type WholesaleMetrics struct {
	MAO                     decimal.Decimal `json:"mao"`
	MeetsSeventyPercentRule bool            `json:"meets_seventy_percent_rule"`
	AssignmentFee           decimal.Decimal `json:"assignment_fee"`
	CashAtRisk              decimal.Decimal `json:"cash_at_risk"`
	NetProfit               decimal.Decimal `json:"net_profit"`
	ROI                     engine.Ratio    `json:"roi"`
}

// =============================================================================
// DISPATCH
// =============================================================================

// Analyze runs the analyzer for the named strategy.
func Analyze(a engine.Assumptions, s engine.Strategy) (*Result, error) {
	switch s {
	case engine.StrategyLongTermRental:
		return AnalyzeLongTermRental(a)
	case engine.StrategyShortTermRental:
		return AnalyzeShortTermRental(a)
	case engine.StrategyBRRRR:
		return AnalyzeBRRRR(a)
	case engine.StrategyFlip:
		return AnalyzeFlip(a)
	case engine.StrategyHouseHack:
		return AnalyzeHouseHack(a)
	case engine.StrategyWholesale:
		return AnalyzeWholesale(a)
	default:
		return nil, engine.ErrStrategyNotSupported
	}
}
