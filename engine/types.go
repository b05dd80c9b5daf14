/*
Package engine provides the core deal-analysis calculation engine.

PURPOSE:
  This package contains the pure numeric transforms that power every
  analysis: loan amortization, operating metrics, multi-year projections,
  depreciation and tax effects, exit analysis, investment returns, deal
  scoring, and sensitivity sweeps. Every function is deterministic and
  side-effect free: same inputs, same outputs, no I/O, no shared state.

KEY CONCEPTS IN THIS FILE (types.go):
  - Fraction: A rate stored canonically in [0,1] (5% vacancy = 0.05)
  - Ratio: A nullable ratio - invalid when the denominator is zero
  - Assumptions: The complete set of levers for one property analysis
  - DefaultAssumptions: The single source of fallback values

DESIGN PRINCIPLES:
  1. Immutability: Inputs are never mutated; every calculation returns
     a fresh result object.
  2. Precision: Currency uses decimal.Decimal to avoid floating-point
     drift in schedules and cash flows. Rates and ratios are float64.
  3. One unit convention: All rates are fractions internally. Percent
     values from the outside world are converted exactly once, at the
     factory boundary - never inside the engine.
  4. Degenerate inputs are explicit: A ratio with a zero denominator is
     an invalid Ratio, never 0, NaN, or Inf.

USAGE:
  a := engine.DefaultAssumptions
  a.PurchasePrice = engine.Dollars(300000)
  a.MonthlyRent = engine.Dollars(2500)

  loan, _ := engine.Amortize(engine.LoanTermsFor(a))
  metrics, _ := engine.ComputeOperatingMetrics(a, loan.MonthlyPayment)

SEE ALSO:
  - amortization.go: Loan schedule generation
  - metrics.go: Single-year operating metrics
  - projection.go: Multi-year hold projections
  - errors.go: Error taxonomy
*/
package engine

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FRACTION - Canonical rate representation
// =============================================================================

// Fraction is a rate in [0,1]. A 5% vacancy rate is Fraction(0.05).
//
// The external API contract uses [0,100] percentages; factory converts
// them to Fraction exactly once at the boundary. Engine code never sees
// a percent value.
type Fraction float64

// FromPercent converts a [0,100] percent value to a Fraction.
func FromPercent(p float64) Fraction { return Fraction(p / 100) }

// Percent returns the [0,100] representation for display.
func (f Fraction) Percent() float64 { return float64(f) * 100 }

// Float returns the raw fractional value.
func (f Fraction) Float() float64 { return float64(f) }

// Clamp01 limits the fraction to [0,1] for display purposes.
func (f Fraction) Clamp01() Fraction {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// =============================================================================
// MONEY HELPERS - decimal.Decimal conveniences
// =============================================================================

// Dollars builds a decimal currency amount from a float.
func Dollars(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// RoundCents rounds a currency amount to 2 decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// MustParseDecimal parses a decimal string, returning zero on failure.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// MulFraction scales a currency amount by a fractional rate.
func MulFraction(d decimal.Decimal, f Fraction) decimal.Decimal {
	return d.Mul(decimal.NewFromFloat(float64(f)))
}

// twelve is the monthly/annual conversion constant.
var twelve = decimal.NewFromInt(12)

// =============================================================================
// RATIO - Nullable derived metric
// =============================================================================

// Ratio is a derived metric that may be undefined. A cap rate on a
// zero-price deal, or a DSCR on an all-cash deal, has no meaningful
// value: it is reported as invalid and serializes to JSON null.
//
// Never substitute 0 or Inf for an undefined ratio - both read as
// real (and misleading) numbers downstream.
type Ratio struct {
	Value float64
	Valid bool
}

// NewRatio returns a valid ratio.
func NewRatio(v float64) Ratio { return Ratio{Value: v, Valid: true} }

// InvalidRatio returns the undefined ratio.
func InvalidRatio() Ratio { return Ratio{} }

// SafeRatio divides num/den, returning an invalid Ratio when the
// denominator is zero or the result is non-finite.
func SafeRatio(num, den float64) Ratio {
	if den == 0 {
		return InvalidRatio()
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return InvalidRatio()
	}
	return NewRatio(v)
}

// MarshalJSON emits the value, or null when undefined.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number or null.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = InvalidRatio()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = NewRatio(v)
	return nil
}

// =============================================================================
// ENUMS
// =============================================================================

// Strategy identifies an investment strategy.
type Strategy string

const (
	StrategyLongTermRental  Strategy = "ltr"
	StrategyShortTermRental Strategy = "str"
	StrategyBRRRR           Strategy = "brrrr"
	StrategyFlip            Strategy = "flip"
	StrategyHouseHack       Strategy = "house_hack"
	StrategyWholesale       Strategy = "wholesale"
)

// AllStrategies lists every strategy in verdict ranking order of evaluation.
var AllStrategies = []Strategy{
	StrategyLongTermRental,
	StrategyShortTermRental,
	StrategyBRRRR,
	StrategyFlip,
	StrategyHouseHack,
	StrategyWholesale,
}

// LoanType identifies financing sources. It affects defaults (house-hack
// owner-occupied financing allows a lower down payment) but not the
// amortization math itself.
type LoanType string

const (
	LoanConventional LoanType = "conventional"
	LoanFHA          LoanType = "fha"
	LoanVA           LoanType = "va"
	LoanHardMoney    LoanType = "hard_money"
	LoanCash         LoanType = "cash"
)

// DepreciationMethod selects the depreciation schedule.
type DepreciationMethod string

const (
	DepreciationStraightLine DepreciationMethod = "straight_line"
)

// Depreciation recovery periods (years) per asset class.
const (
	ResidentialDepreciationYears = 27.5
	CommercialDepreciationYears  = 39.0
)

// =============================================================================
// ASSUMPTIONS - The complete lever set for one analysis
// =============================================================================

// Assumptions is the canonical internal assumption set. All rates are
// Fractions, all currency is decimal. Strategy extension blocks are nil
// unless that strategy is being analyzed.
type Assumptions struct {
	// Purchase terms
	PurchasePrice decimal.Decimal
	ListPrice     decimal.Decimal // asking price; zero means same as PurchasePrice
	DownPayment   Fraction        // of purchase price
	ClosingCosts  Fraction        // of purchase price
	RehabCosts    decimal.Decimal

	// Financing
	InterestRate  Fraction // annual note rate
	LoanTermYears int
	LoanType      LoanType

	// Income
	MonthlyRent decimal.Decimal
	OtherIncome decimal.Decimal // monthly (parking, laundry, storage)

	// Operating rates. Management and maintenance are percent of
	// EFFECTIVE gross income; taxes, insurance, HOA and utilities are
	// flat currency amounts.
	VacancyRate       Fraction
	ManagementRate    Fraction
	MaintenanceRate   Fraction
	AnnualPropertyTax decimal.Decimal
	AnnualInsurance   decimal.Decimal
	MonthlyHOA        decimal.Decimal
	MonthlyUtilities  decimal.Decimal

	// MonthlyOtherExpenses is a catch-all operating expense line the
	// strategy analyzers use for costs the base model has no slot for
	// (STR platform fees and cleaning, supplies).
	MonthlyOtherExpenses decimal.Decimal

	// Growth and disposition assumptions
	AppreciationRate  Fraction
	RentGrowthRate    Fraction
	ExpenseGrowthRate Fraction
	SellingCosts      Fraction // of sale price, commission + closing

	// Hold and tax profile
	HoldYears           int
	MarginalTaxRate     Fraction
	CapitalGainsTaxRate Fraction
	LandValueFraction   Fraction // of purchase price, not depreciable

	// Strategy extensions
	STR       *STRAssumptions
	BRRRR     *BRRRRAssumptions
	Flip      *FlipAssumptions
	HouseHack *HouseHackAssumptions
	Wholesale *WholesaleAssumptions
}

// STRAssumptions parameterizes short-term rental analysis.
type STRAssumptions struct {
	AverageDailyRate  decimal.Decimal
	OccupancyRate     Fraction
	CleaningFee       decimal.Decimal // owner cost per turnover
	AverageStayNights float64
	PlatformFee       Fraction // of gross revenue
	MonthlySupplies   decimal.Decimal
}

// BRRRRAssumptions parameterizes buy-rehab-rent-refinance analysis.
type BRRRRAssumptions struct {
	ARV                 decimal.Decimal
	RefinanceLTV        Fraction
	RefinanceRate       Fraction
	RefinanceTermYears  int
	HoldingPeriodMonths int
	MonthlyHoldingCosts decimal.Decimal
}

// FlipAssumptions parameterizes fix-and-flip analysis.
type FlipAssumptions struct {
	ARV                 decimal.Decimal
	HoldingPeriodMonths int
	MonthlyHoldingCosts decimal.Decimal
	SellingCosts        Fraction // of ARV
}

// HouseHackAssumptions parameterizes owner-occupied multi-unit analysis.
// Only rented units count as income; the owner's unit contributes an
// implicit savings metric (market rent the owner no longer pays).
type HouseHackAssumptions struct {
	RentedUnitRents     []decimal.Decimal // monthly rent per rented unit
	OwnerUnitMarketRent decimal.Decimal
}

// WholesaleAssumptions parameterizes assignment-contract analysis.
// AssignmentFee of zero means "derive from MAO minus contract price".
type WholesaleAssumptions struct {
	ARV            decimal.Decimal
	RepairCosts    decimal.Decimal
	EndBuyerProfit decimal.Decimal
	ContractPrice  decimal.Decimal
	AssignmentFee  decimal.Decimal
	EarnestMoney   decimal.Decimal
	MarketingCosts decimal.Decimal
	ClosingCosts   decimal.Decimal
}

// =============================================================================
// DEFAULTS - One canonical source, never re-declared at call sites
// =============================================================================

// DefaultAssumptions holds every fallback value the system uses when a
// field is absent from the external request. Consumers copy this value
// and overwrite what they know; nothing else in the codebase declares
// its own fallback constants.
var DefaultAssumptions = Assumptions{
	DownPayment:         0.20,
	ClosingCosts:        0.03,
	InterestRate:        0.07,
	LoanTermYears:       30,
	LoanType:            LoanConventional,
	VacancyRate:         0.05,
	ManagementRate:      0.08,
	MaintenanceRate:     0.05,
	AppreciationRate:    0.03,
	RentGrowthRate:      0.03,
	ExpenseGrowthRate:   0.025,
	SellingCosts:        0.06,
	HoldYears:           10,
	MarginalTaxRate:     0.24,
	CapitalGainsTaxRate: 0.15,
	LandValueFraction:   0.20,
}

// ListOrPurchasePrice returns the list price, falling back to the
// purchase price when no separate asking price is known.
func (a Assumptions) ListOrPurchasePrice() decimal.Decimal {
	if a.ListPrice.IsZero() {
		return a.PurchasePrice
	}
	return a.ListPrice
}

// LoanAmount returns the financed portion of the purchase price.
// Cash purchases finance nothing.
func (a Assumptions) LoanAmount() decimal.Decimal {
	if a.LoanType == LoanCash {
		return decimal.Zero
	}
	return a.PurchasePrice.Sub(MulFraction(a.PurchasePrice, a.DownPayment))
}

// DownPaymentAmount returns the cash down payment. Cash purchases put
// the full price down.
func (a Assumptions) DownPaymentAmount() decimal.Decimal {
	if a.LoanType == LoanCash {
		return a.PurchasePrice
	}
	return MulFraction(a.PurchasePrice, a.DownPayment)
}

// ClosingCostAmount returns closing costs in dollars.
func (a Assumptions) ClosingCostAmount() decimal.Decimal {
	return MulFraction(a.PurchasePrice, a.ClosingCosts)
}

// TotalCashInvested is down payment + closing costs + rehab: the
// denominator of cash-on-cash return.
func (a Assumptions) TotalCashInvested() decimal.Decimal {
	return a.DownPaymentAmount().Add(a.ClosingCostAmount()).Add(a.RehabCosts)
}

// LoanTermsFor derives the amortization inputs from an assumption set.
func LoanTermsFor(a Assumptions) LoanTerms {
	return LoanTerms{
		Principal:  a.LoanAmount(),
		AnnualRate: a.InterestRate,
		TermYears:  a.LoanTermYears,
	}
}
