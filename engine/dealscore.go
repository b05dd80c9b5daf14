/*
dealscore.go - Deal scoring, grading, and breakeven-price solving

PURPOSE:
  Maps the gap between asking price and what the numbers support into
  a 0-100 score, a letter grade, and a seller-motivation read. Also
  solves for the breakeven purchase price: the price at which annual
  cash flow is exactly zero, holding every other assumption fixed.

GRADE BANDS (fixed, by discount percent off list):
  >= 20  A+      >= 5   C
  >= 15  A       >= 0   D
  >= 10  B       <  0   F

  score = clamp(round(discountPercent * 4), 0, 100)

DEAL ZONES (decision table over percent below income value):
  buy above income value  -> Loss Zone   (Low motivation needed)
  <  2%                   -> High Risk   (Low)
  <  5%                   -> Negotiate   (Moderate)
  < 12%                   -> Profit Zone (High)
  >= 12%                  -> Deep Value  (High)

  These are literal thresholds, not a formula.

BREAKEVEN SOLVER:
  Cash flow is monotonically decreasing in purchase price (a higher
  price raises both down payment and loan size), so bisection over
  [0.1 x list, 2 x list] converges. $1 tolerance, 100-iteration cap.
  No sign change in range means no breakeven exists there - a typed
  absent result, not an error (an all-cash deal that cash-flows at
  every price in range is a legitimate state).

SEE ALSO:
  - metrics.go: The cash-flow function being solved
  - strategy/verdict.go: Ranks per-strategy scores
*/
package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// Breakeven solver bounds.
const (
	breakevenMaxIterations = 100
	breakevenToleranceUSD  = 1.0
	breakevenSearchLow     = 0.1 // x list price
	breakevenSearchHigh    = 2.0 // x list price
)

// =============================================================================
// GRADES AND SCORES
// =============================================================================

// Grade is the letter grade for a deal.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// DealGrade maps a discount percent (off list price) to a letter grade.
func DealGrade(discountPercent float64) Grade {
	switch {
	case discountPercent >= 20:
		return GradeAPlus
	case discountPercent >= 15:
		return GradeA
	case discountPercent >= 10:
		return GradeB
	case discountPercent >= 5:
		return GradeC
	case discountPercent >= 0:
		return GradeD
	default:
		return GradeF
	}
}

// DealScoreValue maps a discount percent to the 0-100 score.
func DealScoreValue(discountPercent float64) int {
	score := int(math.Round(discountPercent * 4))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// =============================================================================
// DEAL ZONES - Seller motivation decision table
// =============================================================================

// MotivationLevel describes how motivated the seller must be for the
// buy price to be achievable.
type MotivationLevel string

const (
	MotivationLow      MotivationLevel = "Low"
	MotivationModerate MotivationLevel = "Moderate"
	MotivationHigh     MotivationLevel = "High"
)

// DealZone is one row of the zone decision table.
type DealZone struct {
	Name             string          `json:"name"`
	SellerMotivation MotivationLevel `json:"seller_motivation"`
}

// ClassifyDealZone buckets the buy price against the income value.
// incomeValue must be positive; a non-positive income value yields the
// Loss Zone (there is no income basis to buy below).
func ClassifyDealZone(incomeValue, buyPrice float64) DealZone {
	if incomeValue <= 0 || buyPrice > incomeValue {
		return DealZone{Name: "Loss Zone", SellerMotivation: MotivationLow}
	}
	pctBelow := (incomeValue - buyPrice) / incomeValue * 100
	switch {
	case pctBelow < 2:
		return DealZone{Name: "High Risk", SellerMotivation: MotivationLow}
	case pctBelow < 5:
		return DealZone{Name: "Negotiate", SellerMotivation: MotivationModerate}
	case pctBelow < 12:
		return DealZone{Name: "Profit Zone", SellerMotivation: MotivationHigh}
	default:
		return DealZone{Name: "Deep Value", SellerMotivation: MotivationHigh}
	}
}

// IncomeValue capitalizes NOI at a benchmark cap rate to produce the
// alternate, income-based valuation. Invalid when either input is zero.
func IncomeValue(noi decimal.Decimal, benchmarkCapRate Fraction) Ratio {
	noiF, _ := noi.Float64()
	return SafeRatio(noiF, benchmarkCapRate.Float())
}

// =============================================================================
// DEAL SCORE
// =============================================================================

// DealScore is the composite opportunity read for one strategy. Zone
// is absent when no income-based valuation exists to compare against.
type DealScore struct {
	Score           int       `json:"score"`
	Grade           Grade     `json:"grade"`
	DiscountPercent float64   `json:"discount_percent"`
	ListPrice       float64   `json:"list_price"`
	BuyPrice        float64   `json:"buy_price"`
	BreakevenPrice  Ratio     `json:"breakeven_price"`
	Zone            *DealZone `json:"zone,omitempty"`
	Strengths       []string  `json:"strengths"`
	Concerns        []string  `json:"concerns"`
}

// ScoreDeal grades a candidate buy price against the list price and
// the income-based valuation. breakeven may be invalid (no breakeven
// in the search range).
func ScoreDeal(listPrice, buyPrice, incomeValue float64, breakeven Ratio) (*DealScore, error) {
	if listPrice <= 0 {
		return nil, NewInvalidInput("list_price", "must be positive")
	}
	if buyPrice < 0 {
		return nil, NewInvalidInput("buy_price", "must not be negative")
	}

	discount := (listPrice - buyPrice) / listPrice * 100
	score := &DealScore{
		Score:           DealScoreValue(discount),
		Grade:           DealGrade(discount),
		DiscountPercent: discount,
		ListPrice:       listPrice,
		BuyPrice:        buyPrice,
		BreakevenPrice:  breakeven,
	}

	if discount >= 10 {
		score.Strengths = append(score.Strengths, "buy price is well below asking")
	} else if discount < 0 {
		score.Concerns = append(score.Concerns, "buy price is above asking")
	}
	if breakeven.Valid {
		if buyPrice <= breakeven.Value {
			score.Strengths = append(score.Strengths, "cash flows at the buy price")
		} else {
			score.Concerns = append(score.Concerns, "negative cash flow at the buy price")
		}
	}

	// No income basis, no zone: a missing valuation must not read as a
	// Loss Zone verdict.
	if incomeValue > 0 {
		zone := ClassifyDealZone(incomeValue, buyPrice)
		score.Zone = &zone
		switch zone.Name {
		case "Loss Zone":
			score.Concerns = append(score.Concerns, "price exceeds the income-based value")
		case "Deep Value", "Profit Zone":
			score.Strengths = append(score.Strengths, "priced below the income-based value")
		}
	}

	return score, nil
}

// =============================================================================
// BREAKEVEN PRICE SOLVER
// =============================================================================

// SolveBreakevenPrice finds the purchase price at which annual cash
// flow is zero, holding every other assumption fixed. Down payment and
// loan amount both scale with price. Returns an invalid Ratio when no
// breakeven exists within [0.1 x list, 2 x list].
func SolveBreakevenPrice(a Assumptions) Ratio {
	list := a.ListOrPurchasePrice()
	if !list.IsPositive() {
		return InvalidRatio()
	}
	listF, _ := list.Float64()

	lo := listF * breakevenSearchLow
	hi := listF * breakevenSearchHigh

	loV, ok := cashFlowAtPrice(a, lo)
	if !ok {
		return InvalidRatio()
	}
	hiV, ok := cashFlowAtPrice(a, hi)
	if !ok {
		return InvalidRatio()
	}
	if loV*hiV > 0 {
		// Cash flow never crosses zero in range.
		return InvalidRatio()
	}

	for i := 0; i < breakevenMaxIterations; i++ {
		mid := (lo + hi) / 2
		v, ok := cashFlowAtPrice(a, mid)
		if !ok {
			return InvalidRatio()
		}
		if math.Abs(v) < breakevenToleranceUSD || (hi-lo)/2 < breakevenToleranceUSD {
			return NewRatio(mid)
		}
		if loV*v < 0 {
			hi = mid
		} else {
			lo, loV = mid, v
		}
	}
	return NewRatio((lo + hi) / 2)
}

// cashFlowAtPrice re-runs amortization and operating metrics with the
// purchase price replaced. The assumption set is copied, never mutated.
func cashFlowAtPrice(a Assumptions, price float64) (float64, bool) {
	trial := a
	trial.PurchasePrice = decimal.NewFromFloat(price)

	loan, err := Amortize(LoanTermsFor(trial))
	if err != nil {
		return 0, false
	}
	m, err := ComputeOperatingMetrics(trial, loan.MonthlyPayment)
	if err != nil {
		return 0, false
	}
	cf, _ := m.AnnualCashFlow.Float64()
	return cf, true
}
