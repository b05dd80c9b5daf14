/*
verdict.go - Six-strategy ranking ("IQ Verdict")

PURPOSE:
  Runs every strategy analyzer against one assumption set and ranks
  the results by score. One strategy failing (usually for missing
  extension inputs) must not sink the rest: failures are reported with
  a reason and simply omitted from the ranking.

  The verdict also carries the overall deal score: breakeven purchase
  price, deal grade versus asking, and the seller-motivation zone
  against the income-based valuation.

SEE ALSO:
  - types.go: Analyze dispatch
  - engine/dealscore.go: Breakeven solver and grade bands
*/
package strategy

import (
	"sort"

	"github.com/warp/deal-engine/engine"
)

// SkippedStrategy records a strategy omitted from the ranking.
type SkippedStrategy struct {
	Strategy engine.Strategy `json:"strategy"`
	Reason   string          `json:"reason"`
}

// Verdict is the full six-way comparison.
type Verdict struct {
	Ranked  []*Result         `json:"ranked"` // by score, best first
	Skipped []SkippedStrategy `json:"skipped,omitempty"`

	Best engine.Strategy   `json:"best,omitempty"`
	Deal *engine.DealScore `json:"deal,omitempty"`
}

// RunVerdict evaluates all six strategies and ranks the survivors.
func RunVerdict(a engine.Assumptions) (*Verdict, error) {
	v := &Verdict{}

	for _, s := range engine.AllStrategies {
		result, err := Analyze(a, s)
		if err != nil {
			v.Skipped = append(v.Skipped, SkippedStrategy{Strategy: s, Reason: err.Error()})
			continue
		}
		v.Ranked = append(v.Ranked, result)
	}
	if len(v.Ranked) == 0 {
		return nil, engine.NewInvalidInput("assumptions", "no strategy could be analyzed")
	}

	sort.SliceStable(v.Ranked, func(i, j int) bool {
		return v.Ranked[i].Score > v.Ranked[j].Score
	})
	v.Best = v.Ranked[0].Strategy

	v.Deal = overallDealScore(a)
	return v, nil
}

// overallDealScore grades the asking price against the breakeven
// price and the income-based valuation. A deal score is advisory: if
// the rental pipeline can't produce one (zero list price), the
// verdict simply omits it.
func overallDealScore(a engine.Assumptions) *engine.DealScore {
	list := a.ListOrPurchasePrice()
	if !list.IsPositive() {
		return nil
	}
	listF, _ := list.Float64()
	buyF, _ := a.PurchasePrice.Float64()

	breakeven := engine.SolveBreakevenPrice(a)

	incomeValue := 0.0
	loan, err := engine.Amortize(engine.LoanTermsFor(a))
	if err == nil {
		if m, err := engine.ComputeOperatingMetrics(a, loan.MonthlyPayment); err == nil {
			if iv := engine.IncomeValue(m.NOI, engine.BenchmarkGoodCapRate); iv.Valid {
				incomeValue = iv.Value
			}
		}
	}

	score, err := engine.ScoreDeal(listF, buyF, incomeValue, breakeven)
	if err != nil {
		return nil
	}
	return score
}
