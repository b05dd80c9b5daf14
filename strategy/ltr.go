/*
ltr.go - Long-term rental analyzer

The baseline strategy: a direct application of the operating-metrics
calculator over a conventional rental, scored against the standard
screening benchmarks.
*/
package strategy

import "github.com/warp/deal-engine/engine"

// AnalyzeLongTermRental scores a conventional buy-and-hold rental.
func AnalyzeLongTermRental(a engine.Assumptions) (*Result, error) {
	if !a.PurchasePrice.IsPositive() {
		return nil, engine.NewInvalidInput("purchase_price", "must be positive")
	}

	loan, err := engine.Amortize(engine.LoanTermsFor(a))
	if err != nil {
		return nil, err
	}
	metrics, err := engine.ComputeOperatingMetrics(a, loan.MonthlyPayment)
	if err != nil {
		return nil, err
	}

	score := engine.OperatingScore(metrics)
	return &Result{
		Strategy:  engine.StrategyLongTermRental,
		Score:     score,
		Grade:     GradeForScore(score),
		Insights:  rentalInsights(metrics),
		Operating: metrics,
		Loan:      loan,
	}, nil
}

// rentalInsights derives strengths and concerns from the operating
// snapshot. Shared by the rental-shaped strategies (LTR, STR, BRRRR,
// house-hack).
func rentalInsights(m *engine.OperatingMetrics) []Insight {
	var insights []Insight

	if m.CashOnCash.Valid {
		switch coc := m.CashOnCash.Value; {
		case coc >= engine.BenchmarkStrongCashOnCash.Float():
			insights = append(insights, strength("cash-on-cash return above 12%"))
		case coc >= engine.BenchmarkGoodCashOnCash.Float():
			insights = append(insights, strength("cash-on-cash return above 8%"))
		case coc < 0:
			insights = append(insights, concern("negative cash-on-cash return"))
		}
	}

	if m.MonthlyCashFlow.IsNegative() {
		insights = append(insights, concern("property loses money every month"))
	} else if mf, _ := m.MonthlyCashFlow.Float64(); mf >= engine.BenchmarkMonthlyCashFlow {
		insights = append(insights, strength("monthly cash flow above $200"))
	}

	if m.DSCR.Valid {
		if m.DSCR.Value < engine.BenchmarkMinimumDSCR {
			insights = append(insights, concern("income does not cover debt service"))
		} else if m.DSCR.Value >= engine.BenchmarkHealthyDSCR {
			insights = append(insights, strength("debt coverage above 1.25x"))
		}
	}

	if m.CapRate.Valid && m.CapRate.Value >= engine.BenchmarkGoodCapRate.Float() {
		insights = append(insights, strength("cap rate above 6%"))
	}

	if m.OnePercentRule.Valid && m.OnePercentRule.Value >= 0.01 {
		insights = append(insights, strength("meets the 1% rule"))
	}

	if m.BreakEvenOccupancy.Valid && m.BreakEvenOccupancy.Value > 0.9 {
		insights = append(insights, concern("break-even occupancy above 90%"))
	}

	return insights
}
