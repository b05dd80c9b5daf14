/*
benchmarks.go - Screening thresholds and operating score

PURPOSE:
  One place for the benchmark thresholds rental metrics are screened
  against, and the neutral-start operating score built from them. The
  strategy analyzers layer their own strategy-specific rules on top.
*/
package engine

// Benchmark thresholds for rental screening.
const (
	BenchmarkStrongCashOnCash Fraction = 0.12
	BenchmarkGoodCashOnCash   Fraction = 0.08
	BenchmarkFairCashOnCash   Fraction = 0.05
	BenchmarkGoodCapRate      Fraction = 0.06
	BenchmarkFairCapRate      Fraction = 0.05
	BenchmarkHealthyDSCR               = 1.25
	BenchmarkMinimumDSCR               = 1.0
	BenchmarkMonthlyCashFlow           = 200.0 // dollars
)

// OperatingScore maps an operating snapshot to a 0-100 score. It
// starts from a neutral 50 and moves on each benchmark. Undefined
// ratios simply don't move the score.
func OperatingScore(m *OperatingMetrics) int {
	score := 50

	if m.CashOnCash.Valid {
		switch coc := m.CashOnCash.Value; {
		case coc >= BenchmarkStrongCashOnCash.Float():
			score += 20
		case coc >= BenchmarkGoodCashOnCash.Float():
			score += 12
		case coc >= BenchmarkFairCashOnCash.Float():
			score += 5
		case coc < 0:
			score -= 20
		}
	}

	monthly, _ := m.MonthlyCashFlow.Float64()
	if monthly >= BenchmarkMonthlyCashFlow {
		score += 10
	} else if monthly < 0 {
		score -= 10
	}

	if m.DSCR.Valid {
		if m.DSCR.Value >= BenchmarkHealthyDSCR {
			score += 10
		} else if m.DSCR.Value < BenchmarkMinimumDSCR {
			score -= 10
		}
	}

	if m.CapRate.Valid {
		if m.CapRate.Value >= BenchmarkGoodCapRate.Float() {
			score += 10
		} else if m.CapRate.Value >= BenchmarkFairCapRate.Float() {
			score += 5
		}
	}

	if m.OnePercentRule.Valid && m.OnePercentRule.Value >= 0.01 {
		score += 10
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
