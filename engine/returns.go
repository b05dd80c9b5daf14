/*
returns.go - Investment return aggregation (IRR, MIRR, multiples)

PURPOSE:
  Computes time-value return metrics from an annual cash-flow series:
  [C_0, C_1, ..., C_n] where C_0 is the initial cash outflow (negative)
  and C_n includes terminal sale proceeds.

IRR SOLVER:
  Newton-Raphson from a 10% seed with a bisection fallback. Both are
  bounded: 100 iterations, 1e-7 convergence tolerance, and a rate
  search range of [-0.99, 10]. A series with no sign change inside the
  range has no IRR - that is a typed absent result (invalid Ratio),
  never an error. Callers must treat "no IRR" as a normal, displayable
  state.

SEE ALSO:
  - projection.go: Builds the series this consumes
  - dealscore.go: The other bounded root-finder (breakeven price)
*/
package engine

import "math"

// Solver bounds. Both root-finders in the engine terminate
// unconditionally: hard iteration caps, bounded search ranges.
const (
	irrMaxIterations = 100
	irrTolerance     = 1e-7
	irrSearchMin     = -0.99
	irrSearchMax     = 10.0

	// DefaultReinvestmentRate is the assumed rate at which interim
	// distributions compound when computing MIRR.
	DefaultReinvestmentRate Fraction = 0.05
)

// InvestmentReturns aggregates the return metrics for one series.
type InvestmentReturns struct {
	IRR            Ratio `json:"irr"`
	MIRR           Ratio `json:"mirr"`
	EquityMultiple Ratio `json:"equity_multiple"`
	PaybackMonths  Ratio `json:"payback_months"`
	CAGR           Ratio `json:"cagr"`
}

// ComputeReturns derives all return metrics from an annual cash-flow
// series. financeRate discounts negative flows in MIRR (typically the
// note rate); reinvestRate compounds positive flows.
func ComputeReturns(flows []float64, financeRate, reinvestRate Fraction) *InvestmentReturns {
	return &InvestmentReturns{
		IRR:            IRR(flows),
		MIRR:           MIRR(flows, financeRate, reinvestRate),
		EquityMultiple: EquityMultiple(flows),
		PaybackMonths:  PaybackMonths(flows),
		CAGR:           CAGR(flows),
	}
}

// =============================================================================
// NPV / IRR
// =============================================================================

// NPV discounts the series at the given rate.
func NPV(rate float64, flows []float64) float64 {
	total := 0.0
	for t, c := range flows {
		total += c / math.Pow(1+rate, float64(t))
	}
	return total
}

// IRR solves NPV(rate) == 0 within [-0.99, 10]. Returns an invalid
// Ratio when the series has no root in range (for example, all flows
// the same sign) or the solver does not converge.
func IRR(flows []float64) Ratio {
	if len(flows) < 2 || !hasSignChange(flows) {
		return InvalidRatio()
	}

	// Newton-Raphson first: fast when it works.
	rate := 0.1
	for i := 0; i < irrMaxIterations; i++ {
		v := NPV(rate, flows)
		if math.Abs(v) < irrTolerance {
			if rate > irrSearchMin && rate < irrSearchMax {
				return NewRatio(rate)
			}
			break
		}
		d := npvDerivative(rate, flows)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		next := rate - v/d
		if next <= irrSearchMin || next >= irrSearchMax || math.IsNaN(next) {
			break
		}
		rate = next
	}

	return irrBisect(flows)
}

// irrBisect scans the search range for an NPV sign change and bisects
// the bracketing interval.
func irrBisect(flows []float64) Ratio {
	const gridSteps = 200
	step := (irrSearchMax - irrSearchMin) / gridSteps

	lo := irrSearchMin
	loV := NPV(lo, flows)
	hi := lo
	found := false
	for i := 1; i <= gridSteps; i++ {
		hi = irrSearchMin + step*float64(i)
		hiV := NPV(hi, flows)
		if loV == 0 {
			return NewRatio(lo)
		}
		if loV*hiV < 0 {
			found = true
			break
		}
		lo, loV = hi, hiV
	}
	if !found {
		return InvalidRatio()
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		v := NPV(mid, flows)
		if math.Abs(v) < irrTolerance || (hi-lo)/2 < irrTolerance {
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

func npvDerivative(rate float64, flows []float64) float64 {
	total := 0.0
	for t := 1; t < len(flows); t++ {
		total -= float64(t) * flows[t] / math.Pow(1+rate, float64(t+1))
	}
	return total
}

func hasSignChange(flows []float64) bool {
	hasNeg, hasPos := false, false
	for _, c := range flows {
		if c < 0 {
			hasNeg = true
		}
		if c > 0 {
			hasPos = true
		}
	}
	return hasNeg && hasPos
}

// =============================================================================
// MIRR
// =============================================================================

// MIRR compounds positive flows forward at reinvestRate and discounts
// negative flows back at financeRate, then annualizes the combined
// multiple. Invalid when the series lacks both inflows and outflows.
func MIRR(flows []float64, financeRate, reinvestRate Fraction) Ratio {
	n := len(flows) - 1
	if n < 1 {
		return InvalidRatio()
	}

	fv := 0.0 // future value of inflows at t=n
	pv := 0.0 // present value of outflows at t=0
	for t, c := range flows {
		if c > 0 {
			fv += c * math.Pow(1+reinvestRate.Float(), float64(n-t))
		} else if c < 0 {
			pv += c / math.Pow(1+financeRate.Float(), float64(t))
		}
	}
	if fv == 0 || pv == 0 {
		return InvalidRatio()
	}
	return NewRatio(math.Pow(fv/-pv, 1/float64(n)) - 1)
}

// =============================================================================
// MULTIPLES AND PAYBACK
// =============================================================================

// EquityMultiple is total distributions over initial investment.
func EquityMultiple(flows []float64) Ratio {
	if len(flows) < 2 || flows[0] >= 0 {
		return InvalidRatio()
	}
	distributions := 0.0
	for _, c := range flows[1:] {
		if c > 0 {
			distributions += c
		}
	}
	return SafeRatio(distributions, -flows[0])
}

// PaybackMonths is the point at which cumulative cash flow first turns
// non-negative, linearly interpolated within the crossing year and
// expressed in months. Invalid when the investment never pays back
// within the series.
func PaybackMonths(flows []float64) Ratio {
	if len(flows) == 0 {
		return InvalidRatio()
	}
	cum := flows[0]
	if cum >= 0 {
		return NewRatio(0)
	}
	for t := 1; t < len(flows); t++ {
		prev := cum
		cum += flows[t]
		if cum >= 0 {
			// prev < 0 <= cum, so flows[t] > 0 here.
			fraction := -prev / flows[t]
			return NewRatio((float64(t-1) + fraction) * 12)
		}
	}
	return InvalidRatio()
}

// CAGR annualizes the equity multiple over the series length.
func CAGR(flows []float64) Ratio {
	n := len(flows) - 1
	if n < 1 {
		return InvalidRatio()
	}
	multiple := EquityMultiple(flows)
	if !multiple.Valid || multiple.Value <= 0 {
		return InvalidRatio()
	}
	return NewRatio(math.Pow(multiple.Value, 1/float64(n)) - 1)
}
