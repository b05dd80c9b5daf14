/*
sensitivity.go - Single-variable sensitivity sweeps

PURPOSE:
  Perturbs one input variable across a range, re-runs the pipeline at
  each sample, and reports the response curve: cash flow, cash-on-cash
  and score per sample, plus the interpolated break-even value where
  cash flow crosses zero between adjacent samples.

  The pipeline is treated as a black box and fully re-evaluated per
  sample. Sample counts are small (typically 7), so correctness wins
  over cleverness; there is no incremental recomputation.

UNITS:
  Sample values are in the variable's canonical engine units: dollars
  for prices and rents, fractions for rates (a 4%-9% interest sweep is
  [0.04, 0.09]). The API boundary converts percent inputs.

SEE ALSO:
  - metrics.go: The pipeline being swept
  - dealscore.go: The price-axis root-finder (different variable, same
    bounded-search discipline)
*/
package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultSensitivitySamples is used when the caller passes 0.
const DefaultSensitivitySamples = 7

// SensitivityVariable identifies which input is being swept.
type SensitivityVariable string

const (
	VarPurchasePrice SensitivityVariable = "purchase_price"
	VarInterestRate  SensitivityVariable = "interest_rate"
	VarMonthlyRent   SensitivityVariable = "monthly_rent"
	VarVacancyRate   SensitivityVariable = "vacancy_rate"
	VarDownPayment   SensitivityVariable = "down_payment"
)

// SensitivityPoint is one sample of the response curve.
type SensitivityPoint struct {
	Value      float64 `json:"value"`
	CashFlow   float64 `json:"cash_flow"` // annual
	CashOnCash Ratio   `json:"cash_on_cash"`
	Score      int     `json:"score"`
	IsCurrent  bool    `json:"is_current"`
}

// SensitivityResult is the full sweep output.
type SensitivityResult struct {
	Variable    SensitivityVariable `json:"variable"`
	Points      []SensitivityPoint  `json:"points"`
	CashFlowMin float64             `json:"cash_flow_min"`
	CashFlowMax float64             `json:"cash_flow_max"`

	// BreakEvenValue is the variable value where cash flow crosses
	// zero, linearly interpolated between the bracketing samples.
	// Invalid when cash flow keeps one sign across the whole range.
	BreakEvenValue Ratio `json:"break_even_value"`
}

// RunSensitivity sweeps one variable across [min,max] with the given
// sample count and re-runs the rental pipeline at each point.
func RunSensitivity(a Assumptions, variable SensitivityVariable, min, max float64, samples int) (*SensitivityResult, error) {
	if samples == 0 {
		samples = DefaultSensitivitySamples
	}
	if samples < 2 {
		return nil, NewInvalidInput("samples", "need at least 2 samples")
	}
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, NewInvalidInput("range", "bounds must be finite")
	}
	if min >= max {
		return nil, NewInvalidInput("range", "min must be below max")
	}

	current, err := currentVariableValue(a, variable)
	if err != nil {
		return nil, err
	}

	step := (max - min) / float64(samples-1)
	result := &SensitivityResult{Variable: variable}

	// Mark the sample nearest the current value.
	currentIdx := -1
	bestDist := math.Inf(1)

	for i := 0; i < samples; i++ {
		value := min + step*float64(i)
		trial, err := applyVariable(a, variable, value)
		if err != nil {
			return nil, err
		}

		loan, err := Amortize(LoanTermsFor(trial))
		if err != nil {
			return nil, err
		}
		m, err := ComputeOperatingMetrics(trial, loan.MonthlyPayment)
		if err != nil {
			return nil, err
		}

		cf, _ := m.AnnualCashFlow.Float64()
		result.Points = append(result.Points, SensitivityPoint{
			Value:      value,
			CashFlow:   cf,
			CashOnCash: m.CashOnCash,
			Score:      OperatingScore(m),
		})

		if d := math.Abs(value - current); d < bestDist {
			bestDist = d
			currentIdx = i
		}
	}
	if currentIdx >= 0 {
		result.Points[currentIdx].IsCurrent = true
	}

	result.CashFlowMin = result.Points[0].CashFlow
	result.CashFlowMax = result.Points[0].CashFlow
	for _, p := range result.Points[1:] {
		result.CashFlowMin = math.Min(result.CashFlowMin, p.CashFlow)
		result.CashFlowMax = math.Max(result.CashFlowMax, p.CashFlow)
	}

	result.BreakEvenValue = interpolateBreakEven(result.Points)
	return result, nil
}

// interpolateBreakEven finds the first adjacent pair whose cash flows
// bracket zero and interpolates the crossing linearly.
func interpolateBreakEven(points []SensitivityPoint) Ratio {
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if a.CashFlow == 0 {
			return NewRatio(a.Value)
		}
		if a.CashFlow*b.CashFlow < 0 {
			t := -a.CashFlow / (b.CashFlow - a.CashFlow)
			return NewRatio(a.Value + t*(b.Value-a.Value))
		}
	}
	if n := len(points); n > 0 && points[n-1].CashFlow == 0 {
		return NewRatio(points[n-1].Value)
	}
	return InvalidRatio()
}

// applyVariable returns a copy of the assumptions with one variable
// replaced by the sample value.
func applyVariable(a Assumptions, v SensitivityVariable, value float64) (Assumptions, error) {
	trial := a
	switch v {
	case VarPurchasePrice:
		trial.PurchasePrice = decimal.NewFromFloat(value)
	case VarInterestRate:
		trial.InterestRate = Fraction(value)
	case VarMonthlyRent:
		trial.MonthlyRent = decimal.NewFromFloat(value)
	case VarVacancyRate:
		trial.VacancyRate = Fraction(value)
	case VarDownPayment:
		trial.DownPayment = Fraction(value)
	default:
		return trial, NewInvalidInput("variable", "unknown sensitivity variable")
	}
	return trial, nil
}

func currentVariableValue(a Assumptions, v SensitivityVariable) (float64, error) {
	switch v {
	case VarPurchasePrice:
		f, _ := a.PurchasePrice.Float64()
		return f, nil
	case VarInterestRate:
		return a.InterestRate.Float(), nil
	case VarMonthlyRent:
		f, _ := a.MonthlyRent.Float64()
		return f, nil
	case VarVacancyRate:
		return a.VacancyRate.Float(), nil
	case VarDownPayment:
		return a.DownPayment.Float(), nil
	default:
		return 0, NewInvalidInput("variable", "unknown sensitivity variable")
	}
}
