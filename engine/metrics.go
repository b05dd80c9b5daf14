/*
metrics.go - Single-year operating metrics

PURPOSE:
  Converts gross income and expense assumptions into the one-year
  snapshot every strategy reads: NOI, debt service, cash flow, and the
  screening ratios (cap rate, cash-on-cash, DSCR, GRM, 1%-rule,
  break-even occupancy).

EXPENSE BASIS:
  Management and maintenance are computed as a percent of EFFECTIVE
  gross income (post-vacancy). This basis is applied uniformly across
  every strategy and worksheet - there is exactly one convention.
  Taxes, insurance, HOA and utilities are flat amounts.

CORE IDENTITIES:
  NOI            = effectiveGrossAnnualIncome - annualOperatingExpenses
  annualCashFlow = NOI - annualDebtService

  Debt service is never an operating expense; it enters only at the
  cash-flow line.

DEGENERATE INPUTS:
  Zero income   -> cap rate, cash-on-cash and GRM are invalid (null),
                   but cash flow still computes as a pure cost.
  Zero price    -> cap rate, GRM and the 1%-rule are invalid.
  All-cash deal -> DSCR is invalid (no debt service to cover).

SEE ALSO:
  - amortization.go: Source of the debt-service input
  - projection.go: Rolls this snapshot forward with growth
  - strategy/: Builds per-strategy metrics on top of this
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// ExpenseBreakdown itemizes monthly operating expenses. Vacancy is not
// listed here: it reduces income rather than adding expense.
type ExpenseBreakdown struct {
	Management  decimal.Decimal `json:"management"`
	Maintenance decimal.Decimal `json:"maintenance"`
	PropertyTax decimal.Decimal `json:"property_tax"`
	Insurance   decimal.Decimal `json:"insurance"`
	HOA         decimal.Decimal `json:"hoa"`
	Utilities   decimal.Decimal `json:"utilities"`
	Other       decimal.Decimal `json:"other"`

	TotalMonthly decimal.Decimal `json:"total_monthly"`
	TotalAnnual  decimal.Decimal `json:"total_annual"`
}

// OperatingMetrics is the single-year operating snapshot.
type OperatingMetrics struct {
	GrossMonthlyIncome          decimal.Decimal `json:"gross_monthly_income"`
	EffectiveGrossMonthlyIncome decimal.Decimal `json:"effective_gross_monthly_income"`
	GrossAnnualIncome           decimal.Decimal `json:"gross_annual_income"`
	EffectiveGrossAnnualIncome  decimal.Decimal `json:"effective_gross_annual_income"`

	Expenses ExpenseBreakdown `json:"expenses"`

	NOI                decimal.Decimal `json:"noi"`
	MonthlyDebtService decimal.Decimal `json:"monthly_debt_service"`
	AnnualDebtService  decimal.Decimal `json:"annual_debt_service"`
	MonthlyCashFlow    decimal.Decimal `json:"monthly_cash_flow"`
	AnnualCashFlow     decimal.Decimal `json:"annual_cash_flow"`
	TotalCashInvested  decimal.Decimal `json:"total_cash_invested"`

	CapRate        Ratio `json:"cap_rate"`
	CashOnCash     Ratio `json:"cash_on_cash"`
	DSCR           Ratio `json:"dscr"`
	GRM            Ratio `json:"grm"`
	OnePercentRule Ratio `json:"one_percent_rule"`

	// Raw break-even occupancy can exceed 1 on over-leveraged deals;
	// the display value is clamped to [0,1] but the raw value is kept
	// for comparisons.
	BreakEvenOccupancy        Ratio `json:"break_even_occupancy"`
	BreakEvenOccupancyDisplay Ratio `json:"break_even_occupancy_display"`
}

// =============================================================================
// CALCULATION
// =============================================================================

// ComputeOperatingMetrics builds the operating snapshot for one year.
// monthlyDebtService comes from Amortize; pass zero for all-cash deals.
func ComputeOperatingMetrics(a Assumptions, monthlyDebtService decimal.Decimal) (*OperatingMetrics, error) {
	if a.PurchasePrice.IsNegative() {
		return nil, NewInvalidInput("purchase_price", "must not be negative")
	}
	if a.MonthlyRent.IsNegative() {
		return nil, NewInvalidInput("monthly_rent", "must not be negative")
	}
	if monthlyDebtService.IsNegative() {
		return nil, NewInvalidInput("monthly_debt_service", "must not be negative")
	}

	grossMonthly := a.MonthlyRent.Add(a.OtherIncome)
	effectiveMonthly := grossMonthly.Sub(MulFraction(grossMonthly, a.VacancyRate))
	grossAnnual := grossMonthly.Mul(twelve)
	effectiveAnnual := effectiveMonthly.Mul(twelve)

	expenses := ExpenseBreakdown{
		Management:  MulFraction(effectiveMonthly, a.ManagementRate),
		Maintenance: MulFraction(effectiveMonthly, a.MaintenanceRate),
		PropertyTax: a.AnnualPropertyTax.Div(twelve),
		Insurance:   a.AnnualInsurance.Div(twelve),
		HOA:         a.MonthlyHOA,
		Utilities:   a.MonthlyUtilities,
		Other:       a.MonthlyOtherExpenses,
	}
	expenses.TotalMonthly = expenses.Management.
		Add(expenses.Maintenance).
		Add(expenses.PropertyTax).
		Add(expenses.Insurance).
		Add(expenses.HOA).
		Add(expenses.Utilities).
		Add(expenses.Other)
	expenses.TotalAnnual = expenses.TotalMonthly.Mul(twelve)

	noi := effectiveAnnual.Sub(expenses.TotalAnnual)
	annualDebt := monthlyDebtService.Mul(twelve)
	annualCashFlow := noi.Sub(annualDebt)
	monthlyCashFlow := annualCashFlow.Div(twelve)
	cashInvested := a.TotalCashInvested()

	m := &OperatingMetrics{
		GrossMonthlyIncome:          grossMonthly,
		EffectiveGrossMonthlyIncome: effectiveMonthly,
		GrossAnnualIncome:           grossAnnual,
		EffectiveGrossAnnualIncome:  effectiveAnnual,
		Expenses:                    expenses,
		NOI:                         noi,
		MonthlyDebtService:          monthlyDebtService,
		AnnualDebtService:           annualDebt,
		MonthlyCashFlow:             monthlyCashFlow,
		AnnualCashFlow:              annualCashFlow,
		TotalCashInvested:           cashInvested,
	}

	price, _ := a.PurchasePrice.Float64()
	noiF, _ := noi.Float64()
	rentF, _ := a.MonthlyRent.Float64()
	grossAnnualF, _ := grossAnnual.Float64()
	cashFlowF, _ := annualCashFlow.Float64()
	investedF, _ := cashInvested.Float64()
	debtF, _ := annualDebt.Float64()
	opExF, _ := expenses.TotalAnnual.Float64()

	// Zero income makes the income-based ratios meaningless; report
	// them as undefined rather than as a misleading 0 or Inf.
	hasIncome := grossMonthly.IsPositive()

	if hasIncome {
		m.CapRate = SafeRatio(noiF, price)
		m.CashOnCash = SafeRatio(cashFlowF, investedF)
		m.GRM = SafeRatio(price, grossAnnualF)
	}
	m.DSCR = SafeRatio(noiF, debtF)
	m.OnePercentRule = SafeRatio(rentF, price)

	// Denominator is total gross income: other income is treated as
	// occupancy-linked, scaling down with vacancy like rent does.
	m.BreakEvenOccupancy = SafeRatio(opExF+debtF, grossAnnualF)
	if m.BreakEvenOccupancy.Valid {
		m.BreakEvenOccupancyDisplay = NewRatio(float64(Fraction(m.BreakEvenOccupancy.Value).Clamp01()))
	}

	return m, nil
}
