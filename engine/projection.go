/*
projection.go - Multi-year hold projection

PURPOSE:
  Rolls the year-1 operating snapshot forward N years, applying growth
  rates to rent, expenses and property value while the loan amortizes
  underneath. Produces the per-year wealth table (cash flow, equity,
  total wealth, returns) plus a summary with IRR over the full series
  including terminal sale proceeds.

GROWTH MODEL:
  income_i   = income_1   * (1 + rentGrowthRate)^(i-1)
  expenses_i = expenses_1 * (1 + expenseGrowthRate)^(i-1)
  value_i    = purchasePrice * (1 + appreciationRate)^i
  balance_i  = loan schedule ending balance at month i*12

  Equity is value minus balance; total wealth adds cumulative cash
  flow. With non-negative appreciation and a normally amortizing loan,
  equity never decreases year over year.

TERMINAL VALUE:
  The summary's IRR series closes with pre-tax net sale proceeds
  (value net of selling costs and loan payoff). After-tax disposition
  is exit.go's job.

SEE ALSO:
  - metrics.go: The year-1 snapshot this advances
  - returns.go: IRR/multiple math over the produced series
  - tax.go, exit.go: Consume the per-year rows
*/
package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// YearProjection is one row of the hold projection.
type YearProjection struct {
	Year int `json:"year"`

	EffectiveGrossIncome decimal.Decimal `json:"effective_gross_income"`
	OperatingExpenses    decimal.Decimal `json:"operating_expenses"`
	NOI                  decimal.Decimal `json:"noi"`
	DebtService          decimal.Decimal `json:"debt_service"`
	CashFlow             decimal.Decimal `json:"cash_flow"`
	CumulativeCashFlow   decimal.Decimal `json:"cumulative_cash_flow"`

	PropertyValue decimal.Decimal `json:"property_value"`
	LoanBalance   decimal.Decimal `json:"loan_balance"`
	Equity        decimal.Decimal `json:"equity"`
	EquityGrowth  decimal.Decimal `json:"equity_growth"`
	TotalWealth   decimal.Decimal `json:"total_wealth"`

	TotalReturn      Ratio `json:"total_return"`
	AnnualizedReturn Ratio `json:"annualized_return"`
}

// ProjectionSummary aggregates the hold.
type ProjectionSummary struct {
	Years           int                `json:"years"`
	TotalCashFlow   decimal.Decimal    `json:"total_cash_flow"`
	FinalEquity     decimal.Decimal    `json:"final_equity"`
	TotalWealth     decimal.Decimal    `json:"total_wealth"`
	NetSaleProceeds decimal.Decimal    `json:"net_sale_proceeds"`
	TotalReturn     Ratio              `json:"total_return"`
	PaybackYears    Ratio              `json:"payback_years"`
	Returns         *InvestmentReturns `json:"returns"`
}

// Projection is the full multi-year result.
type Projection struct {
	Years   []YearProjection  `json:"years"`
	Summary ProjectionSummary `json:"summary"`
}

// =============================================================================
// PROJECTION
// =============================================================================

// BuildProjection advances the year-1 metrics through the hold period.
func BuildProjection(a Assumptions, year1 *OperatingMetrics, loan *AmortizationResult, years int) (*Projection, error) {
	if years <= 0 {
		return nil, NewInvalidInput("years", "must be positive")
	}
	if year1 == nil {
		return nil, NewInvalidInput("metrics", "year-1 metrics required")
	}
	if loan == nil {
		return nil, NewInvalidInput("loan", "amortization schedule required")
	}

	initialInvestment := a.TotalCashInvested()
	initialInvestmentF, _ := initialInvestment.Float64()
	initialEquity := a.PurchasePrice.Sub(loan.BalanceAfterMonth(0))

	rows := make([]YearProjection, 0, years)
	flows := make([]float64, 0, years+1)
	flows = append(flows, -initialInvestmentF)

	cumCashFlow := decimal.Zero
	prevEquity := initialEquity

	for i := 1; i <= years; i++ {
		incomeFactor := decimal.NewFromFloat(math.Pow(1+a.RentGrowthRate.Float(), float64(i-1)))
		expenseFactor := decimal.NewFromFloat(math.Pow(1+a.ExpenseGrowthRate.Float(), float64(i-1)))
		valueFactor := decimal.NewFromFloat(math.Pow(1+a.AppreciationRate.Float(), float64(i)))

		income := year1.EffectiveGrossAnnualIncome.Mul(incomeFactor)
		expenses := year1.Expenses.TotalAnnual.Mul(expenseFactor)
		noi := income.Sub(expenses)

		debt := decimal.Zero
		if (i-1)*12 < len(loan.Schedule) {
			debt = loan.AnnualDebtService()
		}
		cashFlow := noi.Sub(debt)
		cumCashFlow = cumCashFlow.Add(cashFlow)

		value := a.PurchasePrice.Mul(valueFactor)
		balance := loan.BalanceAfterMonth(i * 12)
		equity := value.Sub(balance)
		wealth := equity.Add(cumCashFlow)

		row := YearProjection{
			Year:                 i,
			EffectiveGrossIncome: income,
			OperatingExpenses:    expenses,
			NOI:                  noi,
			DebtService:          debt,
			CashFlow:             cashFlow,
			CumulativeCashFlow:   cumCashFlow,
			PropertyValue:        value,
			LoanBalance:          balance,
			Equity:               equity,
			EquityGrowth:         equity.Sub(prevEquity),
			TotalWealth:          wealth,
		}

		wealthF, _ := wealth.Float64()
		row.TotalReturn = SafeRatio(wealthF-initialInvestmentF, initialInvestmentF)
		if row.TotalReturn.Valid && 1+row.TotalReturn.Value > 0 {
			row.AnnualizedReturn = NewRatio(math.Pow(1+row.TotalReturn.Value, 1/float64(i)) - 1)
		}

		rows = append(rows, row)
		prevEquity = equity

		cfF, _ := cashFlow.Float64()
		flows = append(flows, cfF)
	}

	final := rows[len(rows)-1]

	// Terminal sale: value net of selling costs and loan payoff, pre-tax.
	saleProceeds := final.PropertyValue.
		Sub(MulFraction(final.PropertyValue, a.SellingCosts)).
		Sub(final.LoanBalance)
	proceedsF, _ := saleProceeds.Float64()
	flows[len(flows)-1] += proceedsF

	summary := ProjectionSummary{
		Years:           years,
		TotalCashFlow:   final.CumulativeCashFlow,
		FinalEquity:     final.Equity,
		TotalWealth:     final.TotalWealth,
		NetSaleProceeds: saleProceeds,
		TotalReturn:     final.TotalReturn,
		PaybackYears:    paybackFromRows(rows, initialEquity, initialInvestmentF),
		Returns:         ComputeReturns(flows, a.InterestRate, DefaultReinvestmentRate),
	}

	return &Projection{Years: rows, Summary: summary}, nil
}

// paybackFromRows finds the first year where cumulative cash flow plus
// equity gained covers the initial investment, linearly interpolated
// within the crossing year.
func paybackFromRows(rows []YearProjection, initialEquity decimal.Decimal, invested float64) Ratio {
	if invested <= 0 {
		return InvalidRatio()
	}
	prev := 0.0
	for _, row := range rows {
		recoveredD := row.CumulativeCashFlow.Add(row.Equity.Sub(initialEquity))
		recovered, _ := recoveredD.Float64()
		if recovered >= invested {
			gain := recovered - prev
			if gain <= 0 {
				return NewRatio(float64(row.Year))
			}
			fraction := (invested - prev) / gain
			return NewRatio(float64(row.Year-1) + fraction)
		}
		prev = recovered
	}
	return InvalidRatio()
}
