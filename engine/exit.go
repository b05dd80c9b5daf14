/*
exit.go - Disposition (sale) analysis

PURPOSE:
  Models the sale at the end of the hold: projected sale price, selling
  costs, loan payoff, capital-gains tax, depreciation recapture, and
  the cash the investor actually walks away with.

TAX TREATMENT:
  Gain is computed against GROSS sale proceeds (net of selling costs)
  before the loan payoff - paying off the loan is a cash-flow event,
  not a taxable one.

  Recapture is capped at min(accumulatedDepreciation, totalGain) and
  taxed at the fixed federal 25% rate; the remainder of the gain is
  taxed at the investor's capital-gains rate. No tax applies when the
  sale is at a loss.

SEE ALSO:
  - tax.go: Source of the depreciation that gets recaptured
  - projection.go: Uses pre-tax proceeds; this is the after-tax view
*/
package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// DepreciationRecaptureRate is the fixed federal rate applied to
// recaptured depreciation at sale.
const DepreciationRecaptureRate Fraction = 0.25

// ExitAnalysis is the complete disposition result.
type ExitAnalysis struct {
	HoldYears int `json:"hold_years"`

	ProjectedSalePrice   decimal.Decimal `json:"projected_sale_price"`
	SaleCosts            decimal.Decimal `json:"sale_costs"`
	RemainingLoanBalance decimal.Decimal `json:"remaining_loan_balance"`
	NetSaleProceeds      decimal.Decimal `json:"net_sale_proceeds"` // pre-tax, after payoff

	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
	AdjustedCostBasis       decimal.Decimal `json:"adjusted_cost_basis"`
	TotalGain               decimal.Decimal `json:"total_gain"`
	DepreciationRecapture   decimal.Decimal `json:"depreciation_recapture"`
	RecaptureTax            decimal.Decimal `json:"recapture_tax"`
	CapitalGain             decimal.Decimal `json:"capital_gain"`
	CapitalGainsTax         decimal.Decimal `json:"capital_gains_tax"`

	AfterTaxProceeds decimal.Decimal `json:"after_tax_proceeds"`
}

// AnalyzeExit computes the sale at hold-period end.
func AnalyzeExit(a Assumptions, cfg DepreciationConfig, loan *AmortizationResult, holdYears int) (*ExitAnalysis, error) {
	if holdYears <= 0 {
		return nil, NewInvalidInput("hold_years", "must be positive")
	}
	if loan == nil {
		return nil, NewInvalidInput("loan", "amortization schedule required")
	}

	appreciation := decimal.NewFromFloat(math.Pow(1+a.AppreciationRate.Float(), float64(holdYears)))
	salePrice := a.PurchasePrice.Mul(appreciation)
	saleCosts := MulFraction(salePrice, a.SellingCosts)
	balance := loan.BalanceAfterMonth(holdYears * 12)

	grossProceeds := salePrice.Sub(saleCosts) // before loan payoff
	netProceeds := grossProceeds.Sub(balance)

	// Depreciation stops at the end of the recovery period.
	depYears := float64(holdYears)
	if cfg.RecoveryYears > 0 && depYears > cfg.RecoveryYears {
		depYears = cfg.RecoveryYears
	}
	accumDep := cfg.AnnualDepreciation().Mul(decimal.NewFromFloat(depYears))

	basis := cfg.PurchasePrice.Add(cfg.CapitalizedCosts).Add(cfg.RehabCosts).Sub(accumDep)
	totalGain := grossProceeds.Sub(basis)

	recapture := decimal.Zero
	capitalGain := decimal.Zero
	if totalGain.IsPositive() {
		recapture = decimal.Min(accumDep, totalGain)
		capitalGain = totalGain.Sub(recapture)
	}
	recaptureTax := MulFraction(recapture, DepreciationRecaptureRate)
	capGainsTax := MulFraction(capitalGain, a.CapitalGainsTaxRate)

	return &ExitAnalysis{
		HoldYears:               holdYears,
		ProjectedSalePrice:      salePrice,
		SaleCosts:               saleCosts,
		RemainingLoanBalance:    balance,
		NetSaleProceeds:         netProceeds,
		AccumulatedDepreciation: accumDep,
		AdjustedCostBasis:       basis,
		TotalGain:               totalGain,
		DepreciationRecapture:   recapture,
		RecaptureTax:            recaptureTax,
		CapitalGain:             capitalGain,
		CapitalGainsTax:         capGainsTax,
		AfterTaxProceeds:        netProceeds.Sub(recaptureTax).Sub(capGainsTax),
	}, nil
}
