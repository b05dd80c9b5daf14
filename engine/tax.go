/*
tax.go - Depreciation and after-tax cash flow projection

PURPOSE:
  Computes the depreciable basis, straight-line annual depreciation,
  and a per-year tax view of the hold: taxable income, estimated tax
  liability (or passive-loss benefit), and after-tax cash flow.

TAX MODEL:
  taxableIncome_i = NOI_i - mortgageInterest_i - annualDepreciation

  Positive taxable income accrues liability at the marginal rate.
  Negative taxable income produces a passive-loss BENEFIT that is
  reported but only applied to after-tax cash flow when the investor
  can actually use passive losses (CanUsePassiveLosses) - the engine
  never silently offsets other income.

  Depreciation is straight-line over the recovery period (27.5 years
  residential, 39 commercial) and constant across the projection. Land
  does not depreciate.

SEE ALSO:
  - projection.go: Source of per-year NOI and cash flow
  - amortization.go: Source of per-year interest
  - exit.go: Recaptures accumulated depreciation at sale
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// DEPRECIATION CONFIG
// =============================================================================

// DepreciationConfig describes the depreciable asset and tax profile.
type DepreciationConfig struct {
	PurchasePrice     decimal.Decimal
	LandValueFraction Fraction // land portion of price, not depreciable
	CapitalizedCosts  decimal.Decimal
	RehabCosts        decimal.Decimal

	Method              DepreciationMethod
	RecoveryYears       float64
	MarginalTaxRate     Fraction
	CanUsePassiveLosses bool
}

// DepreciationConfigFor derives the standard residential config from an
// assumption set. Closing costs are capitalized into basis.
func DepreciationConfigFor(a Assumptions) DepreciationConfig {
	return DepreciationConfig{
		PurchasePrice:     a.PurchasePrice,
		LandValueFraction: a.LandValueFraction,
		CapitalizedCosts:  a.ClosingCostAmount(),
		RehabCosts:        a.RehabCosts,
		Method:            DepreciationStraightLine,
		RecoveryYears:     ResidentialDepreciationYears,
		MarginalTaxRate:   a.MarginalTaxRate,
	}
}

// DepreciableBasis is price less land, plus capitalized costs and rehab.
func (c DepreciationConfig) DepreciableBasis() decimal.Decimal {
	building := c.PurchasePrice.Sub(MulFraction(c.PurchasePrice, c.LandValueFraction))
	return building.Add(c.CapitalizedCosts).Add(c.RehabCosts)
}

// AnnualDepreciation is constant for straight-line.
func (c DepreciationConfig) AnnualDepreciation() decimal.Decimal {
	if c.RecoveryYears <= 0 {
		return decimal.Zero
	}
	return c.DepreciableBasis().Div(decimal.NewFromFloat(c.RecoveryYears))
}

// =============================================================================
// PER-YEAR TAX PROJECTION
// =============================================================================

// AnnualTaxProjection is one tax year of the hold.
type AnnualTaxProjection struct {
	Year int `json:"year"`

	NOI              decimal.Decimal `json:"noi"`
	MortgageInterest decimal.Decimal `json:"mortgage_interest"`
	Depreciation     decimal.Decimal `json:"depreciation"`
	TaxableIncome    decimal.Decimal `json:"taxable_income"`

	// Exactly one of these is non-zero per year.
	TaxLiability decimal.Decimal `json:"tax_liability"`
	TaxBenefit   decimal.Decimal `json:"tax_benefit"`

	PreTaxCashFlow   decimal.Decimal `json:"pre_tax_cash_flow"`
	AfterTaxCashFlow decimal.Decimal `json:"after_tax_cash_flow"`
}

// BuildTaxProjection computes the tax view for every projected year.
func BuildTaxProjection(cfg DepreciationConfig, proj *Projection, loan *AmortizationResult) ([]AnnualTaxProjection, error) {
	if proj == nil || len(proj.Years) == 0 {
		return nil, NewInvalidInput("projection", "projection rows required")
	}
	if loan == nil {
		return nil, NewInvalidInput("loan", "amortization schedule required")
	}
	if cfg.RecoveryYears <= 0 {
		return nil, NewInvalidInput("depreciation_years", "must be positive")
	}

	depreciation := cfg.AnnualDepreciation()
	out := make([]AnnualTaxProjection, 0, len(proj.Years))

	for _, row := range proj.Years {
		interest := loan.InterestForYear(row.Year)
		taxable := row.NOI.Sub(interest).Sub(depreciation)

		tp := AnnualTaxProjection{
			Year:             row.Year,
			NOI:              row.NOI,
			MortgageInterest: interest,
			Depreciation:     depreciation,
			TaxableIncome:    taxable,
			PreTaxCashFlow:   row.CashFlow,
		}

		if taxable.IsPositive() {
			tp.TaxLiability = MulFraction(taxable, cfg.MarginalTaxRate)
			tp.AfterTaxCashFlow = row.CashFlow.Sub(tp.TaxLiability)
		} else {
			tp.TaxBenefit = MulFraction(taxable.Neg(), cfg.MarginalTaxRate)
			tp.AfterTaxCashFlow = row.CashFlow
			if cfg.CanUsePassiveLosses {
				tp.AfterTaxCashFlow = row.CashFlow.Add(tp.TaxBenefit)
			}
		}

		out = append(out, tp)
	}
	return out, nil
}
