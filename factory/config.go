/*
PURPOSE:
  Optional YAML configuration for deployment-wide default assumptions.
  Operators can ship a config file that shifts the baseline (local tax
  rates, market vacancy, typical insurance) without clients repeating
  those fields on every request.

  Percentages in the file use the same [0,100] convention as the wire
  contract; conversion to fractions happens here, once.

SEE ALSO:
  - assumptions.go: The factory these defaults feed into
*/
package factory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warp/deal-engine/engine"
)

// Config is the on-disk shape of a defaults file. Every field is a
// pointer: absent fields leave the built-in default untouched.
type Config struct {
	Defaults struct {
		DownPaymentPct      *float64 `yaml:"down_payment_pct"`
		ClosingCostsPct     *float64 `yaml:"closing_costs_pct"`
		InterestRate        *float64 `yaml:"interest_rate"`
		LoanTermYears       *int     `yaml:"loan_term_years"`
		VacancyRatePct      *float64 `yaml:"vacancy_rate"`
		ManagementPct       *float64 `yaml:"property_management_pct"`
		MaintenancePct      *float64 `yaml:"maintenance_pct"`
		PropertyTaxesAnnual *float64 `yaml:"property_taxes_annual"`
		InsuranceAnnual     *float64 `yaml:"insurance_annual"`
		AppreciationPct     *float64 `yaml:"appreciation_rate"`
		RentGrowthPct       *float64 `yaml:"rent_growth_rate"`
		ExpenseGrowthPct    *float64 `yaml:"expense_growth_rate"`
		SellingCostsPct     *float64 `yaml:"selling_costs_pct"`
		HoldYears           *int     `yaml:"hold_years"`
		MarginalTaxPct      *float64 `yaml:"marginal_tax_rate"`
		CapitalGainsTaxPct  *float64 `yaml:"capital_gains_tax_rate"`
		LandValuePct        *float64 `yaml:"land_value_pct"`
	} `yaml:"defaults"`
}

// LoadConfig reads and parses a YAML defaults file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// WithConfig overlays a loaded config onto the factory's baseline
// assumptions and returns the factory for chaining.
func (f *AssumptionsFactory) WithConfig(cfg *Config) *AssumptionsFactory {
	if cfg == nil {
		return f
	}
	d := cfg.Defaults
	f.base.DownPayment = fractionOr(d.DownPaymentPct, f.base.DownPayment)
	f.base.ClosingCosts = fractionOr(d.ClosingCostsPct, f.base.ClosingCosts)
	f.base.InterestRate = fractionOr(d.InterestRate, f.base.InterestRate)
	if d.LoanTermYears != nil {
		f.base.LoanTermYears = *d.LoanTermYears
	}
	f.base.VacancyRate = fractionOr(d.VacancyRatePct, f.base.VacancyRate)
	f.base.ManagementRate = fractionOr(d.ManagementPct, f.base.ManagementRate)
	f.base.MaintenanceRate = fractionOr(d.MaintenancePct, f.base.MaintenanceRate)
	f.base.AnnualPropertyTax = moneyOr(d.PropertyTaxesAnnual, f.base.AnnualPropertyTax)
	f.base.AnnualInsurance = moneyOr(d.InsuranceAnnual, f.base.AnnualInsurance)
	f.base.AppreciationRate = fractionOr(d.AppreciationPct, f.base.AppreciationRate)
	f.base.RentGrowthRate = fractionOr(d.RentGrowthPct, f.base.RentGrowthRate)
	f.base.ExpenseGrowthRate = fractionOr(d.ExpenseGrowthPct, f.base.ExpenseGrowthRate)
	f.base.SellingCosts = fractionOr(d.SellingCostsPct, f.base.SellingCosts)
	if d.HoldYears != nil {
		f.base.HoldYears = *d.HoldYears
	}
	f.base.MarginalTaxRate = fractionOr(d.MarginalTaxPct, f.base.MarginalTaxRate)
	f.base.CapitalGainsTaxRate = fractionOr(d.CapitalGainsTaxPct, f.base.CapitalGainsTaxRate)
	f.base.LandValueFraction = fractionOr(d.LandValuePct, f.base.LandValueFraction)
	return f
}

// BaseAssumptions exposes the factory's current defaults (useful for
// surfacing effective config to API clients).
func (f *AssumptionsFactory) BaseAssumptions() engine.Assumptions {
	return f.base
}
