/*
Package factory converts external analysis requests into canonical
engine inputs.

PURPOSE:
  The outside world (API clients, saved scenarios, config files)
  speaks the wire contract: snake_case JSON with percentage fields in
  [0,100]. The engine speaks fractions in [0,1]. This package is the
  ONE place that conversion happens - engine code never sees a percent
  and handlers never do unit math.

  The factory also owns defaulting (absent optional fields fall back
  to engine.DefaultAssumptions, or to a loaded config file) and
  validation (go-playground/validator struct tags; the first failing
  field comes back as a named InvalidInputError so the API layer can
  produce a machine-readable 400).

USAGE:
  f := factory.NewAssumptionsFactory()

  var req factory.AnalysisRequest
  json.Unmarshal(body, &req)

  assumptions, err := f.Build(req)
  if err != nil {
      // *engine.InvalidInputError with the offending field name
  }

SEE ALSO:
  - config.go: YAML default/benchmark overrides
  - engine/types.go: The canonical Assumptions this produces
*/
package factory

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/warp/deal-engine/engine"
)

// =============================================================================
// WIRE CONTRACT - percentages in [0,100], money in plain dollars
// =============================================================================

// AnalysisRequest is the external request body for every analysis
// endpoint. Optional fields are pointers so "absent" and "zero" stay
// distinguishable; absent fields take defaults.
type AnalysisRequest struct {
	PurchasePrice float64  `json:"purchase_price" validate:"required,gt=0"`
	ListPrice     *float64 `json:"list_price,omitempty" validate:"omitempty,gt=0"`

	DownPaymentPct  *float64 `json:"down_payment_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
	ClosingCostsPct *float64 `json:"closing_costs_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
	RehabCosts      *float64 `json:"rehab_costs,omitempty" validate:"omitempty,gte=0"`

	InterestRate  *float64 `json:"interest_rate,omitempty" validate:"omitempty,gte=0,lte=30"`
	LoanTermYears *int     `json:"loan_term_years,omitempty" validate:"omitempty,oneof=15 20 25 30"`
	LoanType      *string  `json:"loan_type,omitempty" validate:"omitempty,oneof=conventional fha va hard_money cash"`

	MonthlyRent float64  `json:"monthly_rent" validate:"gte=0"`
	OtherIncome *float64 `json:"other_income,omitempty" validate:"omitempty,gte=0"`

	VacancyRatePct        *float64 `json:"vacancy_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	PropertyManagementPct *float64 `json:"property_management_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaintenancePct        *float64 `json:"maintenance_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
	PropertyTaxesAnnual   *float64 `json:"property_taxes_annual,omitempty" validate:"omitempty,gte=0"`
	InsuranceAnnual       *float64 `json:"insurance_annual,omitempty" validate:"omitempty,gte=0"`
	HoaMonthly            *float64 `json:"hoa_monthly,omitempty" validate:"omitempty,gte=0"`
	UtilitiesMonthly      *float64 `json:"utilities_monthly,omitempty" validate:"omitempty,gte=0"`

	AppreciationRatePct  *float64 `json:"appreciation_rate,omitempty" validate:"omitempty,gte=-10,lte=25"`
	RentGrowthRatePct    *float64 `json:"rent_growth_rate,omitempty" validate:"omitempty,gte=-10,lte=25"`
	ExpenseGrowthRatePct *float64 `json:"expense_growth_rate,omitempty" validate:"omitempty,gte=-10,lte=25"`
	SellingCostsPct      *float64 `json:"selling_costs_pct,omitempty" validate:"omitempty,gte=0,lte=100"`

	HoldYears              *int     `json:"hold_years,omitempty" validate:"omitempty,gte=1,lte=40"`
	MarginalTaxRatePct     *float64 `json:"marginal_tax_rate,omitempty" validate:"omitempty,gte=0,lte=60"`
	CapitalGainsTaxRatePct *float64 `json:"capital_gains_tax_rate,omitempty" validate:"omitempty,gte=0,lte=60"`
	LandValuePct           *float64 `json:"land_value_pct,omitempty" validate:"omitempty,gte=0,lte=100"`

	STR       *STRRequest       `json:"str,omitempty"`
	BRRRR     *BRRRRRequest     `json:"brrrr,omitempty"`
	Flip      *FlipRequest      `json:"flip,omitempty"`
	HouseHack *HouseHackRequest `json:"house_hack,omitempty"`
	Wholesale *WholesaleRequest `json:"wholesale,omitempty"`
}

// STRRequest carries short-term rental extension fields.
type STRRequest struct {
	AverageDailyRate    float64  `json:"average_daily_rate" validate:"required,gt=0"`
	OccupancyRatePct    float64  `json:"occupancy_rate" validate:"required,gt=0,lte=100"`
	CleaningFee         *float64 `json:"cleaning_fee_per_turnover,omitempty" validate:"omitempty,gte=0"`
	AverageLengthOfStay *float64 `json:"average_length_of_stay,omitempty" validate:"omitempty,gt=0"`
	PlatformFeePct      *float64 `json:"platform_fee_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
	MonthlySupplies     *float64 `json:"monthly_supplies,omitempty" validate:"omitempty,gte=0"`
}

// BRRRRRequest carries refinance extension fields.
type BRRRRRequest struct {
	ARV                    float64  `json:"arv" validate:"required,gt=0"`
	RefinanceLtvPct        float64  `json:"refinance_ltv" validate:"required,gt=0,lte=100"`
	RefinanceInterestRate  *float64 `json:"refinance_interest_rate,omitempty" validate:"omitempty,gte=0,lte=30"`
	RefinanceLoanTermYears *int     `json:"refinance_loan_term,omitempty" validate:"omitempty,oneof=15 20 25 30"`
	HoldingPeriodMonths    int      `json:"holding_period_months" validate:"required,gt=0,lte=36"`
	MonthlyHoldingCosts    *float64 `json:"monthly_holding_costs,omitempty" validate:"omitempty,gte=0"`
}

// FlipRequest carries fix-and-flip extension fields.
type FlipRequest struct {
	ARV                 float64  `json:"arv" validate:"required,gt=0"`
	HoldingPeriodMonths int      `json:"holding_period_months" validate:"required,gt=0,lte=36"`
	MonthlyHoldingCosts *float64 `json:"monthly_holding_costs,omitempty" validate:"omitempty,gte=0"`
	SellingCostsPct     *float64 `json:"selling_costs_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// HouseHackRequest carries owner-occupied extension fields.
type HouseHackRequest struct {
	RentedUnitRents     []float64 `json:"rented_unit_rents" validate:"required,min=1,dive,gte=0"`
	OwnerUnitMarketRent *float64  `json:"owner_unit_market_rent,omitempty" validate:"omitempty,gte=0"`
}

// WholesaleRequest carries assignment-contract extension fields.
type WholesaleRequest struct {
	ARV            float64  `json:"arv" validate:"required,gt=0"`
	RepairCosts    float64  `json:"repair_costs" validate:"gte=0"`
	EndBuyerProfit *float64 `json:"end_buyer_profit,omitempty" validate:"omitempty,gte=0"`
	ContractPrice  float64  `json:"contract_price" validate:"required,gt=0"`
	AssignmentFee  *float64 `json:"assignment_fee,omitempty" validate:"omitempty,gte=0"`
	EarnestMoney   *float64 `json:"earnest_money,omitempty" validate:"omitempty,gte=0"`
	MarketingCosts *float64 `json:"marketing_costs,omitempty" validate:"omitempty,gte=0"`
	ClosingCosts   *float64 `json:"closing_costs,omitempty" validate:"omitempty,gte=0"`
}

// =============================================================================
// FACTORY
// =============================================================================

// houseHackDownPayment is the owner-occupied financing default applied
// when a house-hack request doesn't specify a down payment.
const houseHackDownPayment engine.Fraction = 0.05

// AssumptionsFactory validates requests and produces canonical
// engine.Assumptions. Safe for concurrent use.
type AssumptionsFactory struct {
	validate *validator.Validate
	base     engine.Assumptions
}

// NewAssumptionsFactory creates a factory with the built-in defaults.
func NewAssumptionsFactory() *AssumptionsFactory {
	v := validator.New()

	// Report field names as their JSON tags so validation errors match
	// what the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &AssumptionsFactory{
		validate: v,
		base:     engine.DefaultAssumptions,
	}
}

// Build validates the request, fills defaults, and converts every
// percentage to a fraction exactly once.
func (f *AssumptionsFactory) Build(req AnalysisRequest) (engine.Assumptions, error) {
	if err := f.validate.Struct(req); err != nil {
		return engine.Assumptions{}, translateValidation(err)
	}

	a := f.base
	a.PurchasePrice = decimal.NewFromFloat(req.PurchasePrice)
	a.MonthlyRent = decimal.NewFromFloat(req.MonthlyRent)

	if req.ListPrice != nil {
		a.ListPrice = decimal.NewFromFloat(*req.ListPrice)
	}
	a.DownPayment = fractionOr(req.DownPaymentPct, a.DownPayment)
	a.ClosingCosts = fractionOr(req.ClosingCostsPct, a.ClosingCosts)
	a.RehabCosts = moneyOr(req.RehabCosts, a.RehabCosts)
	a.InterestRate = fractionOr(req.InterestRate, a.InterestRate)
	if req.LoanTermYears != nil {
		a.LoanTermYears = *req.LoanTermYears
	}
	if req.LoanType != nil {
		a.LoanType = engine.LoanType(*req.LoanType)
	}
	a.OtherIncome = moneyOr(req.OtherIncome, a.OtherIncome)
	a.VacancyRate = fractionOr(req.VacancyRatePct, a.VacancyRate)
	a.ManagementRate = fractionOr(req.PropertyManagementPct, a.ManagementRate)
	a.MaintenanceRate = fractionOr(req.MaintenancePct, a.MaintenanceRate)
	a.AnnualPropertyTax = moneyOr(req.PropertyTaxesAnnual, a.AnnualPropertyTax)
	a.AnnualInsurance = moneyOr(req.InsuranceAnnual, a.AnnualInsurance)
	a.MonthlyHOA = moneyOr(req.HoaMonthly, a.MonthlyHOA)
	a.MonthlyUtilities = moneyOr(req.UtilitiesMonthly, a.MonthlyUtilities)
	a.AppreciationRate = fractionOr(req.AppreciationRatePct, a.AppreciationRate)
	a.RentGrowthRate = fractionOr(req.RentGrowthRatePct, a.RentGrowthRate)
	a.ExpenseGrowthRate = fractionOr(req.ExpenseGrowthRatePct, a.ExpenseGrowthRate)
	a.SellingCosts = fractionOr(req.SellingCostsPct, a.SellingCosts)
	if req.HoldYears != nil {
		a.HoldYears = *req.HoldYears
	}
	a.MarginalTaxRate = fractionOr(req.MarginalTaxRatePct, a.MarginalTaxRate)
	a.CapitalGainsTaxRate = fractionOr(req.CapitalGainsTaxRatePct, a.CapitalGainsTaxRate)
	a.LandValueFraction = fractionOr(req.LandValuePct, a.LandValueFraction)

	if req.STR != nil {
		a.STR = &engine.STRAssumptions{
			AverageDailyRate:  decimal.NewFromFloat(req.STR.AverageDailyRate),
			OccupancyRate:     engine.FromPercent(req.STR.OccupancyRatePct),
			CleaningFee:       moneyOr(req.STR.CleaningFee, decimal.Zero),
			AverageStayNights: floatOr(req.STR.AverageLengthOfStay, 3),
			PlatformFee:       fractionOr(req.STR.PlatformFeePct, 0.03),
			MonthlySupplies:   moneyOr(req.STR.MonthlySupplies, decimal.Zero),
		}
	}
	if req.BRRRR != nil {
		a.BRRRR = &engine.BRRRRAssumptions{
			ARV:                 decimal.NewFromFloat(req.BRRRR.ARV),
			RefinanceLTV:        engine.FromPercent(req.BRRRR.RefinanceLtvPct),
			RefinanceRate:       fractionOr(req.BRRRR.RefinanceInterestRate, a.InterestRate),
			RefinanceTermYears:  intOr(req.BRRRR.RefinanceLoanTermYears, 30),
			HoldingPeriodMonths: req.BRRRR.HoldingPeriodMonths,
			MonthlyHoldingCosts: moneyOr(req.BRRRR.MonthlyHoldingCosts, decimal.Zero),
		}
	}
	if req.Flip != nil {
		a.Flip = &engine.FlipAssumptions{
			ARV:                 decimal.NewFromFloat(req.Flip.ARV),
			HoldingPeriodMonths: req.Flip.HoldingPeriodMonths,
			MonthlyHoldingCosts: moneyOr(req.Flip.MonthlyHoldingCosts, decimal.Zero),
			SellingCosts:        fractionOr(req.Flip.SellingCostsPct, a.SellingCosts),
		}
	}
	if req.HouseHack != nil {
		rents := make([]decimal.Decimal, len(req.HouseHack.RentedUnitRents))
		for i, r := range req.HouseHack.RentedUnitRents {
			rents[i] = decimal.NewFromFloat(r)
		}
		a.HouseHack = &engine.HouseHackAssumptions{
			RentedUnitRents:     rents,
			OwnerUnitMarketRent: moneyOr(req.HouseHack.OwnerUnitMarketRent, decimal.Zero),
		}
		if req.DownPaymentPct == nil {
			a.DownPayment = houseHackDownPayment
		}
	}
	if req.Wholesale != nil {
		a.Wholesale = &engine.WholesaleAssumptions{
			ARV:            decimal.NewFromFloat(req.Wholesale.ARV),
			RepairCosts:    decimal.NewFromFloat(req.Wholesale.RepairCosts),
			EndBuyerProfit: moneyOr(req.Wholesale.EndBuyerProfit, decimal.Zero),
			ContractPrice:  decimal.NewFromFloat(req.Wholesale.ContractPrice),
			AssignmentFee:  moneyOr(req.Wholesale.AssignmentFee, decimal.Zero),
			EarnestMoney:   moneyOr(req.Wholesale.EarnestMoney, decimal.Zero),
			MarketingCosts: moneyOr(req.Wholesale.MarketingCosts, decimal.Zero),
			ClosingCosts:   moneyOr(req.Wholesale.ClosingCosts, decimal.Zero),
		}
	}

	return a, nil
}

// translateValidation turns the first validator failure into a named
// InvalidInputError.
func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return engine.NewInvalidInput(fe.Field(), "failed "+fe.Tag()+" validation")
	}
	return engine.NewInvalidInput("request", err.Error())
}

// =============================================================================
// DEFAULTING HELPERS
// =============================================================================

func fractionOr(pct *float64, def engine.Fraction) engine.Fraction {
	if pct == nil {
		return def
	}
	return engine.FromPercent(*pct)
}

func moneyOr(v *float64, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return decimal.NewFromFloat(*v)
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
