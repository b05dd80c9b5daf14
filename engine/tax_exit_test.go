package engine_test

import (
	"testing"

	"github.com/warp/deal-engine/engine"
)

// =============================================================================
// DEPRECIATION
// =============================================================================

func TestDepreciationConfigFor_ResidentialBasis(t *testing.T) {
	// GIVEN: The base deal ($300k, 20% land, 3% closing capitalized)
	// WHEN: Deriving the depreciation config
	// THEN: Basis is building (240k) + closing (9k); 27.5-year recovery

	cfg := engine.DepreciationConfigFor(baseDeal())

	approxD(t, "depreciable basis", cfg.DepreciableBasis(), 249000, 0.01)
	approxD(t, "annual depreciation", cfg.AnnualDepreciation(), 249000/27.5, 0.01)
	if cfg.RecoveryYears != engine.ResidentialDepreciationYears {
		t.Errorf("recovery years = %v, want 27.5", cfg.RecoveryYears)
	}
}

func TestBuildTaxProjection_TaxableIncomeIdentity(t *testing.T) {
	// GIVEN: A 10-year projection
	// WHEN: Building the tax view
	// THEN: taxable = NOI - interest - depreciation every year, and
	//       depreciation is constant (straight-line)

	a, loan, proj := buildBaseProjection(t, 10)
	cfg := engine.DepreciationConfigFor(a)

	tax, err := engine.BuildTaxProjection(cfg, proj, loan)
	if err != nil {
		t.Fatalf("BuildTaxProjection failed: %v", err)
	}
	if len(tax) != 10 {
		t.Fatalf("tax rows = %d, want 10", len(tax))
	}

	dep := cfg.AnnualDepreciation()
	for _, row := range tax {
		if !row.Depreciation.Equal(dep) {
			t.Fatalf("year %d: depreciation %s varies from %s", row.Year, row.Depreciation, dep)
		}
		want := row.NOI.Sub(row.MortgageInterest).Sub(row.Depreciation)
		if !row.TaxableIncome.Equal(want) {
			t.Fatalf("year %d: taxable %s != NOI-interest-dep %s", row.Year, row.TaxableIncome, want)
		}
		if row.TaxLiability.IsPositive() && row.TaxBenefit.IsPositive() {
			t.Fatalf("year %d: both liability and benefit set", row.Year)
		}
	}
}

func TestBuildTaxProjection_PassiveLossGating(t *testing.T) {
	// GIVEN: A loss year (interest + depreciation swamp NOI)
	// WHEN: Building the tax view with and without passive-loss use
	// THEN: The benefit is reported either way but only moves after-tax
	//       cash flow when the investor can use it

	a, loan, proj := buildBaseProjection(t, 5)
	cfg := engine.DepreciationConfigFor(a)

	gated, err := engine.BuildTaxProjection(cfg, proj, loan)
	if err != nil {
		t.Fatalf("gated projection failed: %v", err)
	}

	cfg.CanUsePassiveLosses = true
	applied, err := engine.BuildTaxProjection(cfg, proj, loan)
	if err != nil {
		t.Fatalf("applied projection failed: %v", err)
	}

	// Year 1 of the base deal runs a paper loss.
	if !gated[0].TaxableIncome.IsNegative() {
		t.Fatal("expected a year-1 paper loss on the base deal")
	}
	if !gated[0].TaxBenefit.IsPositive() {
		t.Error("benefit should be reported even when unusable")
	}
	if !gated[0].AfterTaxCashFlow.Equal(gated[0].PreTaxCashFlow) {
		t.Error("unusable benefit must not move after-tax cash flow")
	}
	if !applied[0].AfterTaxCashFlow.GreaterThan(gated[0].AfterTaxCashFlow) {
		t.Error("usable passive losses should raise after-tax cash flow")
	}
}

// =============================================================================
// EXIT ANALYSIS
// =============================================================================

func TestAnalyzeExit_TenYearSale(t *testing.T) {
	// GIVEN: The base deal sold after 10 years
	// WHEN: Analyzing the exit
	// THEN: Sale price compounds appreciation, gain is against gross
	//       proceeds (pre-payoff), recapture tax uses the fixed 25% rate

	a := baseDeal()
	loan, _ := engine.Amortize(engine.LoanTermsFor(a))
	cfg := engine.DepreciationConfigFor(a)

	exit, err := engine.AnalyzeExit(a, cfg, loan, 10)
	if err != nil {
		t.Fatalf("AnalyzeExit failed: %v", err)
	}

	// 300k * 1.03^10 = 403,175
	approxD(t, "sale price", exit.ProjectedSalePrice, 403174.96, 1)
	approxD(t, "sale costs", exit.SaleCosts, 24190.50, 1)

	// Gross proceeds before payoff drive the gain.
	gross := exit.ProjectedSalePrice.Sub(exit.SaleCosts)
	wantGain := gross.Sub(exit.AdjustedCostBasis)
	if !exit.TotalGain.Equal(wantGain) {
		t.Errorf("total gain %s != gross-basis %s", exit.TotalGain, wantGain)
	}

	// Recapture = min(accumDep, gain); here depreciation is smaller.
	if !exit.DepreciationRecapture.Equal(exit.AccumulatedDepreciation) {
		t.Errorf("recapture %s != accumulated depreciation %s",
			exit.DepreciationRecapture, exit.AccumulatedDepreciation)
	}
	wantRecaptureTax := engine.MulFraction(exit.DepreciationRecapture, engine.DepreciationRecaptureRate)
	if !exit.RecaptureTax.Equal(wantRecaptureTax) {
		t.Errorf("recapture tax %s != 25%% of recapture %s", exit.RecaptureTax, wantRecaptureTax)
	}

	// After-tax proceeds = net proceeds - both taxes.
	want := exit.NetSaleProceeds.Sub(exit.RecaptureTax).Sub(exit.CapitalGainsTax)
	if !exit.AfterTaxProceeds.Equal(want) {
		t.Errorf("after-tax proceeds %s != %s", exit.AfterTaxProceeds, want)
	}
}

func TestAnalyzeExit_LossSaleHasNoTax(t *testing.T) {
	// GIVEN: A sale at a steep loss (negative appreciation)
	// WHEN: Analyzing the exit
	// THEN: No recapture, no capital-gains tax

	a := baseDeal()
	a.AppreciationRate = -0.10
	loan, _ := engine.Amortize(engine.LoanTermsFor(a))
	cfg := engine.DepreciationConfigFor(a)

	exit, err := engine.AnalyzeExit(a, cfg, loan, 5)
	if err != nil {
		t.Fatalf("AnalyzeExit failed: %v", err)
	}
	if !exit.TotalGain.IsNegative() {
		t.Fatal("expected a loss sale")
	}
	if !exit.RecaptureTax.IsZero() || !exit.CapitalGainsTax.IsZero() {
		t.Error("loss sale should carry no recapture or capital-gains tax")
	}
}

func TestAnalyzeExit_DepreciationCapsAtRecoveryPeriod(t *testing.T) {
	// GIVEN: A 40-year hold on residential property
	// WHEN: Analyzing the exit
	// THEN: Accumulated depreciation stops at 27.5 years of deductions

	a := baseDeal()
	loan, _ := engine.Amortize(engine.LoanTermsFor(a))
	cfg := engine.DepreciationConfigFor(a)

	exit, err := engine.AnalyzeExit(a, cfg, loan, 40)
	if err != nil {
		t.Fatalf("AnalyzeExit failed: %v", err)
	}

	fullBasis, _ := cfg.DepreciableBasis().Float64()
	approxD(t, "accumulated depreciation", exit.AccumulatedDepreciation, fullBasis, 0.01)
}
