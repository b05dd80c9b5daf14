package strategy_test

import (
	"testing"

	"github.com/warp/deal-engine/engine"
	"github.com/warp/deal-engine/strategy"
)

func flipDeal() engine.Assumptions {
	a := engine.DefaultAssumptions
	a.PurchasePrice = engine.Dollars(150000)
	a.RehabCosts = engine.Dollars(40000)
	a.Flip = &engine.FlipAssumptions{
		ARV:                 engine.Dollars(260000),
		HoldingPeriodMonths: 6,
		MonthlyHoldingCosts: engine.Dollars(1500),
		SellingCosts:        0.06,
	}
	return a
}

// =============================================================================
// FIX AND FLIP
// =============================================================================

func TestAnalyzeFlip_ProfitableProject(t *testing.T) {
	// GIVEN: $150k purchase, $40k rehab, $260k ARV, 6-month carry
	// WHEN: Analyzing
	// THEN: Net profit = ARV - (purchase + closing + rehab + holding +
	//       selling), ROI on cash invested, annualized by project length

	result, err := strategy.AnalyzeFlip(flipDeal())
	if err != nil {
		t.Fatalf("AnalyzeFlip failed: %v", err)
	}

	m := result.Flip
	if m == nil {
		t.Fatal("flip metrics missing")
	}
	approxD(t, "holding costs", m.TotalHoldingCosts, 9000, 0.01)
	approxD(t, "selling costs", m.SellingCosts, 15600, 0.01)
	// 150,000 + 4,500 closing + 40,000 + 9,000 + 15,600
	approxD(t, "total project cost", m.TotalProjectCost, 219100, 0.01)
	approxD(t, "net profit", m.NetProfit, 40900, 0.01)

	if !m.ROI.Valid || !m.AnnualizedROI.Valid {
		t.Fatal("ROI should be defined")
	}
	// Invested = 30k down + 4.5k closing + 40k rehab + 9k holding = 83.5k
	wantROI := 40900.0 / 83500.0
	if got := m.ROI.Value; got < wantROI-0.001 || got > wantROI+0.001 {
		t.Errorf("ROI = %v, want %v", got, wantROI)
	}
	wantAnnualized := wantROI * 12 / 6
	if got := m.AnnualizedROI.Value; got < wantAnnualized-0.002 || got > wantAnnualized+0.002 {
		t.Errorf("annualized ROI = %v, want %v", got, wantAnnualized)
	}

	// No ongoing operations on a flip.
	if result.Operating != nil || result.Loan != nil {
		t.Error("flip should not carry operating metrics or a loan schedule")
	}
}

func TestAnalyzeFlip_LosingProject(t *testing.T) {
	// GIVEN: An ARV below the project cost
	// WHEN: Analyzing
	// THEN: Negative profit, low score, loss concern

	a := flipDeal()
	a.Flip.ARV = engine.Dollars(200000)

	result, err := strategy.AnalyzeFlip(a)
	if err != nil {
		t.Fatalf("AnalyzeFlip failed: %v", err)
	}
	if !result.Flip.NetProfit.IsNegative() {
		t.Fatal("expected a losing project")
	}
	if !hasConcern(result.Insights) {
		t.Error("losing flip should carry a concern")
	}

	good, _ := strategy.AnalyzeFlip(flipDeal())
	if result.Score >= good.Score {
		t.Errorf("losing score %d should trail profitable score %d", result.Score, good.Score)
	}
}

func TestAnalyzeFlip_LongCarryPenalty(t *testing.T) {
	// GIVEN: The same project at 12 months instead of 6
	// WHEN: Analyzing
	// THEN: Carry-risk concern appears and annualized ROI halves

	a := flipDeal()
	a.Flip.HoldingPeriodMonths = 12

	result, err := strategy.AnalyzeFlip(a)
	if err != nil {
		t.Fatalf("AnalyzeFlip failed: %v", err)
	}
	if !hasConcern(result.Insights) {
		t.Error("12-month carry should raise a concern")
	}
}

func TestAnalyzeFlip_MissingExtension(t *testing.T) {
	// GIVEN: No flip block
	// WHEN: Analyzing
	// THEN: Client error

	if _, err := strategy.AnalyzeFlip(rentalDeal()); err == nil || !engine.IsClientError(err) {
		t.Fatalf("expected client error, got %v", err)
	}
}
