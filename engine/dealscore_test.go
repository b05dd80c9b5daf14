package engine_test

import (
	"math"
	"testing"

	"github.com/warp/deal-engine/engine"
)

// =============================================================================
// GRADES AND SCORES
// =============================================================================

func TestDealGrade_BandBoundaries(t *testing.T) {
	// GIVEN: Discounts at each band edge
	// WHEN: Grading
	// THEN: Edges are inclusive on the upper band; 19.99 is still an A

	cases := []struct {
		discount float64
		want     engine.Grade
	}{
		{25, engine.GradeAPlus},
		{20, engine.GradeAPlus},
		{19.99, engine.GradeA},
		{15, engine.GradeA},
		{10, engine.GradeB},
		{5, engine.GradeC},
		{0, engine.GradeD},
		{-1, engine.GradeF},
	}
	for _, tc := range cases {
		if got := engine.DealGrade(tc.discount); got != tc.want {
			t.Errorf("DealGrade(%v) = %s, want %s", tc.discount, got, tc.want)
		}
	}
}

func TestDealScoreValue_ClampsToRange(t *testing.T) {
	// GIVEN: Discounts including negative and beyond 25%
	// WHEN: Scoring
	// THEN: score = round(discount*4) clamped to [0,100]

	cases := []struct {
		discount float64
		want     int
	}{
		{10, 40},
		{12.6, 50},
		{25, 100},
		{40, 100},
		{0, 0},
		{-5, 0},
	}
	for _, tc := range cases {
		if got := engine.DealScoreValue(tc.discount); got != tc.want {
			t.Errorf("DealScoreValue(%v) = %d, want %d", tc.discount, got, tc.want)
		}
	}
}

// =============================================================================
// DEAL ZONES
// =============================================================================

func TestClassifyDealZone_DecisionTable(t *testing.T) {
	// GIVEN: Buy prices at each zone threshold against a 100k income value
	// WHEN: Classifying
	// THEN: The literal decision-table rows come back

	cases := []struct {
		buyPrice   float64
		wantZone   string
		motivation engine.MotivationLevel
	}{
		{101000, "Loss Zone", engine.MotivationLow},   // above income value
		{99000, "High Risk", engine.MotivationLow},    // 1% below
		{97000, "Negotiate", engine.MotivationModerate}, // 3% below
		{90000, "Profit Zone", engine.MotivationHigh}, // 10% below
		{85000, "Deep Value", engine.MotivationHigh},  // 15% below
	}
	for _, tc := range cases {
		zone := engine.ClassifyDealZone(100000, tc.buyPrice)
		if zone.Name != tc.wantZone {
			t.Errorf("ClassifyDealZone(100000, %v) = %s, want %s", tc.buyPrice, zone.Name, tc.wantZone)
		}
		if zone.SellerMotivation != tc.motivation {
			t.Errorf("motivation for %s = %s, want %s", tc.wantZone, zone.SellerMotivation, tc.motivation)
		}
	}
}

func TestClassifyDealZone_NoIncomeBasis(t *testing.T) {
	// GIVEN: A non-positive income value
	// WHEN: Classifying
	// THEN: Loss Zone - there is no income basis to buy below

	if zone := engine.ClassifyDealZone(0, 100000); zone.Name != "Loss Zone" {
		t.Errorf("zone = %s, want Loss Zone", zone.Name)
	}
}

func TestIncomeValue(t *testing.T) {
	// GIVEN: 19,995 NOI capitalized at the 6% benchmark
	// WHEN: Valuing
	// THEN: 333,250; zero cap rate means invalid, not Inf

	v := engine.IncomeValue(engine.Dollars(19995), engine.BenchmarkGoodCapRate)
	approxF(t, "income value", validRatio(t, "income value", v), 333250, 0.5)

	if engine.IncomeValue(engine.Dollars(19995), 0).Valid {
		t.Error("zero cap rate should produce an invalid income value")
	}
}

// =============================================================================
// SCORE DEAL
// =============================================================================

func TestScoreDeal_DiscountDrivesScoreAndGrade(t *testing.T) {
	// GIVEN: $300k list, $255k buy (15% discount), income value above buy
	// WHEN: Scoring
	// THEN: Score 60, grade A, zone from the decision table, narratives set

	score, err := engine.ScoreDeal(300000, 255000, 290000, engine.NewRatio(280000))
	if err != nil {
		t.Fatalf("ScoreDeal failed: %v", err)
	}

	if score.Score != 60 {
		t.Errorf("score = %d, want 60", score.Score)
	}
	if score.Grade != engine.GradeA {
		t.Errorf("grade = %s, want A", score.Grade)
	}
	approxF(t, "discount", score.DiscountPercent, 15, 1e-9)
	if score.Zone == nil || score.Zone.Name != "Deep Value" {
		t.Errorf("zone = %+v, want Deep Value (12.1%% below income value)", score.Zone)
	}
	if len(score.Strengths) == 0 {
		t.Error("a 15 percent discount deal should list strengths")
	}
}

func TestScoreDeal_NoIncomeBasisOmitsZone(t *testing.T) {
	// GIVEN: No income-based valuation (zero income value)
	// WHEN: Scoring an otherwise fine discount
	// THEN: The zone is absent and no valuation concern is raised

	score, err := engine.ScoreDeal(300000, 255000, 0, engine.InvalidRatio())
	if err != nil {
		t.Fatalf("ScoreDeal failed: %v", err)
	}
	if score.Zone != nil {
		t.Errorf("zone = %+v, want none without an income basis", score.Zone)
	}
	for _, c := range score.Concerns {
		if c == "price exceeds the income-based value" {
			t.Error("missing valuation should not raise a valuation concern")
		}
	}
}

func TestScoreDeal_InvalidListPrice(t *testing.T) {
	// GIVEN: Zero list price
	// WHEN: Scoring
	// THEN: Field-named invalid-input error

	_, err := engine.ScoreDeal(0, 100000, 0, engine.InvalidRatio())
	if err == nil || !engine.IsClientError(err) {
		t.Fatalf("expected a client error, got %v", err)
	}
}

// =============================================================================
// BREAKEVEN PRICE SOLVER
// =============================================================================

func TestSolveBreakevenPrice_RoundTripsToZeroCashFlow(t *testing.T) {
	// GIVEN: The base deal (slightly cash-flow positive at $300k)
	// WHEN: Solving for the breakeven purchase price
	// THEN: Re-running the pipeline at the solved price yields ~$0 annual
	//       cash flow, and the solved price is above the current one

	a := baseDeal()
	breakeven := engine.SolveBreakevenPrice(a)
	price := validRatio(t, "breakeven price", breakeven)

	if price <= 300000 {
		t.Errorf("breakeven %v should exceed the cash-flowing price 300000", price)
	}

	trial := a
	trial.PurchasePrice = engine.Dollars(price)
	loan, err := engine.Amortize(engine.LoanTermsFor(trial))
	if err != nil {
		t.Fatalf("Amortize at breakeven failed: %v", err)
	}
	m, err := engine.ComputeOperatingMetrics(trial, loan.MonthlyPayment)
	if err != nil {
		t.Fatalf("metrics at breakeven failed: %v", err)
	}
	cf, _ := m.AnnualCashFlow.Float64()
	if math.Abs(cf) > 25 {
		t.Errorf("cash flow at breakeven = %v, want ~0", cf)
	}
}

func TestSolveBreakevenPrice_NoCrossingInRange(t *testing.T) {
	// GIVEN: A deal that cash flows at every price in [0.1x, 2x] list
	//        (huge rent relative to price)
	// WHEN: Solving
	// THEN: Typed absent result, not an error

	a := baseDeal()
	a.PurchasePrice = engine.Dollars(50000)
	a.ListPrice = engine.Dollars(50000)
	a.MonthlyRent = engine.Dollars(5000)

	if engine.SolveBreakevenPrice(a).Valid {
		t.Error("expected no breakeven when cash flow never crosses zero in range")
	}
}

func TestSolveBreakevenPrice_ZeroListPrice(t *testing.T) {
	// GIVEN: No price information at all
	// WHEN: Solving
	// THEN: Invalid

	var a engine.Assumptions
	if engine.SolveBreakevenPrice(a).Valid {
		t.Error("expected invalid breakeven without a list price")
	}
}
