package strategy_test

import (
	"testing"

	"github.com/warp/deal-engine/engine"
	"github.com/warp/deal-engine/strategy"
)

func wholesaleDeal() engine.Assumptions {
	a := engine.DefaultAssumptions
	a.PurchasePrice = engine.Dollars(95000)
	a.Wholesale = &engine.WholesaleAssumptions{
		ARV:            engine.Dollars(250000),
		RepairCosts:    engine.Dollars(30000),
		EndBuyerProfit: engine.Dollars(25000),
		ContractPrice:  engine.Dollars(95000),
		EarnestMoney:   engine.Dollars(2000),
		MarketingCosts: engine.Dollars(1000),
		ClosingCosts:   engine.Dollars(1500),
	}
	return a
}

// =============================================================================
// 70% RULE
// =============================================================================

func TestAnalyzeWholesale_SeventyPercentRule(t *testing.T) {
	// GIVEN: ARV $250k, $30k repairs, $25k end-buyer margin, $95k contract
	// WHEN: Analyzing
	// THEN: MAO = 250k*0.70 - 30k - 25k = 120,000; the contract meets the
	//       rule and the derived assignment fee is the $25k spread

	result, err := strategy.AnalyzeWholesale(wholesaleDeal())
	if err != nil {
		t.Fatalf("AnalyzeWholesale failed: %v", err)
	}

	m := result.Wholesale
	if m == nil {
		t.Fatal("wholesale metrics missing")
	}
	approxD(t, "MAO", m.MAO, 120000, 0.01)
	if !m.MeetsSeventyPercentRule {
		t.Error("$95k contract should meet the rule against a $120k MAO")
	}
	approxD(t, "assignment fee", m.AssignmentFee, 25000, 0.01)
	approxD(t, "cash at risk", m.CashAtRisk, 4500, 0.01)
	approxD(t, "net profit", m.NetProfit, 20500, 0.01)
}

func TestAnalyzeWholesale_ExplicitFeeWins(t *testing.T) {
	// GIVEN: An explicitly negotiated assignment fee
	// WHEN: Analyzing
	// THEN: The explicit fee is used, not the MAO spread

	a := wholesaleDeal()
	a.Wholesale.AssignmentFee = engine.Dollars(12000)

	result, err := strategy.AnalyzeWholesale(a)
	if err != nil {
		t.Fatalf("AnalyzeWholesale failed: %v", err)
	}
	approxD(t, "assignment fee", result.Wholesale.AssignmentFee, 12000, 0.01)
}

func TestAnalyzeWholesale_OverpricedContract(t *testing.T) {
	// GIVEN: A contract above the MAO
	// WHEN: Analyzing
	// THEN: Rule fails, score drops, concerns called out

	a := wholesaleDeal()
	a.Wholesale.ContractPrice = engine.Dollars(140000)

	result, err := strategy.AnalyzeWholesale(a)
	if err != nil {
		t.Fatalf("AnalyzeWholesale failed: %v", err)
	}
	if result.Wholesale.MeetsSeventyPercentRule {
		t.Error("$140k contract should fail the rule against a $120k MAO")
	}
	if !result.Wholesale.NetProfit.IsNegative() {
		t.Error("derived fee on an overpriced contract should run negative")
	}
	if !hasConcern(result.Insights) {
		t.Error("failing deal should carry concerns")
	}

	good, _ := strategy.AnalyzeWholesale(wholesaleDeal())
	if result.Score >= good.Score {
		t.Errorf("overpriced score %d should trail conforming score %d", result.Score, good.Score)
	}
}

func TestAnalyzeWholesale_MissingExtension(t *testing.T) {
	// GIVEN: No wholesale block
	// WHEN: Analyzing
	// THEN: Field-named client error

	if _, err := strategy.AnalyzeWholesale(rentalDeal()); err == nil || !engine.IsClientError(err) {
		t.Fatalf("expected client error, got %v", err)
	}
}
