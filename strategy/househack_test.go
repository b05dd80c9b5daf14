package strategy_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/deal-engine/engine"
	"github.com/warp/deal-engine/strategy"
)

func houseHackDeal() engine.Assumptions {
	a := engine.DefaultAssumptions
	a.PurchasePrice = engine.Dollars(400000)
	a.DownPayment = 0.05 // owner-occupied financing
	a.AnnualPropertyTax = engine.Dollars(4800)
	a.AnnualInsurance = engine.Dollars(1800)
	a.HouseHack = &engine.HouseHackAssumptions{
		RentedUnitRents:     []decimal.Decimal{engine.Dollars(1500), engine.Dollars(1400)},
		OwnerUnitMarketRent: engine.Dollars(1800),
	}
	return a
}

// =============================================================================
// HOUSE HACK
// =============================================================================

func TestAnalyzeHouseHack_EffectiveHousingCost(t *testing.T) {
	// GIVEN: A $400k triplex, 5% down, two units rented at $1,500/$1,400
	// WHEN: Analyzing
	// THEN: Only rented units count as income; effective housing cost is
	//       payment + expenses - tenant income; savings compare against
	//       the owner unit's market rent

	result, err := strategy.AnalyzeHouseHack(houseHackDeal())
	if err != nil {
		t.Fatalf("AnalyzeHouseHack failed: %v", err)
	}

	m := result.HouseHack
	if m == nil {
		t.Fatal("house-hack metrics missing")
	}
	approxD(t, "rental income", m.RentalIncome, 2900, 0.01)

	wantCost := result.Loan.MonthlyPayment.
		Add(result.Operating.Expenses.TotalMonthly).
		Sub(result.Operating.EffectiveGrossMonthlyIncome)
	if !m.EffectiveHousingCost.Equal(wantCost) {
		t.Errorf("effective cost %s != payment+expenses-income %s", m.EffectiveHousingCost, wantCost)
	}

	wantSavings := engine.Dollars(1800).Sub(m.EffectiveHousingCost)
	if !m.OwnerRentSavings.Equal(wantSavings) {
		t.Errorf("savings %s != market rent - cost %s", m.OwnerRentSavings, wantSavings)
	}

	// Out of pocket but cheaper than renting: not free, still a win.
	if m.LivesForFree {
		t.Error("this deal should not live for free")
	}
	if !m.OwnerRentSavings.IsPositive() {
		t.Errorf("savings %s should be positive on this deal", m.OwnerRentSavings)
	}
}

func TestAnalyzeHouseHack_LivesForFree(t *testing.T) {
	// GIVEN: Tenant income above the full carrying cost
	// WHEN: Analyzing
	// THEN: LivesForFree flips on and the score gets the bonus

	a := houseHackDeal()
	a.HouseHack.RentedUnitRents = []decimal.Decimal{
		engine.Dollars(2500), engine.Dollars(2500),
	}

	result, err := strategy.AnalyzeHouseHack(a)
	if err != nil {
		t.Fatalf("AnalyzeHouseHack failed: %v", err)
	}
	if !result.HouseHack.LivesForFree {
		t.Errorf("effective cost %s should be covered by $5,000 tenant income",
			result.HouseHack.EffectiveHousingCost)
	}

	base, _ := strategy.AnalyzeHouseHack(houseHackDeal())
	if result.Score <= base.Score {
		t.Errorf("free-living score %d should beat base score %d", result.Score, base.Score)
	}
}

func TestAnalyzeHouseHack_RequiresRentedUnits(t *testing.T) {
	// GIVEN: No rented units, or a negative unit rent
	// WHEN: Analyzing
	// THEN: Client errors

	a := houseHackDeal()
	a.HouseHack.RentedUnitRents = nil
	if _, err := strategy.AnalyzeHouseHack(a); err == nil || !engine.IsClientError(err) {
		t.Errorf("no units: got %v, want client error", err)
	}

	b := houseHackDeal()
	b.HouseHack.RentedUnitRents = []decimal.Decimal{engine.Dollars(-100)}
	if _, err := strategy.AnalyzeHouseHack(b); err == nil || !engine.IsClientError(err) {
		t.Errorf("negative rent: got %v, want client error", err)
	}

	if _, err := strategy.AnalyzeHouseHack(rentalDeal()); err == nil || !engine.IsClientError(err) {
		t.Errorf("missing block: got %v, want client error", err)
	}
}
