package strategy_test

import (
	"math"
	"testing"

	"github.com/warp/deal-engine/engine"
	"github.com/warp/deal-engine/strategy"
)

func strDeal() engine.Assumptions {
	a := rentalDeal()
	a.STR = &engine.STRAssumptions{
		AverageDailyRate:  engine.Dollars(200),
		OccupancyRate:     0.65,
		CleaningFee:       engine.Dollars(100),
		AverageStayNights: 3.8,
		PlatformFee:       0.03,
		MonthlySupplies:   engine.Dollars(150),
	}
	return a
}

// =============================================================================
// SHORT-TERM RENTAL
// =============================================================================

func TestAnalyzeShortTermRental_RevenueModel(t *testing.T) {
	// GIVEN: $200/night at 65% occupancy, 3.8-night stays
	// WHEN: Analyzing
	// THEN: Revenue = 200 * 30.4 * 0.65 = 3,952; turnovers = 30.4/3.8 = 8;
	//       platform fees and cleaning flow into operating expenses

	result, err := strategy.AnalyzeShortTermRental(strDeal())
	if err != nil {
		t.Fatalf("AnalyzeShortTermRental failed: %v", err)
	}

	m := result.STR
	if m == nil {
		t.Fatal("STR metrics missing")
	}
	approxD(t, "monthly revenue", m.MonthlyRevenue, 3952, 0.01)
	if math.Abs(m.TurnoversPerMonth-8.0) > 0.001 {
		t.Errorf("turnovers = %v, want 8", m.TurnoversPerMonth)
	}
	approxD(t, "platform fees", m.MonthlyPlatformFees, 3952*0.03, 0.01)
	approxD(t, "cleaning costs", m.MonthlyCleaningCosts, 800, 0.01)

	// Occupancy already prices vacancy: effective income == revenue.
	if !result.Operating.EffectiveGrossMonthlyIncome.Equal(m.MonthlyRevenue) {
		t.Errorf("effective income %s should equal revenue %s (no double vacancy)",
			result.Operating.EffectiveGrossMonthlyIncome, m.MonthlyRevenue)
	}

	// The STR costs land in the Other expense line.
	wantOther := 3952*0.03 + 800 + 150
	approxD(t, "other expenses", result.Operating.Expenses.Other, wantOther, 0.01)
}

func TestAnalyzeShortTermRental_InvalidOccupancy(t *testing.T) {
	// GIVEN: Occupancy outside (0,1]
	// WHEN: Analyzing
	// THEN: Client error either side

	for _, occ := range []engine.Fraction{0, 1.2, -0.1} {
		a := strDeal()
		a.STR.OccupancyRate = occ
		if _, err := strategy.AnalyzeShortTermRental(a); err == nil || !engine.IsClientError(err) {
			t.Errorf("occupancy %v: got %v, want client error", occ, err)
		}
	}
}

func TestAnalyzeShortTermRental_LowOccupancyConcern(t *testing.T) {
	// GIVEN: 40% occupancy
	// WHEN: Analyzing
	// THEN: The margin concern is raised

	a := strDeal()
	a.STR.OccupancyRate = 0.40

	result, err := strategy.AnalyzeShortTermRental(a)
	if err != nil {
		t.Fatalf("AnalyzeShortTermRental failed: %v", err)
	}
	if !hasConcern(result.Insights) {
		t.Error("sub-50% occupancy should raise a concern")
	}
}
