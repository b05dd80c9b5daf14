/*
househack.go - Owner-occupied multi-unit analyzer

Only the rented units count as income. The owner's unit is excluded
from revenue but its market rent is reported as an implicit savings
metric: the analyzer answers "what does housing actually cost me?"
rather than "what does this asset yield?".
*/
package strategy

import (
	"github.com/shopspring/decimal"
	"github.com/warp/deal-engine/engine"
)

// AnalyzeHouseHack scores an owner-occupied rental.
func AnalyzeHouseHack(a engine.Assumptions) (*Result, error) {
	ext := a.HouseHack
	if ext == nil {
		return nil, engine.NewInvalidInput("house_hack", "house-hack assumptions required")
	}
	if len(ext.RentedUnitRents) == 0 {
		return nil, engine.NewInvalidInput("rented_unit_rents", "at least one rented unit required")
	}

	rentalIncome := decimal.Zero
	for _, rent := range ext.RentedUnitRents {
		if rent.IsNegative() {
			return nil, engine.NewInvalidInput("rented_unit_rents", "must not be negative")
		}
		rentalIncome = rentalIncome.Add(rent)
	}

	trial := a
	trial.MonthlyRent = rentalIncome

	loan, err := engine.Amortize(engine.LoanTermsFor(trial))
	if err != nil {
		return nil, err
	}
	metrics, err := engine.ComputeOperatingMetrics(trial, loan.MonthlyPayment)
	if err != nil {
		return nil, err
	}

	// Out-of-pocket housing cost: everything the owner pays monthly,
	// less what the tenants cover.
	effectiveCost := loan.MonthlyPayment.
		Add(metrics.Expenses.TotalMonthly).
		Sub(metrics.EffectiveGrossMonthlyIncome)
	livesForFree := !effectiveCost.IsPositive()

	savings := ext.OwnerUnitMarketRent.Sub(effectiveCost)

	score := engine.OperatingScore(metrics)
	insights := rentalInsights(metrics)
	if livesForFree {
		score += 20
		insights = append(insights, strength("tenants cover the full housing cost"))
	} else if savings.IsPositive() {
		score += 10
		insights = append(insights, strength("living for less than market rent"))
	} else if ext.OwnerUnitMarketRent.IsPositive() {
		insights = append(insights, concern("costs more than renting a comparable unit"))
	}
	score = clampScore(score)

	return &Result{
		Strategy:  engine.StrategyHouseHack,
		Score:     score,
		Grade:     GradeForScore(score),
		Insights:  insights,
		Operating: metrics,
		Loan:      loan,
		HouseHack: &HouseHackMetrics{
			RentalIncome:         rentalIncome,
			OwnerRentSavings:     savings,
			EffectiveHousingCost: effectiveCost,
			LivesForFree:         livesForFree,
		},
	}, nil
}
