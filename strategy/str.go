/*
str.go - Short-term rental analyzer

REVENUE MODEL:
  monthlyRevenue = averageDailyRate * 30.4 * occupancyRate

  Vacancy is already priced into occupancy, so the operating model
  runs with a zero vacancy rate. Platform fees (percent of revenue),
  cleaning costs per turnover, and a supplies baseline are layered in
  as additional operating expenses; turnovers per month come from
  30.4 / averageLengthOfStay.
*/
package strategy

import (
	"github.com/shopspring/decimal"
	"github.com/warp/deal-engine/engine"
)

// DaysPerMonth is the average month length used for nightly-rate
// revenue conversion.
const DaysPerMonth = 30.4

// AnalyzeShortTermRental scores a nightly-rental operation.
func AnalyzeShortTermRental(a engine.Assumptions) (*Result, error) {
	ext := a.STR
	if ext == nil {
		return nil, engine.NewInvalidInput("str", "short-term rental assumptions required")
	}
	if !ext.AverageDailyRate.IsPositive() {
		return nil, engine.NewInvalidInput("average_daily_rate", "must be positive")
	}
	if ext.OccupancyRate <= 0 || ext.OccupancyRate > 1 {
		return nil, engine.NewInvalidInput("occupancy_rate", "must be in (0,100]")
	}
	if ext.AverageStayNights <= 0 {
		return nil, engine.NewInvalidInput("average_length_of_stay", "must be positive")
	}

	days := decimal.NewFromFloat(DaysPerMonth)
	revenue := engine.MulFraction(ext.AverageDailyRate.Mul(days), ext.OccupancyRate)
	turnovers := DaysPerMonth / ext.AverageStayNights
	platformFees := engine.MulFraction(revenue, ext.PlatformFee)
	cleaningCosts := ext.CleaningFee.Mul(decimal.NewFromFloat(turnovers))

	trial := a
	trial.MonthlyRent = revenue
	trial.VacancyRate = 0 // occupancy already applied
	trial.MonthlyOtherExpenses = a.MonthlyOtherExpenses.
		Add(platformFees).
		Add(cleaningCosts).
		Add(ext.MonthlySupplies)

	loan, err := engine.Amortize(engine.LoanTermsFor(trial))
	if err != nil {
		return nil, err
	}
	metrics, err := engine.ComputeOperatingMetrics(trial, loan.MonthlyPayment)
	if err != nil {
		return nil, err
	}

	score := engine.OperatingScore(metrics)
	insights := rentalInsights(metrics)
	if ext.OccupancyRate < 0.5 {
		insights = append(insights, concern("occupancy below 50% leaves little margin"))
	}
	if ltr := a.MonthlyRent; ltr.IsPositive() && revenue.GreaterThan(ltr.Mul(decimal.NewFromInt(2))) {
		insights = append(insights, strength("nightly revenue more than doubles long-term rent"))
	}

	return &Result{
		Strategy:  engine.StrategyShortTermRental,
		Score:     score,
		Grade:     GradeForScore(score),
		Insights:  insights,
		Operating: metrics,
		Loan:      loan,
		STR: &STRMetrics{
			MonthlyRevenue:       revenue,
			OccupancyRate:        ext.OccupancyRate,
			TurnoversPerMonth:    turnovers,
			MonthlyPlatformFees:  platformFees,
			MonthlyCleaningCosts: cleaningCosts,
			MonthlySupplies:      ext.MonthlySupplies,
		},
	}, nil
}
