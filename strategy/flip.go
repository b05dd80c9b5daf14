/*
flip.go - Fix-and-flip analyzer

No ongoing cash flow: the whole analysis is entry cost versus exit
price. Holding costs accrue monthly over the project; selling costs
come off the ARV. ROI is measured on cash invested and annualized by
the project length.
*/
package strategy

import (
	"github.com/shopspring/decimal"
	"github.com/warp/deal-engine/engine"
)

// Flip ROI screening thresholds.
const (
	flipStrongROI = 0.20
	flipGoodROI   = 0.12
	flipThinROI   = 0.05
)

// AnalyzeFlip scores a fix-and-flip project.
func AnalyzeFlip(a engine.Assumptions) (*Result, error) {
	ext := a.Flip
	if ext == nil {
		return nil, engine.NewInvalidInput("flip", "flip assumptions required")
	}
	if !ext.ARV.IsPositive() {
		return nil, engine.NewInvalidInput("arv", "must be positive")
	}
	if ext.HoldingPeriodMonths <= 0 {
		return nil, engine.NewInvalidInput("holding_period_months", "must be positive")
	}

	holding := ext.MonthlyHoldingCosts.Mul(decimal.NewFromInt(int64(ext.HoldingPeriodMonths)))
	selling := engine.MulFraction(ext.ARV, ext.SellingCosts)
	totalCost := a.PurchasePrice.
		Add(a.ClosingCostAmount()).
		Add(a.RehabCosts).
		Add(holding).
		Add(selling)
	netProfit := ext.ARV.Sub(totalCost)

	invested := a.TotalCashInvested().Add(holding)
	profitF, _ := netProfit.Float64()
	investedF, _ := invested.Float64()
	roi := engine.SafeRatio(profitF, investedF)

	annualized := engine.InvalidRatio()
	if roi.Valid {
		annualized = engine.NewRatio(roi.Value * 12 / float64(ext.HoldingPeriodMonths))
	}

	score := 50
	var insights []Insight
	if netProfit.IsNegative() {
		score -= 35
		insights = append(insights, concern("project loses money at the projected ARV"))
	}
	if roi.Valid {
		switch {
		case roi.Value >= flipStrongROI:
			score += 30
			insights = append(insights, strength("project ROI above 20%"))
		case roi.Value >= flipGoodROI:
			score += 18
			insights = append(insights, strength("project ROI above 12%"))
		case roi.Value >= flipThinROI:
			score += 5
		case roi.Value >= 0:
			insights = append(insights, concern("margin too thin to absorb surprises"))
		}
	}
	if ext.HoldingPeriodMonths > 9 {
		score -= 5
		insights = append(insights, concern("long holding period increases carry risk"))
	}
	score = clampScore(score)

	return &Result{
		Strategy: engine.StrategyFlip,
		Score:    score,
		Grade:    GradeForScore(score),
		Insights: insights,
		Flip: &FlipMetrics{
			TotalHoldingCosts: holding,
			SellingCosts:      selling,
			TotalProjectCost:  totalCost,
			NetProfit:         netProfit,
			ROI:               roi,
			AnnualizedROI:     annualized,
		},
	}, nil
}
