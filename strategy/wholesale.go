/*
wholesale.go - Assignment-contract analyzer

THE 70% RULE:
  MAO = ARV * 0.70 - repairCosts - endBuyerProfitMargin

  A contract at or below MAO leaves the end buyer their margin after
  repairs. The assignment fee defaults to the MAO-contract spread when
  the wholesaler hasn't fixed one. No debt service anywhere: the only
  cash at risk is earnest money, marketing, and closing costs.
*/
package strategy

import (
	"github.com/warp/deal-engine/engine"
)

// SeventyPercentRule is the classic wholesale ARV multiplier.
const SeventyPercentRule engine.Fraction = 0.70

// AnalyzeWholesale scores an assignment deal.
func AnalyzeWholesale(a engine.Assumptions) (*Result, error) {
	ext := a.Wholesale
	if ext == nil {
		return nil, engine.NewInvalidInput("wholesale", "wholesale assumptions required")
	}
	if !ext.ARV.IsPositive() {
		return nil, engine.NewInvalidInput("arv", "must be positive")
	}
	if !ext.ContractPrice.IsPositive() {
		return nil, engine.NewInvalidInput("contract_price", "must be positive")
	}
	if ext.RepairCosts.IsNegative() {
		return nil, engine.NewInvalidInput("repair_costs", "must not be negative")
	}

	mao := engine.MulFraction(ext.ARV, SeventyPercentRule).
		Sub(ext.RepairCosts).
		Sub(ext.EndBuyerProfit)
	meetsRule := ext.ContractPrice.LessThanOrEqual(mao)

	fee := ext.AssignmentFee
	if fee.IsZero() {
		fee = mao.Sub(ext.ContractPrice)
	}

	cashAtRisk := ext.EarnestMoney.Add(ext.MarketingCosts).Add(ext.ClosingCosts)
	netProfit := fee.Sub(cashAtRisk)

	profitF, _ := netProfit.Float64()
	riskF, _ := cashAtRisk.Float64()
	roi := engine.SafeRatio(profitF, riskF)

	score := 50
	var insights []Insight
	if meetsRule {
		score += 25
		insights = append(insights, strength("contract price meets the 70% rule"))
	} else {
		score -= 25
		insights = append(insights, concern("contract price exceeds the maximum allowable offer"))
	}
	if netProfit.IsNegative() {
		score -= 25
		insights = append(insights, concern("assignment fee does not cover costs"))
	} else if feeF, _ := fee.Float64(); feeF >= 10000 {
		score += 15
		insights = append(insights, strength("assignment spread above $10k"))
	}
	arvF, _ := ext.ARV.Float64()
	contractF, _ := ext.ContractPrice.Float64()
	if arvF > 0 && contractF/arvF > 0.65 {
		insights = append(insights, concern("thin spread between contract price and ARV"))
	}
	score = clampScore(score)

	return &Result{
		Strategy: engine.StrategyWholesale,
		Score:    score,
		Grade:    GradeForScore(score),
		Insights: insights,
		Wholesale: &WholesaleMetrics{
			MAO:                     mao,
			MeetsSeventyPercentRule: meetsRule,
			AssignmentFee:           fee,
			CashAtRisk:              cashAtRisk,
			NetProfit:               netProfit,
			ROI:                     roi,
		},
	}, nil
}
