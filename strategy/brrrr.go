/*
brrrr.go - Buy-rehab-rent-refinance analyzer

DEAL SHAPE:
  allIn      = purchase + closing + rehab + holding costs over the
               rehab/season period
  refinance  = ARV * refinanceLTV at the refinance rate and term
  cashLeft   = allIn - refinance   (negative means cash pulled OUT)

  Post-refinance cash flow runs against the new note. Cash-on-cash is
  measured on cash left in the deal; a full cash-out has no cash basis
  and the ratio is undefined rather than infinite.
*/
package strategy

import (
	"github.com/shopspring/decimal"
	"github.com/warp/deal-engine/engine"
)

// AnalyzeBRRRR scores a buy-rehab-rent-refinance play.
func AnalyzeBRRRR(a engine.Assumptions) (*Result, error) {
	ext := a.BRRRR
	if ext == nil {
		return nil, engine.NewInvalidInput("brrrr", "BRRRR assumptions required")
	}
	if !ext.ARV.IsPositive() {
		return nil, engine.NewInvalidInput("arv", "must be positive")
	}
	if ext.RefinanceLTV <= 0 || ext.RefinanceLTV > 1 {
		return nil, engine.NewInvalidInput("refinance_ltv", "must be in (0,100]")
	}
	if ext.HoldingPeriodMonths <= 0 {
		return nil, engine.NewInvalidInput("holding_period_months", "must be positive")
	}
	if ext.RefinanceTermYears <= 0 {
		return nil, engine.NewInvalidInput("refinance_loan_term", "must be positive")
	}

	holding := ext.MonthlyHoldingCosts.Mul(decimal.NewFromInt(int64(ext.HoldingPeriodMonths)))
	allIn := a.PurchasePrice.
		Add(a.ClosingCostAmount()).
		Add(a.RehabCosts).
		Add(holding)
	refiAmount := engine.MulFraction(ext.ARV, ext.RefinanceLTV)
	cashLeft := allIn.Sub(refiAmount)

	refiLoan, err := engine.Amortize(engine.LoanTerms{
		Principal:  refiAmount,
		AnnualRate: ext.RefinanceRate,
		TermYears:  ext.RefinanceTermYears,
	})
	if err != nil {
		return nil, err
	}

	// Stabilized operations are valued at ARV with the refi note.
	trial := a
	trial.PurchasePrice = ext.ARV
	metrics, err := engine.ComputeOperatingMetrics(trial, refiLoan.MonthlyPayment)
	if err != nil {
		return nil, err
	}

	annualCF, _ := metrics.AnnualCashFlow.Float64()
	cashLeftF, _ := cashLeft.Float64()
	coc := engine.InvalidRatio()
	if cashLeftF > 0 {
		coc = engine.SafeRatio(annualCF, cashLeftF)
	}
	metrics.CashOnCash = coc

	score := engine.OperatingScore(metrics)
	insights := rentalInsights(metrics)
	if !cashLeft.IsPositive() {
		score += 20
		insights = append(insights, strength("full cash-out: nothing left in the deal"))
	} else if cashLeft.LessThan(engine.MulFraction(allIn, 0.15)) {
		score += 10
		insights = append(insights, strength("refinance recovers most of the cash invested"))
	}
	allInF, _ := allIn.Float64()
	arvF, _ := ext.ARV.Float64()
	if arvF > 0 && allInF/arvF > 0.85 {
		score -= 10
		insights = append(insights, concern("all-in cost above 85% of ARV"))
	}
	score = clampScore(score)

	return &Result{
		Strategy:  engine.StrategyBRRRR,
		Score:     score,
		Grade:     GradeForScore(score),
		Insights:  insights,
		Operating: metrics,
		Loan:      refiLoan,
		BRRRR: &BRRRRMetrics{
			AllInCost:        allIn,
			HoldingCosts:     holding,
			RefinanceAmount:  refiAmount,
			CashLeftInDeal:   cashLeft,
			PostRefiPayment:  refiLoan.MonthlyPayment,
			PostRefiCashFlow: metrics.AnnualCashFlow,
			CashOnCash:       coc,
		},
	}, nil
}
