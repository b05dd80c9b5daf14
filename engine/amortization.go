/*
amortization.go - Fixed-rate loan amortization

PURPOSE:
  Converts loan principal/rate/term into a monthly payment and a full
  payment-by-payment schedule with principal/interest splits. Every
  downstream calculation that touches debt (operating metrics, multi-
  year projections, tax interest deductions, exit payoff) reads from
  the schedule produced here.

ALGORITHM:
  monthlyPayment = P * r / (1 - (1+r)^-n)
    where r = annualRate/12, n = termYears*12

  Special cases:
    r == 0  -> monthlyPayment = P / n (straight principal)
    P == 0  -> zero-payment degenerate schedule (all-cash deal)

  Each row: interest = beginningBalance * r, principal = payment - interest.
  The final row's principal is clamped so the ending balance lands at
  exactly zero, absorbing accumulated cent-rounding into the last payment.

INVARIANTS:
  - schedule length == termYears * 12
  - principal + interest == payment for every row
  - balances strictly non-increasing; final ending balance is zero

SEE ALSO:
  - metrics.go: Consumes MonthlyPayment as debt service
  - projection.go: Reads year-end balances via BalanceAfterMonth
  - tax.go: Reads per-year interest via InterestForYear
*/
package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT / OUTPUT TYPES
// =============================================================================

// LoanTerms are the inputs to amortization.
type LoanTerms struct {
	Principal  decimal.Decimal
	AnnualRate Fraction
	TermYears  int
}

// PaymentRow is one month of the amortization schedule.
type PaymentRow struct {
	Month               int             `json:"month"`
	BeginningBalance    decimal.Decimal `json:"beginning_balance"`
	Payment             decimal.Decimal `json:"payment"`
	Principal           decimal.Decimal `json:"principal"`
	Interest            decimal.Decimal `json:"interest"`
	EndingBalance       decimal.Decimal `json:"ending_balance"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
}

// AmortizationSummary aggregates the full schedule.
type AmortizationSummary struct {
	TotalPayments    decimal.Decimal `json:"total_payments"`
	TotalPrincipal   decimal.Decimal `json:"total_principal"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	PrincipalPercent Ratio           `json:"principal_percent"`
	InterestPercent  Ratio           `json:"interest_percent"`
	PayoffDate       time.Time       `json:"payoff_date"`
}

// AmortizationResult is the complete output of Amortize.
type AmortizationResult struct {
	MonthlyPayment decimal.Decimal     `json:"monthly_payment"`
	Schedule       []PaymentRow        `json:"schedule"`
	Summary        AmortizationSummary `json:"summary"`
}

// =============================================================================
// AMORTIZATION
// =============================================================================

// Amortize builds the full schedule for a fixed-rate loan.
func Amortize(t LoanTerms) (*AmortizationResult, error) {
	if t.Principal.IsNegative() {
		return nil, NewInvalidInput("principal", "must not be negative")
	}
	if t.TermYears <= 0 {
		return nil, NewInvalidInput("loan_term_years", "must be positive")
	}
	rate := t.AnnualRate.Float()
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, NewInvalidInput("interest_rate", "must be finite")
	}
	if rate < 0 {
		return nil, NewInvalidInput("interest_rate", "must not be negative")
	}

	n := t.TermYears * 12
	payment := monthlyPayment(t.Principal, rate, n)
	monthlyRate := decimal.NewFromFloat(rate / 12)

	schedule := make([]PaymentRow, 0, n)
	balance := t.Principal
	cumPrincipal := decimal.Zero
	cumInterest := decimal.Zero

	for m := 1; m <= n; m++ {
		interest := RoundCents(balance.Mul(monthlyRate))
		principal := payment.Sub(interest)

		// Final row (or a balance smaller than the scheduled principal
		// due to cent rounding): clamp so the loan pays off exactly.
		if m == n || principal.GreaterThan(balance) {
			principal = balance
		}
		rowPayment := principal.Add(interest)

		ending := balance.Sub(principal)
		cumPrincipal = cumPrincipal.Add(principal)
		cumInterest = cumInterest.Add(interest)

		schedule = append(schedule, PaymentRow{
			Month:               m,
			BeginningBalance:    balance,
			Payment:             rowPayment,
			Principal:           principal,
			Interest:            interest,
			EndingBalance:       ending,
			CumulativePrincipal: cumPrincipal,
			CumulativeInterest:  cumInterest,
		})
		balance = ending
	}

	totalPaid := cumPrincipal.Add(cumInterest)
	totalPaidF, _ := totalPaid.Float64()
	principalF, _ := cumPrincipal.Float64()
	interestF, _ := cumInterest.Float64()

	return &AmortizationResult{
		MonthlyPayment: payment,
		Schedule:       schedule,
		Summary: AmortizationSummary{
			TotalPayments:    totalPaid,
			TotalPrincipal:   cumPrincipal,
			TotalInterest:    cumInterest,
			PrincipalPercent: SafeRatio(principalF*100, totalPaidF),
			InterestPercent:  SafeRatio(interestF*100, totalPaidF),
			PayoffDate:       time.Now().AddDate(0, n, 0),
		},
	}, nil
}

// monthlyPayment computes the level payment, handling the zero-rate
// and zero-principal special cases.
func monthlyPayment(principal decimal.Decimal, annualRate float64, months int) decimal.Decimal {
	if principal.IsZero() {
		return decimal.Zero
	}
	p, _ := principal.Float64()
	if annualRate == 0 {
		return RoundCents(decimal.NewFromFloat(p / float64(months)))
	}
	r := annualRate / 12
	pmt := p * r / (1 - math.Pow(1+r, -float64(months)))
	return RoundCents(decimal.NewFromFloat(pmt))
}

// =============================================================================
// SCHEDULE LOOKUPS
// =============================================================================

// BalanceAfterMonth returns the remaining balance after the given number
// of payments. Month 0 is the original principal; months past the end of
// the schedule return zero.
func (r *AmortizationResult) BalanceAfterMonth(month int) decimal.Decimal {
	if len(r.Schedule) == 0 || month <= 0 {
		if len(r.Schedule) == 0 {
			return decimal.Zero
		}
		return r.Schedule[0].BeginningBalance
	}
	if month >= len(r.Schedule) {
		return decimal.Zero
	}
	return r.Schedule[month-1].EndingBalance
}

// InterestForYear returns total interest paid during year y (1-based).
func (r *AmortizationResult) InterestForYear(year int) decimal.Decimal {
	if year <= 0 || len(r.Schedule) == 0 {
		return decimal.Zero
	}
	start := (year - 1) * 12
	end := year * 12
	if start >= len(r.Schedule) {
		return decimal.Zero
	}
	if end > len(r.Schedule) {
		end = len(r.Schedule)
	}
	total := decimal.Zero
	for _, row := range r.Schedule[start:end] {
		total = total.Add(row.Interest)
	}
	return total
}

// AnnualDebtService returns twelve scheduled payments.
func (r *AmortizationResult) AnnualDebtService() decimal.Decimal {
	return r.MonthlyPayment.Mul(twelve)
}
