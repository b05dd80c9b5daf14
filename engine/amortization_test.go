package engine_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/deal-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared by every engine test file.

// baseDeal is a $300k rental at the built-in defaults: 20% down, 7%
// over 30 years, $2,500 rent.
func baseDeal() engine.Assumptions {
	a := engine.DefaultAssumptions
	a.PurchasePrice = engine.Dollars(300000)
	a.MonthlyRent = engine.Dollars(2500)
	a.AnnualPropertyTax = engine.Dollars(3600)
	a.AnnualInsurance = engine.Dollars(1200)
	return a
}

func approxF(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}

func approxD(t *testing.T, name string, got decimal.Decimal, want, tol float64) {
	t.Helper()
	g, _ := got.Float64()
	approxF(t, name, g, want, tol)
}

func validRatio(t *testing.T, name string, r engine.Ratio) float64 {
	t.Helper()
	if !r.Valid {
		t.Fatalf("%s is invalid, want a value", name)
	}
	return r.Value
}

// =============================================================================
// MONTHLY PAYMENT
// =============================================================================

func TestAmortize_StandardThirtyYearNote(t *testing.T) {
	// GIVEN: A $240,000 note at 7% over 30 years ($300k, 20% down)
	// WHEN: Amortizing
	// THEN: Level payment matches the annuity formula and the schedule
	//       has 360 rows

	result, err := engine.Amortize(engine.LoanTerms{
		Principal:  engine.Dollars(240000),
		AnnualRate: 0.07,
		TermYears:  30,
	})
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	approxD(t, "monthly payment", result.MonthlyPayment, 1596.73, 0.50)
	if len(result.Schedule) != 360 {
		t.Fatalf("schedule length = %d, want 360", len(result.Schedule))
	}
}

func TestAmortize_FinalBalanceIsZero(t *testing.T) {
	// GIVEN: Any standard note
	// WHEN: Amortizing
	// THEN: The final ending balance is exactly zero and total principal
	//       repaid equals the original principal

	result, err := engine.Amortize(engine.LoanTerms{
		Principal:  engine.Dollars(240000),
		AnnualRate: 0.07,
		TermYears:  30,
	})
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	final := result.Schedule[len(result.Schedule)-1]
	approxD(t, "final balance", final.EndingBalance, 0, 0.01)
	approxD(t, "total principal", result.Summary.TotalPrincipal, 240000, 0.01)
}

func TestAmortize_RowIdentityHolds(t *testing.T) {
	// GIVEN: A standard note
	// WHEN: Amortizing
	// THEN: principal + interest == payment for every row, and balances
	//       never increase

	result, err := engine.Amortize(engine.LoanTerms{
		Principal:  engine.Dollars(150000),
		AnnualRate: 0.055,
		TermYears:  15,
	})
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	prev := result.Schedule[0].BeginningBalance
	for _, row := range result.Schedule {
		if !row.Principal.Add(row.Interest).Equal(row.Payment) {
			t.Fatalf("month %d: principal %s + interest %s != payment %s",
				row.Month, row.Principal, row.Interest, row.Payment)
		}
		if row.EndingBalance.GreaterThan(prev) {
			t.Fatalf("month %d: balance increased %s -> %s", row.Month, prev, row.EndingBalance)
		}
		prev = row.EndingBalance
	}
}

func TestAmortize_ZeroRate(t *testing.T) {
	// GIVEN: A 0% loan
	// WHEN: Amortizing
	// THEN: Payment is straight principal / months and no interest accrues

	result, err := engine.Amortize(engine.LoanTerms{
		Principal:  engine.Dollars(120000),
		AnnualRate: 0,
		TermYears:  10,
	})
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	approxD(t, "monthly payment", result.MonthlyPayment, 1000, 0.01)
	approxD(t, "total interest", result.Summary.TotalInterest, 0, 0.001)
}

func TestAmortize_ZeroPrincipal(t *testing.T) {
	// GIVEN: An all-cash deal (zero principal)
	// WHEN: Amortizing
	// THEN: A degenerate all-zero schedule, not an error

	result, err := engine.Amortize(engine.LoanTerms{
		Principal:  decimal.Zero,
		AnnualRate: 0.07,
		TermYears:  30,
	})
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}
	if !result.MonthlyPayment.IsZero() {
		t.Errorf("monthly payment = %s, want 0", result.MonthlyPayment)
	}
	for _, row := range result.Schedule {
		if !row.Payment.IsZero() || !row.EndingBalance.IsZero() {
			t.Fatalf("month %d: non-zero row on zero-principal loan", row.Month)
		}
	}
}

func TestAmortize_ShorterTermMeansHigherPayment(t *testing.T) {
	// GIVEN: The same principal and rate at 15 vs 30 years
	// WHEN: Amortizing both
	// THEN: The 15-year payment is higher and its total interest lower

	long, err := engine.Amortize(engine.LoanTerms{Principal: engine.Dollars(240000), AnnualRate: 0.07, TermYears: 30})
	if err != nil {
		t.Fatalf("Amortize 30y failed: %v", err)
	}
	short, err := engine.Amortize(engine.LoanTerms{Principal: engine.Dollars(240000), AnnualRate: 0.07, TermYears: 15})
	if err != nil {
		t.Fatalf("Amortize 15y failed: %v", err)
	}

	if !short.MonthlyPayment.GreaterThan(long.MonthlyPayment) {
		t.Errorf("15y payment %s should exceed 30y payment %s", short.MonthlyPayment, long.MonthlyPayment)
	}
	if !short.Summary.TotalInterest.LessThan(long.Summary.TotalInterest) {
		t.Errorf("15y total interest %s should be below 30y %s",
			short.Summary.TotalInterest, long.Summary.TotalInterest)
	}
}

func TestAmortize_InvalidInputs(t *testing.T) {
	// GIVEN: Negative principal, zero term, negative rate
	// WHEN: Amortizing
	// THEN: Each fails with a field-named invalid-input error

	cases := []struct {
		name  string
		terms engine.LoanTerms
		field string
	}{
		{"negative principal", engine.LoanTerms{Principal: engine.Dollars(-1), AnnualRate: 0.07, TermYears: 30}, "principal"},
		{"zero term", engine.LoanTerms{Principal: engine.Dollars(100000), AnnualRate: 0.07, TermYears: 0}, "loan_term_years"},
		{"negative rate", engine.LoanTerms{Principal: engine.Dollars(100000), AnnualRate: -0.01, TermYears: 30}, "interest_rate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Amortize(tc.terms)
			if err == nil {
				t.Fatal("expected error")
			}
			var invalid *engine.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("error type = %T, want InvalidInputError", err)
			}
			if invalid.Field != tc.field {
				t.Errorf("field = %q, want %q", invalid.Field, tc.field)
			}
			if !engine.IsClientError(err) {
				t.Error("invalid input should classify as a client error")
			}
		})
	}
}

// =============================================================================
// SCHEDULE LOOKUPS
// =============================================================================

func TestBalanceAfterMonth(t *testing.T) {
	// GIVEN: An amortized note
	// WHEN: Looking up balances at month 0, mid-term, and past the end
	// THEN: Month 0 is the principal, mid-term matches the schedule,
	//       past-the-end is zero

	result, err := engine.Amortize(engine.LoanTerms{
		Principal:  engine.Dollars(240000),
		AnnualRate: 0.07,
		TermYears:  30,
	})
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	approxD(t, "balance at month 0", result.BalanceAfterMonth(0), 240000, 0.01)
	if !result.BalanceAfterMonth(120).Equal(result.Schedule[119].EndingBalance) {
		t.Error("balance at month 120 should match schedule row 120")
	}
	if !result.BalanceAfterMonth(999).IsZero() {
		t.Error("balance past the schedule should be zero")
	}
}

func TestInterestForYear_SumsToTotal(t *testing.T) {
	// GIVEN: An amortized note
	// WHEN: Summing InterestForYear over the full term
	// THEN: The sum equals the summary's total interest

	result, err := engine.Amortize(engine.LoanTerms{
		Principal:  engine.Dollars(240000),
		AnnualRate: 0.07,
		TermYears:  30,
	})
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	sum := decimal.Zero
	for y := 1; y <= 30; y++ {
		sum = sum.Add(result.InterestForYear(y))
	}
	if !sum.Equal(result.Summary.TotalInterest) {
		t.Errorf("Σ yearly interest %s != total %s", sum, result.Summary.TotalInterest)
	}

	// Early years pay more interest than late years.
	if !result.InterestForYear(1).GreaterThan(result.InterestForYear(30)) {
		t.Error("year-1 interest should exceed year-30 interest")
	}
}
