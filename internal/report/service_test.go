package report

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/lendplan/lendplan/internal/dictionary"
)

type stubRepo struct {
	creditSum  float64
	paymentSum float64
	planned    map[int64]float64

	payments     []MonthlyAggregate
	credits      []MonthlyAggregate
	monthlyPlans map[int64][]MonthlyAggregate

	scalarFrom time.Time
	scalarTo   time.Time
}

func (s *stubRepo) IssuedPrincipalSum(_ context.Context, from, to time.Time) (float64, error) {
	s.scalarFrom, s.scalarTo = from, to
	return s.creditSum, nil
}

func (s *stubRepo) PaymentsSum(_ context.Context, from, to time.Time) (float64, error) {
	return s.paymentSum, nil
}

func (s *stubRepo) PlannedSum(_ context.Context, categoryID int64, _, _ time.Time) (float64, error) {
	return s.planned[categoryID], nil
}

func (s *stubRepo) MonthlyPayments(context.Context, int) ([]MonthlyAggregate, error) {
	return s.payments, nil
}

func (s *stubRepo) MonthlyCredits(context.Context, int) ([]MonthlyAggregate, error) {
	return s.credits, nil
}

func (s *stubRepo) MonthlyPlanned(_ context.Context, categoryID int64, _ int) ([]MonthlyAggregate, error) {
	return s.monthlyPlans[categoryID], nil
}

func approx(t *testing.T, got, want float64, label string) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("%s = %.4f, want %.4f", label, got, want)
	}
}

func TestMonthPerformanceMonthToDateWindow(t *testing.T) {
	repo := &stubRepo{
		creditSum:  50,
		paymentSum: 80,
		planned: map[int64]float64{
			dictionary.CategoryIssuance:   200,
			dictionary.CategoryCollection: 160,
		},
	}
	svc := NewService(repo, nil)

	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	collection, issuance, err := svc.MonthPerformance(context.Background(), date)
	if err != nil {
		t.Fatalf("month performance: %v", err)
	}

	wantFrom := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !repo.scalarFrom.Equal(wantFrom) || !repo.scalarTo.Equal(date) {
		t.Fatalf("window = [%s, %s], want [%s, %s]",
			repo.scalarFrom, repo.scalarTo, wantFrom, date)
	}

	if collection.Month != "March 2024" || issuance.Month != "March 2024" {
		t.Fatalf("unexpected month labels: %q / %q", collection.Month, issuance.Month)
	}
	if collection.Category != CategoryCollection || issuance.Category != CategoryIssuance {
		t.Fatalf("unexpected categories: %q / %q", collection.Category, issuance.Category)
	}
	approx(t, collection.CompletionPercent, 50, "collection completion")
	approx(t, issuance.CompletionPercent, 25, "issuance completion")
	approx(t, issuance.PlannedSum, 200, "issuance plan")
	approx(t, issuance.ActualSum, 50, "issuance actual")
}

func TestMonthPerformanceZeroPlan(t *testing.T) {
	repo := &stubRepo{creditSum: 100, paymentSum: 100, planned: map[int64]float64{}}
	svc := NewService(repo, nil)

	collection, issuance, err := svc.MonthPerformance(context.Background(),
		time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("month performance: %v", err)
	}
	if collection.CompletionPercent != 0 || issuance.CompletionPercent != 0 {
		t.Fatalf("zero plan must yield 0%%, got %.2f / %.2f",
			collection.CompletionPercent, issuance.CompletionPercent)
	}
}

func TestYearSummaryMergesUnionOfMonths(t *testing.T) {
	repo := &stubRepo{
		payments: []MonthlyAggregate{
			{YearMonth: "2024-01", Count: 10, Sum: 500},
			{YearMonth: "2024-02", Count: 5, Sum: 300},
		},
		credits: []MonthlyAggregate{
			{YearMonth: "2024-02", Count: 2, Sum: 1000},
			{YearMonth: "2024-03", Count: 1, Sum: 400},
		},
		monthlyPlans: map[int64][]MonthlyAggregate{
			dictionary.CategoryCollection: {{YearMonth: "2024-01", Sum: 1000}},
			dictionary.CategoryIssuance:   {{YearMonth: "2024-02", Sum: 800}},
		},
	}
	svc := NewService(repo, nil)

	rows, err := svc.YearSummary(context.Background(), 2024)
	if err != nil {
		t.Fatalf("year summary: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected union of 3 months, got %d", len(rows))
	}
	for i, want := range []string{"2024-01", "2024-02", "2024-03"} {
		if rows[i].YearMonth != want {
			t.Fatalf("row %d: got %q, want %q", i, rows[i].YearMonth, want)
		}
	}

	jan, feb, mar := rows[0], rows[1], rows[2]

	// January has payments and a payment plan, no credit activity.
	if jan.PaymentCount != 10 || jan.CreditCount != 0 || jan.CreditSum != 0 {
		t.Fatalf("unexpected january row: %+v", jan)
	}
	approx(t, jan.PaymentCompletionPercent, 50, "january payment completion")
	approx(t, jan.CreditCompletionPercent, 0, "january credit completion")

	// February has both sides.
	approx(t, feb.CreditCompletionPercent, 125, "february credit completion")
	approx(t, feb.PaymentCompletionPercent, 0, "february payment completion")

	// March has credits only; every missing aggregate defaults to zero.
	if mar.PaymentCount != 0 || mar.PaymentSum != 0 || mar.PaymentPlanSum != 0 {
		t.Fatalf("unexpected march row: %+v", mar)
	}

	// Yearly shares are computed against the year totals.
	approx(t, feb.YearlyCreditShare, 1000.0/1400*100, "february credit share")
	approx(t, mar.YearlyCreditShare, 400.0/1400*100, "march credit share")
	approx(t, jan.YearlyPaymentShare, 500.0/800*100, "january payment share")

	var creditShares, paymentShares float64
	for _, r := range rows {
		creditShares += r.YearlyCreditShare
		paymentShares += r.YearlyPaymentShare
	}
	approx(t, creditShares, 100, "credit shares total")
	approx(t, paymentShares, 100, "payment shares total")
}

func TestYearSummaryEmptyYear(t *testing.T) {
	svc := NewService(&stubRepo{}, nil)

	rows, err := svc.YearSummary(context.Background(), 2019)
	if err != nil {
		t.Fatalf("year summary: %v", err)
	}
	if rows == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestSafePercent(t *testing.T) {
	cases := []struct {
		value, total, want float64
	}{
		{50, 200, 25},
		{0, 100, 0},
		{10, 0, 0},
		{10, -1, 0},
		{300, 150, 200},
	}
	for _, tc := range cases {
		if got := safePercent(tc.value, tc.total); math.Abs(got-tc.want) > 0.001 {
			t.Fatalf("safePercent(%.0f, %.0f) = %.2f, want %.2f", tc.value, tc.total, got, tc.want)
		}
	}
}
