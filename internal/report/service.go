package report

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lendplan/lendplan/internal/dictionary"
)

// Service coordinates the performance calculators with the cache layer.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService wires a Repository with a Cache helper. A nil cache disables
// caching without changing behavior.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// MonthPerformance reports actual-vs-plan completion for the month of date.
// The window runs from the first of the month through the given day
// inclusive (month-to-date, not the full month). Returns the collection row
// and the issuance row.
func (s *Service) MonthPerformance(ctx context.Context, date time.Time) (PerformanceRow, PerformanceRow, error) {
	from := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	creditActual, err := s.repo.IssuedPrincipalSum(ctx, from, to)
	if err != nil {
		return PerformanceRow{}, PerformanceRow{}, err
	}
	paymentActual, err := s.repo.PaymentsSum(ctx, from, to)
	if err != nil {
		return PerformanceRow{}, PerformanceRow{}, err
	}
	creditPlanned, err := s.repo.PlannedSum(ctx, dictionary.CategoryIssuance, from, to)
	if err != nil {
		return PerformanceRow{}, PerformanceRow{}, err
	}
	paymentPlanned, err := s.repo.PlannedSum(ctx, dictionary.CategoryCollection, from, to)
	if err != nil {
		return PerformanceRow{}, PerformanceRow{}, err
	}

	month := from.Format("January 2006")
	collection := PerformanceRow{
		Month:             month,
		Category:          CategoryCollection,
		PlannedSum:        paymentPlanned,
		ActualSum:         paymentActual,
		CompletionPercent: safePercent(paymentActual, paymentPlanned),
	}
	issuance := PerformanceRow{
		Month:             month,
		Category:          CategoryIssuance,
		PlannedSum:        creditPlanned,
		ActualSum:         creditActual,
		CompletionPercent: safePercent(creditActual, creditPlanned),
	}
	return collection, issuance, nil
}

// YearSummary builds the month-by-month report for one year, served from
// the versioned cache when warm.
func (s *Service) YearSummary(ctx context.Context, year int) ([]SummaryRow, error) {
	key, err := s.cache.BuildKey(ctx, keyYearSummary(year)...)
	if err != nil {
		return nil, err
	}
	var rows []SummaryRow
	err = s.cache.FetchJSON(ctx, key, &rows, func(ctx context.Context) (interface{}, error) {
		return s.computeYearSummary(ctx, year)
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []SummaryRow{}
	}
	return rows, nil
}

// computeYearSummary runs the four grouped aggregations concurrently and
// outer-joins them over the union of year-month keys, defaulting missing
// counts and sums to zero.
func (s *Service) computeYearSummary(ctx context.Context, year int) ([]SummaryRow, error) {
	var payments, paymentPlans, credits, creditPlans []MonthlyAggregate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		payments, err = s.repo.MonthlyPayments(gctx, year)
		return err
	})
	g.Go(func() (err error) {
		paymentPlans, err = s.repo.MonthlyPlanned(gctx, dictionary.CategoryCollection, year)
		return err
	})
	g.Go(func() (err error) {
		credits, err = s.repo.MonthlyCredits(gctx, year)
		return err
	})
	g.Go(func() (err error) {
		creditPlans, err = s.repo.MonthlyPlanned(gctx, dictionary.CategoryIssuance, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byMonth := make(map[string]*SummaryRow)
	row := func(yearMonth string) *SummaryRow {
		if r, ok := byMonth[yearMonth]; ok {
			return r
		}
		r := &SummaryRow{YearMonth: yearMonth}
		byMonth[yearMonth] = r
		return r
	}
	for _, agg := range payments {
		r := row(agg.YearMonth)
		r.PaymentCount = agg.Count
		r.PaymentSum = agg.Sum
	}
	for _, agg := range paymentPlans {
		row(agg.YearMonth).PaymentPlanSum = agg.Sum
	}
	for _, agg := range credits {
		r := row(agg.YearMonth)
		r.CreditCount = agg.Count
		r.CreditSum = agg.Sum
	}
	for _, agg := range creditPlans {
		row(agg.YearMonth).CreditPlanSum = agg.Sum
	}

	var totalCredit, totalPayment float64
	for _, r := range byMonth {
		r.CreditCompletionPercent = safePercent(r.CreditSum, r.CreditPlanSum)
		r.PaymentCompletionPercent = safePercent(r.PaymentSum, r.PaymentPlanSum)
		totalCredit += r.CreditSum
		totalPayment += r.PaymentSum
	}

	rows := make([]SummaryRow, 0, len(byMonth))
	for _, r := range byMonth {
		r.YearlyCreditShare = safePercent(r.CreditSum, totalCredit)
		r.YearlyPaymentShare = safePercent(r.PaymentSum, totalPayment)
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].YearMonth < rows[j].YearMonth
	})
	return rows, nil
}

// safePercent guards every derived ratio: a zero or absent denominator
// yields 0%, never a division error.
func safePercent(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return (value / total) * 100
}
