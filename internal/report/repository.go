package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes the aggregate queries the calculators rely on. The
// credits and payments tables are externally populated and read-only here.
type Repository interface {
	IssuedPrincipalSum(ctx context.Context, from, to time.Time) (float64, error)
	PaymentsSum(ctx context.Context, from, to time.Time) (float64, error)
	PlannedSum(ctx context.Context, categoryID int64, from, to time.Time) (float64, error)
	MonthlyPayments(ctx context.Context, year int) ([]MonthlyAggregate, error)
	MonthlyCredits(ctx context.Context, year int) ([]MonthlyAggregate, error)
	MonthlyPlanned(ctx context.Context, categoryID int64, year int) ([]MonthlyAggregate, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed report repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) IssuedPrincipalSum(ctx context.Context, from, to time.Time) (float64, error) {
	return r.scalarSum(ctx,
		`SELECT COALESCE(SUM(body), 0) FROM credits WHERE issuance_date >= $1 AND issuance_date <= $2`,
		from, to)
}

func (r *pgxRepository) PaymentsSum(ctx context.Context, from, to time.Time) (float64, error) {
	return r.scalarSum(ctx,
		`SELECT COALESCE(SUM(sum), 0) FROM payments WHERE payment_date >= $1 AND payment_date <= $2`,
		from, to)
}

func (r *pgxRepository) PlannedSum(ctx context.Context, categoryID int64, from, to time.Time) (float64, error) {
	return r.scalarSum(ctx,
		`SELECT COALESCE(SUM(sum), 0) FROM plans WHERE category_id = $1 AND period >= $2 AND period <= $3`,
		categoryID, from, to)
}

func (r *pgxRepository) scalarSum(ctx context.Context, query string, args ...any) (float64, error) {
	var sum float64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("report: scalar sum: %w", err)
	}
	return sum, nil
}

func (r *pgxRepository) MonthlyPayments(ctx context.Context, year int) ([]MonthlyAggregate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(payment_date, 'YYYY-MM') AS year_month,
		       COUNT(id), COALESCE(SUM(sum), 0)
		FROM payments
		WHERE payment_date IS NOT NULL
		  AND EXTRACT(YEAR FROM payment_date) = $1
		GROUP BY year_month
		ORDER BY year_month`, year)
	if err != nil {
		return nil, fmt.Errorf("report: monthly payments: %w", err)
	}
	return collectAggregates(rows)
}

func (r *pgxRepository) MonthlyCredits(ctx context.Context, year int) ([]MonthlyAggregate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(issuance_date, 'YYYY-MM') AS year_month,
		       COUNT(id), COALESCE(SUM(body), 0)
		FROM credits
		WHERE issuance_date IS NOT NULL
		  AND EXTRACT(YEAR FROM issuance_date) = $1
		GROUP BY year_month
		ORDER BY year_month`, year)
	if err != nil {
		return nil, fmt.Errorf("report: monthly credits: %w", err)
	}
	return collectAggregates(rows)
}

func (r *pgxRepository) MonthlyPlanned(ctx context.Context, categoryID int64, year int) ([]MonthlyAggregate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(period, 'YYYY-MM') AS year_month,
		       COUNT(id), COALESCE(SUM(sum), 0)
		FROM plans
		WHERE category_id = $1
		  AND EXTRACT(YEAR FROM period) = $2
		GROUP BY year_month
		ORDER BY year_month`, categoryID, year)
	if err != nil {
		return nil, fmt.Errorf("report: monthly planned: %w", err)
	}
	return collectAggregates(rows)
}

func collectAggregates(rows pgx.Rows) ([]MonthlyAggregate, error) {
	defer rows.Close()
	var out []MonthlyAggregate
	for rows.Next() {
		var agg MonthlyAggregate
		if err := rows.Scan(&agg.YearMonth, &agg.Count, &agg.Sum); err != nil {
			return nil, fmt.Errorf("report: scan aggregate: %w", err)
		}
		out = append(out, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: rows: %w", err)
	}
	return out, nil
}
