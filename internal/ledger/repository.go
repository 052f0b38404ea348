package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lendplan/lendplan/internal/dictionary"
)

// Repository reads credits and payments for one customer.
type Repository interface {
	CustomerExists(ctx context.Context, customerID int64) (bool, error)
	CreditsByCustomer(ctx context.Context, customerID int64) ([]CreditRecord, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed ledger repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, customerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ledger: customer exists: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) CreditsByCustomer(ctx context.Context, customerID int64) ([]CreditRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.issuance_date, c.return_date, c.actual_return_date, c.body, c.percent,
		       COALESCE(SUM(CASE WHEN p.type_id = $2 THEN p.sum ELSE 0 END), 0) AS principal_paid,
		       COALESCE(SUM(CASE WHEN p.type_id = $3 THEN p.sum ELSE 0 END), 0) AS interest_paid
		FROM credits c
		LEFT JOIN payments p ON p.credit_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id, c.issuance_date, c.return_date, c.actual_return_date, c.body, c.percent
		ORDER BY c.issuance_date`,
		customerID, dictionary.PaymentPrincipal, dictionary.PaymentInterest)
	if err != nil {
		return nil, fmt.Errorf("ledger: credits by customer: %w", err)
	}
	defer rows.Close()

	var credits []CreditRecord
	for rows.Next() {
		var rec CreditRecord
		if err := rows.Scan(
			&rec.IssuanceDate, &rec.ReturnDate, &rec.ActualReturnDate,
			&rec.Body, &rec.Percent, &rec.PrincipalPaid, &rec.InterestPaid,
		); err != nil {
			return nil, fmt.Errorf("ledger: scan credit: %w", err)
		}
		credits = append(credits, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: rows: %w", err)
	}
	return credits, nil
}
