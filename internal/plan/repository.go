package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lendplan/lendplan/internal/dictionary"
	"github.com/lendplan/lendplan/internal/platform/db"
)

const uniqueViolation = "23505"

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed plan repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) ResolveCategories(ctx context.Context, names []string) (map[string]int64, error) {
	return dictionary.NewRepository(r.pool).ResolveNames(ctx, names)
}

func (r *pgxRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) TargetExists(ctx context.Context, period time.Time, categoryID int64) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM plans WHERE period = $1 AND category_id = $2)`,
		period, categoryID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("plan: target exists: %w", err)
	}
	return exists, nil
}

func (r *txRepository) InsertTarget(ctx context.Context, target Target) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO plans (period, category_id, sum) VALUES ($1, $2, $3)`,
		target.Period, target.CategoryID, target.Amount,
	)
	if err != nil {
		// A concurrent batch may have committed the same (period, category)
		// after the advisory existence check; the constraint decides.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrPlanExists
		}
		return fmt.Errorf("plan: insert target: %w", err)
	}
	return nil
}
