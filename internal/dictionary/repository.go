package dictionary

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type dbtx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads the category lookup table. It accepts either a pool or an
// open transaction so ingestion can resolve labels inside its own tx.
type Repository struct {
	db dbtx
}

// NewRepository constructs a repo over a pool or transaction.
func NewRepository(db dbtx) *Repository {
	return &Repository{db: db}
}

// ResolveNames maps display labels to category identifiers in one query.
// Labels absent from the lookup table are omitted from the result; the
// caller decides whether an unresolved label is fatal.
func (r *Repository) ResolveNames(ctx context.Context, names []string) (map[string]int64, error) {
	if len(names) == 0 {
		return map[string]int64{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, name FROM dictionary WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("dictionary: resolve names: %w", err)
	}
	defer rows.Close()

	resolved := make(map[string]int64, len(names))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("dictionary: scan: %w", err)
		}
		resolved[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: rows: %w", err)
	}
	return resolved, nil
}
