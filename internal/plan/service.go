package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/lendplan/lendplan/internal/dictionary"
)

var periodPattern = regexp.MustCompile(`^\d{4}-\d{2}-01$`)

// Repository persists plan targets.
type Repository interface {
	ResolveCategories(ctx context.Context, names []string) (map[string]int64, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository is the slice of Repository available inside one batch
// transaction. The existence check is advisory; the unique constraint on
// (period, category_id) is the authoritative duplicate guard.
type TxRepository interface {
	TargetExists(ctx context.Context, period time.Time, categoryID int64) (bool, error)
	InsertTarget(ctx context.Context, target Target) error
}

// Invalidator busts derived report caches after a successful ingestion.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service runs the plan ingestion pipeline.
type Service struct {
	repo   Repository
	cache  Invalidator
	logger *slog.Logger
}

// NewService wires the ingestion pipeline.
func NewService(repo Repository, cache Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Ingest validates and persists one uploaded batch, all-or-nothing.
//
// Whole-batch format checks run before any storage access; category
// resolution happens in a single lookup; the per-row duplicate check and
// inserts share one transaction, so no partial state is ever observable.
func (s *Service) Ingest(ctx context.Context, rows []Row) error {
	for _, row := range rows {
		if row.Amount == nil {
			return ErrMissingAmount
		}
	}

	periods := make([]time.Time, len(rows))
	for i, row := range rows {
		if !periodPattern.MatchString(row.Period) {
			return ErrInvalidDateFormat
		}
		period, err := time.ParseInLocation("2006-01-02", row.Period, time.UTC)
		if err != nil {
			return ErrInvalidDateFormat
		}
		periods[i] = period
	}

	resolved, err := s.repo.ResolveCategories(ctx, distinctCategories(rows))
	if err != nil {
		return fmt.Errorf("%w: resolve categories: %v", ErrUploadFailed, err)
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		for i, row := range rows {
			categoryID, ok := resolved[row.Category]
			if !ok || !dictionary.AllowedPlanCategory(categoryID) {
				return ErrCategoryNotFound
			}
			exists, err := tx.TargetExists(ctx, periods[i], categoryID)
			if err != nil {
				return fmt.Errorf("check target: %w", err)
			}
			if exists {
				return ErrPlanExists
			}
			if err := tx.InsertTarget(ctx, Target{
				Period:     periods[i],
				CategoryID: categoryID,
				Amount:     *row.Amount,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isBatchError(err) {
			return err
		}
		s.logger.Error("plan ingestion failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("bump report cache", slog.Any("error", err))
		}
	}
	return nil
}

func distinctCategories(rows []Row) []string {
	seen := make(map[string]struct{}, len(rows))
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Category]; ok {
			continue
		}
		seen[row.Category] = struct{}{}
		names = append(names, row.Category)
	}
	return names
}

func isBatchError(err error) bool {
	for _, kind := range []error{ErrCategoryNotFound, ErrPlanExists, ErrMissingAmount, ErrInvalidDateFormat} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
