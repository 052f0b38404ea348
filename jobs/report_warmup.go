package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lendplan/lendplan/internal/report"
)

// YearlyWarmupJob precomputes the yearly summary so the first reader after
// an ingestion does not pay the aggregation cost.
type YearlyWarmupJob struct {
	Reports *report.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewYearlyWarmupJob wires dependencies for the warmup handler.
func NewYearlyWarmupJob(reports *report.Service, logger *slog.Logger) *YearlyWarmupJob {
	return &YearlyWarmupJob{
		Reports: reports,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *YearlyWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("yearly warmup: handler not configured")
	}
	var payload YearlyWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	year := payload.Year
	if year == 0 {
		year = j.clock().Year()
	}

	rows, err := j.Reports.YearSummary(ctx, year)
	if err != nil {
		if j.Logger != nil {
			j.Logger.Error("yearly warmup", slog.Int("year", year), slog.Any("error", err))
		}
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("yearly summary warmed", slog.Int("year", year), slog.Int("months", len(rows)))
	}
	return nil
}
