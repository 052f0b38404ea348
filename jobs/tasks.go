package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportYearlyWarmup pre-populates the yearly summary cache.
	TaskReportYearlyWarmup = "report:yearly_warmup"
)

// YearlyWarmupPayload selects the year to precompute. Zero means the
// current year.
type YearlyWarmupPayload struct {
	Year int `json:"year"`
}

// NewYearlyWarmupTask constructs an Asynq task.
func NewYearlyWarmupTask(year int) (*asynq.Task, error) {
	data, err := json.Marshal(YearlyWarmupPayload{Year: year})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportYearlyWarmup, data), nil
}
