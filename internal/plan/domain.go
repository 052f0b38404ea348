// Package plan implements validation and atomic persistence of monthly
// target batches uploaded as spreadsheets.
package plan

import (
	"errors"
	"time"
)

// Row is one parsed spreadsheet row before validation. Amount is nil when
// the cell was blank; Period stays a string until the format check runs.
type Row struct {
	Period   string
	Category string
	Amount   *float64
}

// Target is a persisted monthly target for one category.
type Target struct {
	ID         int64
	Period     time.Time
	CategoryID int64
	Amount     float64
}

// Batch-fatal ingestion errors. The first two are detected before any
// storage access; the rest abort the whole transaction.
var (
	ErrMissingAmount     = errors.New("plan: amount column contains empty values")
	ErrInvalidDateFormat = errors.New("plan: invalid plan month format")
	ErrCategoryNotFound  = errors.New("plan: category not resolvable to an allowed identifier")
	ErrPlanExists        = errors.New("plan: target already exists for period and category")
	ErrUploadFailed      = errors.New("plan: upload failed")
)

// Fixed message catalog surfaced to API callers, one literal per error kind.
const (
	MsgMissingAmount     = "Error: Column 'amount' contains empty values"
	MsgInvalidDateFormat = "Error: Invalid plan month format"
	MsgCategoryNotFound  = "The category is incorrectly specified"
	MsgPlanExists        = "Error: Plan already exists in the database"
	MsgUploadFailed      = "Unknown error occurred while uploading"
	MsgSuccess           = "Plan successfully uploaded to the database"
)

// Message returns the catalog message for a batch-fatal ingestion error,
// or the generic upload failure message for anything unexpected.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingAmount):
		return MsgMissingAmount
	case errors.Is(err, ErrInvalidDateFormat):
		return MsgInvalidDateFormat
	case errors.Is(err, ErrCategoryNotFound):
		return MsgCategoryNotFound
	case errors.Is(err, ErrPlanExists):
		return MsgPlanExists
	default:
		return MsgUploadFailed
	}
}
