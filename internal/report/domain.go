// Package report computes actual-vs-plan performance for issuance and
// collection targets.
package report

// Display categories for the month performance rows.
const (
	CategoryCollection = "collection"
	CategoryIssuance   = "issuance"
)

// PerformanceRow is one month-to-date actual-vs-plan comparison.
type PerformanceRow struct {
	Month             string  `json:"month"`
	Category          string  `json:"category"`
	PlannedSum        float64 `json:"sum_plan"`
	ActualSum         float64 `json:"total_sum"`
	CompletionPercent float64 `json:"percent_completion"`
}

// SummaryRow is one month of the denormalized yearly report. Field names on
// the wire follow the established report consumers.
type SummaryRow struct {
	YearMonth                string  `json:"YearMonth"`
	PaymentCount             int64   `json:"PaymentCount"`
	PaymentSum               float64 `json:"PaymentSum"`
	PaymentPlanSum           float64 `json:"PaymentPlanSum"`
	CreditCount              int64   `json:"CreditCount"`
	CreditSum                float64 `json:"CreditSum"`
	CreditPlanSum            float64 `json:"CreditPlanSum"`
	CreditCompletionPercent  float64 `json:"CreditPlanCompletionPercentage"`
	PaymentCompletionPercent float64 `json:"PaymentPlanCompletionPercentage"`
	YearlyCreditShare        float64 `json:"PercentageOfYearlyCredit"`
	YearlyPaymentShare       float64 `json:"PercentageOfYearlyPayment"`
}

// MonthlyAggregate is one grouped query result keyed by year-month.
type MonthlyAggregate struct {
	YearMonth string
	Count     int64
	Sum       float64
}
