// Package ledger reads the externally populated credit and payment tables.
package ledger

import (
	"errors"
	"time"
)

// ErrCustomerNotFound occurs when the requested customer does not exist.
var ErrCustomerNotFound = errors.New("ledger: customer not found")

// MsgCustomerNotFound is the caller-visible message for unknown customers.
const MsgCustomerNotFound = "User does not exist"

// CreditRecord is one credit with its payment totals, straight from storage.
type CreditRecord struct {
	IssuanceDate     time.Time
	ReturnDate       time.Time
	ActualReturnDate *time.Time
	Body             float64
	Percent          float64
	PrincipalPaid    float64
	InterestPaid     float64
}

// Closed reports whether the credit has been repaid.
func (c CreditRecord) Closed() bool {
	return c.ActualReturnDate != nil
}

// CreditInfo is the per-credit view returned to callers. Closed credits
// carry the combined payment total; open credits carry the overdue day
// count and the principal/interest totals separately.
type CreditInfo struct {
	IssuanceDate         time.Time `json:"issuance_date"`
	CreditClosed         bool      `json:"credit_closed"`
	ReturnDate           time.Time `json:"return_date"`
	DaysOverdue          int64     `json:"days_overdue"`
	CreditAmount         float64   `json:"credit_amount"`
	InterestAmount       float64   `json:"interest_amount"`
	TotalBodyPayments    float64   `json:"total_body_payments"`
	TotalPercentPayments float64   `json:"total_percent_payments"`
	TotalPayments        float64   `json:"total_payments"`
}
