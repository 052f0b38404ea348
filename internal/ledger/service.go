package ledger

import (
	"context"
	"time"
)

// Service builds the customer credit overview.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service instance.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// CustomerCredits lists every credit of a customer with payment totals.
// Open credits report days overdue against the due date; closed credits
// report the combined payment total instead.
func (s *Service) CustomerCredits(ctx context.Context, customerID int64) ([]CreditInfo, error) {
	exists, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCustomerNotFound
	}

	records, err := s.repo.CreditsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	infos := make([]CreditInfo, 0, len(records))
	for _, rec := range records {
		info := CreditInfo{
			IssuanceDate:   rec.IssuanceDate,
			CreditClosed:   rec.Closed(),
			ReturnDate:     rec.ReturnDate,
			CreditAmount:   rec.Body,
			InterestAmount: rec.Percent,
		}
		if rec.Closed() {
			info.TotalPayments = rec.PrincipalPaid + rec.InterestPaid
		} else {
			info.DaysOverdue = daysOverdue(s.now(), rec.ReturnDate)
			info.TotalBodyPayments = rec.PrincipalPaid
			info.TotalPercentPayments = rec.InterestPaid
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func daysOverdue(now, due time.Time) int64 {
	if !now.After(due) {
		return 0
	}
	return int64(now.Sub(due).Hours() / 24)
}
