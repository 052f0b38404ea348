package ledgerhttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lendplan/lendplan/internal/ledger"
)

type stubService struct {
	credits []ledger.CreditInfo
	err     error
	gotID   int64
}

func (s *stubService) CustomerCredits(_ context.Context, customerID int64) ([]ledger.CreditInfo, error) {
	s.gotID = customerID
	return s.credits, s.err
}

func newTestRouter(svc Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Route("/customers", NewHandler(logger, svc).MountRoutes)
	return r
}

func TestCustomerCreditsEndpoint(t *testing.T) {
	svc := &stubService{credits: []ledger.CreditInfo{{
		IssuanceDate: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		CreditClosed: true,
		CreditAmount: 10000,
	}}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/7/credits", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotID != 7 {
		t.Fatalf("service received id %d", svc.gotID)
	}

	var resp struct {
		UserCredits []ledger.CreditInfo `json:"user_credits"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.UserCredits) != 1 || resp.UserCredits[0].CreditAmount != 10000 {
		t.Fatalf("unexpected credits: %+v", resp.UserCredits)
	}
}

func TestCustomerCreditsInvalidID(t *testing.T) {
	router := newTestRouter(&stubService{})

	for _, id := range []string{"abc", "0", "-5", "1.5"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/"+id+"/credits", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %d", id, rec.Code)
		}
	}
}

func TestCustomerCreditsNotFound(t *testing.T) {
	router := newTestRouter(&stubService{err: ledger.ErrCustomerNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/99/credits", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var problem struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem.Detail != ledger.MsgCustomerNotFound {
		t.Fatalf("unexpected detail: %q", problem.Detail)
	}
}

func TestCustomerCreditsServiceFailure(t *testing.T) {
	router := newTestRouter(&stubService{err: errors.New("db down")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/7/credits", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
