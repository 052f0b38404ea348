// Package ledgerhttp serves the customer credit overview endpoint.
package ledgerhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lendplan/lendplan/internal/ledger"
	"github.com/lendplan/lendplan/internal/platform/httpx"
)

// Service exposes the credit overview used by the handler.
type Service interface {
	CustomerCredits(ctx context.Context, customerID int64) ([]ledger.CreditInfo, error)
}

// Handler serves customer credit lookups.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// NewHandler constructs the ledger HTTP handler.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers ledger routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/credits", h.handleCustomerCredits)
}

type creditsResponse struct {
	UserCredits []ledger.CreditInfo `json:"user_credits"`
}

func (h *Handler) handleCustomerCredits(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "customer id must be a positive integer")
		return
	}

	credits, err := h.service.CustomerCredits(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrCustomerNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", ledger.MsgCustomerNotFound)
			return
		}
		h.logger.Error("customer credits", slog.Int64("customer_id", id), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, creditsResponse{UserCredits: credits})
}
