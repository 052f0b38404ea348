// Package reporthttp serves the performance and yearly summary endpoints.
package reporthttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lendplan/lendplan/internal/platform/httpx"
	"github.com/lendplan/lendplan/internal/report"
	"github.com/lendplan/lendplan/internal/report/export"
)

// Service exposes the calculators required by the handler.
type Service interface {
	MonthPerformance(ctx context.Context, date time.Time) (report.PerformanceRow, report.PerformanceRow, error)
	YearSummary(ctx context.Context, year int) ([]report.SummaryRow, error)
}

// Handler coordinates HTTP requests for plan performance reports.
type Handler struct {
	logger    *slog.Logger
	service   Service
	validator *validator.Validate
}

// NewHandler constructs the report HTTP handler.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/performance", h.handlePerformance)
	r.Get("/year", h.handleYearSummary)
	r.Get("/year/export", h.handleYearExport)
}

type performanceResponse struct {
	ResultPayments report.PerformanceRow `json:"result_payments"`
	ResultCredits  report.PerformanceRow `json:"result_credits"`
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	date, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "query parameter 'date' must be YYYY-MM-DD")
		return
	}

	collection, issuance, err := h.service.MonthPerformance(r.Context(), date)
	if err != nil {
		h.logger.Error("month performance", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, performanceResponse{
		ResultPayments: collection,
		ResultCredits:  issuance,
	})
}

type yearQuery struct {
	Year int `validate:"required,gte=1000,lte=9999"`
}

func (h *Handler) parseYear(r *http.Request) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))
	if err != nil {
		return 0, fmt.Errorf("query parameter 'year' must be an integer")
	}
	if err := h.validator.Struct(yearQuery{Year: year}); err != nil {
		return 0, fmt.Errorf("query parameter 'year' must be a four-digit year")
	}
	return year, nil
}

type yearResponse struct {
	Result []report.SummaryRow `json:"result"`
}

func (h *Handler) handleYearSummary(w http.ResponseWriter, r *http.Request) {
	year, err := h.parseYear(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rows, err := h.service.YearSummary(r.Context(), year)
	if err != nil {
		h.logger.Error("year summary", slog.Int("year", year), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, yearResponse{Result: rows})
}

func (h *Handler) handleYearExport(w http.ResponseWriter, r *http.Request) {
	year, err := h.parseYear(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rows, err := h.service.YearSummary(r.Context(), year)
	if err != nil {
		h.logger.Error("year summary export", slog.Int("year", year), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=year-summary-%d.csv", year))
	if err := export.WriteYearSummaryCSV(w, rows); err != nil {
		h.logger.Error("write year summary csv", slog.Any("error", err))
	}
}
