// Package planhttp exposes plan ingestion over HTTP.
package planhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lendplan/lendplan/internal/plan"
	"github.com/lendplan/lendplan/internal/platform/httpx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Upload guard messages. Size and content-type rejections belong to this
// handler, not to the ingestion pipeline.
const (
	msgFileTooLarge  = "File size is too large"
	msgWrongFileType = "Only Excel files (XLSX) are allowed."
)

// Service runs the ingestion pipeline for one parsed batch.
type Service interface {
	Ingest(ctx context.Context, rows []plan.Row) error
}

// Handler accepts plan spreadsheet uploads.
type Handler struct {
	logger    *slog.Logger
	service   Service
	maxUpload int64
}

// NewHandler constructs the upload handler.
func NewHandler(logger *slog.Logger, service Service, maxUpload int64) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, maxUpload: maxUpload}
}

// MountRoutes registers plan routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
}

type uploadResponse struct {
	Result string `json:"result"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	batchID := uuid.NewString()
	logger := h.logger.With(slog.String("batch_id", batchID))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		httpx.Problem(w, http.StatusRequestEntityTooLarge, "Upload Too Large", msgFileTooLarge)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "multipart field 'file' is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > h.maxUpload {
		httpx.Problem(w, http.StatusRequestEntityTooLarge, "Upload Too Large", msgFileTooLarge)
		return
	}
	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, xlsxContentType) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", msgWrongFileType)
		return
	}

	rows, err := plan.ParseWorkbook(file)
	if err != nil {
		logger.Warn("parse plan workbook", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.Ingest(r.Context(), rows); err != nil {
		h.respondIngestError(w, logger, err)
		return
	}

	logger.Info("plan batch ingested", slog.Int("rows", len(rows)))
	httpx.JSON(w, http.StatusOK, uploadResponse{Result: plan.MsgSuccess})
}

func (h *Handler) respondIngestError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, plan.ErrMissingAmount),
		errors.Is(err, plan.ErrInvalidDateFormat),
		errors.Is(err, plan.ErrCategoryNotFound):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", plan.Message(err))
	case errors.Is(err, plan.ErrPlanExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", plan.Message(err))
	default:
		logger.Error("plan upload failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", plan.MsgUploadFailed)
	}
}
