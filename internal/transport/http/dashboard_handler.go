package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"deliverypulse/internal/errors"
	"deliverypulse/internal/exporter"
	"deliverypulse/internal/services"
	"deliverypulse/pkg/contracts/domain"
)

// DashboardHandler exposes the session-scoped dashboard operations over HTTP.
type DashboardHandler struct {
	service      *services.DashboardService
	tableWriter  *exporter.TableWriter
	workbooks    *exporter.WorkbookBuilder
	errorHandler *errors.ErrorHandler
	logger       *slog.Logger

	maxUploadBytes    int64
	maxFilesPerUpload int
}

// DashboardHandlerConfig carries the upload limits enforced at the transport
// boundary.
type DashboardHandlerConfig struct {
	MaxUploadBytes    int64
	MaxFilesPerUpload int
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *services.DashboardService, errorHandler *errors.ErrorHandler, logger *slog.Logger, cfg DashboardHandlerConfig) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:           service,
		tableWriter:       exporter.NewTableWriter(),
		workbooks:         exporter.NewWorkbookBuilder(),
		errorHandler:      errorHandler,
		logger:            logger.With(slog.String("handler", "dashboard")),
		maxUploadBytes:    cfg.MaxUploadBytes,
		maxFilesPerUpload: cfg.MaxFilesPerUpload,
	}
}

// Routes sets up the session routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Post("/files", h.UploadFiles)
		r.Put("/thresholds", h.SetThresholds)
		r.Get("/thresholds", h.GetThresholds)
		r.Get("/tables/{granularity}", h.GetTable)
		r.Get("/tables/{granularity}/export", h.ExportTable)
		r.Get("/spikes", h.GetSpikes)
		r.Get("/summary", h.GetSummary)
	})

	return r
}

// CreateSession handles POST /api/sessions
func (h *DashboardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.service.CreateSession(r.Context())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"session_id": id})
}

// UploadFiles handles POST /api/sessions/{sessionID}/files. The body is
// multipart form data with one or more "files" parts.
func (h *DashboardHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, errors.ErrPayloadTooLarge)
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		h.errorHandler.HandleError(w, r, errors.NewWithDetails(
			http.StatusBadRequest, "MISSING_PARAMETER", "no files uploaded", "expected one or more multipart parts named \"files\""))
		return
	}
	if h.maxFilesPerUpload > 0 && len(parts) > h.maxFilesPerUpload {
		h.errorHandler.HandleError(w, r, errors.NewWithDetails(
			http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Sprintf("too many files: %d exceeds the limit of %d", len(parts), h.maxFilesPerUpload), nil))
		return
	}

	uploads := make([]services.FileUpload, 0, len(parts))
	for _, part := range parts {
		file, err := part.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		uploads = append(uploads, services.FileUpload{Name: part.Filename, Data: data})
	}

	results, err := h.service.UploadFiles(r.Context(), sessionID, uploads)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{"files": results})
}

// SetThresholds handles PUT /api/sessions/{sessionID}/thresholds
func (h *DashboardHandler) SetThresholds(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var thresholds domain.Thresholds
	if err := render.DecodeJSON(r.Body, &thresholds); err != nil {
		h.errorHandler.HandleError(w, r, errors.InvalidRequestWithError(err))
		return
	}

	if err := h.service.SetThresholds(r.Context(), sessionID, thresholds); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, thresholds)
}

// GetThresholds handles GET /api/sessions/{sessionID}/thresholds
func (h *DashboardHandler) GetThresholds(w http.ResponseWriter, r *http.Request) {
	thresholds, err := h.service.Thresholds(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, thresholds)
}

// GetTable handles GET /api/sessions/{sessionID}/tables/{granularity}
func (h *DashboardHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	granularity, err := domain.ParseGranularity(chi.URLParam(r, "granularity"))
	if err != nil {
		h.errorHandler.HandleError(w, r, errors.NewWithDetails(
			http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil))
		return
	}

	table, err := h.service.Table(r.Context(), sessionID, granularity)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"granularity": granularity,
		"label":       granularity.Label(),
		"rows":        table,
	})
}

// ExportTable handles GET /api/sessions/{sessionID}/tables/{granularity}/export.
// The format query parameter selects csv (default) or xlsx.
func (h *DashboardHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	granularity, err := domain.ParseGranularity(chi.URLParam(r, "granularity"))
	if err != nil {
		h.errorHandler.HandleError(w, r, errors.NewWithDetails(
			http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, errors.NewWithDetails(
			http.StatusBadRequest, "INVALID_PARAMETER",
			fmt.Sprintf("unsupported export format: %q", format), nil))
		return
	}

	table, err := h.service.Table(r.Context(), sessionID, granularity)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("delivery_%s.%s", granularity, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = h.tableWriter.WriteTable(w, granularity, table, exporter.WriteOptions{BOMPrefix: true})
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = h.workbooks.WriteTable(w, granularity, table)
	}
	if err != nil {
		// Headers are already out; all we can do is log.
		h.logger.ErrorContext(r.Context(), "table export failed",
			slog.String("session_id", sessionID),
			slog.String("granularity", string(granularity)),
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}

// GetSpikes handles GET /api/sessions/{sessionID}/spikes
func (h *DashboardHandler) GetSpikes(w http.ResponseWriter, r *http.Request) {
	spikes, err := h.service.Spikes(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"spikes": spikes})
}

// GetSummary handles GET /api/sessions/{sessionID}/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}
