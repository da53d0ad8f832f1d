package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/exporter"
	appmw "github.com/komalvinayak/Ecommerce-Analysis/internal/middleware"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/services"
)

// DatasetHandler serves the dataset preview, exports and reloads
type DatasetHandler struct {
	dashboard    DashboardServiceInterface
	datasets     DatasetServiceInterface
	validator    *appmw.Validator
	pageSize     int
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewDatasetHandler creates a new dataset handler. pageSize is used when a
// preview request does not name one.
func NewDatasetHandler(dashboard DashboardServiceInterface, datasets DatasetServiceInterface, validator *appmw.Validator, pageSize int, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		dashboard:    dashboard,
		datasets:     datasets,
		validator:    validator,
		pageSize:     pageSize,
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

type previewQuery struct {
	Page     int `query:"page" validate:"gte=1,lte=1000000"`
	PageSize int `query:"page_size" validate:"gte=1,lte=500"`
}

type exportQuery struct {
	Format string `query:"format" validate:"export_format"`
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetPreview)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/status", h.GetStatus)
	r.Get("/export", h.Export)
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/reload", h.Reload)

	return r
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// GetPreview handles GET /api/dataset?page=&page_size=
func (h *DatasetHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("page", "page must be a valid integer"))
		return
	}
	size, err := intParam(r, "page_size", h.pageSize)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("page_size", "page_size must be a valid integer"))
		return
	}

	query := previewQuery{Page: page, PageSize: size}
	if err := h.validator.Struct(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	preview, err := h.dashboard.Preview(r.Context(), query.Page, query.PageSize)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to build dataset preview",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   preview,
		"count":  len(preview.Rows),
	})
}

// GetStatus handles GET /api/dataset/status
func (h *DatasetHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.datasets.Status(),
	})
}

// Export handles GET /api/dataset/export?format=csv|xlsx
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	query := exportQuery{Format: r.URL.Query().Get("format")}
	if err := h.validator.Struct(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format, err := exporter.ParseFormat(query.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	// buffered so a failed encode can still become an error response
	var buf bytes.Buffer
	if err := h.dashboard.Export(r.Context(), &buf, format); err != nil {
		h.logger.ErrorContext(r.Context(), "dataset export failed",
			slog.String("error", err.Error()),
			slog.String("format", string(format)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		if errors.Is(err, services.ErrDatasetNotLoaded) {
			h.errorHandler.HandleError(w, r, mapServiceError(err))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrExportFailed)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset exported",
		slog.String("format", string(format)),
		slog.Int("bytes", buf.Len()),
		slog.String("request_id", middleware.GetReqID(r.Context())))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName(h.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Reload handles POST /api/dataset/reload
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", reqID))

	ds, err := h.datasets.Reload(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset reload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"fingerprint": ds.Fingerprint(),
			"records":     ds.Len(),
			"sources":     ds.Sources(),
			"built_at":    ds.BuiltAt(),
		},
	})
}
