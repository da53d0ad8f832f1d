package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	appmw "github.com/komalvinayak/Ecommerce-Analysis/internal/middleware"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/services"
)

// DashboardHandler serves pages, filter choices and derived series
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *appmw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *appmw.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

type viewQuery struct {
	Type    string `query:"type" validate:"product_type"`
	Company string `query:"company"`
	Version string `query:"version"`
}

type companiesQuery struct {
	Type string `query:"type" validate:"required,product_type"`
}

// An unset company or version is a partial selection, answered with an
// empty result.
type versionsQuery struct {
	Company string `query:"company"`
}

type recordsQuery struct {
	Version string `query:"version"`
}

type rollingQuery struct {
	Version string `query:"version"`
	Field   string `query:"field" validate:"required,field"`
}

type comparisonQuery struct {
	Version string `query:"version"`
	Metric  string `query:"metric" validate:"metric"`
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/pages", h.ListPages)
	r.Get("/pages/{page}/view", h.GetView)

	r.Route("/filters", func(r chi.Router) {
		r.Get("/types", h.ListTypes)
		r.Get("/companies", h.ListCompanies)
		r.Get("/versions", h.ListVersions)
	})

	r.Get("/records", h.GetRecords)

	r.Route("/series", func(r chi.Router) {
		r.Get("/rolling", h.GetRolling)
		r.Get("/comparison", h.GetComparison)
	})

	return r
}

// notModified tags a successful response with the dataset fingerprint and
// writes 304 when the client already holds that version. Handlers call it
// only once the request has been validated and answered.
func (h *DashboardHandler) notModified(w http.ResponseWriter, r *http.Request) bool {
	fp := h.service.Fingerprint()
	if fp == "" {
		return false
	}

	etag := fmt.Sprintf("%q", fp)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// validate runs the struct validator and writes the error response on failure
func (h *DashboardHandler) validate(w http.ResponseWriter, r *http.Request, q interface{}) bool {
	if err := h.validator.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}

// fail logs err and writes the mapped error response
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path))
	h.errorHandler.HandleError(w, r, mapServiceError(err))
}

// ListPages handles GET /api/pages
func (h *DashboardHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	list := h.service.Pages()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   list,
		"count":  len(list),
	})
}

// GetView handles GET /api/pages/{page}/view
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "page")
	q := r.URL.Query()
	query := viewQuery{Type: q.Get("type"), Company: q.Get("company"), Version: q.Get("version")}
	if !h.validate(w, r, query) {
		return
	}

	sel, err := services.ParseSelection(query.Type, query.Company, query.Version)
	if err != nil {
		h.fail(w, r, "invalid selection", err)
		return
	}

	h.logger.DebugContext(r.Context(), "building page view",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("page", pageID),
		slog.String("type", string(sel.Type)),
		slog.String("company", sel.Company),
		slog.String("version", sel.Version))

	view, err := h.service.View(r.Context(), pageID, sel)
	if err != nil {
		h.fail(w, r, "failed to build page view", err)
		return
	}
	if h.notModified(w, r) {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// ListTypes handles GET /api/filters/types
func (h *DashboardHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types := h.service.Types()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   types,
		"count":  len(types),
	})
}

// ListCompanies handles GET /api/filters/companies?type=
func (h *DashboardHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	query := companiesQuery{Type: r.URL.Query().Get("type")}
	if !h.validate(w, r, query) {
		return
	}

	companies, err := h.service.Companies(r.Context(), query.Type)
	if err != nil {
		h.fail(w, r, "failed to list companies", err)
		return
	}
	if h.notModified(w, r) {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   companies,
		"count":  len(companies),
	})
}

// ListVersions handles GET /api/filters/versions?company=
func (h *DashboardHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	query := versionsQuery{Company: r.URL.Query().Get("company")}
	if !h.validate(w, r, query) {
		return
	}

	versions, err := h.service.Versions(r.Context(), query.Company)
	if err != nil {
		h.fail(w, r, "failed to list versions", err)
		return
	}
	if h.notModified(w, r) {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   versions,
		"count":  len(versions),
	})
}

// GetRecords handles GET /api/records?version=
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	query := recordsQuery{Version: r.URL.Query().Get("version")}
	if !h.validate(w, r, query) {
		return
	}

	records, err := h.service.Records(r.Context(), query.Version)
	if err != nil {
		h.fail(w, r, "failed to filter records", err)
		return
	}
	if h.notModified(w, r) {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   records,
		"count":  len(records),
	})
}

// GetRolling handles GET /api/series/rolling?version=&field=&window=
func (h *DashboardHandler) GetRolling(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := rollingQuery{Version: q.Get("version"), Field: q.Get("field")}
	if !h.validate(w, r, query) {
		return
	}

	window := h.service.DefaultWindow()
	if raw := q.Get("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("window", "window must be a valid integer"))
			return
		}
		window = n
	}

	result, err := h.service.Rolling(r.Context(), query.Version, query.Field, window)
	if err != nil {
		h.fail(w, r, "failed to compute rolling mean", err)
		return
	}
	if h.notModified(w, r) {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
		"count":  len(result.Series),
	})
}

// GetComparison handles GET /api/series/comparison?version=&metric=
func (h *DashboardHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := comparisonQuery{Version: q.Get("version"), Metric: q.Get("metric")}
	if !h.validate(w, r, query) {
		return
	}

	result, err := h.service.Comparison(r.Context(), query.Version, query.Metric)
	if err != nil {
		h.fail(w, r, "failed to build comparison", err)
		return
	}
	if h.notModified(w, r) {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
		"count":  len(result.Fields),
	})
}
