package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apperrors "prodboard/internal/errors"
	"prodboard/internal/exporter"
	"prodboard/internal/filter"
	mw "prodboard/internal/middleware"
	"prodboard/internal/services"
	"prodboard/internal/view"
	"prodboard/pkg/contracts/domain"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	service      DashboardService
	validator    *mw.Validator
	query        *mw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService, validator *mw.Validator, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		query:        mw.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/options", h.GetOptions)
	r.Post("/view", h.PostView)
	r.Post("/reload", h.PostReload)
	r.Get("/diagnostic", h.GetDiagnostic)
	r.Get("/export.{format:csv|xlsx}", h.GetExport)

	return r
}

// GetOptions handles GET /api/dashboard/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	set, ok := h.filterSet(w, r)
	if !ok {
		return
	}
	choices, err := h.service.Options(r.Context(), set)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, choices)
}

// PostView handles POST /api/dashboard/view
func (h *DashboardHandler) PostView(w http.ResponseWriter, r *http.Request) {
	var req view.Request
	if err := h.validator.Decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	model, err := h.service.View(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, model)
}

// PostReload handles POST /api/dashboard/reload
func (h *DashboardHandler) PostReload(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "reload requested",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	status, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, status)
}

// GetDiagnostic handles GET /api/dashboard/diagnostic
func (h *DashboardHandler) GetDiagnostic(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Diagnostic(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetExport handles GET /api/dashboard/export.{csv,xlsx}. The view is the
// default one narrowed by the filter and metric query parameters.
func (h *DashboardHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	format := services.ExportFormat(chi.URLParam(r, "format"))

	set, ok := h.filterSet(w, r)
	if !ok {
		return
	}
	metric, ok := h.query.ValidateEnum(w, r, "metric", []string{string(domain.MetricRaw), string(domain.MetricWeighted)}, string(domain.MetricRaw))
	if !ok {
		return
	}
	table := r.URL.Query().Get("table")

	var buf bytes.Buffer
	req := view.Request{Filters: set, Metric: domain.Metric(metric)}
	if err := h.service.Export(r.Context(), &buf, format, table, req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	name := "prodboard.xlsx"
	if format == services.FormatCSV {
		if table == "" {
			table = exporter.SheetDaily
		}
		name = fmt.Sprintf("prodboard_%s.csv", table)
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted", slog.String("error", err.Error()))
	}
}

// filterSet reads the seven filters from the query string. It writes the
// error response and returns false on a malformed parameter.
func (h *DashboardHandler) filterSet(w http.ResponseWriter, r *http.Request) (filter.Set, bool) {
	var set filter.Set

	years, present, ok := h.query.ValidateIntList(w, r, "years", 1900, 2999)
	if !ok {
		return set, false
	}
	set.Years = filter.Selection[int]{Active: present, Values: years}

	months, present, ok := h.query.ValidateIntList(w, r, "months", 1, 12)
	if !ok {
		return set, false
	}
	set.Months = filter.Selection[int]{Active: present, Values: months}

	for param, sel := range map[string]*filter.Selection[string]{
		"families":     &set.Families,
		"categories":   &set.Categories,
		"responsibles": &set.Responsibles,
		"teams":        &set.Teams,
		"channels":     &set.Channels,
	} {
		values, present := mw.StringList(r, param)
		*sel = filter.Selection[string]{Active: present, Values: values}
	}
	return set, true
}
