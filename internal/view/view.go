// Package view computes the dashboard view model: one pure function of the
// loaded data, the filters, the metric and the projection inputs.
package view

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"prodboard/internal/aggregate"
	"prodboard/internal/config"
	apperrors "prodboard/internal/errors"
	"prodboard/internal/filter"
	"prodboard/internal/infrastructure"
	"prodboard/internal/repository"
	"prodboard/internal/twin"
	"prodboard/pkg/contracts/domain"
)

// Notices shown when a section has no data.
const (
	NoticeNoData     = "Nenhum dado para os filtros selecionados."
	NoticeTwinNoData = "Dados insuficientes para executar o Digital Twin."
	LeaderboardSize  = 3
)

// Comparison overrides the annual comparison defaults. Zero fields keep the
// configured value.
type Comparison struct {
	BaseYear    int `json:"base_year,omitempty" validate:"omitempty,min=2000,max=2100"`
	CurrentYear int `json:"current_year,omitempty" validate:"omitempty,min=2000,max=2100"`
	CutoffMonth int `json:"cutoff_month,omitempty" validate:"omitempty,min=1,max=12"`
}

// ProjectionRequest carries the per-month workforce parameters. Missing
// months use the default workforce.
type ProjectionRequest struct {
	Inputs []domain.CostProjectionInput `json:"inputs,omitempty" validate:"max=3,dive"`
	Basis  twin.Basis                   `json:"basis"`
}

// Request is everything a view depends on besides the loaded data.
type Request struct {
	Filters    filter.Set        `json:"filters"`
	Metric     domain.Metric     `json:"metric,omitempty" validate:"omitempty,oneof=raw weighted"`
	Comparison Comparison        `json:"comparison"`
	Projection ProjectionRequest `json:"projection"`
}

// Model is the computed dashboard.
type Model struct {
	Metric      domain.Metric  `json:"metric"`
	MetricLabel string         `json:"metric_label"`
	Options     filter.Choices `json:"options"`
	Orders      int            `json:"orders"`

	General         aggregate.General            `json:"general"`
	Daily           []aggregate.DailyPoint       `json:"daily"`
	TopResponsibles []aggregate.Group            `json:"top_responsibles"`
	// OrdersByLeader carries the order count of every responsible in Count.
	OrdersByLeader  []aggregate.Group            `json:"orders_by_leader"`
	Leaderboard     []aggregate.LeaderboardEntry `json:"leaderboard"`
	Families        []aggregate.Share            `json:"families"`
	Categories      []aggregate.Share            `json:"categories"`
	Channels        []aggregate.Share            `json:"channels"`
	Lots            aggregate.LotDistribution    `json:"lots"`
	Pareto          []aggregate.ParetoPoint      `json:"pareto"`
	Seasonality     aggregate.Pivot              `json:"seasonality"`
	Annual          aggregate.Annual             `json:"annual"`
	CategoryYears   []aggregate.YearCategories   `json:"category_years"`

	// Projection is nil when the Digital Twin cannot run.
	Projection *twin.Projection `json:"projection"`

	Diagnostic aggregate.Diagnostic `json:"diagnostic"`
	Warnings   []string             `json:"warnings"`
}

// Engine computes view models.
type Engine struct {
	projector *twin.Projector
	defaults  config.DashboardConfig
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewEngine creates a view engine. metrics may be nil.
func NewEngine(projector *twin.Projector, defaults config.DashboardConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		projector: projector,
		defaults:  defaults,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "view")),
	}
}

// Compute builds the view for req over snap. It never modifies snap.
func (e *Engine) Compute(ctx context.Context, snap *repository.Snapshot, req Request) (*Model, error) {
	ctx, span := otel.Tracer("view").Start(ctx, "view.compute")
	defer span.End()
	start := time.Now()

	if snap == nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeLoadFatal, "dashboard data is not loaded", nil)
	}
	m := req.Metric
	if m == "" {
		m = domain.MetricRaw
	}
	if !m.Valid() {
		return nil, apperrors.NewAppValidationError("unknown metric").WithContext("metric", string(m))
	}
	cmp := e.comparison(req.Comparison)

	records := filter.Apply(snap.Records, req.Filters)
	model := &Model{
		Metric:          m,
		MetricLabel:     m.Label(),
		Options:         filter.Options(snap.Records, req.Filters),
		Orders:          len(records),
		General:         aggregate.GeneralMetrics(records, m),
		Daily:           aggregate.Daily(records, m),
		TopResponsibles: aggregate.TopK(records, m, aggregate.ByResponsible, e.topK()),
		OrdersByLeader:  aggregate.GroupBy(records, m, aggregate.ByResponsible),
		Leaderboard:     aggregate.MonthlyLeaderboard(records, m, LeaderboardSize),
		Families:        aggregate.Shares(records, m, aggregate.ByFamily),
		Categories:      aggregate.Shares(records, m, aggregate.ByCategory),
		Channels:        aggregate.Shares(records, m, aggregate.ByChannel),
		Lots:            aggregate.LotSizes(records, m, e.bins()),
		Pareto:          aggregate.Pareto(records, m, aggregate.ByResponsible),
		Seasonality:     aggregate.YearMonthPivot(records, m),
		Annual:          aggregate.AnnualComparison(records, m, cmp.BaseYear, cmp.CurrentYear, cmp.CutoffMonth),
		CategoryYears:   aggregate.CategoryComparison(records, m, cmp.BaseYear, cmp.CurrentYear),
		Diagnostic:      aggregate.NewDiagnostic(len(snap.Records), snap.Columns, snap.Dropped),
		Warnings:        append([]string{}, snap.Warnings...),
	}
	if len(records) == 0 {
		model.Warnings = append(model.Warnings, NoticeNoData)
	}

	if e.projector != nil {
		history := twin.History{Records: records, Capacity: snap.Capacity, Sectors: snap.Sectors}
		proj, err := e.projector.Project(ctx, history, req.Projection.Inputs, req.Projection.Basis)
		switch {
		case errors.Is(err, twin.ErrInsufficientData):
			model.Warnings = append(model.Warnings, NoticeTwinNoData)
		case err != nil:
			return nil, apperrors.NewAppValidationError(err.Error())
		default:
			model.Projection = proj
			model.Warnings = append(model.Warnings, proj.Baseline.Warnings...)
		}
	}

	span.SetAttributes(attribute.Int("orders", model.Orders), attribute.String("metric", string(m)))
	if e.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("metric", string(m)))
		e.metrics.ViewComputations.Add(ctx, 1, attrs)
		e.metrics.ViewDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
	e.logger.DebugContext(ctx, "view computed",
		slog.Int("orders", model.Orders),
		slog.String("metric", string(m)),
		slog.Bool("projection", model.Projection != nil),
		slog.Duration("duration", time.Since(start)),
	)
	return model, nil
}

func (e *Engine) comparison(c Comparison) Comparison {
	out := Comparison{BaseYear: e.defaults.BaseYear, CurrentYear: e.defaults.CurrentYear, CutoffMonth: e.defaults.CutoffMonth}
	if c.BaseYear != 0 {
		out.BaseYear = c.BaseYear
	}
	if c.CurrentYear != 0 {
		out.CurrentYear = c.CurrentYear
	}
	if c.CutoffMonth != 0 {
		out.CutoffMonth = c.CutoffMonth
	}
	return out
}

func (e *Engine) bins() int {
	if e.defaults.HistogramBins > 0 {
		return e.defaults.HistogramBins
	}
	return 30
}

func (e *Engine) topK() int {
	if e.defaults.TopK > 0 {
		return e.defaults.TopK
	}
	return 5
}
