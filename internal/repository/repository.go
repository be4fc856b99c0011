// Package repository holds the loaded dashboard tables. Sources are loaded
// once, read many times and replaced only by an explicit Reload.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"prodboard/internal/config"
	apperrors "prodboard/internal/errors"
	"prodboard/internal/infrastructure"
	"prodboard/internal/loader"
	"prodboard/pkg/contracts/domain"
)

// SourceLoader reads every source kind.
type SourceLoader interface {
	LoadOrders(ctx context.Context, location string) (*loader.OrdersResult, error)
	LoadCapacity(ctx context.Context, location string) ([]domain.CapacityRecord, error)
	LoadSector(ctx context.Context, sector domain.Sector, location string) (*domain.SectorCostTable, error)
	LoadComposition(ctx context.Context, cfg config.CompositionConfig) (*domain.CompositionTables, error)
}

// Repository publishes snapshots of the loaded sources.
type Repository struct {
	loader      SourceLoader
	sources     config.SourcesConfig
	composition config.CompositionConfig
	metrics     *infrastructure.BusinessMetrics
	logger      *slog.Logger

	mu      sync.RWMutex
	current *Snapshot

	group singleflight.Group
	now   func() time.Time
}

// New creates an empty repository. Call Load before reading.
func New(l SourceLoader, sources config.SourcesConfig, composition config.CompositionConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Repository {
	return &Repository{
		loader:      l,
		sources:     sources,
		composition: composition,
		metrics:     metrics,
		logger:      infrastructure.WithComponent(logger, "repository"),
		now:         time.Now,
	}
}

// Snapshot returns the current snapshot, nil before the first successful
// load.
func (r *Repository) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Load performs the initial load.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	return r.Reload(ctx)
}

// Reload loads every source and publishes the result. Concurrent calls share
// one load. On failure the previous snapshot stays current.
func (r *Repository) Reload(ctx context.Context) (*Snapshot, error) {
	v, err, shared := r.group.Do("reload", func() (interface{}, error) {
		snap, err := r.build(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.current = snap
		r.mu.Unlock()
		return snap, nil
	})

	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	if r.metrics != nil && !shared {
		r.metrics.SnapshotReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "reload failed, keeping previous snapshot",
			slog.String("error", err.Error()),
			slog.Bool("has_previous", r.Snapshot() != nil))
		return nil, err
	}
	return v.(*Snapshot), nil
}

// build loads every source concurrently. Orders, capacity and a labor table
// without its total line are fatal; other sector or composition failures
// become warnings.
func (r *Repository) build(ctx context.Context) (*Snapshot, error) {
	ctx, span := otel.Tracer(infrastructure.ServiceName).Start(ctx, "repository.load")
	defer span.End()

	start := r.now()
	snap := &Snapshot{Sectors: make(map[domain.Sector]*domain.SectorCostTable)}

	var (
		mu       sync.Mutex
		warnings []string
	)
	warn := func(msg string) {
		mu.Lock()
		warnings = append(warnings, msg)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.sources.MaxConcurrent, 1))

	g.Go(func() error {
		began := time.Now()
		res, err := r.loader.LoadOrders(gctx, r.sources.Orders)
		if err != nil {
			r.record(gctx, loader.SourceOrders, "fatal", began, 0)
			return apperrors.NewLoadFatalError(loader.SourceOrders, err)
		}
		r.record(gctx, loader.SourceOrders, "ok", began, res.Dropped)
		snap.Records, snap.Columns, snap.Dropped = res.Records, res.Columns, res.Dropped
		return nil
	})

	g.Go(func() error {
		began := time.Now()
		recs, err := r.loader.LoadCapacity(gctx, r.sources.Capacity)
		if err != nil {
			r.record(gctx, loader.SourceCapacity, "fatal", began, 0)
			return apperrors.NewLoadFatalError(loader.SourceCapacity, err)
		}
		r.record(gctx, loader.SourceCapacity, "ok", began, 0)
		snap.Capacity = recs
		return nil
	})

	sectorTables := make([]*domain.SectorCostTable, len(domain.Sectors))
	for i, sec := range domain.Sectors {
		location := r.sectorLocation(sec)
		g.Go(func() error {
			began := time.Now()
			table, err := r.loader.LoadSector(gctx, sec, location)
			if err == nil {
				r.record(gctx, string(sec), "ok", began, 0)
				sectorTables[i] = table
				return nil
			}

			var missing *apperrors.MissingColumnError
			if sec == domain.SectorLabor && errors.As(err, &missing) {
				r.record(gctx, string(sec), "fatal", began, 0)
				return apperrors.NewLoadFatalError(string(sec), err)
			}
			if gctx.Err() != nil {
				return gctx.Err()
			}

			r.record(gctx, string(sec), "degraded", began, 0)
			degraded := apperrors.NewLoadDegradedError(string(sec), err)
			r.logger.WarnContext(gctx, "sector source unavailable",
				slog.String("sector", string(sec)),
				slog.String("error", degraded.Error()))
			warn(fmt.Sprintf("Erro ao carregar %s: %v", sec.DisplayName(), err))
			return nil
		})
	}

	if r.composition.Papers != "" {
		g.Go(func() error {
			began := time.Now()
			tables, err := r.loader.LoadComposition(gctx, r.composition)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				r.record(gctx, "composition", "degraded", began, 0)
				r.logger.WarnContext(gctx, "composition sources unavailable", slog.String("error", err.Error()))
				warn(fmt.Sprintf("Erro ao carregar fontes de composição: %v", err))
				return nil
			}
			r.record(gctx, "composition", "ok", began, 0)
			snap.Composition = tables
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for i, sec := range domain.Sectors {
		if sectorTables[i] != nil {
			snap.Sectors[sec] = sectorTables[i]
		}
	}
	snap.Warnings = warnings
	snap.LoadedAt = r.now()
	snap.Duration = snap.LoadedAt.Sub(start)

	span.SetAttributes(
		attribute.Int("records", len(snap.Records)),
		attribute.Int("dropped", snap.Dropped),
		attribute.Int("warnings", len(snap.Warnings)),
	)
	r.logger.InfoContext(ctx, "sources loaded",
		slog.Int("records", len(snap.Records)),
		slog.Int("dropped", snap.Dropped),
		slog.Int("capacity_months", len(snap.Capacity)),
		slog.Int("sectors", len(snap.Sectors)),
		slog.Bool("composition", snap.Composition != nil),
		slog.Duration("duration", snap.Duration))
	return snap, nil
}

func (r *Repository) sectorLocation(sec domain.Sector) string {
	switch sec {
	case domain.SectorPlanning:
		return r.sources.Planning
	case domain.SectorPreProduction:
		return r.sources.PreProduction
	case domain.SectorLabor:
		return r.sources.Labor
	default:
		return r.sources.Warehousing
	}
}

func (r *Repository) record(ctx context.Context, source, outcome string, began time.Time, dropped int) {
	infrastructure.RecordSourceLoad(ctx, r.metrics, source, outcome, time.Since(began), dropped)
}
