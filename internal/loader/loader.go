package loader

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"prodboard/internal/config"
	"prodboard/internal/infrastructure"
	"prodboard/pkg/contracts/domain"
)

// Source names used in diagnostics.
const (
	SourceOrders   = "orders"
	SourceCapacity = "capacity"
)

// Loader reads and parses every source kind.
type Loader struct {
	fetcher *Fetcher
	window  SectorWindow
	logger  *slog.Logger
}

// New creates a loader.
func New(fetcher *Fetcher, window SectorWindow, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		window:  window,
		logger:  infrastructure.WithComponent(logger, "loader"),
	}
}

// ReadTable fetches a location and splits it into a table.
func (l *Loader) ReadTable(ctx context.Context, source, location string, headerless bool, rename map[string]string) (*Table, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	data, err := l.fetcher.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if loc.IsXLSX() {
		rows, err = ParseXLSX(data, loc.Sheet)
	} else {
		rows, err = ParseCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return NewTable(source, rows, headerless, rename), nil
}

// LoadOrders reads the primary production source.
func (l *Loader) LoadOrders(ctx context.Context, location string) (*OrdersResult, error) {
	t, err := l.ReadTable(ctx, SourceOrders, location, false, OrdersRename)
	if err != nil {
		return nil, err
	}
	res, err := ParseOrders(t)
	if err != nil {
		return nil, err
	}
	l.logger.DebugContext(ctx, "orders parsed",
		slog.Int("rows", len(t.Rows)),
		slog.Int("records", len(res.Records)),
		slog.Int("dropped", res.Dropped))
	return res, nil
}

// LoadCapacity reads the capacity log.
func (l *Loader) LoadCapacity(ctx context.Context, location string) ([]domain.CapacityRecord, error) {
	t, err := l.ReadTable(ctx, SourceCapacity, location, false, CapacityRename)
	if err != nil {
		return nil, err
	}
	return ParseCapacity(t)
}

// LoadSector reads and transposes one sector cost source.
func (l *Loader) LoadSector(ctx context.Context, sector domain.Sector, location string) (*domain.SectorCostTable, error) {
	t, err := l.ReadTable(ctx, string(sector), location, true, nil)
	if err != nil {
		return nil, err
	}
	table, err := ParseSector(sector, t.Rows, l.window)
	if err != nil {
		return nil, err
	}
	l.logger.DebugContext(ctx, "sector parsed",
		slog.String("sector", string(sector)),
		slog.Int("labels", len(table.Labels)),
		slog.Int("months", len(table.Months)))
	return table, nil
}

// LoadComposition reads the seven composition sources concurrently. Any
// failure aborts the load.
func (l *Loader) LoadComposition(ctx context.Context, cfg config.CompositionConfig) (*domain.CompositionTables, error) {
	tables := &domain.CompositionTables{Usage: make(map[domain.Component][]domain.ComponentUsage)}
	usageLocations := map[domain.Component]string{
		domain.ComponentCover:     cfg.Cover,
		domain.ComponentCore:      cfg.Core,
		domain.ComponentEndpaper:  cfg.Endpaper,
		domain.ComponentAccessory: cfg.Accessories,
	}
	usage := make([][]domain.ComponentUsage, len(domain.Components))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := l.ReadTable(gctx, "papers", cfg.Papers, false, CompositionRename)
		if err != nil {
			return err
		}
		tables.Papers, err = ParsePapers(t)
		return err
	})
	g.Go(func() error {
		t, err := l.ReadTable(gctx, "catalog", cfg.Catalog, false, CompositionRename)
		if err != nil {
			return err
		}
		tables.Catalog, err = ParseCatalog(t)
		return err
	})
	g.Go(func() error {
		t, err := l.ReadTable(gctx, "wire", cfg.Wire, false, CompositionRename)
		if err != nil {
			return err
		}
		tables.Wire, err = ParseWire(t)
		return err
	})
	for i, c := range domain.Components {
		g.Go(func() error {
			t, err := l.ReadTable(gctx, string(c), usageLocations[c], false, CompositionRename)
			if err != nil {
				return err
			}
			usage[i], err = ParseUsage(c, t)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, c := range domain.Components {
		tables.Usage[c] = usage[i]
	}
	return tables, nil
}
