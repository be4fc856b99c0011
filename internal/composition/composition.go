// Package composition builds the unit cost of a product from its component
// usage: paper and catalog materials, printing and wire binding.
package composition

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "prodboard/internal/errors"
	"prodboard/internal/infrastructure"
	"prodboard/pkg/contracts/domain"
)

// Lookup kinds reported on misses.
const (
	LookupMaterial = "material"
	LookupWire     = "wire"
)

// Composer computes unit cost quotes.
type Composer struct {
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewComposer creates a composer. metrics may be nil.
func NewComposer(metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		metrics: metrics,
		logger:  logger.With(slog.String("component", "composition")),
	}
}

// key normalizes names for lookups.
func key(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// PaperUnitCosts returns the cost per sheet of every paper: the summed
// purchase value over the summed sheets. Papers without sheets are omitted.
func PaperUnitCosts(papers []domain.PaperPurchase) map[string]decimal.Decimal {
	type acc struct{ sheets, value decimal.Decimal }
	sums := make(map[string]acc)
	for _, p := range papers {
		a := sums[key(p.Paper)]
		a.sheets = a.sheets.Add(p.Sheets)
		a.value = a.value.Add(p.Value)
		sums[key(p.Paper)] = a
	}
	out := make(map[string]decimal.Decimal, len(sums))
	for name, a := range sums {
		if a.sheets.IsPositive() {
			out[name] = a.value.Div(a.sheets)
		}
	}
	return out
}

// CatalogCosts indexes the catalog by item. The first entry of an item wins.
func CatalogCosts(items []domain.CatalogItem) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		if _, ok := out[key(it.Item)]; !ok {
			out[key(it.Item)] = it.UnitCost
		}
	}
	return out
}

// FindWire returns the first binding whose sheet range contains sheets.
func FindWire(bindings []domain.WireBinding, sheets decimal.Decimal) (domain.WireBinding, bool) {
	for _, w := range bindings {
		if w.Contains(sheets) {
			return w, true
		}
	}
	return domain.WireBinding{}, false
}

// Quote composes the unit cost of req.Product.
//
// Materials resolve against papers first, then the catalog. An unresolved
// material keeps its printing cost, contributes no material cost and adds a
// warning. The wire binding is chosen by the total paper sheets per unit
// when the product uses paper and a wire table is loaded.
func (c *Composer) Quote(ctx context.Context, tables *domain.CompositionTables, req domain.QuoteRequest) (*domain.Quote, error) {
	if tables == nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeLoadDegraded, "composition sources are not loaded", nil)
	}
	if req.OrderQuantity < 1 {
		return nil, apperrors.NewAppValidationError("order quantity must be at least 1").
			WithContext("order_quantity", req.OrderQuantity)
	}

	product := key(req.Product)
	papers := PaperUnitCosts(tables.Papers)
	catalog := CatalogCosts(tables.Catalog)

	q := &domain.Quote{
		Product:       strings.TrimSpace(req.Product),
		OrderQuantity: req.OrderQuantity,
		Lines:         []domain.CompositionLine{},
		TotalSheets:   decimal.Zero,
		UnitCost:      decimal.Zero,
	}

	for _, comp := range domain.Components {
		for _, u := range tables.Usage[comp] {
			if key(u.Product) != product {
				continue
			}
			line := domain.CompositionLine{
				Component:    comp,
				Material:     u.Material,
				Quantity:     u.QuantityPerUnit,
				PrintingCost: u.PrintingCost,
			}
			if cost, ok := papers[key(u.Material)]; ok {
				line.Source, line.UnitCost = domain.MaterialPaper, cost
				q.TotalSheets = q.TotalSheets.Add(u.QuantityPerUnit)
			} else if cost, ok := catalog[key(u.Material)]; ok {
				line.Source, line.UnitCost = domain.MaterialCatalog, cost
			} else {
				line.Source = domain.MaterialMissing
				q.Warnings = append(q.Warnings, fmt.Sprintf("Material %q (%s) sem custo cadastrado", u.Material, comp))
				c.recordMiss(ctx, LookupMaterial)
			}
			line.MaterialCost = line.Quantity.Mul(line.UnitCost)
			line.Total = line.MaterialCost.Add(line.PrintingCost)
			q.UnitCost = q.UnitCost.Add(line.Total)
			q.Lines = append(q.Lines, line)
		}
	}
	if len(q.Lines) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %q", q.Product)).
			WithContext("product", q.Product)
	}

	if q.TotalSheets.IsPositive() && len(tables.Wire) > 0 {
		if w, ok := FindWire(tables.Wire, q.TotalSheets); ok {
			q.Wire = &w
			q.UnitCost = q.UnitCost.Add(w.UnitCost)
		} else {
			q.Warnings = append(q.Warnings, fmt.Sprintf("Nenhum wire cadastrado para %s folhas", q.TotalSheets.String()))
			c.recordMiss(ctx, LookupWire)
		}
	}

	q.OrderTotal = q.UnitCost.Mul(decimal.NewFromInt(int64(q.OrderQuantity)))

	outcome := "ok"
	if len(q.Warnings) > 0 {
		outcome = "warnings"
	}
	if c.metrics != nil {
		c.metrics.QuotesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
	c.logger.DebugContext(ctx, "quote computed",
		slog.String("product", q.Product),
		slog.Int("lines", len(q.Lines)),
		slog.String("unit_cost", q.UnitCost.StringFixed(4)),
		slog.Int("warnings", len(q.Warnings)),
	)
	return q, nil
}

func (c *Composer) recordMiss(ctx context.Context, kind string) {
	if c.metrics == nil {
		return
	}
	c.metrics.LookupMissesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
