package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"prodboard/pkg/contracts/domain"
)

// OrderBuilder builds production records for tests.
type OrderBuilder struct {
	r domain.ProductionRecord
}

// Order starts a record delivered on day ("2006-01-02") with quantity 100,
// weighted quantity 100 and fixed dimension values.
func Order(day string) *OrderBuilder {
	d, err := time.Parse(time.DateOnly, day)
	if err != nil {
		panic(err)
	}
	return &OrderBuilder{r: domain.ProductionRecord{
		DeliveryDate:     d,
		Year:             d.Year(),
		Month:            int(d.Month()),
		Period:           domain.PeriodOf(d),
		Quantity:         100,
		WeightedQuantity: 100,
		Family:           "AGENDAS",
		Category:         "CAPA DURA",
		Responsible:      "ANA",
		Team:             "MESA 1",
		Channel:          "B2B",
		Product:          "AG-001",
	}}
}

func (b *OrderBuilder) Qty(raw, weighted float64) *OrderBuilder {
	b.r.Quantity, b.r.WeightedQuantity = raw, weighted
	return b
}

func (b *OrderBuilder) Responsible(v string) *OrderBuilder { b.r.Responsible = v; return b }
func (b *OrderBuilder) Team(v string) *OrderBuilder        { b.r.Team = v; return b }
func (b *OrderBuilder) Family(v string) *OrderBuilder      { b.r.Family = v; return b }
func (b *OrderBuilder) Category(v string) *OrderBuilder    { b.r.Category = v; return b }
func (b *OrderBuilder) Channel(v string) *OrderBuilder     { b.r.Channel = v; return b }
func (b *OrderBuilder) Product(v string) *OrderBuilder     { b.r.Product = v; return b }

// Build returns the record.
func (b *OrderBuilder) Build() domain.ProductionRecord {
	return b.r
}

// Repeat returns n copies of the record.
func (b *OrderBuilder) Repeat(n int) []domain.ProductionRecord {
	out := make([]domain.ProductionRecord, n)
	for i := range out {
		out[i] = b.r
	}
	return out
}

// Capacity returns a capacity month with the given hourly productivity and
// optional fixed headcounts (nil leaves them missing).
func Capacity(period string, perHour float64, finishing, machine *float64) domain.CapacityRecord {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		panic(err)
	}
	return domain.CapacityRecord{
		Label:              period,
		Period:             p,
		ProductionPerHour:  &perHour,
		FinishingHeadcount: finishing,
		MachineOperators:   machine,
	}
}

// SectorTable builds a sector table whose months start at first. Each line
// holds one value per month; a line shorter than the table leaves the
// trailing months missing.
func SectorTable(sector domain.Sector, first string, lines map[string][]float64) *domain.SectorCostTable {
	start, err := domain.ParsePeriod(first)
	if err != nil {
		panic(err)
	}
	months := 0
	for _, v := range lines {
		if len(v) > months {
			months = len(v)
		}
	}

	t := &domain.SectorCostTable{Sector: sector, Months: make([]domain.SectorMonth, months)}
	for i := range t.Months {
		t.Months[i] = domain.SectorMonth{Period: start.AddMonths(i), Values: map[string]float64{}}
	}
	for label := range lines {
		t.Labels = append(t.Labels, label)
	}
	sort.Strings(t.Labels)
	for label, values := range lines {
		for i, v := range values {
			t.Months[i].Values[label] = v
		}
	}
	return t
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// WriteFile writes content to name inside a per-test temp dir and returns the
// full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
