package aggregate

import (
	"prodboard/pkg/contracts/domain"
)

// Series kinds of the annual comparison chart.
const (
	SeriesBase      = "base"
	SeriesActual    = "actual"
	SeriesProjected = "projected"
)

// MonthValue is one bar of the monthly comparison chart.
type MonthValue struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Series string  `json:"series"`
	Value  float64 `json:"value"`
}

// Annual compares a base year with the current year up to a cutoff month.
type Annual struct {
	BaseYear    int `json:"base_year"`
	CurrentYear int `json:"current_year"`
	CutoffMonth int `json:"cutoff_month"`

	// BaseTotal is the full base year.
	BaseTotal float64 `json:"base_total"`
	// CurrentYTD covers January through the cutoff.
	CurrentYTD float64 `json:"current_ytd"`
	// CurrentProjection is CurrentYTD / months with data × 12.
	CurrentProjection float64 `json:"current_projection"`
	// GrowthPercent is nil when the base total is zero.
	GrowthPercent *float64 `json:"growth_percent"`

	Monthly     []MonthValue `json:"monthly"`
	TopProducts struct {
		Base    []Group `json:"base"`
		Current []Group `json:"current"`
	} `json:"top_products"`
}

// AnnualComparison builds the base versus current year view. Months after
// the cutoff get a flat projection equal to the current monthly mean.
func AnnualComparison(records []domain.ProductionRecord, metric domain.Metric, baseYear, currentYear, cutoff int) Annual {
	a := Annual{BaseYear: baseYear, CurrentYear: currentYear, CutoffMonth: cutoff}

	var baseYTD, currentYTD []domain.ProductionRecord
	for _, r := range records {
		switch r.Year {
		case baseYear:
			a.BaseTotal += metric.Value(r)
			if r.Month <= cutoff {
				baseYTD = append(baseYTD, r)
			}
		case currentYear:
			if r.Month <= cutoff {
				currentYTD = append(currentYTD, r)
				a.CurrentYTD += metric.Value(r)
			}
		}
	}

	baseMonths := monthSums(baseYTD, metric)
	currentMonths := monthSums(currentYTD, metric)

	if len(currentMonths) > 0 && a.CurrentYTD > 0 {
		a.CurrentProjection = a.CurrentYTD / float64(len(currentMonths)) * 12
	}
	if a.BaseTotal > 0 {
		growth := (a.CurrentProjection - a.BaseTotal) / a.BaseTotal * 100
		a.GrowthPercent = &growth
	}

	a.Monthly = []MonthValue{}
	for _, g := range baseMonths {
		a.Monthly = append(a.Monthly, MonthValue{Year: baseYear, Month: g.month, Series: SeriesBase, Value: g.sum})
	}
	for _, g := range currentMonths {
		a.Monthly = append(a.Monthly, MonthValue{Year: currentYear, Month: g.month, Series: SeriesActual, Value: g.sum})
	}
	if len(currentMonths) > 0 {
		mean := a.CurrentYTD / float64(len(currentMonths))
		for m := cutoff + 1; m <= 12; m++ {
			a.Monthly = append(a.Monthly, MonthValue{Year: currentYear, Month: m, Series: SeriesProjected, Value: mean})
		}
	}

	a.TopProducts.Base = TopK(baseYTD, metric, ByProduct, 5)
	a.TopProducts.Current = TopK(currentYTD, metric, ByProduct, 5)
	return a
}

type monthSum struct {
	month int
	sum   float64
}

// monthSums sums the metric per month number, months ascending.
func monthSums(records []domain.ProductionRecord, metric domain.Metric) []monthSum {
	var sums [13]float64
	var present [13]bool
	for _, r := range records {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		sums[r.Month] += metric.Value(r)
		present[r.Month] = true
	}
	var out []monthSum
	for m := 1; m <= 12; m++ {
		if present[m] {
			out = append(out, monthSum{month: m, sum: sums[m]})
		}
	}
	return out
}

// YearCategories is the category breakdown of one year.
type YearCategories struct {
	Year   int           `json:"year"`
	Shares []Share       `json:"shares"`
	Boxes  []CategoryBox `json:"boxes"`
}

// CategoryComparison breaks every requested year down by category.
func CategoryComparison(records []domain.ProductionRecord, metric domain.Metric, years ...int) []YearCategories {
	out := make([]YearCategories, 0, len(years))
	for _, y := range years {
		var subset []domain.ProductionRecord
		byCat := make(map[string][]float64)
		for _, r := range records {
			if r.Year == y {
				subset = append(subset, r)
				byCat[r.Category] = append(byCat[r.Category], metric.Value(r))
			}
		}
		out = append(out, YearCategories{
			Year:   y,
			Shares: Shares(subset, metric, ByCategory),
			Boxes:  categoryBoxes(byCat),
		})
	}
	return out
}

// Diagnostic summarizes the unfiltered orders table.
type Diagnostic struct {
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Names   []string `json:"column_names"`
	Dropped int      `json:"dropped_rows"`
}

// NewDiagnostic describes a loaded table.
func NewDiagnostic(rows int, columns []string, dropped int) Diagnostic {
	return Diagnostic{Rows: rows, Columns: len(columns), Names: nonNil(columns), Dropped: dropped}
}
