package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodboard/internal/shared/testutil"
	"prodboard/pkg/contracts/domain"
)

func TestHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	bins := Histogram(values, 5)
	require.Len(t, bins, 5)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 10.0, bins[4].Upper)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(values), total)
	assert.Equal(t, 3, bins[4].Count, "last bin includes the maximum")

	flat := Histogram([]float64{4, 4, 4}, 30)
	require.Len(t, flat, 30)
	assert.Equal(t, 3.5, flat[0].Lower)
	assert.Equal(t, 4.5, flat[29].Upper)

	assert.Empty(t, Histogram(nil, 30))
}

func TestBoxStats(t *testing.T) {
	box := BoxStats([]float64{7, 1, 3, 5})

	assert.Equal(t, 4, box.Count)
	assert.Equal(t, 1.0, box.Min)
	assert.Equal(t, 2.5, box.Q1)
	assert.Equal(t, 4.0, box.Median)
	assert.Equal(t, 5.5, box.Q3)
	assert.Equal(t, 7.0, box.Max)
	assert.Equal(t, 4.0, box.Mean)

	assert.Equal(t, Box{}, BoxStats(nil))

	one := BoxStats([]float64{9})
	assert.Equal(t, 9.0, one.Q1)
	assert.Equal(t, 9.0, one.Q3)
}

func TestLotSizes(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-01").Qty(10, 0).Category("B").Build(),
		testutil.Order("2024-01-01").Qty(30, 0).Category("A").Build(),
		testutil.Order("2024-01-01").Qty(20, 0).Category("B").Build(),
	}

	dist := LotSizes(recs, domain.MetricRaw, 30)
	assert.Len(t, dist.Histogram, 30)
	assert.Equal(t, 20.0, dist.Box.Median)
	require.Len(t, dist.ByCategory, 2)
	assert.Equal(t, "A", dist.ByCategory[0].Category)
	assert.Equal(t, 15.0, dist.ByCategory[1].Mean)
}

func TestAnnualComparison(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-10").Qty(100, 0).Product("P1").Build(),
		testutil.Order("2024-06-10").Qty(200, 0).Product("P2").Build(),
		testutil.Order("2024-11-10").Qty(300, 0).Product("P3").Build(),
		testutil.Order("2025-01-10").Qty(60, 0).Product("P1").Build(),
		testutil.Order("2025-02-10").Qty(90, 0).Product("P2").Build(),
		testutil.Order("2025-09-10").Qty(999, 0).Product("P9").Build(),
	}

	a := AnnualComparison(recs, domain.MetricRaw, 2024, 2025, 7)

	assert.Equal(t, 600.0, a.BaseTotal)
	assert.Equal(t, 150.0, a.CurrentYTD)
	assert.Equal(t, 900.0, a.CurrentProjection)
	require.NotNil(t, a.GrowthPercent)
	assert.InDelta(t, 50.0, *a.GrowthPercent, 1e-9)

	var base, actual, projected int
	for _, m := range a.Monthly {
		switch m.Series {
		case SeriesBase:
			base++
		case SeriesActual:
			actual++
		case SeriesProjected:
			projected++
			assert.Equal(t, 75.0, m.Value)
			assert.Greater(t, m.Month, 7)
		}
	}
	assert.Equal(t, 2, base, "base months through the cutoff")
	assert.Equal(t, 2, actual)
	assert.Equal(t, 5, projected)

	require.Len(t, a.TopProducts.Base, 2)
	assert.Equal(t, "P2", a.TopProducts.Base[0].Key)
	require.Len(t, a.TopProducts.Current, 2)
}

func TestAnnualComparison_NoBase(t *testing.T) {
	a := AnnualComparison([]domain.ProductionRecord{testutil.Order("2025-01-10").Build()}, domain.MetricRaw, 2024, 2025, 7)

	assert.Nil(t, a.GrowthPercent)
	assert.Equal(t, 1200.0, a.CurrentProjection)

	empty := AnnualComparison(nil, domain.MetricRaw, 2024, 2025, 7)
	assert.Zero(t, empty.CurrentProjection)
	assert.Empty(t, empty.Monthly)
	assert.Empty(t, empty.TopProducts.Current)
}

func TestCategoryComparison(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-10").Qty(30, 0).Category("A").Build(),
		testutil.Order("2024-01-10").Qty(10, 0).Category("B").Build(),
		testutil.Order("2025-01-10").Qty(10, 0).Category("A").Build(),
	}

	years := CategoryComparison(recs, domain.MetricRaw, 2024, 2025, 2026)
	require.Len(t, years, 3)
	assert.Equal(t, []Share{{Key: "A", Value: 30, Percent: 75}, {Key: "B", Value: 10, Percent: 25}}, years[0].Shares)
	assert.Len(t, years[1].Boxes, 1)
	assert.Empty(t, years[2].Shares)
}

func TestNewDiagnostic(t *testing.T) {
	d := NewDiagnostic(10, []string{"QTD", "EQUIPE"}, 2)
	assert.Equal(t, Diagnostic{Rows: 10, Columns: 2, Names: []string{"QTD", "EQUIPE"}, Dropped: 2}, d)
	assert.NotNil(t, NewDiagnostic(0, nil, 0).Names)
}
