package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodboard/internal/shared/testutil"
	"prodboard/pkg/contracts/domain"
)

// tenOrders is the end-to-end scenario: 10 orders in 2024-01, 100 raw and
// 120 weighted each.
func tenOrders() []domain.ProductionRecord {
	var recs []domain.ProductionRecord
	for i := 0; i < 10; i++ {
		who := "ANA"
		if i >= 6 {
			who = "BIA"
		}
		recs = append(recs, testutil.Order("2024-01-15").Qty(100, 120).Responsible(who).Build())
	}
	return recs
}

func TestTenOrdersScenario(t *testing.T) {
	recs := tenOrders()

	raw := GeneralMetrics(recs, domain.MetricRaw)
	assert.Equal(t, 1000.0, raw.Total)
	assert.Equal(t, 100.0, raw.MeanPerOrder)
	assert.Equal(t, 10, raw.Orders)

	weighted := GeneralMetrics(recs, domain.MetricWeighted)
	assert.Equal(t, 1200.0, weighted.Total)

	top := TopK(recs, domain.MetricRaw, ByResponsible, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "ANA", top[0].Key)
	assert.Equal(t, 600.0, top[0].Sum)

	totals := PeriodTotals(recs)
	require.Len(t, totals, 1)
	assert.Equal(t, "2024-01", totals[0].Period.String())
	assert.Equal(t, 1.2, totals[0].Weighted/totals[0].Raw)
}

func TestGroupBy(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-01").Qty(10, 0).Family("B").Build(),
		testutil.Order("2024-01-02").Qty(30, 0).Family("A").Build(),
		testutil.Order("2024-01-03").Qty(20, 0).Family("B").Build(),
	}

	groups := GroupBy(recs, domain.MetricRaw, ByFamily)
	assert.Equal(t, []Group{
		{Key: "A", Sum: 30, Count: 1, Mean: 30},
		{Key: "B", Sum: 30, Count: 2, Mean: 15},
	}, groups)

	assert.Empty(t, GroupBy(nil, domain.MetricRaw, ByFamily))
	assert.NotNil(t, GroupBy(nil, domain.MetricRaw, ByFamily))
}

func TestTopK_StableTies(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-01").Qty(50, 0).Responsible("DAN").Build(),
		testutil.Order("2024-01-01").Qty(50, 0).Responsible("ANA").Build(),
		testutil.Order("2024-01-01").Qty(80, 0).Responsible("ZOE").Build(),
		testutil.Order("2024-01-01").Qty(50, 0).Responsible("CAIO").Build(),
	}

	top := TopK(recs, domain.MetricRaw, ByResponsible, 3)
	keys := []string{top[0].Key, top[1].Key, top[2].Key}
	assert.Equal(t, []string{"ZOE", "ANA", "CAIO"}, keys)

	assert.Len(t, TopK(recs, domain.MetricRaw, ByResponsible, 10), 4)
	assert.Empty(t, TopK(nil, domain.MetricRaw, ByResponsible, 5))
}

func TestMovingAverage(t *testing.T) {
	t.Run("shorter than window is undefined", func(t *testing.T) {
		for n := 0; n < MovingAverageWindow; n++ {
			values := make([]float64, n)
			for i := range values {
				values[i] = float64(i + 1)
			}
			for _, v := range MovingAverage(values, MovingAverageWindow) {
				assert.Nil(t, v)
			}
		}
	})

	t.Run("trailing mean from position 6", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 20, 0}
		ma := MovingAverage(values, MovingAverageWindow)
		require.Len(t, ma, len(values))

		for i := range values {
			if i < 6 {
				assert.Nil(t, ma[i])
				continue
			}
			want := 0.0
			for j := i - 6; j <= i; j++ {
				want += values[j]
			}
			want /= 7
			require.NotNil(t, ma[i])
			assert.InDelta(t, want, *ma[i], 1e-9)
		}
		assert.InDelta(t, 4.0, *ma[6], 1e-9)
	})
}

func TestCumulativeSum_NonDecreasing(t *testing.T) {
	values := []float64{5, 0, 3, 0, 0, 12.5, 1}
	cum := CumulativeSum(values)

	for i := 1; i < len(cum); i++ {
		assert.GreaterOrEqual(t, cum[i], cum[i-1])
	}
	assert.Equal(t, 21.5, cum[len(cum)-1])
	assert.Empty(t, CumulativeSum(nil))
}

func TestDaily(t *testing.T) {
	var recs []domain.ProductionRecord
	days := []string{"2024-01-09", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-08"}
	for i, d := range days {
		recs = append(recs, testutil.Order(d).Qty(float64(i+1), 0).Build())
	}
	recs = append(recs, testutil.Order("2024-01-01").Qty(10, 0).Build())

	points := Daily(recs, domain.MetricRaw)
	require.Len(t, points, 8)

	assert.Equal(t, "2024-01-01", points[0].Date.Format("2006-01-02"))
	assert.Equal(t, 12.0, points[0].Value)
	assert.Equal(t, "2024-01-09", points[7].Date.Format("2006-01-02"))
	for i := 0; i < 6; i++ {
		assert.Nil(t, points[i].MovingAverage)
	}
	assert.NotNil(t, points[6].MovingAverage)

	total := 0.0
	for _, r := range recs {
		total += r.Quantity
	}
	assert.Equal(t, total, points[7].Cumulative)
	assert.Empty(t, Daily(nil, domain.MetricRaw))
}

func TestDaily_TimesOfOneDay(t *testing.T) {
	morning := testutil.Order("2024-01-05").Qty(10, 0).Build()
	morning.DeliveryDate = morning.DeliveryDate.Add(8 * time.Hour)
	evening := testutil.Order("2024-01-05").Qty(5, 0).Build()
	evening.DeliveryDate = evening.DeliveryDate.Add(17*time.Hour + 30*time.Minute)

	points := Daily([]domain.ProductionRecord{evening, morning}, domain.MetricRaw)
	require.Len(t, points, 1)
	assert.Equal(t, 15.0, points[0].Value)
	assert.True(t, points[0].Date.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
}

func TestPareto(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-01").Qty(20, 0).Responsible("B").Build(),
		testutil.Order("2024-01-01").Qty(60, 0).Responsible("A").Build(),
		testutil.Order("2024-01-01").Qty(20, 0).Responsible("C").Build(),
	}

	got := Pareto(recs, domain.MetricRaw, ByResponsible)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Key)
	assert.InDelta(t, 60.0, got[0].CumulativePercent, 1e-9)
	assert.InDelta(t, 80.0, got[1].CumulativePercent, 1e-9)
	assert.InDelta(t, 100.0, got[2].CumulativePercent, 1e-9)

	zero := Pareto([]domain.ProductionRecord{testutil.Order("2024-01-01").Qty(1, 0).Build()}, domain.MetricWeighted, ByResponsible)
	assert.Equal(t, 0.0, zero[0].CumulativePercent)
}

func TestShares(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-01").Qty(25, 0).Channel("B2C").Build(),
		testutil.Order("2024-01-01").Qty(75, 0).Channel("B2B").Build(),
	}

	shares := Shares(recs, domain.MetricRaw, ByChannel)
	assert.Equal(t, []Share{{Key: "B2B", Value: 75, Percent: 75}, {Key: "B2C", Value: 25, Percent: 25}}, shares)
}

func TestYearMonthPivot(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-01").Qty(10, 0).Build(),
		testutil.Order("2024-01-20").Qty(5, 0).Build(),
		testutil.Order("2025-03-01").Qty(7, 0).Build(),
	}

	p := YearMonthPivot(recs, domain.MetricRaw)
	assert.Equal(t, []int{2024, 2025}, p.Years)
	assert.Equal(t, []int{1, 3}, p.Months)
	assert.Equal(t, [][]float64{{15, 0}, {0, 7}}, p.Cells)

	empty := YearMonthPivot(nil, domain.MetricRaw)
	assert.Empty(t, empty.Years)
	assert.Empty(t, empty.Cells)
}

func TestMonthlyLeaderboard(t *testing.T) {
	recs := []domain.ProductionRecord{
		testutil.Order("2024-01-01").Qty(10, 0).Responsible("A").Build(),
		testutil.Order("2024-01-01").Qty(30, 0).Responsible("B").Build(),
		testutil.Order("2024-01-01").Qty(20, 0).Responsible("C").Build(),
		testutil.Order("2024-01-01").Qty(5, 0).Responsible("D").Build(),
		testutil.Order("2024-02-01").Qty(1, 0).Responsible("A").Build(),
	}

	lb := MonthlyLeaderboard(recs, domain.MetricRaw, 3)
	require.Len(t, lb, 4)
	assert.Equal(t, LeaderboardEntry{Period: "2024-01", Rank: 1, Responsible: "B", Value: 30}, lb[0])
	assert.Equal(t, "C", lb[1].Responsible)
	assert.Equal(t, "A", lb[2].Responsible)
	assert.Equal(t, LeaderboardEntry{Period: "2024-02", Rank: 1, Responsible: "A", Value: 1}, lb[3])
}

func TestGeneralMetrics(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		g := GeneralMetrics(nil, domain.MetricRaw)
		assert.Equal(t, General{DominantCategory: NoCategory}, g)
	})

	t.Run("mode ties go to the smallest category", func(t *testing.T) {
		recs := []domain.ProductionRecord{
			testutil.Order("2024-01-01").Category("WIRE-O").Build(),
			testutil.Order("2024-01-01").Category("BROCHURA").Build(),
			testutil.Order("2024-01-01").Category("WIRE-O").Build(),
			testutil.Order("2024-01-01").Category("BROCHURA").Build(),
			testutil.Order("2024-01-01").Category("CAPA DURA").Build(),
		}
		assert.Equal(t, "BROCHURA", GeneralMetrics(recs, domain.MetricRaw).DominantCategory)
	})
}
