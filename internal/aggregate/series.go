package aggregate

import (
	"slices"
	"time"

	"prodboard/pkg/contracts/domain"
)

// MovingAverageWindow is the trailing window of the daily trend line.
const MovingAverageWindow = 7

// DailyPoint is one delivery date of the daily series.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	// MovingAverage is nil for the first window-1 points.
	MovingAverage *float64 `json:"moving_average"`
	Cumulative    float64  `json:"cumulative"`
}

// Daily sums the metric per calendar day of delivery in date order, with the
// 7-point trailing moving average and the running total.
func Daily(records []domain.ProductionRecord, metric domain.Metric) []DailyPoint {
	sums := make(map[time.Time]float64)
	for _, r := range records {
		sums[calendarDay(r.DeliveryDate)] += metric.Value(r)
	}
	dates := make([]time.Time, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	values := make([]float64, len(dates))
	for i, d := range dates {
		values[i] = sums[d]
	}
	ma := MovingAverage(values, MovingAverageWindow)
	cum := CumulativeSum(values)

	out := make([]DailyPoint, len(dates))
	for i, d := range dates {
		out[i] = DailyPoint{Date: d, Value: values[i], MovingAverage: ma[i], Cumulative: cum[i]}
	}
	return out
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MovingAverage returns the trailing mean over window values. Positions with
// fewer than window predecessors (inclusive) are nil.
func MovingAverage(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		mean := sum / float64(window)
		out[i] = &mean
	}
	return out
}

// CumulativeSum returns the running totals of values.
func CumulativeSum(values []float64) []float64 {
	out := make([]float64, len(values))
	running := 0.0
	for i, v := range values {
		running += v
		out[i] = running
	}
	return out
}

// PeriodTotal is the raw and weighted sum of one period.
type PeriodTotal struct {
	Period   domain.Period `json:"period"`
	Raw      float64       `json:"raw"`
	Weighted float64       `json:"weighted"`
}

// PeriodTotals sums both quantities per period, periods ascending.
func PeriodTotals(records []domain.ProductionRecord) []PeriodTotal {
	index := make(map[domain.Period]int)
	out := []PeriodTotal{}
	for _, r := range records {
		i, ok := index[r.Period]
		if !ok {
			i = len(out)
			index[r.Period] = i
			out = append(out, PeriodTotal{Period: r.Period})
		}
		out[i].Raw += r.Quantity
		out[i].Weighted += r.WeightedQuantity
	}
	slices.SortFunc(out, func(a, b PeriodTotal) int {
		switch {
		case a.Period.Before(b.Period):
			return -1
		case b.Period.Before(a.Period):
			return 1
		}
		return 0
	})
	return out
}

// Pivot is a year by month table of summed values; absent cells are zero.
type Pivot struct {
	Years  []int       `json:"years"`
	Months []int       `json:"months"`
	Cells  [][]float64 `json:"cells"`
}

// YearMonthPivot sums the metric into a year by month grid over the years
// and months present in records.
func YearMonthPivot(records []domain.ProductionRecord, metric domain.Metric) Pivot {
	type cell struct{ year, month int }
	sums := make(map[cell]float64)
	years := make(map[int]struct{})
	months := make(map[int]struct{})
	for _, r := range records {
		sums[cell{r.Year, r.Month}] += metric.Value(r)
		years[r.Year] = struct{}{}
		months[r.Month] = struct{}{}
	}

	p := Pivot{Years: sortedKeys(years), Months: sortedKeys(months)}
	p.Cells = make([][]float64, len(p.Years))
	for i, y := range p.Years {
		row := make([]float64, len(p.Months))
		for j, m := range p.Months {
			row[j] = sums[cell{y, m}]
		}
		p.Cells[i] = row
	}
	return p
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
