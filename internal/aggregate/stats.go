package aggregate

import (
	"math"
	"slices"

	"prodboard/pkg/contracts/domain"
)

// NoCategory is reported as dominant category of an empty set.
const NoCategory = "N/A"

// General holds the headline metrics.
type General struct {
	Total            float64 `json:"total"`
	MeanPerOrder     float64 `json:"mean_per_order"`
	Orders           int     `json:"orders"`
	DominantCategory string  `json:"dominant_category"`
}

// GeneralMetrics computes the headline metrics. The dominant category is the
// most frequent one; ties go to the lexically smallest.
func GeneralMetrics(records []domain.ProductionRecord, metric domain.Metric) General {
	g := General{Orders: len(records), DominantCategory: NoCategory}
	if len(records) == 0 {
		return g
	}

	counts := make(map[string]int)
	for _, r := range records {
		g.Total += metric.Value(r)
		counts[r.Category]++
	}
	g.MeanPerOrder = g.Total / float64(len(records))

	best := -1
	for cat, n := range counts {
		if n > best || (n == best && cat < g.DominantCategory) {
			best, g.DominantCategory = n, cat
		}
	}
	return g
}

// Bin is one histogram bucket. Every bucket is [Lower, Upper) except the
// last, which includes Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits values into bins equal-width buckets over their range.
// A zero range is widened to [v-0.5, v+0.5].
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return []Bin{}
	}
	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: lo + float64(i)*width, Upper: lo + float64(i+1)*width}
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}

// Box holds five-number summary statistics.
type Box struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// BoxStats summarizes values with linearly interpolated quartiles.
func BoxStats(values []float64) Box {
	if len(values) == 0 {
		return Box{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return Box{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
	}
}

// quantile interpolates between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// CategoryBox is the lot-size summary of one category.
type CategoryBox struct {
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	Box      Box     `json:"box"`
}

// LotDistribution describes the size of production lots.
type LotDistribution struct {
	Histogram  []Bin         `json:"histogram"`
	Box        Box           `json:"box"`
	ByCategory []CategoryBox `json:"by_category"`
}

// LotSizes computes the lot-size histogram and box statistics, overall and
// per category (categories ascending).
func LotSizes(records []domain.ProductionRecord, metric domain.Metric, bins int) LotDistribution {
	values := make([]float64, len(records))
	byCat := make(map[string][]float64)
	for i, r := range records {
		values[i] = metric.Value(r)
		byCat[r.Category] = append(byCat[r.Category], values[i])
	}
	return LotDistribution{
		Histogram:  Histogram(values, bins),
		Box:        BoxStats(values),
		ByCategory: categoryBoxes(byCat),
	}
}

func categoryBoxes(byCat map[string][]float64) []CategoryBox {
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	slices.Sort(cats)

	out := make([]CategoryBox, len(cats))
	for i, c := range cats {
		box := BoxStats(byCat[c])
		out[i] = CategoryBox{Category: c, Mean: box.Mean, Box: box}
	}
	return out
}
