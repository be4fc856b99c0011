package aggregate

import (
	"slices"
	"sort"
	"strings"
	"time"

	"prodboard/pkg/contracts/domain"
)

// Key extracts the grouping key of a record.
type Key func(domain.ProductionRecord) string

// Grouping keys.
var (
	ByDate        Key = func(r domain.ProductionRecord) string { return r.DeliveryDate.Format(time.DateOnly) }
	ByPeriod      Key = func(r domain.ProductionRecord) string { return r.Period.String() }
	ByResponsible Key = func(r domain.ProductionRecord) string { return r.Responsible }
	ByTeam        Key = func(r domain.ProductionRecord) string { return r.Team }
	ByFamily      Key = func(r domain.ProductionRecord) string { return r.Family }
	ByCategory    Key = func(r domain.ProductionRecord) string { return r.Category }
	ByChannel     Key = func(r domain.ProductionRecord) string { return r.Channel }
	ByProduct     Key = func(r domain.ProductionRecord) string { return r.Product }
)

// Group is the reduction of the records sharing one key.
type Group struct {
	Key   string  `json:"key"`
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// GroupBy reduces records by key, returning groups in ascending key order.
func GroupBy(records []domain.ProductionRecord, metric domain.Metric, key Key) []Group {
	index := make(map[string]int)
	groups := []Group{}
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Sum += metric.Value(r)
		groups[i].Count++
	}
	for i := range groups {
		groups[i].Mean = groups[i].Sum / float64(groups[i].Count)
	}
	slices.SortFunc(groups, func(a, b Group) int { return strings.Compare(a.Key, b.Key) })
	return groups
}

// SortBySum orders groups by descending sum. Ties keep their input order.
func SortBySum(groups []Group) []Group {
	out := slices.Clone(groups)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sum > out[j].Sum })
	return nonNil(out)
}

// TopK returns the k largest groups by sum; ties keep key order.
func TopK(records []domain.ProductionRecord, metric domain.Metric, key Key, k int) []Group {
	sorted := SortBySum(GroupBy(records, metric, key))
	if k >= 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// Share is a group with its percentage of the total.
type Share struct {
	Key     string  `json:"key"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Shares returns every group's part of the total, largest first.
func Shares(records []domain.ProductionRecord, metric domain.Metric, key Key) []Share {
	groups := SortBySum(GroupBy(records, metric, key))
	total := 0.0
	for _, g := range groups {
		total += g.Sum
	}
	out := make([]Share, len(groups))
	for i, g := range groups {
		out[i] = Share{Key: g.Key, Value: g.Sum, Percent: ratio(g.Sum, total) * 100}
	}
	return out
}

// ParetoPoint is one contributor of a Pareto ranking.
type ParetoPoint struct {
	Key               string  `json:"key"`
	Value             float64 `json:"value"`
	CumulativePercent float64 `json:"cumulative_percent"`
}

// Pareto ranks contributors by descending value with the running
// percentage of the total.
func Pareto(records []domain.ProductionRecord, metric domain.Metric, key Key) []ParetoPoint {
	groups := SortBySum(GroupBy(records, metric, key))
	total := 0.0
	for _, g := range groups {
		total += g.Sum
	}
	out := make([]ParetoPoint, len(groups))
	running := 0.0
	for i, g := range groups {
		running += g.Sum
		out[i] = ParetoPoint{Key: g.Key, Value: g.Sum, CumulativePercent: ratio(running, total) * 100}
	}
	return out
}

// LeaderboardEntry is one ranked responsible in a period.
type LeaderboardEntry struct {
	Period      string  `json:"period"`
	Rank        int     `json:"rank"`
	Responsible string  `json:"responsible"`
	Value       float64 `json:"value"`
}

// MonthlyLeaderboard returns the top n responsibles of every period, periods
// ascending.
func MonthlyLeaderboard(records []domain.ProductionRecord, metric domain.Metric, n int) []LeaderboardEntry {
	byPeriod := make(map[string][]domain.ProductionRecord)
	for _, r := range records {
		p := r.Period.String()
		byPeriod[p] = append(byPeriod[p], r)
	}
	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	slices.Sort(periods)

	out := []LeaderboardEntry{}
	for _, p := range periods {
		for i, g := range TopK(byPeriod[p], metric, ByResponsible, n) {
			out = append(out, LeaderboardEntry{Period: p, Rank: i + 1, Responsible: g.Key, Value: g.Sum})
		}
	}
	return out
}

// ratio divides and defines x/0 as 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
