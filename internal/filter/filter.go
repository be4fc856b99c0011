// Package filter implements the seven dashboard filters.
//
// Each dimension has an Active toggle. An inactive dimension admits every
// record. An active dimension admits records whose value is in the selected
// subset of the values currently visible for that dimension; selected values
// that are not visible are ignored. Month visibility depends on the effective
// year selection. All predicates are ANDed over the unfiltered records.
package filter

import (
	"cmp"
	"slices"

	"prodboard/pkg/contracts/domain"
)

// Selection is the state of one dimension filter.
type Selection[T cmp.Ordered] struct {
	Active bool `json:"active"`
	Values []T  `json:"values,omitempty"`
}

// On returns an active selection of values.
func On[T cmp.Ordered](values ...T) Selection[T] {
	return Selection[T]{Active: true, Values: values}
}

// Set holds the seven filters.
type Set struct {
	Years        Selection[int]    `json:"years"`
	Months       Selection[int]    `json:"months"`
	Families     Selection[string] `json:"families"`
	Categories   Selection[string] `json:"categories"`
	Responsibles Selection[string] `json:"responsibles"`
	Teams        Selection[string] `json:"teams"`
	Channels     Selection[string] `json:"channels"`
}

// Choices lists the visible distinct values of every dimension, sorted.
type Choices struct {
	Years        []int    `json:"years"`
	Months       []int    `json:"months"`
	Families     []string `json:"families"`
	Categories   []string `json:"categories"`
	Responsibles []string `json:"responsibles"`
	Teams        []string `json:"teams"`
	Channels     []string `json:"channels"`
}

// Options computes the values offered for each dimension under set.
func Options(records []domain.ProductionRecord, set Set) Choices {
	years := distinct(records, func(r domain.ProductionRecord) int { return r.Year })
	yearSel := effective(set.Years, years)

	var months []int
	seen := make(map[int]struct{})
	for _, r := range records {
		if !admits(yearSel, r.Year) {
			continue
		}
		if _, ok := seen[r.Month]; !ok {
			seen[r.Month] = struct{}{}
			months = append(months, r.Month)
		}
	}
	slices.Sort(months)

	return Choices{
		Years:        years,
		Months:       nonNil(months),
		Families:     distinct(records, func(r domain.ProductionRecord) string { return r.Family }),
		Categories:   distinct(records, func(r domain.ProductionRecord) string { return r.Category }),
		Responsibles: distinct(records, func(r domain.ProductionRecord) string { return r.Responsible }),
		Teams:        distinct(records, func(r domain.ProductionRecord) string { return r.Team }),
		Channels:     distinct(records, func(r domain.ProductionRecord) string { return r.Channel }),
	}
}

// Apply returns the records admitted by set as a fresh slice.
func Apply(records []domain.ProductionRecord, set Set) []domain.ProductionRecord {
	opts := Options(records, set)

	years := effective(set.Years, opts.Years)
	months := effective(set.Months, opts.Months)
	families := effective(set.Families, opts.Families)
	categories := effective(set.Categories, opts.Categories)
	responsibles := effective(set.Responsibles, opts.Responsibles)
	teams := effective(set.Teams, opts.Teams)
	channels := effective(set.Channels, opts.Channels)

	out := make([]domain.ProductionRecord, 0, len(records))
	for _, r := range records {
		if admits(years, r.Year) &&
			admits(months, r.Month) &&
			admits(families, r.Family) &&
			admits(categories, r.Category) &&
			admits(responsibles, r.Responsible) &&
			admits(teams, r.Team) &&
			admits(channels, r.Channel) {
			out = append(out, r)
		}
	}
	return out
}

// effective returns nil for an inactive selection (admit all) and otherwise
// the selected values that are visible.
func effective[T cmp.Ordered](sel Selection[T], visible []T) map[T]struct{} {
	if !sel.Active {
		return nil
	}
	allowed := make(map[T]struct{}, len(sel.Values))
	for _, v := range sel.Values {
		if _, ok := slices.BinarySearch(visible, v); ok {
			allowed[v] = struct{}{}
		}
	}
	return allowed
}

func admits[T comparable](allowed map[T]struct{}, v T) bool {
	if allowed == nil {
		return true
	}
	_, ok := allowed[v]
	return ok
}

// distinct collects the sorted non-zero values of a dimension.
func distinct[T cmp.Ordered](records []domain.ProductionRecord, key func(domain.ProductionRecord) T) []T {
	var zero T
	seen := make(map[T]struct{})
	out := []T{}
	for _, r := range records {
		v := key(r)
		if v == zero {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
