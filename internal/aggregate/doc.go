// Package aggregate computes the dashboard reductions over a filtered set of
// production records. Every function is pure and parameterized by the value
// metric (raw or weighted quantity); an empty input yields zero values and
// empty, non-nil series.
package aggregate
