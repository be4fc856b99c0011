// Package shared holds helpers used across prodboard packages that belong
// to no single layer.
//
// The testutil subpackage provides a capturing slog handler and builders
// for production records, capacity rows, sector tables and CSV fixtures.
package shared
