// Package loader fetches the tabular sources of the production dashboard and
// the unit cost composition tool and turns them into typed records.
//
// A source location is an http(s) URL, a file:// URL or a plain path. Sources
// ending in ".xlsx" are read with excelize (first sheet, or the sheet named
// after '#'); everything else is read as CSV.
//
// Parsing is strict about shape and lenient about values: a missing required
// column fails with errors.MissingColumnError, while unparsable cells become
// missing values and rows lacking required fields are dropped.
package loader
