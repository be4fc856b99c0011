// Package services implements the business logic layer between the HTTP
// handlers and the loaded data.
//
// Services own no data. They read the current repository snapshot through a
// SnapshotSource, hand it to the pure compute packages (view, twin,
// composition) and turn their results into responses or exports.
//
// # Available Services
//
//	- DashboardService: views, filter options, diagnostic, reload, exports
//	- CompositionService: unit cost quotes for composed products
//	- HealthService: liveness and snapshot status
//
// # Error Handling
//
// Services return errors from the internal/errors taxonomy so handlers can
// render them as RFC 7807 problems:
//
//	- LOAD_FATAL when no snapshot has been loaded
//	- VALIDATION for bad requests
//	- NOT_FOUND for unknown products or export tables
package services
