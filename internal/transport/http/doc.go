// Package http implements the JSON API consumed by the dashboard UI.
//
// Handlers are thin: they parse and validate the request, call a service
// and render the result with go-chi/render. Every error goes through
// errors.ErrorHandler and is answered as an RFC 7807 problem.
//
// # Routes
//
//	GET  /api/health                       liveness and snapshot status
//	GET  /api/version                      build information
//	GET  /api/dashboard/options            filter options for a filter set
//	POST /api/dashboard/view               computed dashboard
//	POST /api/dashboard/reload             reload every source
//	GET  /api/dashboard/diagnostic         orders table diagnostic
//	GET  /api/dashboard/export.{csv,xlsx}  exported tables
//	GET  /api/schema/projection-input      JSON schema of a projection month
//	GET  /api/composition/products         products with a composition
//	POST /api/composition/quote            unit cost composition
//	GET  /metrics                          Prometheus scrape
//
// Filter query parameters are comma separated lists; a present parameter
// activates its filter, an absent one leaves it inactive.
package http
