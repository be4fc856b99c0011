// Package app wires the production dashboard together: configuration,
// logging, OpenTelemetry, the source repository, the services and the HTTP
// router.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, an optional YAML file and PRODBOARD_* variables
//	2. Initialize logging and observability
//	3. Build the source loader and the repository
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers and middleware
//	6. Load the sources and start the HTTP server
//
// A failed initial load does not stop the server: the API answers 503 and
// /api/health reports "degraded" until POST /api/dashboard/reload succeeds.
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// WriteReport runs one default computation and writes its tables to disk,
// the batch counterpart of the HTTP API used by cmd/prodboard-report.
package app
