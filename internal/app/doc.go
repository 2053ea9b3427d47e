// Package app provides application initialization and lifecycle management
// for the EV registration dashboard. It handles the orchestration of all
// major components including configuration loading, service initialization,
// and graceful shutdown procedures.
//
// # Architecture
//
// The app package follows a dependency injection pattern where all
// components are wired together at startup. This ensures loose coupling and
// testability.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging and metrics
//	3. Create the data service and load the configured dataset
//	4. Set up HTTP handlers and middleware
//	5. Configure and start the HTTP server
//	6. Set up graceful shutdown handlers
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM signals to ensure active requests
// are completed before the process exits. All initialization errors are
// returned to the caller; the app does not call os.Exit() directly.
package app
