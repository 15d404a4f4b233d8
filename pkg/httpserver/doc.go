// Package httpserver wraps net/http with graceful shutdown: Run blocks
// until the context is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests within a configurable deadline. Servers are built
// through functional options or an env-tagged Config; start and stop
// hooks give the caller a place for lifecycle logging.
package httpserver
