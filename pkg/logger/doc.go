// Package logger builds configured slog.Logger instances with sensible
// environment-based defaults: human-readable text output for
// development, JSON for production.
package logger
