// Package pg wraps the pgx/v5 driver with the small amount of plumbing
// the application needs: environment-driven pool configuration,
// connection with retry, goose schema migrations and error
// classification helpers for unique and foreign key violations.
package pg
