// Package strgen provides small string-generation helpers used across the
// application: random alphanumeric strings, truncated SHA-1 hex digests and
// UUID-derived unique identifiers.
package strgen
