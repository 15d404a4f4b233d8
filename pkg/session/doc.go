// Package session provides server-side session storage with explicit
// persistence semantics: attribute writes on a Session mutate only the
// in-memory copy, and Manager.SaveData persists them. Session keys are
// opaque 40-character identifiers delivered via cookie; the Manager
// retries key generation a bounded number of times on store collision.
//
// Two Store implementations ship with the package: MemoryStore for
// tests and PGStore for production.
package session
