// Package email provides a provider-agnostic interface for sending
// transactional mail, with a Postmark client for production and a
// disk-backed dev sender for local development.
package email
