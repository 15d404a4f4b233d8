// Package email manages the addresses bound to an account: registration
// with mailed verification codes, public lookup by address hash and the
// avatar binding used when serving images.
package email
