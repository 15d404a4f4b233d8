// Package account implements user accounts: registration, password
// sign-in, sign-out and the session guard that turns a request cookie
// into a resolved account or a redirect to the sign-in page.
package account
