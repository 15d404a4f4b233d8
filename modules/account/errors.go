package account

import "errors"

var (
	// ErrAccountNotFound indicates no account matches the lookup
	ErrAccountNotFound = errors.New("account.not_found")

	// ErrUsernameTaken indicates the username is already registered
	ErrUsernameTaken = errors.New("account.username_taken")

	// ErrInvalidCredentials covers every sign-in failure so responses
	// cannot be used to enumerate usernames
	ErrInvalidCredentials = errors.New("account.invalid_credentials")

	// ErrWeakPassword indicates the password fails the length policy
	ErrWeakPassword = errors.New("account.weak_password")

	// ErrInvalidUsername indicates a malformed username
	ErrInvalidUsername = errors.New("account.invalid_username")
)
