package email

import "errors"

var (
	// ErrEmailNotFound indicates no email record matches the lookup
	ErrEmailNotFound = errors.New("email.not_found")

	// ErrEmailTaken indicates the address is already registered
	ErrEmailTaken = errors.New("email.taken")

	// ErrInvalidAddress indicates a malformed address
	ErrInvalidAddress = errors.New("email.invalid_address")

	// ErrVerifyCodeExpired indicates the verification window has passed
	ErrVerifyCodeExpired = errors.New("email.verify_code_expired")

	// ErrAlreadyVerified indicates a second verification attempt
	ErrAlreadyVerified = errors.New("email.already_verified")

	// ErrNotOwner indicates the email belongs to a different account
	ErrNotOwner = errors.New("email.not_owner")
)
