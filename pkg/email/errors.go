package email

import "errors"

var (
	ErrFailedToSendEmail = errors.New("mailer.failed_to_send_email")
	ErrInvalidConfig     = errors.New("mailer.invalid_config")
	ErrInvalidParams     = errors.New("mailer.invalid_params")
)
