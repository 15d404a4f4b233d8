package avatar

import "errors"

var (
	ErrAvatarNotFound   = errors.New("avatar.not_found")
	ErrNotOwner         = errors.New("avatar.not_owner")
	ErrUnsupportedImage = errors.New("avatar.unsupported_image")
	ErrImageTooLarge    = errors.New("avatar.image_too_large")
	ErrMissingImage     = errors.New("avatar.missing_image")
)
