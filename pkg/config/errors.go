package config

import "errors"

var (
	// ErrNilPointer indicates a nil target struct was passed to Load
	ErrNilPointer = errors.New("config: nil pointer provided")

	// ErrParsingConfig indicates environment parsing failed
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrLoadingEnvFile indicates an explicitly named .env file could not be read
	ErrLoadingEnvFile = errors.New("config: failed to load env file")
)
