package httpserver

import "errors"

var (
	// ErrStart wraps failures to bring the listener up or keep it serving.
	ErrStart = errors.New("httpserver: start failed")
	// ErrShutdown wraps failures to drain the server within its deadline.
	ErrShutdown = errors.New("httpserver: shutdown failed")
)
