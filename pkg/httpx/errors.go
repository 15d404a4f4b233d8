package httpx

// HTTPError is a transport-level failure surfaced directly as an HTTP
// status plus optional headers. Handler execution stops when one is
// returned; the adapter renders it as an error response.
type HTTPError struct {
	Status int
	Header map[string]string
}

// NewHTTPError creates an HTTP error with the given status code.
func NewHTTPError(status int) *HTTPError {
	return &HTTPError{Status: status}
}

// WithHeader attaches a header to the error response and returns the
// error for chaining.
func (e *HTTPError) WithHeader(name, value string) *HTTPError {
	if e.Header == nil {
		e.Header = make(map[string]string)
	}
	e.Header[name] = value
	return e
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return StatusLine(e.Status)
}
