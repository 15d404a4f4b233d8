package httpx

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/ngavatar/ngavatar/pkg/cookie"
)

// Response accumulates the outbound status, headers and body until it is
// emitted. Headers support multiple values per name (several Set-Cookie
// headers in one response). A response must not be mutated after emission.
type Response struct {
	Status int
	Body   []byte

	header map[string][]string
}

// NewResponse creates a 200 response with the given body and content type.
func NewResponse(body []byte, contentType string) *Response {
	r := &Response{Status: http.StatusOK, Body: body}
	r.SetHeader("Content-Type", contentType)
	return r
}

// HTML creates a 200 text/html response.
func HTML(body string) *Response {
	return NewResponse([]byte(body), "text/html; charset=utf-8")
}

// Redirect creates a 302 response pointing the client at location.
func Redirect(location string) *Response {
	r := &Response{Status: http.StatusFound}
	r.SetHeader("Location", location)
	return r
}

// ErrorPage creates an error response with the given status and HTML body.
func ErrorPage(status int, body string) *Response {
	r := &Response{Status: status, Body: []byte(body)}
	r.SetHeader("Content-Type", "text/html; charset=utf-8")
	return r
}

// SetHeader replaces all values of the named header.
func (r *Response) SetHeader(name, value string) {
	if r.header == nil {
		r.header = make(map[string][]string)
	}
	r.header[name] = []string{value}
}

// AddHeader appends a value to the named header.
func (r *Response) AddHeader(name, value string) {
	if r.header == nil {
		r.header = make(map[string][]string)
	}
	r.header[name] = append(r.header[name], value)
}

// RemoveHeader deletes all values of the named header.
func (r *Response) RemoveHeader(name string) {
	delete(r.header, name)
}

// HeaderValues returns the values recorded for the named header.
func (r *Response) HeaderValues(name string) []string {
	return r.header[name]
}

// SetCookie attaches a cookie to the response as an additional Set-Cookie
// header. Nil cookies are ignored.
func (r *Response) SetCookie(c *cookie.Cookie) {
	if c == nil {
		return
	}
	r.AddHeader("Set-Cookie", c.Header())
}

// WriteTo emits the response in the fixed wire order: status header first,
// remaining headers, a blank separator line, then the body bytes.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Status: %s\r\n", StatusLine(r.Status))

	names := make([]string, 0, len(r.header))
	for name := range r.header {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, value := range r.header[name] {
			fmt.Fprintf(&b, "%s: %s\r\n", name, value)
		}
	}
	b.WriteString("\r\n")

	n, err := io.WriteString(w, b.String())
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(r.Body)
	return int64(n + m), err
}

// Apply emits the response through a net/http ResponseWriter.
func (r *Response) Apply(w http.ResponseWriter) error {
	for name, values := range r.header {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}
	w.WriteHeader(r.Status)
	_, err := w.Write(r.Body)
	return err
}
