package cookie

import (
	"slices"
	"strings"
	"time"
)

// reservedAttrs are cookie attribute names that only carry meaning in a
// response Set-Cookie header. A client Cookie header never legitimately
// contains them as data keys, so Parse drops them.
var reservedAttrs = map[string]struct{}{
	"path":    {},
	"domain":  {},
	"expires": {},
}

// Cookie is a single client-state record: a data mapping plus the response
// attributes (path, domain, expiry, flags). Cookies are never persisted
// server-side; they belong to the response that carries them.
type Cookie struct {
	Data     map[string]string
	Path     string
	Domain   string
	Expires  time.Time
	Secure   bool
	HttpOnly bool
}

// New creates a cookie with the given data mapping and response attributes.
func New(data map[string]string, path string, expires time.Time, domain string) *Cookie {
	return &Cookie{
		Data:    data,
		Path:    path,
		Domain:  domain,
		Expires: expires,
	}
}

// Parse parses the value of a request Cookie header into a cookie holding
// only the data mapping. Reserved attribute keys (path, domain, expires,
// compared case-insensitively) are discarded. An empty header yields nil.
func Parse(header string) *Cookie {
	if header == "" {
		return nil
	}

	data := make(map[string]string)
	for part := range strings.SplitSeq(header, ";") {
		part = strings.TrimSpace(part)
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		if _, reserved := reservedAttrs[strings.ToLower(key)]; reserved {
			continue
		}
		data[key] = value
	}

	return &Cookie{Data: data}
}

// Get returns the data value stored under key, and whether it is present.
func (c *Cookie) Get(key string) (string, bool) {
	if c == nil || c.Data == nil {
		return "", false
	}
	v, ok := c.Data[key]
	return v, ok
}

// Header serializes the cookie into a Set-Cookie header value: data pairs
// first, then Path, Expires (formatted as an RFC-1123 GMT timestamp),
// Domain, and the Secure/HttpOnly flags, joined by "; ". The expiry is
// held as a local time and converted to UTC before formatting.
func (c *Cookie) Header() string {
	if c == nil || c.Data == nil {
		return ""
	}

	parts := make([]string, 0, len(c.Data)+5)
	for _, key := range sortedKeys(c.Data) {
		parts = append(parts, key+"="+c.Data[key])
	}

	if c.Path != "" {
		parts = append(parts, "Path="+c.Path)
	}
	if !c.Expires.IsZero() {
		parts = append(parts, "Expires="+c.Expires.UTC().Format("Mon, 02 Jan 2006 15:04:05")+" GMT")
	}
	if c.Domain != "" {
		parts = append(parts, "Domain="+c.Domain)
	}
	if c.Secure {
		parts = append(parts, "Secure")
	}
	if c.HttpOnly {
		parts = append(parts, "HttpOnly")
	}

	return strings.Join(parts, "; ")
}

// String implements fmt.Stringer.
func (c *Cookie) String() string {
	return c.Header()
}

// sortedKeys keeps header output deterministic; Go map iteration order
// would otherwise make serialized cookies unstable between renders.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
