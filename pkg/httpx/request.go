package httpx

import (
	"context"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/ngavatar/ngavatar/pkg/clientip"
	"github.com/ngavatar/ngavatar/pkg/cookie"
)

// maxMultipartMemory bounds the in-memory part of parsed uploads; larger
// files spill to temporary storage.
const maxMultipartMemory = 8 << 20

// Request is an immutable snapshot of the inbound request metadata a
// handler may inspect: method, URI, client address, the headers of
// interest, the parsed cookie and the submitted form fields.
type Request struct {
	Method         string
	URI            string
	ClientAddr     string
	UserAgent      string
	Host           string
	ServerName     string
	ContentType    string
	ContentLength  int64
	Accept         string
	AcceptLanguage string
	AcceptEncoding string
	Cookie         *cookie.Cookie

	form url.Values
	raw  *http.Request
}

// FromHTTP builds a request snapshot from a net/http request, parsing the
// cookie header and the query/form fields.
func FromHTTP(r *http.Request) (*Request, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}

	return &Request{
		Method:         r.Method,
		URI:            r.URL.RequestURI(),
		ClientAddr:     clientip.GetIP(r),
		UserAgent:      r.UserAgent(),
		Host:           r.Host,
		ServerName:     hostOnly(r.Host),
		ContentType:    r.Header.Get("Content-Type"),
		ContentLength:  r.ContentLength,
		Accept:         r.Header.Get("Accept"),
		AcceptLanguage: r.Header.Get("Accept-Language"),
		AcceptEncoding: r.Header.Get("Accept-Encoding"),
		Cookie:         cookie.Parse(r.Header.Get("Cookie")),
		form:           r.Form,
		raw:            r,
	}, nil
}

// FormValue returns the submitted field value for name and whether the
// field was present at all, so handlers can distinguish "absent" from
// "empty".
func (r *Request) FormValue(name string) (string, bool) {
	if r.form == nil {
		return "", false
	}
	values, ok := r.form[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// FormFile returns the uploaded file for the given multipart field.
func (r *Request) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	if r.raw == nil {
		return nil, nil, http.ErrMissingFile
	}
	return r.raw.FormFile(name)
}

// Context returns the context of the underlying request, or a
// background context for snapshots built without one.
func (r *Request) Context() context.Context {
	if r.raw == nil {
		return context.Background()
	}
	return r.raw.Context()
}

// SessionKey returns the session key carried by the request cookie, empty
// when no cookie or no key is present. CookieSessionKey is the single
// data key used to propagate session identity.
func (r *Request) SessionKey() string {
	key, _ := r.Cookie.Get(CookieSessionKey)
	return key
}

// CookieSessionKey is the cookie data key that carries the session key.
const CookieSessionKey = "SessionKey"

func hostOnly(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
