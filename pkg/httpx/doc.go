// Package httpx provides the request/response model the handlers are
// written against: an immutable request snapshot, a mutable response that
// accumulates status, multi-valued headers and body until emission, the
// fixed HTTP status vocabulary, a method allow-list filter, and an adapter
// that mounts handlers on net/http.
package httpx
