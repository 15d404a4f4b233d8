// Package cookie implements the cookie wire codec: parsing inbound Cookie
// request headers into a data mapping and serializing outbound Set-Cookie
// headers with path, domain, expiry and flag attributes.
//
// A cookie whose Expires lies in the past instructs the client to delete
// it; that is the only mechanism used to sign a client out.
package cookie
