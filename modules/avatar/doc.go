// Package avatar manages uploaded avatar images: validated uploads into
// file storage with a metadata row, binding to verified email addresses
// and the public image API that serves an avatar by email hash.
package avatar
