// Package file stores uploaded files on the local filesystem behind a
// small Storage interface and provides the validation helpers used for
// image uploads: content-sniffed MIME checks, size limits and filename
// sanitization. All paths are confined to the storage base directory.
package file
