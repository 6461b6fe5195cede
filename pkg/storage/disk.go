// Package storage abstracts where uploaded files live.
//
// Two drivers are available:
//   - "local" — local filesystem (default, good for development)
//   - "s3"    — S3-compatible object storage (AWS S3, MinIO, R2)
//
// Boot once in internal/server, then write through the default disk:
//
//	storage.Connect()
//	storage.Put("plants/"+key, data)
//	url := storage.URL("plants/" + key)
package storage

import "io"

// Disk is the driver interface. Each driver stores files under
// slash-separated keys and serves them from a public base URL.
type Disk interface {
	// Put writes content at path, creating parents as needed.
	Put(path string, content []byte) error

	// PutStream writes from r at path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Size returns the byte size of the file at path.
	Size(path string) (int64, error)

	// Delete removes a file. Removing a missing file is not an error.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
