// Package storage defines the host-facing contract for image storage
// backends and provides the ImageKit and S3-compatible implementations.
// The server depends only on the Adapter interface — swap backends by
// changing the concrete type injected at startup.
package storage

import (
	"context"
	"fmt"
	"net/http"
)

// Image describes an uploaded file handed over by the host: its desired
// name and the local temp path holding the bytes. Adapters only read it.
type Image struct {
	Name string
	Path string
}

// ReadOptions selects a stored object for Read.
type ReadOptions struct {
	// Path is the object's path relative to the backend's public endpoint.
	Path string
}

// Adapter is the operation set every storage backend must implement.
type Adapter interface {
	// Exists reports whether fileName is present under targetDir.
	// It never fails: any error collapses to false.
	Exists(ctx context.Context, fileName, targetDir string) bool

	// Save uploads the image and returns its public URL.
	Save(ctx context.Context, image Image, targetDir string) (string, error)

	// Serve returns the handler for locally mirrored static images.
	Serve() http.Handler

	// Delete removes fileName under targetDir. Backends without
	// delete-by-path support return *Error with status 400.
	Delete(ctx context.Context, fileName, targetDir string) error

	// Read returns the raw bytes of the object selected by opts.
	Read(ctx context.Context, opts ReadOptions) ([]byte, error)
}

// Error is the single error kind adapters raise: a status code plus message.
// Remote failures carry the provider-reported status; local failures use
// conventional HTTP codes.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s (status %d)", e.Message, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an adapter error wrapping cause (which may be nil).
func NewError(statusCode int, message string, cause error) *Error {
	return &Error{StatusCode: statusCode, Message: message, Err: cause}
}
