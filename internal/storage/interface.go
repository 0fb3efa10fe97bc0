// Package storage stores flyer images on a pluggable backend.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no object exists at the given key.
var ErrNotFound = errors.New("object not found")

// Storage defines the interface for flyer image storage operations.
// Implementations can be local filesystem or S3-compatible.
type Storage interface {
	// Put stores content at the given key.
	Put(ctx context.Context, key string, content []byte, contentType string) error

	// Get retrieves content from the given key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists checks if an object exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object at the given key.
	Delete(ctx context.Context, key string) error

	// URL returns the externally reachable URL for a stored object.
	URL(key string) string
}

// Type selects the storage backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)
