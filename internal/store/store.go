// Package store abstracts raw document byte storage over pluggable
// backends. The store knows nothing about documents, parsers, or chunks —
// only bytes at paths.
package store

import (
	"context"
	"time"

	"chonkit/internal/apperr"
)

// Entry describes one entry returned by List.
type Entry struct {
	Path  string
	Name  string
	IsDir bool
}

// Store is the capability surface every backend implements.
type Store interface {
	// Write stores data at path and returns the canonical path. If
	// overwrite is false and an object already exists at path, it fails
	// with apperr.AlreadyExists.
	Write(ctx context.Context, path string, data []byte, overwrite bool) (string, error)

	// Read returns the bytes stored at path, or apperr.NotFound.
	Read(ctx context.Context, path string) ([]byte, error)

	// Delete removes the object at path. Idempotent: deleting a path that
	// doesn't exist is not an error.
	Delete(ctx context.Context, path string) error

	// List returns entries whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]Entry, error)
}

// Attrs is kept for backends that want to report extra metadata; unused by
// the core pipeline but useful for future collaborators (sidebar listing).
type Attrs struct {
	Size         int64
	LastModified time.Time
}

func notFound(path string) error {
	return apperr.New(apperr.NotFound, "object not found: "+path)
}

func alreadyExists(path string) error {
	return apperr.New(apperr.AlreadyExists, "object already exists: "+path)
}
