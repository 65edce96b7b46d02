// Package domain holds sentinel errors shared across layers.
package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a malformed retrieval query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidWeights signals an out-of-range weight vector.
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrInvalidSchema signals a malformed attribute schema definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrSnapshotNotFound signals that no case base snapshot exists in storage.
	ErrSnapshotNotFound = errors.New("case base snapshot not found")
)
