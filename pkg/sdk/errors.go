package cinecase

import "github.com/cinecase/cinecase/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidQuery     = domain.ErrInvalidQuery
	ErrInvalidWeights   = domain.ErrInvalidWeights
	ErrInvalidSchema    = domain.ErrInvalidSchema
	ErrSnapshotNotFound = domain.ErrSnapshotNotFound
)
