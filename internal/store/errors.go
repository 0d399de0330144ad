// Package store implements Indra's content-addressed object store and the
// single-file on-disk format it lives in.
package store

import "errors"

// Sentinel error kinds. Callers should match with errors.Is; call sites wrap
// these with fmt.Errorf("...: %w", ErrX) to add context.
var (
	ErrNotFound            = errors.New("indra: not found")
	ErrAlreadyExists       = errors.New("indra: already exists")
	ErrCorrupt             = errors.New("indra: corrupt object or file")
	ErrUnsupportedFormat   = errors.New("indra: unsupported file format")
	ErrDimensionMismatch   = errors.New("indra: embedding dimension mismatch")
	ErrNoEmbedder          = errors.New("indra: no embedder attached")
	ErrDetachedHead        = errors.New("indra: HEAD is detached")
	ErrInvalidArgument     = errors.New("indra: invalid argument")
	ErrEmbedderFailed      = errors.New("indra: embedder failed")
	ErrEdgeEndpointMissing = errors.New("indra: edge endpoint missing")
)
