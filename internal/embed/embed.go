// Package embed defines Indra's embedder contract — the external capability
// the core consumes but never implements a specific backend for — plus a
// handful of concrete adapters (mock, and HTTP-based remote providers) that
// the CLI wires up at open time.
package embed

import "context"

// Embedder turns text into a fixed-length float vector. The core treats
// every implementation uniformly: it never inspects how Embed is
// implemented, only that returned vectors have the declared Dimension.
type Embedder interface {
	Dimension() int
	ModelName() string
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// BatchByLooping is a default EmbedBatch for providers with no native batch
// endpoint: it calls Embed once per text.
func BatchByLooping(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
