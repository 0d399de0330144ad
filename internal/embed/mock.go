package embed

import (
	"context"
	"hash/fnv"
	"math"
)

// Mock is a deterministic, dependency-free embedder used by tests and the
// CLI's --embedder mock mode. Two calls with the same text and dimension
// always produce the same vector, which is what SPEC_FULL.md's determinism
// properties (testable property 5) require of any embedder used in a test.
type Mock struct {
	dim   int
	model string
}

var _ Embedder = (*Mock)(nil)

func NewMock(dim int) *Mock {
	if dim <= 0 {
		dim = 8
	}
	return &Mock{dim: dim, model: "mock"}
}

func (m *Mock) Dimension() int    { return m.dim }
func (m *Mock) ModelName() string { return m.model }

// Embed hashes text into a seed and fills a unit vector deterministically
// from it — not remotely semantic, but stable and cheap, which is all a
// test stub needs to be.
func (m *Mock) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	out := make([]float32, m.dim)
	var norm float64
	state := seed
	for i := range out {
		state = state*6364136223846793005 + 1442695040888963407
		v := float64(int64(state>>11)) / float64(1<<52)
		out[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range out {
			out[i] = float32(float64(out[i]) / norm)
		}
	}
	return out, nil
}

func (m *Mock) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return BatchByLooping(ctx, m, texts)
}
