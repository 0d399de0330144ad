package graph

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/indra-db/indra/internal/model"
	"github.com/indra-db/indra/internal/store"
)

// SearchResult is one ranked hit from Search.
type SearchResult struct {
	Thought model.Thought
	Score   float32
}

// Search embeds query and ranks every thought with a same-dimension
// embedding by cosine similarity, brute force, breaking ties by id
// ascending for determinism. Thoughts whose non-empty embedding dimension
// does not match the query's are skipped with a warning rather than failing
// the whole search; thoughts with no embedding are skipped silently.
// SPEC_FULL.md §4.9.
func (db *Database) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if db.embedder == nil {
		return nil, fmt.Errorf("search: %w", store.ErrNoEmbedder)
	}
	if k <= 0 {
		return nil, nil
	}

	qvec, err := db.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w: %v", store.ErrEmbedderFailed, err)
	}

	thoughts, _, err := db.view()
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(thoughts))
	for _, t := range thoughts {
		if len(t.Embedding) != len(qvec) {
			if len(t.Embedding) > 0 {
				fmt.Fprintf(os.Stderr, "indra: skipping %q in search: embedding dimension %d != query dimension %d\n", t.ID, len(t.Embedding), len(qvec))
			}
			continue
		}
		results = append(results, SearchResult{Thought: t, Score: cosineSimilarity(qvec, t.Embedding)})
	}

	sortResults(results)
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// sortResults orders by score descending, breaking ties by thought id
// ascending so search output is fully deterministic.
func sortResults(r []SearchResult) {
	for i := 1; i < len(r); i++ {
		for j := i; j > 0 && less(r[j], r[j-1]); j-- {
			r[j-1], r[j] = r[j], r[j-1]
		}
	}
}

func less(a, b SearchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Thought.ID < b.Thought.ID
}
