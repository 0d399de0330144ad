package v1

import (
	"github.com/indra-db/indra/internal/graph"
	"github.com/indra-db/indra/internal/model"
)

// Thought is a graph node: free-form text content plus a dense embedding.
type Thought struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Embedding []float32         `json:"embedding,omitempty"`
	CreatedAt int64             `json:"created_at"`
	UpdatedAt int64             `json:"updated_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Edge is a directed, typed, weighted relation between two thought ids.
type Edge struct {
	SourceID string            `json:"source_id"`
	TargetID string            `json:"target_id"`
	EdgeType string            `json:"edge_type"`
	Weight   float32           `json:"weight"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchResult is a ranked vector-search hit.
type SearchResult struct {
	Thought Thought `json:"thought"`
	Score   float32 `json:"score"`
}

// Commit is a point in the versioned history.
type Commit struct {
	Hash      string   `json:"hash"`
	Message   string   `json:"message"`
	Author    string   `json:"author"`
	Timestamp int64    `json:"timestamp"`
	Parents   []string `json:"parents,omitempty"`
}

func toThought(t model.Thought) Thought {
	return Thought{
		ID: t.ID, Content: t.Content, Embedding: t.Embedding,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt, Metadata: t.Metadata,
	}
}

func toCommit(r graph.CommitRecord) Commit {
	parents := make([]string, len(r.Commit.Parents))
	for i, p := range r.Commit.Parents {
		parents[i] = p.String()
	}
	return Commit{
		Hash: r.Hash.String(), Message: r.Commit.Message, Author: r.Commit.Author,
		Timestamp: r.Commit.Timestamp, Parents: parents,
	}
}
