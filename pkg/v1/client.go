// Package v1 is a thin, stable-surface Go library wrapper over Indra's
// core graph database, for embedders that want the module without the CLI.
package v1

import (
	"context"
	"fmt"

	"github.com/indra-db/indra/internal/embed"
	"github.com/indra-db/indra/internal/graph"
	"github.com/indra-db/indra/internal/store"
)

// Client provides programmatic access to an Indra database file.
type Client struct {
	db *graph.Database
}

// Open opens an existing database at path. Create makes a new one.
func Open(path string, opts ...Option) (*Client, error) {
	cfg := newConfig(opts)
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	db, err := graph.Open(path, embedder)
	if err != nil {
		return nil, err
	}
	return newClient(db, cfg)
}

// Create initializes a new database file at path.
func Create(path string, opts ...Option) (*Client, error) {
	cfg := newConfig(opts)
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	db, err := graph.Create(path, embedder)
	if err != nil {
		return nil, err
	}
	return newClient(db, cfg)
}

func newConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{
		embedderProvider: "mock",
		dimension:        8,
		autoCommit:       true,
		author:           "indra",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func buildEmbedder(cfg *clientConfig) (embed.Embedder, error) {
	return embed.NewFromOptions(embed.Options{
		Provider:  cfg.embedderProvider,
		Model:     cfg.embedderModel,
		Dimension: cfg.dimension,
	})
}

func newClient(db *graph.Database, cfg *clientConfig) (*Client, error) {
	db.SetAutoCommit(cfg.autoCommit)
	db.SetAuthor(cfg.author)
	return &Client{db: db}, nil
}

// CreateThought stages (and, with auto-commit, persists) a new thought.
func (c *Client) CreateThought(ctx context.Context, id, content string, metadata map[string]string) (Thought, error) {
	t, err := c.db.CreateThought(ctx, id, content, metadata)
	if err != nil {
		return Thought{}, fmt.Errorf("create thought: %w", err)
	}
	return toThought(t), nil
}

// GetThought retrieves a thought by id.
func (c *Client) GetThought(id string) (Thought, error) {
	t, err := c.db.GetThought(id)
	if err != nil {
		return Thought{}, err
	}
	return toThought(t), nil
}

// UpdateThought replaces a thought's content; a no-op if content is unchanged.
func (c *Client) UpdateThought(ctx context.Context, id, content string) (Thought, error) {
	t, err := c.db.UpdateThought(ctx, id, content)
	if err != nil {
		return Thought{}, fmt.Errorf("update thought: %w", err)
	}
	return toThought(t), nil
}

// DeleteThought removes a thought.
func (c *Client) DeleteThought(id string) error {
	return c.db.DeleteThought(id)
}

// ListThoughts returns every visible thought.
func (c *Client) ListThoughts() ([]Thought, error) {
	ts, err := c.db.ListThoughts()
	if err != nil {
		return nil, err
	}
	out := make([]Thought, len(ts))
	for i, t := range ts {
		out[i] = toThought(t)
	}
	return out, nil
}

// Relate stages (and, with auto-commit, persists) an edge.
func (c *Client) Relate(source, target, edgeType string, weight float32, metadata map[string]string) error {
	return c.db.Relate(source, target, edgeType, weight, metadata)
}

// Unrelate removes an edge.
func (c *Client) Unrelate(source, target, edgeType string) error {
	return c.db.Unrelate(source, target, edgeType)
}

// Search ranks thoughts by cosine similarity of their embedding to query's.
func (c *Client) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	results, err := c.db.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{Thought: toThought(r.Thought), Score: r.Score}
	}
	return out, nil
}

// Commit persists staged changes under message.
func (c *Client) Commit(message string) (Commit, error) {
	hash, err := c.db.Commit(message)
	if err != nil {
		return Commit{}, fmt.Errorf("commit: %w", err)
	}
	records, err := c.db.Log(hash, 1)
	if err != nil || len(records) == 0 {
		return Commit{Hash: hash.String(), Message: message}, nil
	}
	return toCommit(records[0]), nil
}

// Log returns the commit history from HEAD, newest first.
func (c *Client) Log(limit int) ([]Commit, error) {
	records, err := c.db.Log(store.Hash{}, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Commit, len(records))
	for i, r := range records {
		out[i] = toCommit(r)
	}
	return out, nil
}

// Close releases the underlying database file.
func (c *Client) Close() error {
	return c.db.Close()
}
