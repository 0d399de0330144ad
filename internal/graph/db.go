// Package graph implements Indra's commit graph, working set, graph
// operations, vector search, and diff — the versioning layer built on top
// of internal/store and internal/trie (SPEC_FULL.md components C6-C10).
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/indra-db/indra/internal/embed"
	"github.com/indra-db/indra/internal/model"
	"github.com/indra-db/indra/internal/store"
	"github.com/indra-db/indra/internal/trie"
)

// Database is the versioned graph database: a single file on disk plus the
// in-memory working set staged since HEAD.
type Database struct {
	file       *store.File
	ws         *WorkingSet
	embedder   embed.Embedder
	autoCommit bool
	author     string
}

// Open opens an existing database file. embedder may be nil; Search then
// fails with ErrNoEmbedder, and created or updated thoughts are stored with
// an empty embedding.
func Open(path string, embedder embed.Embedder) (*Database, error) {
	f, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return newDatabase(f, embedder), nil
}

// Create initializes a brand-new database file.
func Create(path string, embedder embed.Embedder) (*Database, error) {
	f, err := store.Create(path)
	if err != nil {
		return nil, err
	}
	return newDatabase(f, embedder), nil
}

func newDatabase(f *store.File, embedder embed.Embedder) *Database {
	return &Database{
		file:       f,
		ws:         NewWorkingSet(),
		embedder:   embedder,
		autoCommit: true,
		author:     "indra",
	}
}

func (db *Database) SetAutoCommit(enabled bool) { db.autoCommit = enabled }
func (db *Database) SetAuthor(author string)    { db.author = author }

// Close releases the database's file handle and lock. Call Flush via
// Commit first if there is anything to persist.
func (db *Database) Close() error { return db.file.Close() }

func (db *Database) headSnapshot() (model.Snapshot, error) {
	h := db.file.HeadCommit()
	if h.IsZero() {
		return model.Snapshot{}, nil
	}
	_, payload, err := db.file.Store().Get(h)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read HEAD commit: %w", err)
	}
	commit, err := model.DecodeCommit(payload)
	if err != nil {
		return model.Snapshot{}, err
	}
	if commit.Snapshot.IsZero() {
		return model.Snapshot{}, nil
	}
	_, snapPayload, err := db.file.Store().Get(commit.Snapshot)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return model.DecodeSnapshot(snapPayload)
}

func (db *Database) headThoughtHash(id string) (store.Hash, bool, error) {
	snap, err := db.headSnapshot()
	if err != nil {
		return store.Hash{}, false, err
	}
	return trie.Get(db.file.Store(), snap.TrieRoot, id)
}

func (db *Database) thoughtByHash(h store.Hash) (model.Thought, error) {
	_, payload, err := db.file.Store().Get(h)
	if err != nil {
		return model.Thought{}, err
	}
	return model.DecodeThought(payload)
}

func (db *Database) edgeByHash(h store.Hash) (model.Edge, error) {
	_, payload, err := db.file.Store().Get(h)
	if err != nil {
		return model.Edge{}, err
	}
	return model.DecodeEdge(payload)
}

// buildEdgeIndex decodes a snapshot's edge-hash set into a key->hash index,
// the structure Commit needs to apply pending edge updates/deletes against
// the dedup key (Open Question (b), pinned to (source, target, type)).
func (db *Database) buildEdgeIndex(hashes []store.Hash) (map[model.EdgeKey]store.Hash, error) {
	idx := make(map[model.EdgeKey]store.Hash, len(hashes))
	for _, h := range hashes {
		e, err := db.edgeByHash(h)
		if err != nil {
			return nil, err
		}
		idx[e.Key()] = h
	}
	return idx, nil
}

// GetThought returns a thought, consulting the working set before HEAD.
func (db *Database) GetThought(id string) (model.Thought, error) {
	if db.ws.DeletedThoughts[id] {
		return model.Thought{}, fmt.Errorf("thought %q: %w", id, store.ErrNotFound)
	}
	if t, ok := db.ws.PendingThoughts[id]; ok {
		return t, nil
	}
	h, ok, err := db.headThoughtHash(id)
	if err != nil {
		return model.Thought{}, err
	}
	if !ok {
		return model.Thought{}, fmt.Errorf("thought %q: %w", id, store.ErrNotFound)
	}
	return db.thoughtByHash(h)
}

// ListThoughts returns every thought visible in the merged working-set +
// HEAD view, sorted by id.
func (db *Database) ListThoughts() ([]model.Thought, error) {
	thoughts, _, err := db.view()
	if err != nil {
		return nil, err
	}
	out := make([]model.Thought, 0, len(thoughts))
	for _, t := range thoughts {
		out = append(out, t)
	}
	sortThoughtsByID(out)
	return out, nil
}

// CreateThought stages a new thought. It fails with ErrAlreadyExists if id
// is already visible, and ErrInvalidArgument if id is empty.
func (db *Database) CreateThought(ctx context.Context, id, content string, metadata map[string]string) (model.Thought, error) {
	if id == "" {
		return model.Thought{}, fmt.Errorf("create thought: empty id: %w", store.ErrInvalidArgument)
	}
	if _, err := db.GetThought(id); err == nil {
		return model.Thought{}, fmt.Errorf("thought %q: %w", id, store.ErrAlreadyExists)
	}

	vec, err := db.embedContent(ctx, content)
	if err != nil {
		return model.Thought{}, err
	}

	now := time.Now().Unix()
	t := model.Thought{
		ID: id, Content: content, Embedding: vec,
		CreatedAt: now, UpdatedAt: now, Metadata: metadata,
	}
	db.ws.PutThought(t)

	if db.autoCommit {
		if _, err := db.Commit(fmt.Sprintf("create: %s", id)); err != nil {
			return model.Thought{}, err
		}
	}
	return t, nil
}

// UpdateThought stages a content update. If content is unchanged, this is a
// no-op: no new object is created (Open Question (a), pinned this way).
func (db *Database) UpdateThought(ctx context.Context, id, content string) (model.Thought, error) {
	existing, err := db.GetThought(id)
	if err != nil {
		return model.Thought{}, err
	}
	if existing.Content == content {
		return existing, nil
	}

	vec, err := db.embedContent(ctx, content)
	if err != nil {
		return model.Thought{}, err
	}

	updated := existing
	updated.Content = content
	updated.Embedding = vec
	updated.UpdatedAt = time.Now().Unix()
	db.ws.PutThought(updated)

	if db.autoCommit {
		if _, err := db.Commit(fmt.Sprintf("update: %s", id)); err != nil {
			return model.Thought{}, err
		}
	}
	return updated, nil
}

// DeleteThought stages a thought deletion.
func (db *Database) DeleteThought(id string) error {
	if _, err := db.GetThought(id); err != nil {
		return err
	}
	db.ws.DeleteThought(id)

	if db.autoCommit {
		if _, err := db.Commit(fmt.Sprintf("delete: %s", id)); err != nil {
			return err
		}
	}
	return nil
}

// embedContent embeds text if an embedder is attached, validating the
// returned vector's length. With no embedder attached, an empty embedding
// is allowed per SPEC_FULL.md's invariant on empty embeddings.
func (db *Database) embedContent(ctx context.Context, content string) ([]float32, error) {
	if db.embedder == nil {
		return nil, nil
	}
	vec, err := db.embedder.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w: %v", store.ErrEmbedderFailed, err)
	}
	if len(vec) != db.embedder.Dimension() {
		return nil, fmt.Errorf("embed content: got %d dims, want %d: %w", len(vec), db.embedder.Dimension(), store.ErrDimensionMismatch)
	}
	return vec, nil
}

// Commit materializes the working set into new objects, updates the current
// branch's ref, flushes the file, and clears the working set.
// SPEC_FULL.md §4.6.
func (db *Database) Commit(message string) (store.Hash, error) {
	branch, attached := db.file.HeadBranch()
	if !attached {
		return store.Hash{}, fmt.Errorf("commit: %w", store.ErrDetachedHead)
	}

	headHash := db.file.HeadCommit()
	baseSnap, err := db.headSnapshot()
	if err != nil {
		return store.Hash{}, err
	}

	root := baseSnap.TrieRoot
	s := db.file.Store()

	for id, t := range db.ws.PendingThoughts {
		h, err := s.Put(store.KindThought, t.Encode())
		if err != nil {
			return store.Hash{}, err
		}
		root, err = trie.Insert(s, root, id, h)
		if err != nil {
			return store.Hash{}, err
		}
	}
	for id := range db.ws.DeletedThoughts {
		root, err = trie.Remove(s, root, id)
		if err != nil {
			return store.Hash{}, err
		}
	}

	edgeIdx, err := db.buildEdgeIndex(baseSnap.EdgeHashes)
	if err != nil {
		return store.Hash{}, err
	}
	for key, e := range db.ws.PendingEdges {
		h, err := s.Put(store.KindEdge, e.Encode())
		if err != nil {
			return store.Hash{}, err
		}
		edgeIdx[key] = h
	}
	for key := range db.ws.DeletedEdges {
		delete(edgeIdx, key)
	}
	edgeHashes := make([]store.Hash, 0, len(edgeIdx))
	for _, h := range edgeIdx {
		edgeHashes = append(edgeHashes, h)
	}

	newSnap := model.Snapshot{TrieRoot: root, EdgeHashes: edgeHashes}
	snapHash, err := s.Put(store.KindSnapshot, newSnap.Encode())
	if err != nil {
		return store.Hash{}, err
	}

	var parents []store.Hash
	if !headHash.IsZero() {
		parents = []store.Hash{headHash}
	}
	commit := model.Commit{
		Snapshot: snapHash, Parents: parents,
		Message: message, Author: db.author, Timestamp: time.Now().Unix(),
	}
	commitHash, err := s.Put(store.KindCommit, commit.Encode())
	if err != nil {
		return store.Hash{}, err
	}

	db.file.SetRef(branch, commitHash)
	db.ws.Reset()

	if err := db.file.Flush(); err != nil {
		return store.Hash{}, err
	}
	return commitHash, nil
}

// CommitRecord pairs a decoded Commit with its own hash for Log output.
type CommitRecord struct {
	Hash   store.Hash
	Commit model.Commit
}

// Log walks parents breadth-first from HEAD (or from an explicit starting
// commit), emitting commits in reverse chronological order, up to limit
// entries (0 means unlimited). SPEC_FULL.md §4.6.
func (db *Database) Log(from store.Hash, limit int) ([]CommitRecord, error) {
	if from.IsZero() {
		from = db.file.HeadCommit()
	}
	if from.IsZero() {
		return nil, nil
	}

	var out []CommitRecord
	visited := map[store.Hash]bool{}
	queue := []store.Hash{from}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if visited[h] || h.IsZero() {
			continue
		}
		visited[h] = true

		_, payload, err := db.file.Store().Get(h)
		if err != nil {
			return nil, err
		}
		c, err := model.DecodeCommit(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, CommitRecord{Hash: h, Commit: c})
		if limit > 0 && len(out) >= limit {
			break
		}
		queue = append(queue, c.Parents...)
	}
	return out, nil
}

// Branches returns every branch name mapped to its current commit hash.
func (db *Database) Branches() map[string]store.Hash { return db.file.Refs() }

// CurrentBranch returns the attached branch name, or ("", false) if HEAD is
// detached.
func (db *Database) CurrentBranch() (string, bool) { return db.file.HeadBranch() }

// HeadCommit returns the commit hash HEAD currently resolves to.
func (db *Database) HeadCommit() store.Hash { return db.file.HeadCommit() }

// CreateBranch points a new branch at the current HEAD commit.
func (db *Database) CreateBranch(name string) error {
	if name == "" {
		return fmt.Errorf("create branch: empty name: %w", store.ErrInvalidArgument)
	}
	if _, ok := db.file.Ref(name); ok {
		return fmt.Errorf("branch %q: %w", name, store.ErrAlreadyExists)
	}
	db.file.SetRef(name, db.file.HeadCommit())
	return db.file.Flush()
}

// DeleteBranch removes a branch ref.
func (db *Database) DeleteBranch(name string) error {
	if _, ok := db.file.Ref(name); !ok {
		return fmt.Errorf("branch %q: %w", name, store.ErrNotFound)
	}
	db.file.DeleteRef(name)
	return db.file.Flush()
}

// Checkout switches HEAD to a branch name or, failing that, a commit hash
// (detached). It refuses with ErrInvalidArgument if the working set is
// dirty (Open Question (c), pinned to "refuse").
func (db *Database) Checkout(ref string) error {
	if !db.ws.IsEmpty() {
		return fmt.Errorf("checkout: uncommitted changes present: %w", store.ErrInvalidArgument)
	}
	if _, ok := db.file.Ref(ref); ok {
		db.file.SetHeadBranch(ref)
		return db.file.Flush()
	}
	h, err := store.ParseHash(ref)
	if err == nil && db.file.Store().Has(h) {
		db.file.SetHeadDetached(h)
		return db.file.Flush()
	}
	return fmt.Errorf("checkout %q: %w", ref, store.ErrNotFound)
}

// Status reports the current branch, HEAD, and pending working-set counts.
func (db *Database) Status() (Status, error) {
	st := Status{
		ThoughtsDeleted: len(db.ws.DeletedThoughts),
		EdgesCreated:    len(db.ws.PendingEdges),
		EdgesDeleted:    len(db.ws.DeletedEdges),
	}
	if branch, ok := db.file.HeadBranch(); ok {
		st.Branch = branch
	} else {
		st.Branch = "(detached)"
	}
	st.HeadCommit = db.file.HeadCommit().String()

	for id := range db.ws.PendingThoughts {
		_, existed, err := db.headThoughtHash(id)
		if err != nil {
			return Status{}, err
		}
		if existed {
			st.ThoughtsUpdated++
		} else {
			st.ThoughtsCreated++
		}
	}
	return st, nil
}

func sortThoughtsByID(ts []model.Thought) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j-1].ID > ts[j].ID; j-- {
			ts[j-1], ts[j] = ts[j], ts[j-1]
		}
	}
}
