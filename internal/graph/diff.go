package graph

import (
	"fmt"

	"github.com/indra-db/indra/internal/model"
	"github.com/indra-db/indra/internal/store"
	"github.com/indra-db/indra/internal/trie"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ThoughtDiff is the line-level content diff of one thought that changed
// between two commits.
type ThoughtDiff struct {
	ID    string
	Lines []diffmatchpatch.Diff
}

// DiffResult is the result of comparing the graphs at two commits.
// SPEC_FULL.md §4.10.
type DiffResult struct {
	ThoughtsAdded    []string
	ThoughtsRemoved  []string
	ThoughtsModified []ThoughtDiff
	EdgesAdded       []model.EdgeKey
	EdgesRemoved     []model.EdgeKey
}

func (db *Database) snapshotAt(commit store.Hash) (model.Snapshot, error) {
	if commit.IsZero() {
		return model.Snapshot{}, nil
	}
	_, payload, err := db.file.Store().Get(commit)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read commit: %w", err)
	}
	c, err := model.DecodeCommit(payload)
	if err != nil {
		return model.Snapshot{}, err
	}
	if c.Snapshot.IsZero() {
		return model.Snapshot{}, nil
	}
	_, snapPayload, err := db.file.Store().Get(c.Snapshot)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return model.DecodeSnapshot(snapPayload)
}

func (db *Database) thoughtsAt(commit store.Hash) (map[string]model.Thought, error) {
	snap, err := db.snapshotAt(commit)
	if err != nil {
		return nil, err
	}
	entries, err := trie.ListAll(db.file.Store(), snap.TrieRoot)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Thought, len(entries))
	for _, e := range entries {
		t, err := db.thoughtByHash(e.Hash)
		if err != nil {
			return nil, err
		}
		out[e.ID] = t
	}
	return out, nil
}

func (db *Database) edgeKeysAt(commit store.Hash) (map[model.EdgeKey]bool, error) {
	snap, err := db.snapshotAt(commit)
	if err != nil {
		return nil, err
	}
	idx, err := db.buildEdgeIndex(snap.EdgeHashes)
	if err != nil {
		return nil, err
	}
	out := make(map[model.EdgeKey]bool, len(idx))
	for k := range idx {
		out[k] = true
	}
	return out, nil
}

// Diff compares the graph at `from` against the graph at `to`, both full
// commit hashes. Diffing a commit against itself always yields an empty
// result, and Diff(a, b) is the mirror image of Diff(b, a).
func (db *Database) Diff(from, to store.Hash) (*DiffResult, error) {
	fromThoughts, err := db.thoughtsAt(from)
	if err != nil {
		return nil, err
	}
	toThoughts, err := db.thoughtsAt(to)
	if err != nil {
		return nil, err
	}
	fromEdges, err := db.edgeKeysAt(from)
	if err != nil {
		return nil, err
	}
	toEdges, err := db.edgeKeysAt(to)
	if err != nil {
		return nil, err
	}

	result := &DiffResult{}
	dmp := diffmatchpatch.New()

	for id, t := range toThoughts {
		old, existed := fromThoughts[id]
		if !existed {
			result.ThoughtsAdded = append(result.ThoughtsAdded, id)
			continue
		}
		if old.Content != t.Content {
			a, b, lines := dmp.DiffLinesToChars(old.Content, t.Content)
			diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
			result.ThoughtsModified = append(result.ThoughtsModified, ThoughtDiff{ID: id, Lines: diffs})
		}
	}
	for id := range fromThoughts {
		if _, ok := toThoughts[id]; !ok {
			result.ThoughtsRemoved = append(result.ThoughtsRemoved, id)
		}
	}

	for k := range toEdges {
		if !fromEdges[k] {
			result.EdgesAdded = append(result.EdgesAdded, k)
		}
	}
	for k := range fromEdges {
		if !toEdges[k] {
			result.EdgesRemoved = append(result.EdgesRemoved, k)
		}
	}

	sortStrings(result.ThoughtsAdded)
	sortStrings(result.ThoughtsRemoved)
	sortThoughtDiffs(result.ThoughtsModified)
	sortEdgeKeys(result.EdgesAdded)
	sortEdgeKeys(result.EdgesRemoved)
	return result, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortThoughtDiffs(d []ThoughtDiff) {
	for i := 1; i < len(d); i++ {
		for j := i; j > 0 && d[j-1].ID > d[j].ID; j-- {
			d[j-1], d[j] = d[j], d[j-1]
		}
	}
}

func sortEdgeKeys(keys []model.EdgeKey) {
	sorted := model.SortEdgeKeys(keys)
	copy(keys, sorted)
}
