package graph

import "github.com/indra-db/indra/internal/model"

// WorkingSet is the staging area between commits: SPEC_FULL.md §4.7.
// Reads consult it first, then fall back to the HEAD view; Commit drains it
// into new objects and resets it.
type WorkingSet struct {
	PendingThoughts map[string]model.Thought
	PendingEdges    map[model.EdgeKey]model.Edge
	DeletedThoughts map[string]bool
	DeletedEdges    map[model.EdgeKey]bool
}

func NewWorkingSet() *WorkingSet {
	return &WorkingSet{
		PendingThoughts: make(map[string]model.Thought),
		PendingEdges:    make(map[model.EdgeKey]model.Edge),
		DeletedThoughts: make(map[string]bool),
		DeletedEdges:    make(map[model.EdgeKey]bool),
	}
}

func (w *WorkingSet) Reset() {
	w.PendingThoughts = make(map[string]model.Thought)
	w.PendingEdges = make(map[model.EdgeKey]model.Edge)
	w.DeletedThoughts = make(map[string]bool)
	w.DeletedEdges = make(map[model.EdgeKey]bool)
}

func (w *WorkingSet) IsEmpty() bool {
	return len(w.PendingThoughts) == 0 && len(w.PendingEdges) == 0 &&
		len(w.DeletedThoughts) == 0 && len(w.DeletedEdges) == 0
}

func (w *WorkingSet) PutThought(t model.Thought) {
	delete(w.DeletedThoughts, t.ID)
	w.PendingThoughts[t.ID] = t
}

func (w *WorkingSet) DeleteThought(id string) {
	delete(w.PendingThoughts, id)
	w.DeletedThoughts[id] = true
}

func (w *WorkingSet) PutEdge(e model.Edge) {
	k := e.Key()
	delete(w.DeletedEdges, k)
	w.PendingEdges[k] = e
}

func (w *WorkingSet) DeleteEdge(k model.EdgeKey) {
	delete(w.PendingEdges, k)
	w.DeletedEdges[k] = true
}

// Status is the summary the CLI's status command and SPEC_FULL.md §4.7
// report.
type Status struct {
	Branch          string
	HeadCommit      string
	ThoughtsCreated int
	ThoughtsUpdated int
	ThoughtsDeleted int
	EdgesCreated    int
	EdgesDeleted    int
}
