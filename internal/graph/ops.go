package graph

import (
	"fmt"

	"github.com/indra-db/indra/internal/model"
	"github.com/indra-db/indra/internal/store"
	"github.com/indra-db/indra/internal/trie"
)

// view materializes the merged HEAD+working-set graph: every visible
// thought keyed by id, and every visible edge keyed by its dedup key.
// Operations that need a consistent snapshot of the graph (traversal,
// search, listing) all go through this rather than consulting HEAD and the
// working set independently.
func (db *Database) view() (map[string]model.Thought, map[model.EdgeKey]model.Edge, error) {
	snap, err := db.headSnapshot()
	if err != nil {
		return nil, nil, err
	}

	entries, err := trie.ListAll(db.file.Store(), snap.TrieRoot)
	if err != nil {
		return nil, nil, err
	}
	thoughts := make(map[string]model.Thought, len(entries))
	for _, e := range entries {
		t, err := db.thoughtByHash(e.Hash)
		if err != nil {
			return nil, nil, err
		}
		thoughts[e.ID] = t
	}

	edgeIdx, err := db.buildEdgeIndex(snap.EdgeHashes)
	if err != nil {
		return nil, nil, err
	}
	edges := make(map[model.EdgeKey]model.Edge, len(edgeIdx))
	for key, h := range edgeIdx {
		e, err := db.edgeByHash(h)
		if err != nil {
			return nil, nil, err
		}
		edges[key] = e
	}

	for id := range db.ws.DeletedThoughts {
		delete(thoughts, id)
	}
	for id, t := range db.ws.PendingThoughts {
		thoughts[id] = t
	}
	for k := range db.ws.DeletedEdges {
		delete(edges, k)
	}
	for k, e := range db.ws.PendingEdges {
		edges[k] = e
	}
	return thoughts, edges, nil
}

// Relate stages an edge between two existing thoughts. Relating the same
// (source, target, type) triple again with the same weight is a no-op;
// with a different weight it replaces the edge (the dedup key is the
// triple, not the full edge content).
func (db *Database) Relate(source, target, edgeType string, weight float32, metadata map[string]string) error {
	thoughts, edges, err := db.view()
	if err != nil {
		return err
	}
	if _, ok := thoughts[source]; !ok {
		return fmt.Errorf("relate: source %q: %w", source, store.ErrEdgeEndpointMissing)
	}
	if _, ok := thoughts[target]; !ok {
		return fmt.Errorf("relate: target %q: %w", target, store.ErrEdgeEndpointMissing)
	}

	key := model.EdgeKey{SourceID: source, TargetID: target, EdgeType: edgeType}
	if existing, ok := edges[key]; ok && existing.Weight == weight {
		return nil
	}

	e := model.Edge{
		SourceID: source, TargetID: target, EdgeType: edgeType,
		Weight: weight, Metadata: metadata,
	}
	db.ws.PutEdge(e)

	if db.autoCommit {
		if _, err := db.Commit(fmt.Sprintf("relate: %s -%s-> %s", source, edgeType, target)); err != nil {
			return err
		}
	}
	return nil
}

// Unrelate stages removal of an edge. Removing an edge that does not exist
// is idempotent.
func (db *Database) Unrelate(source, target, edgeType string) error {
	key := model.EdgeKey{SourceID: source, TargetID: target, EdgeType: edgeType}
	db.ws.DeleteEdge(key)

	if db.autoCommit {
		if _, err := db.Commit(fmt.Sprintf("unrelate: %s -%s-> %s", source, edgeType, target)); err != nil {
			return err
		}
	}
	return nil
}

// Direction selects which edges Neighbors considers relative to a thought.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Both
)

// Neighbor pairs a reachable thought with the edge that reaches it.
type Neighbor struct {
	Thought model.Thought
	Edge    model.Edge
}

// Neighbors lists the thoughts directly connected to id.
func (db *Database) Neighbors(id string, dir Direction) ([]Neighbor, error) {
	thoughts, edges, err := db.view()
	if err != nil {
		return nil, err
	}
	if _, ok := thoughts[id]; !ok {
		return nil, fmt.Errorf("neighbors: thought %q: %w", id, store.ErrNotFound)
	}

	var out []Neighbor
	for _, e := range edges {
		if (dir == Outgoing || dir == Both) && e.SourceID == id {
			if t, ok := thoughts[e.TargetID]; ok {
				out = append(out, Neighbor{Thought: t, Edge: e})
			}
		}
		if (dir == Incoming || dir == Both) && e.TargetID == id {
			if t, ok := thoughts[e.SourceID]; ok {
				out = append(out, Neighbor{Thought: t, Edge: e})
			}
		}
	}
	return out, nil
}

// BFSNode is one entry of a breadth-first traversal result.
type BFSNode struct {
	ID    string
	Depth int
}

// BFS walks outward from id following edges in both directions, up to
// maxDepth hops (0 means unlimited).
func (db *Database) BFS(id string, maxDepth int) ([]BFSNode, error) {
	thoughts, edges, err := db.view()
	if err != nil {
		return nil, err
	}
	if _, ok := thoughts[id]; !ok {
		return nil, fmt.Errorf("bfs: thought %q: %w", id, store.ErrNotFound)
	}

	adj := buildAdjacency(edges)
	visited := map[string]bool{id: true}
	queue := []BFSNode{{ID: id, Depth: 0}}
	var out []BFSNode

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		if maxDepth > 0 && n.Depth >= maxDepth {
			continue
		}
		for _, next := range adj[n.ID] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, BFSNode{ID: next, Depth: n.Depth + 1})
			}
		}
	}
	return out, nil
}

// ShortestPath returns the shortest undirected path of thought ids from
// source to target, inclusive of both endpoints.
func (db *Database) ShortestPath(source, target string) ([]string, error) {
	thoughts, edges, err := db.view()
	if err != nil {
		return nil, err
	}
	if _, ok := thoughts[source]; !ok {
		return nil, fmt.Errorf("shortest path: thought %q: %w", source, store.ErrNotFound)
	}
	if _, ok := thoughts[target]; !ok {
		return nil, fmt.Errorf("shortest path: thought %q: %w", target, store.ErrNotFound)
	}
	if source == target {
		return []string{source}, nil
	}

	adj := buildAdjacency(edges)
	prev := map[string]string{}
	visited := map[string]bool{source: true}
	queue := []string{source}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			break
		}
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				prev[next] = cur
				queue = append(queue, next)
			}
		}
	}

	if !visited[target] {
		return nil, fmt.Errorf("shortest path: no path from %q to %q: %w", source, target, store.ErrNotFound)
	}

	path := []string{target}
	for cur := target; cur != source; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

func buildAdjacency(edges map[model.EdgeKey]model.Edge) map[string][]string {
	adj := map[string][]string{}
	for _, e := range edges {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		adj[e.TargetID] = append(adj[e.TargetID], e.SourceID)
	}
	return adj
}
