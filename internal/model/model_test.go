package model

import (
	"testing"

	"github.com/indra-db/indra/internal/store"
)

func TestThoughtEncodeDecodeRoundTrip(t *testing.T) {
	t1 := Thought{
		ID: "alpha", Content: "hello world",
		Embedding: []float32{0.1, -0.2, 0.3},
		CreatedAt: 1000, UpdatedAt: 2000,
		Metadata: map[string]string{"source": "test"},
	}

	decoded, err := DecodeThought(t1.Encode())
	if err != nil {
		t.Fatalf("DecodeThought: %v", err)
	}
	if decoded.ID != t1.ID || decoded.Content != t1.Content {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, t1)
	}
	if len(decoded.Embedding) != len(t1.Embedding) {
		t.Fatalf("embedding length mismatch: got %d, want %d", len(decoded.Embedding), len(t1.Embedding))
	}
	for i := range t1.Embedding {
		if decoded.Embedding[i] != t1.Embedding[i] {
			t.Fatalf("embedding[%d] mismatch: got %v, want %v", i, decoded.Embedding[i], t1.Embedding[i])
		}
	}
	if decoded.Metadata["source"] != "test" {
		t.Fatalf("metadata not preserved: %+v", decoded.Metadata)
	}
}

func TestThoughtHashStableAcrossEqualValues(t *testing.T) {
	a := Thought{ID: "x", Content: "same", CreatedAt: 1, UpdatedAt: 1}
	b := Thought{ID: "x", Content: "same", CreatedAt: 1, UpdatedAt: 1}
	if a.Hash() != b.Hash() {
		t.Fatal("identical thoughts must hash identically")
	}

	c := Thought{ID: "x", Content: "different", CreatedAt: 1, UpdatedAt: 1}
	if a.Hash() == c.Hash() {
		t.Fatal("thoughts with different content must not collide")
	}
}

func TestEdgeKeyIgnoresWeightAndMetadata(t *testing.T) {
	e1 := Edge{SourceID: "a", TargetID: "b", EdgeType: "relates", Weight: 0.5}
	e2 := Edge{SourceID: "a", TargetID: "b", EdgeType: "relates", Weight: 0.9, Metadata: map[string]string{"x": "y"}}

	if e1.Key() != e2.Key() {
		t.Fatal("edge dedup key must be (source, target, type) only")
	}
	if e1.Hash() == e2.Hash() {
		t.Fatal("edges with different weight must have different content hashes")
	}
}

func TestEdgeEncodeDecodeRoundTrip(t *testing.T) {
	e := Edge{SourceID: "a", TargetID: "b", EdgeType: "cites", Weight: 0.75, CreatedAt: 42}
	decoded, err := DecodeEdge(e.Encode())
	if err != nil {
		t.Fatalf("DecodeEdge: %v", err)
	}
	if decoded.Key() != e.Key() || decoded.Weight != e.Weight || decoded.CreatedAt != e.CreatedAt {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, e)
	}
}

func TestSnapshotEncodeIsEdgeOrderIndependent(t *testing.T) {
	h1 := store.ComputeHash(store.NewEncoder(store.KindEdge).String("1").Bytes())
	h2 := store.ComputeHash(store.NewEncoder(store.KindEdge).String("2").Bytes())

	s1 := Snapshot{TrieRoot: store.ZeroHash, EdgeHashes: []store.Hash{h1, h2}}
	s2 := Snapshot{TrieRoot: store.ZeroHash, EdgeHashes: []store.Hash{h2, h1}}

	if s1.Hash() != s2.Hash() {
		t.Fatal("snapshot hash must not depend on edge-hash insertion order")
	}
}

func TestCommitEncodeDecodeRoundTrip(t *testing.T) {
	snap := store.ComputeHash(store.NewEncoder(store.KindSnapshot).Bytes())
	parent := store.ComputeHash(store.NewEncoder(store.KindCommit).String("parent").Bytes())

	c := Commit{
		Snapshot: snap, Parents: []store.Hash{parent},
		Message: "initial commit", Author: "tester", Timestamp: 12345,
	}
	decoded, err := DecodeCommit(c.Encode())
	if err != nil {
		t.Fatalf("DecodeCommit: %v", err)
	}
	if decoded.Message != c.Message || decoded.Author != c.Author || decoded.Timestamp != c.Timestamp {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, c)
	}
	if len(decoded.Parents) != 1 || decoded.Parents[0] != parent {
		t.Fatalf("parents mismatch: got %v, want [%v]", decoded.Parents, parent)
	}
}

func TestSortEdgeKeysOrder(t *testing.T) {
	keys := []EdgeKey{
		{SourceID: "b", TargetID: "a", EdgeType: "x"},
		{SourceID: "a", TargetID: "z", EdgeType: "x"},
		{SourceID: "a", TargetID: "a", EdgeType: "x"},
	}
	sorted := SortEdgeKeys(keys)
	if sorted[0].SourceID != "a" || sorted[0].TargetID != "a" {
		t.Fatalf("expected (a,a,x) first, got %+v", sorted[0])
	}
	if sorted[2].SourceID != "b" {
		t.Fatalf("expected (b,...) last, got %+v", sorted[2])
	}
}
