package store

import "testing"

func TestComputeHashDeterministic(t *testing.T) {
	e := NewEncoder(KindThought)
	e.String("a")
	e.String("hello")
	payload := e.Bytes()

	h1 := ComputeHash(payload)
	h2 := ComputeHash(payload)
	if h1 != h2 {
		t.Fatalf("ComputeHash is not deterministic: %s != %s", h1, h2)
	}
}

func TestComputeHashDiffersOnKind(t *testing.T) {
	a := NewEncoder(KindThought)
	a.String("x")
	b := NewEncoder(KindEdge)
	b.String("x")

	if ComputeHash(a.Bytes()) == ComputeHash(b.Bytes()) {
		t.Fatal("objects of different kinds must not collide even with identical field bytes")
	}
}

func TestEncoderStringMapOrderIndependent(t *testing.T) {
	m1 := map[string]string{"b": "2", "a": "1"}
	m2 := map[string]string{"a": "1", "b": "2"}

	e1 := NewEncoder(KindThought)
	e1.StringMap(m1)
	e2 := NewEncoder(KindThought)
	e2.StringMap(m2)

	if ComputeHash(e1.Bytes()) != ComputeHash(e2.Bytes()) {
		t.Fatal("StringMap encoding must be independent of Go map iteration order")
	}
}

func TestParseHashRoundTrip(t *testing.T) {
	e := NewEncoder(KindCommit)
	e.String("whatever")
	h := ComputeHash(e.Bytes())

	parsed, err := ParseHash(h.String())
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if parsed != h {
		t.Fatalf("round trip mismatch: %s != %s", parsed, h)
	}
}

func TestParseHashInvalid(t *testing.T) {
	if _, err := ParseHash("not-hex"); err == nil {
		t.Fatal("expected error for non-hex input")
	}
	if _, err := ParseHash("ab"); err == nil {
		t.Fatal("expected error for short input")
	}
}

func TestSortedHashesStable(t *testing.T) {
	h1 := ComputeHash(NewEncoder(KindThought).String("1").Bytes())
	h2 := ComputeHash(NewEncoder(KindThought).String("2").Bytes())
	h3 := ComputeHash(NewEncoder(KindThought).String("3").Bytes())

	sortedA := SortedHashes([]Hash{h3, h1, h2})
	sortedB := SortedHashes([]Hash{h2, h3, h1})

	if len(sortedA) != len(sortedB) {
		t.Fatal("length mismatch")
	}
	for i := range sortedA {
		if sortedA[i] != sortedB[i] {
			t.Fatalf("SortedHashes must not depend on input order, got %v vs %v", sortedA, sortedB)
		}
	}
}
