// Package model defines Indra's content-addressed object types — Thought,
// Edge, Snapshot, Commit — and their canonical encodings, per SPEC_FULL.md
// §3.
package model

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/indra-db/indra/internal/store"
)

// Thought is a graph node: free-form text content plus a dense embedding
// vector, identified by a stable user-visible id.
type Thought struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Embedding []float32         `json:"embedding,omitempty"`
	CreatedAt int64             `json:"created_at"`
	UpdatedAt int64             `json:"updated_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Encode produces the canonical Thought payload used both for hashing and
// as the codec's compressed content.
func (t Thought) Encode() []byte {
	e := store.NewEncoder(store.KindThought)
	e.String(t.ID)
	e.String(t.Content)
	e.Floats(t.Embedding)
	e.I64(t.CreatedAt)
	e.I64(t.UpdatedAt)
	e.StringMap(t.Metadata)
	return e.Bytes()
}

// Hash returns the content address of t without storing it.
func (t Thought) Hash() store.Hash { return store.ComputeHash(t.Encode()) }

// DecodeThought is the inverse of Thought.Encode.
func DecodeThought(payload []byte) (Thought, error) {
	d := newDecoder(payload, store.KindThought)
	var t Thought
	var err error
	if t.ID, err = d.string(); err != nil {
		return t, err
	}
	if t.Content, err = d.string(); err != nil {
		return t, err
	}
	if t.Embedding, err = d.floats(); err != nil {
		return t, err
	}
	if t.CreatedAt, err = d.i64(); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = d.i64(); err != nil {
		return t, err
	}
	if t.Metadata, err = d.stringMap(); err != nil {
		return t, err
	}
	return t, d.err()
}

// Edge is a directed, typed, weighted relation between two thought ids.
// Edges reference logical ids, not hashes, so they "float" to whichever
// thought version is current in a given snapshot.
type Edge struct {
	SourceID  string
	TargetID  string
	EdgeType  string
	Weight    float32
	Metadata  map[string]string
	CreatedAt int64
}

// Key identifies an edge within a snapshot: the spec pins (source, target,
// type) as the dedup key (Open Question (b)).
func (e Edge) Key() EdgeKey { return EdgeKey{e.SourceID, e.TargetID, e.EdgeType} }

type EdgeKey struct {
	SourceID string
	TargetID string
	EdgeType string
}

func (e Edge) Encode() []byte {
	enc := store.NewEncoder(store.KindEdge)
	enc.String(e.SourceID)
	enc.String(e.TargetID)
	enc.String(e.EdgeType)
	enc.F32(e.Weight)
	enc.StringMap(e.Metadata)
	enc.I64(e.CreatedAt)
	return enc.Bytes()
}

func (e Edge) Hash() store.Hash { return store.ComputeHash(e.Encode()) }

func DecodeEdge(payload []byte) (Edge, error) {
	d := newDecoder(payload, store.KindEdge)
	var e Edge
	var err error
	if e.SourceID, err = d.string(); err != nil {
		return e, err
	}
	if e.TargetID, err = d.string(); err != nil {
		return e, err
	}
	if e.EdgeType, err = d.string(); err != nil {
		return e, err
	}
	if e.Weight, err = d.f32(); err != nil {
		return e, err
	}
	if e.Metadata, err = d.stringMap(); err != nil {
		return e, err
	}
	if e.CreatedAt, err = d.i64(); err != nil {
		return e, err
	}
	return e, d.err()
}

// Snapshot is a complete point-in-history view: the trie root mapping
// thought ids to thought-hashes, plus the set of edge hashes present.
type Snapshot struct {
	TrieRoot   store.Hash
	EdgeHashes []store.Hash
}

func (s Snapshot) Encode() []byte {
	e := store.NewEncoder(store.KindSnapshot)
	e.Hash(s.TrieRoot)
	e.Hashes(store.SortedHashes(s.EdgeHashes))
	return e.Bytes()
}

func (s Snapshot) Hash() store.Hash { return store.ComputeHash(s.Encode()) }

func DecodeSnapshot(payload []byte) (Snapshot, error) {
	d := newDecoder(payload, store.KindSnapshot)
	var s Snapshot
	var err error
	if s.TrieRoot, err = d.hash(); err != nil {
		return s, err
	}
	if s.EdgeHashes, err = d.hashes(); err != nil {
		return s, err
	}
	return s, d.err()
}

// Commit is a snapshot plus parents, message, author, and timestamp.
type Commit struct {
	Snapshot  store.Hash
	Parents   []store.Hash
	Message   string
	Author    string
	Timestamp int64
}

func (c Commit) Encode() []byte {
	e := store.NewEncoder(store.KindCommit)
	e.Hash(c.Snapshot)
	e.Hashes(c.Parents)
	e.String(c.Message)
	e.String(c.Author)
	e.I64(c.Timestamp)
	return e.Bytes()
}

func (c Commit) Hash() store.Hash { return store.ComputeHash(c.Encode()) }

func DecodeCommit(payload []byte) (Commit, error) {
	d := newDecoder(payload, store.KindCommit)
	var c Commit
	var err error
	if c.Snapshot, err = d.hash(); err != nil {
		return c, err
	}
	if c.Parents, err = d.hashes(); err != nil {
		return c, err
	}
	if c.Message, err = d.string(); err != nil {
		return c, err
	}
	if c.Author, err = d.string(); err != nil {
		return c, err
	}
	if c.Timestamp, err = d.i64(); err != nil {
		return c, err
	}
	return c, d.err()
}

// decoder reads the fields a matching Encoder wrote, in order, tracking the
// first error so call sites can check it once at the end.
type decoder struct {
	buf []byte
	pos int
	e   error
}

func newDecoder(payload []byte, want store.Kind) *decoder {
	d := &decoder{buf: payload}
	if len(payload) < 1 || store.Kind(payload[0]) != want {
		d.e = fmt.Errorf("decode: kind mismatch: %w", store.ErrCorrupt)
		return d
	}
	d.pos = 1
	return d
}

func (d *decoder) err() error { return d.e }

func (d *decoder) need(n int) bool {
	if d.e != nil {
		return false
	}
	if d.pos+n > len(d.buf) {
		d.e = fmt.Errorf("decode: truncated: %w", store.ErrCorrupt)
		return false
	}
	return true
}

func (d *decoder) u32() uint32 {
	if !d.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	return v
}

func (d *decoder) i64() (int64, error) {
	if !d.need(8) {
		return 0, d.e
	}
	v := binary.LittleEndian.Uint64(d.buf[d.pos : d.pos+8])
	d.pos += 8
	return int64(v), d.e
}

func (d *decoder) f32() (float32, error) {
	if !d.need(4) {
		return 0, d.e
	}
	v := binary.LittleEndian.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	return math.Float32frombits(v), d.e
}

func (d *decoder) string() (string, error) {
	n := d.u32()
	if !d.need(int(n)) {
		return "", d.e
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, d.e
}

func (d *decoder) floats() ([]float32, error) {
	n := d.u32()
	out := make([]float32, 0, n)
	for i := uint32(0); i < n; i++ {
		f, err := d.f32()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, d.e
}

func (d *decoder) hash() (store.Hash, error) {
	if !d.need(32) {
		return store.Hash{}, d.e
	}
	var h store.Hash
	copy(h[:], d.buf[d.pos:d.pos+32])
	d.pos += 32
	return h, d.e
}

func (d *decoder) hashes() ([]store.Hash, error) {
	n := d.u32()
	out := make([]store.Hash, 0, n)
	for i := uint32(0); i < n; i++ {
		h, err := d.hash()
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, d.e
}

func (d *decoder) stringMap() (map[string]string, error) {
	n := d.u32()
	if n == 0 {
		return nil, d.e
	}
	m := make(map[string]string, n)
	for i := uint32(0); i < n; i++ {
		k, err := d.string()
		if err != nil {
			return nil, err
		}
		v, err := d.string()
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, d.e
}

// SortEdgeKeys is a small helper for diff/test code that wants stable
// iteration over a set of edge keys.
func SortEdgeKeys(keys []EdgeKey) []EdgeKey {
	out := make([]EdgeKey, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		if out[i].TargetID != out[j].TargetID {
			return out[i].TargetID < out[j].TargetID
		}
		return out[i].EdgeType < out[j].EdgeType
	})
	return out
}
