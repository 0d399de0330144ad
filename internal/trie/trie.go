// Package trie implements Indra's content-addressed, nibble-indexed (16-way)
// radix trie mapping a thought's logical id to its current thought-hash. All
// operations are pure and functional: each returns a new root hash, leaving
// every previously reachable node untouched so sibling subtrees are reused
// by hash across commits (SPEC_FULL.md §4.5).
package trie

import (
	"sort"

	"github.com/indra-db/indra/internal/store"
)

// Node is the in-memory form of a trie node: up to 16 children keyed by
// nibble, plus an optional value (a thought-hash) at this path.
type Node struct {
	Children [16]*store.Hash
	Value    *store.Hash
}

func (n *Node) isEmpty() bool {
	if n.Value != nil {
		return false
	}
	for _, c := range n.Children {
		if c != nil {
			return false
		}
	}
	return true
}

// Entry is a decoded (id, thought-hash) pair, as returned by ListAll.
type Entry struct {
	ID   string
	Hash store.Hash
}

// Store is the subset of the object store the trie needs: content-addressed
// put/get of TrieNode objects.
type Store interface {
	Put(kind store.Kind, canonical []byte) (store.Hash, error)
	Get(h store.Hash) (store.Kind, []byte, error)
}

func idToNibbles(id string) []byte {
	b := []byte(id)
	nibbles := make([]byte, len(b)*2)
	for i, c := range b {
		nibbles[i*2] = c >> 4
		nibbles[i*2+1] = c & 0x0f
	}
	return nibbles
}

func nibblesToID(nibbles []byte) string {
	b := make([]byte, len(nibbles)/2)
	for i := range b {
		b[i] = nibbles[i*2]<<4 | nibbles[i*2+1]
	}
	return string(b)
}

func loadNode(s Store, h store.Hash) (*Node, error) {
	if h.IsZero() {
		return &Node{}, nil
	}
	_, payload, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	return DecodeNode(payload)
}

func storeNode(s Store, n *Node) (store.Hash, error) {
	if n.isEmpty() {
		return store.ZeroHash, nil
	}
	return s.Put(store.KindTrieNode, EncodeNode(n))
}

// Insert returns the hash of a new root with id mapped to valueHash,
// constructing new nodes only along id's path; every sibling subtree is
// reused by hash (SPEC_FULL.md testable property 4).
func Insert(s Store, root store.Hash, id string, valueHash store.Hash) (store.Hash, error) {
	nibbles := idToNibbles(id)
	return insertAt(s, root, nibbles, valueHash)
}

func insertAt(s Store, nodeHash store.Hash, nibbles []byte, valueHash store.Hash) (store.Hash, error) {
	node, err := loadNode(s, nodeHash)
	if err != nil {
		return store.Hash{}, err
	}

	if len(nibbles) == 0 {
		v := valueHash
		node.Value = &v
		return storeNode(s, node)
	}

	idx := nibbles[0]
	childHash := store.ZeroHash
	if node.Children[idx] != nil {
		childHash = *node.Children[idx]
	}
	newChildHash, err := insertAt(s, childHash, nibbles[1:], valueHash)
	if err != nil {
		return store.Hash{}, err
	}
	node.Children[idx] = &newChildHash
	return storeNode(s, node)
}

// Remove returns the hash of a new root with id removed. Orphaned branches
// collapse: a node with no value and exactly one child is replaced by that
// child; a node with no value and no children disappears entirely.
func Remove(s Store, root store.Hash, id string) (store.Hash, error) {
	nibbles := idToNibbles(id)
	newRoot, _, err := removeAt(s, root, nibbles)
	return newRoot, err
}

func removeAt(s Store, nodeHash store.Hash, nibbles []byte) (store.Hash, bool, error) {
	if nodeHash.IsZero() {
		return store.ZeroHash, false, nil
	}
	node, err := loadNode(s, nodeHash)
	if err != nil {
		return store.Hash{}, false, err
	}

	if len(nibbles) == 0 {
		if node.Value == nil {
			return nodeHash, false, nil
		}
		node.Value = nil
	} else {
		idx := nibbles[0]
		if node.Children[idx] == nil {
			return nodeHash, false, nil
		}
		newChild, removed, err := removeAt(s, *node.Children[idx], nibbles[1:])
		if err != nil {
			return store.Hash{}, false, err
		}
		if !removed {
			return nodeHash, false, nil
		}
		if newChild.IsZero() {
			node.Children[idx] = nil
		} else {
			node.Children[idx] = &newChild
		}
	}

	if node.Value == nil {
		if only, ok := soleChild(node); ok {
			return only, true, nil
		}
		if node.isEmpty() {
			return store.ZeroHash, true, nil
		}
	}
	h, err := storeNode(s, node)
	return h, true, err
}

// soleChild reports whether n has exactly one non-nil child, returning its
// hash. Collapsing a childless, valueless node into its single remaining
// child (rather than storing a redundant pass-through node) keeps node
// count proportional to the number of distinct key prefixes, which is what
// the structural-sharing bound depends on.
func soleChild(n *Node) (store.Hash, bool) {
	var found *store.Hash
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if found != nil {
			return store.Hash{}, false
		}
		found = c
	}
	if found == nil {
		return store.Hash{}, false
	}
	return *found, true
}

// Get walks the trie for id's current value hash, returning (hash, true) if
// present.
func Get(s Store, root store.Hash, id string) (store.Hash, bool, error) {
	nibbles := idToNibbles(id)
	nodeHash := root
	node, err := loadNode(s, nodeHash)
	if err != nil {
		return store.Hash{}, false, err
	}
	for _, nb := range nibbles {
		if node.Children[nb] == nil {
			return store.Hash{}, false, nil
		}
		nodeHash = *node.Children[nb]
		node, err = loadNode(s, nodeHash)
		if err != nil {
			return store.Hash{}, false, err
		}
	}
	if node.Value == nil {
		return store.Hash{}, false, nil
	}
	return *node.Value, true, nil
}

// ListAll yields every (id, thought-hash) reachable from root in
// left-to-right nibble order (SPEC_FULL.md testable property 3).
func ListAll(s Store, root store.Hash) ([]Entry, error) {
	var out []Entry
	err := walk(s, root, nil, &out)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func walk(s Store, nodeHash store.Hash, prefix []byte, out *[]Entry) error {
	if nodeHash.IsZero() {
		return nil
	}
	node, err := loadNode(s, nodeHash)
	if err != nil {
		return err
	}
	if node.Value != nil {
		*out = append(*out, Entry{ID: nibblesToID(prefix), Hash: *node.Value})
	}
	for i, c := range node.Children {
		if c == nil {
			continue
		}
		if err := walk(s, *c, append(prefix, byte(i)), out); err != nil {
			return err
		}
	}
	return nil
}

// EncodeNode produces the canonical TrieNode payload: tag(3) then 16x
// (present-flag, 32-byte hash if present) then a value present-flag and its
// 32-byte hash if present.
func EncodeNode(n *Node) []byte {
	e := store.NewEncoder(store.KindTrieNode)
	for _, c := range n.Children {
		if c == nil {
			e.Bool(false)
		} else {
			e.Bool(true)
			e.Hash(*c)
		}
	}
	if n.Value == nil {
		e.Bool(false)
	} else {
		e.Bool(true)
		e.Hash(*n.Value)
	}
	return e.Bytes()
}

// DecodeNode is the inverse of EncodeNode.
func DecodeNode(payload []byte) (*Node, error) {
	if len(payload) < 1 || store.Kind(payload[0]) != store.KindTrieNode {
		return nil, store.ErrCorrupt
	}
	pos := 1
	n := &Node{}
	for i := 0; i < 16; i++ {
		if pos >= len(payload) {
			return nil, store.ErrCorrupt
		}
		present := payload[pos]
		pos++
		if present != 0 {
			if pos+32 > len(payload) {
				return nil, store.ErrCorrupt
			}
			var h store.Hash
			copy(h[:], payload[pos:pos+32])
			n.Children[i] = &h
			pos += 32
		}
	}
	if pos >= len(payload) {
		return nil, store.ErrCorrupt
	}
	present := payload[pos]
	pos++
	if present != 0 {
		if pos+32 > len(payload) {
			return nil, store.ErrCorrupt
		}
		var h store.Hash
		copy(h[:], payload[pos:pos+32])
		n.Value = &h
	}
	return n, nil
}
