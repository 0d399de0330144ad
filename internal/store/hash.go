package store

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"github.com/zeebo/blake3"
)

// Kind tags an object's canonical payload so that distinct object types
// never collide on hash even if their raw bytes happen to coincide.
type Kind uint8

const (
	KindThought  Kind = 1
	KindEdge     Kind = 2
	KindTrieNode Kind = 3
	KindCommit   Kind = 4
	KindSnapshot Kind = 5
)

// Hash is a 32-byte BLAKE3 content address.
type Hash [32]byte

// ZeroHash is the null hash used for "no parent" / "no value" / a freshly
// created ref that has never been committed to.
var ZeroHash Hash

func (h Hash) IsZero() bool { return h == ZeroHash }

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

func (h Hash) Bytes() []byte { return h[:] }

// ParseHash decodes a hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return Hash{}, ErrInvalidArgument
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// ComputeHash derives the content address of a canonical payload that
// already carries its Kind tag as its first byte.
func ComputeHash(framed []byte) Hash {
	sum := blake3.Sum256(framed)
	return Hash(sum)
}

// Encoder builds a canonical byte sequence per the rules in SPEC_FULL.md §3:
// numbers little-endian fixed-width, strings length-prefixed UTF-8, maps
// sorted by key bytes, a leading kind tag.
type Encoder struct {
	buf []byte
}

func NewEncoder(kind Kind) *Encoder {
	e := &Encoder{buf: make([]byte, 0, 64)}
	e.buf = append(e.buf, byte(kind))
	return e
}

func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) U8(v uint8) *Encoder {
	e.buf = append(e.buf, v)
	return e
}

func (e *Encoder) U32(v uint32) *Encoder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
	return e
}

func (e *Encoder) U64(v uint64) *Encoder {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
	return e
}

func (e *Encoder) I64(v int64) *Encoder {
	return e.U64(uint64(v))
}

func (e *Encoder) F32(v float32) *Encoder {
	return e.U32(math.Float32bits(v))
}

func (e *Encoder) String(s string) *Encoder {
	e.U32(uint32(len(s)))
	e.buf = append(e.buf, s...)
	return e
}

func (e *Encoder) Bool(b bool) *Encoder {
	if b {
		return e.U8(1)
	}
	return e.U8(0)
}

func (e *Encoder) Floats(v []float32) *Encoder {
	e.U32(uint32(len(v)))
	for _, f := range v {
		e.F32(f)
	}
	return e
}

func (e *Encoder) Hashes(hs []Hash) *Encoder {
	e.U32(uint32(len(hs)))
	for _, h := range hs {
		e.buf = append(e.buf, h[:]...)
	}
	return e
}

func (e *Encoder) Hash(h Hash) *Encoder {
	e.buf = append(e.buf, h[:]...)
	return e
}

// StringMap writes a string->string map sorted by key bytes, so the
// resulting hash is independent of insertion order.
func (e *Encoder) StringMap(m map[string]string) *Encoder {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.U32(uint32(len(keys)))
	for _, k := range keys {
		e.String(k)
		e.String(m[k])
	}
	return e
}

// SortedHashes returns a copy of hs sorted ascending by byte value, used
// when encoding edge-hash sets into a Snapshot so the encoding — and hence
// the hash — does not depend on insertion order.
func SortedHashes(hs []Hash) []Hash {
	out := make([]Hash, len(hs))
	copy(out, hs)
	sort.Slice(out, func(i, j int) bool {
		return lessHash(out[i], out[j])
	})
	return out
}

func lessHash(a, b Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
