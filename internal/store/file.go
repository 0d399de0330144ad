package store

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gofrs/flock"
)

const (
	magic          = "INDRA_DB"
	formatVersion  = uint32(1)
	headerLen      = 64
	headPayloadLen = 23

	headKindBranch = uint8(0)
	headKindCommit = uint8(1)

	// DefaultBranch is the branch a freshly created database starts on.
	DefaultBranch = "main"
)

type header struct {
	version     uint32
	flags       uint32
	objectCount uint64
	indexOffset uint64
	refsOffset  uint64
	headKind    uint8
	headPayload [headPayloadLen]byte
}

// File owns the single on-disk Indra database: its object store, its refs,
// and HEAD. It serializes all access behind the flock acquired in Open or
// Create, guarding against two processes opening the same path at once (see
// SPEC_FULL.md §5).
type File struct {
	path string
	f    *os.File
	lock *flock.Flock

	store *ObjectStore

	refs       map[string]Hash
	headBranch string // non-empty when HEAD is attached to a branch
	headHash   Hash   // meaningful when headBranch == ""
}

// Create initializes a brand-new database file: a valid header, zero
// objects, a single ref (main -> null hash), and HEAD = main.
func Create(path string) (*File, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: database is already open by another process", path)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	df := &File{
		path:       path,
		f:          f,
		lock:       fl,
		refs:       map[string]Hash{DefaultBranch: ZeroHash},
		headBranch: DefaultBranch,
	}
	df.store = NewObjectStore(f, headerLen, df.appendAt)

	if err := df.Flush(); err != nil {
		_ = f.Close()
		_ = fl.Unlock()
		return nil, err
	}
	return df, nil
}

// Open opens an existing database file, validating its header, loading its
// index and refs, and resolving HEAD. If the footer is unreadable it falls
// back to a best-effort rescan of the objects region (SPEC_FULL.md §7).
func Open(path string) (*File, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: database is already open by another process", path)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	df, err := openFile(path, f, fl)
	if err != nil {
		_ = f.Close()
		_ = fl.Unlock()
		return nil, err
	}
	return df, nil
}

func openFile(path string, f *os.File, fl *flock.Flock) (*File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() < headerLen {
		return nil, fmt.Errorf("%s: file too small for header: %w", path, ErrCorrupt)
	}

	raw := make([]byte, headerLen)
	if _, err := f.ReadAt(raw, 0); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(raw[:8]) != magic {
		return nil, fmt.Errorf("%s: bad magic: %w", path, ErrUnsupportedFormat)
	}
	hdr := decodeHeader(raw)
	if hdr.version != formatVersion {
		return nil, fmt.Errorf("%s: version %d unsupported: %w", path, hdr.version, ErrUnsupportedFormat)
	}

	df := &File{path: path, f: f, lock: fl}
	df.store = NewObjectStore(f, headerLen, df.appendAt)

	entries, refs, err := readFooters(f, info.Size(), hdr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "indra: footer unreadable (%v), rescanning objects region\n", err)
		entries, err = recoverObjects(f, headerLen, info.Size())
		if err != nil {
			return nil, fmt.Errorf("recover %s: %w", path, err)
		}
		refs = map[string]Hash{DefaultBranch: ZeroHash}
	}

	df.store.LoadIndex(entries)
	known := make(map[Hash]struct{}, len(entries))
	for _, e := range entries {
		known[e.Hash] = struct{}{}
	}

	df.refs = make(map[string]Hash, len(refs))
	for name, h := range refs {
		if h.IsZero() {
			df.refs[name] = h
			continue
		}
		if _, ok := known[h]; !ok {
			fmt.Fprintf(os.Stderr, "indra: dropping ref %q: commit %s not found\n", name, h)
			continue
		}
		df.refs[name] = h
	}
	if len(df.refs) == 0 {
		df.refs[DefaultBranch] = ZeroHash
	}

	if hdr.headKind == headKindCommit {
		h, err := ParseHash(trimNulHex(hdr.headPayload[:]))
		if err == nil && (h.IsZero() || hashKnown(known, h)) {
			df.headHash = h
			df.headBranch = ""
		} else {
			df.headBranch = firstRefName(df.refs)
		}
	} else {
		name := trimNul(hdr.headPayload[:])
		if _, ok := df.refs[name]; ok {
			df.headBranch = name
		} else {
			df.headBranch = firstRefName(df.refs)
		}
	}

	// Recompute the objects-region end from the recovered/loaded index so
	// the next Put appends past every known object, not just past the
	// stale header's index_offset.
	df.store.endAt = objectsEnd(df.store, hdr, info.Size())

	return df, nil
}

func hashKnown(known map[Hash]struct{}, h Hash) bool {
	_, ok := known[h]
	return ok
}

func firstRefName(refs map[string]Hash) string {
	names := make([]string, 0, len(refs))
	for n := range refs {
		names = append(names, n)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return DefaultBranch
	}
	return names[0]
}

func objectsEnd(s *ObjectStore, hdr header, fileSize int64) uint64 {
	max := uint64(headerLen)
	for _, e := range s.IndexEntries() {
		end := e.Offset + uint64(e.Length)
		if end > max {
			max = end
		}
	}
	return max
}

// appendAt writes p at the current end of the objects region and returns
// the offset it was written at. Objects never move once written.
func (df *File) appendAt(p []byte) (uint64, error) {
	offset := df.store.endAt
	if _, err := df.f.WriteAt(p, int64(offset)); err != nil {
		return 0, err
	}
	return offset, nil
}

// Store exposes the underlying content-addressed object store.
func (df *File) Store() *ObjectStore { return df.store }

// HeadBranch returns the attached branch name and true, or ("", false) if
// HEAD is detached.
func (df *File) HeadBranch() (string, bool) {
	if df.headBranch == "" {
		return "", false
	}
	return df.headBranch, true
}

// HeadCommit resolves HEAD to a commit hash, following the attached branch's
// ref if HEAD is attached.
func (df *File) HeadCommit() Hash {
	if df.headBranch != "" {
		return df.refs[df.headBranch]
	}
	return df.headHash
}

// SetHeadBranch attaches HEAD to an existing branch.
func (df *File) SetHeadBranch(name string) { df.headBranch = name; df.headHash = ZeroHash }

// SetHeadDetached detaches HEAD at a specific commit.
func (df *File) SetHeadDetached(h Hash) { df.headBranch = ""; df.headHash = h }

// Ref looks up a branch's current commit hash.
func (df *File) Ref(name string) (Hash, bool) {
	h, ok := df.refs[name]
	return h, ok
}

// Refs returns a copy of all branch->commit mappings.
func (df *File) Refs() map[string]Hash {
	out := make(map[string]Hash, len(df.refs))
	for k, v := range df.refs {
		out[k] = v
	}
	return out
}

// SetRef creates or updates a branch pointer.
func (df *File) SetRef(name string, h Hash) { df.refs[name] = h }

// DeleteRef removes a branch pointer.
func (df *File) DeleteRef(name string) { delete(df.refs, name) }

// Flush rewrites the index and refs footers past the end of the objects
// region and updates the header, then syncs to disk. A failed flush is
// fatal to the session: the caller must reopen (SPEC_FULL.md §7).
func (df *File) Flush() error {
	footerOffset := df.store.EndOffset()

	indexBytes := encodeIndex(df.store.IndexEntries())
	if _, err := df.f.WriteAt(indexBytes, int64(footerOffset)); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}

	refsOffset := footerOffset + uint64(len(indexBytes))
	refsBytes := encodeRefs(df.refs)
	if _, err := df.f.WriteAt(refsBytes, int64(refsOffset)); err != nil {
		return fmt.Errorf("flush refs: %w", err)
	}

	hdr := header{
		version:     formatVersion,
		objectCount: uint64(df.store.Count()),
		indexOffset: footerOffset,
		refsOffset:  refsOffset,
	}
	if df.headBranch != "" {
		hdr.headKind = headKindBranch
		copy(hdr.headPayload[:], []byte(df.headBranch))
	} else {
		hdr.headKind = headKindCommit
		copy(hdr.headPayload[:], []byte(df.headHash.String())[:headPayloadLen])
	}

	if _, err := df.f.WriteAt(encodeHeader(hdr), 0); err != nil {
		return fmt.Errorf("flush header: %w", err)
	}

	if err := df.f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Close releases the file lock and handle. It does not flush; call Flush
// first if there are unpersisted changes.
func (df *File) Close() error {
	ferr := df.f.Close()
	lerr := df.lock.Unlock()
	if ferr != nil {
		return ferr
	}
	return lerr
}

func encodeHeader(h header) []byte {
	buf := make([]byte, headerLen)
	copy(buf[0:8], magic)
	binary.LittleEndian.PutUint32(buf[8:12], h.version)
	binary.LittleEndian.PutUint32(buf[12:16], h.flags)
	binary.LittleEndian.PutUint64(buf[16:24], h.objectCount)
	binary.LittleEndian.PutUint64(buf[24:32], h.indexOffset)
	binary.LittleEndian.PutUint64(buf[32:40], h.refsOffset)
	buf[40] = h.headKind
	copy(buf[41:64], h.headPayload[:])
	return buf
}

func decodeHeader(buf []byte) header {
	var h header
	h.version = binary.LittleEndian.Uint32(buf[8:12])
	h.flags = binary.LittleEndian.Uint32(buf[12:16])
	h.objectCount = binary.LittleEndian.Uint64(buf[16:24])
	h.indexOffset = binary.LittleEndian.Uint64(buf[24:32])
	h.refsOffset = binary.LittleEndian.Uint64(buf[32:40])
	h.headKind = buf[40]
	copy(h.headPayload[:], buf[41:64])
	return h
}

func trimNul(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func trimNulHex(b []byte) string {
	return trimNul(b)
}

// encodeIndex writes: u32 count, count x {32-byte hash, u64 offset, u32 length}
func encodeIndex(entries []IndexEntry) []byte {
	sort.Slice(entries, func(i, j int) bool { return lessHash(entries[i].Hash, entries[j].Hash) })
	buf := make([]byte, 4+len(entries)*(32+8+4))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(entries)))
	off := 4
	for _, e := range entries {
		copy(buf[off:off+32], e.Hash[:])
		binary.LittleEndian.PutUint64(buf[off+32:off+40], e.Offset)
		binary.LittleEndian.PutUint32(buf[off+40:off+44], e.Length)
		off += 44
	}
	return buf
}

func decodeIndex(r io.Reader) ([]IndexEntry, error) {
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(countBuf[:])
	entries := make([]IndexEntry, 0, count)
	rec := make([]byte, 44)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, err
		}
		var e IndexEntry
		copy(e.Hash[:], rec[0:32])
		e.Offset = binary.LittleEndian.Uint64(rec[32:40])
		e.Length = binary.LittleEndian.Uint32(rec[40:44])
		entries = append(entries, e)
	}
	return entries, nil
}

// encodeRefs writes: u32 count, count x {u16 name_len, name_bytes, 32-byte hash}
func encodeRefs(refs map[string]Hash) []byte {
	names := make([]string, 0, len(refs))
	for n := range refs {
		names = append(names, n)
	}
	sort.Strings(names)

	size := 4
	for _, n := range names {
		size += 2 + len(n) + 32
	}
	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(names)))
	off := 4
	for _, n := range names {
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(len(n)))
		off += 2
		copy(buf[off:off+len(n)], n)
		off += len(n)
		h := refs[n]
		copy(buf[off:off+32], h[:])
		off += 32
	}
	return buf
}

func decodeRefs(r io.Reader) (map[string]Hash, error) {
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(countBuf[:])
	refs := make(map[string]Hash, count)
	for i := uint32(0); i < count; i++ {
		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, err
		}
		nameLen := binary.LittleEndian.Uint16(lenBuf[:])
		nameBuf := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return nil, err
		}
		var h Hash
		if _, err := io.ReadFull(r, h[:]); err != nil {
			return nil, err
		}
		refs[string(nameBuf)] = h
	}
	return refs, nil
}

// readFooters reads the index and refs regions at the offsets recorded in
// the header. Any failure (offsets past EOF, truncated records) is reported
// so the caller can fall back to recoverObjects.
func readFooters(f *os.File, fileSize int64, hdr header) ([]IndexEntry, map[string]Hash, error) {
	if hdr.indexOffset > uint64(fileSize) || hdr.refsOffset > uint64(fileSize) {
		return nil, nil, fmt.Errorf("footer offsets past EOF: %w", ErrCorrupt)
	}
	indexSection := io.NewSectionReader(f, int64(hdr.indexOffset), int64(hdr.refsOffset)-int64(hdr.indexOffset))
	entries, err := decodeIndex(indexSection)
	if err != nil {
		return nil, nil, fmt.Errorf("decode index footer: %w", err)
	}
	refsSection := io.NewSectionReader(f, int64(hdr.refsOffset), fileSize-int64(hdr.refsOffset))
	refs, err := decodeRefs(refsSection)
	if err != nil {
		return nil, nil, fmt.Errorf("decode refs footer: %w", err)
	}
	return entries, refs, nil
}

// recoverObjects performs a best-effort linear rescan of the objects region
// when the footer is unreadable. Frames carry no explicit compressed
// length, so boundaries are recovered heuristically: for each candidate
// frame we try every end position, shortest first, and accept the first
// whose bytes decompress to exactly the declared uncompressed length. A
// frame that cannot be resolved this way marks the truncation point;
// everything before it is kept.
func recoverObjects(f *os.File, start, fileSize int64) ([]IndexEntry, error) {
	data := make([]byte, fileSize-start)
	if _, err := f.ReadAt(data, start); err != nil && err != io.EOF {
		return nil, err
	}

	var entries []IndexEntry
	pos := 0
	for pos < len(data) {
		if pos+frameHeaderLen > len(data) {
			break
		}
		kindByte := data[pos]
		if !validKind(Kind(kindByte)) {
			break
		}
		uncompressedLen := binary.LittleEndian.Uint32(data[pos+1 : pos+5])
		payloadStart := pos + frameHeaderLen

		frameLen, decoded, ok := tryDecodeFrame(data, payloadStart, uncompressedLen)
		if !ok {
			break
		}

		entries = append(entries, IndexEntry{
			Hash:   ComputeHash(decoded),
			Offset: uint64(start + int64(pos)),
			Length: uint32(frameHeaderLen + frameLen),
		})
		pos = payloadStart + frameLen
	}
	return entries, nil
}

func validKind(k Kind) bool {
	switch k {
	case KindThought, KindEdge, KindTrieNode, KindCommit, KindSnapshot:
		return true
	default:
		return false
	}
}

func tryDecodeFrame(data []byte, payloadStart int, uncompressedLen uint32) (frameLen int, decoded []byte, ok bool) {
	// Candidate ends: every position past payloadStart, shortest first.
	var candidates []int
	for i := payloadStart + 1; i <= len(data); i++ {
		candidates = append(candidates, i)
	}
	for _, end := range candidates {
		if end <= payloadStart {
			continue
		}
		out, err := decoder().DecodeAll(data[payloadStart:end], nil)
		if err != nil {
			continue
		}
		if uint32(len(out)) == uncompressedLen {
			return end - payloadStart, out, true
		}
	}
	return 0, nil, false
}
