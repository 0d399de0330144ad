package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.indra")

	f, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	canonical := NewEncoder(KindThought).String("hello").Bytes()
	h, err := f.Store().Put(KindThought, canonical)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	f.SetRef(DefaultBranch, h)
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	if reopened.HeadCommit() != h {
		t.Fatalf("expected HEAD %s, got %s", h, reopened.HeadCommit())
	}
	_, payload, err := reopened.Store().Get(h)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(payload) != string(canonical) {
		t.Fatalf("payload mismatch after reopen")
	}
}

func TestCreateRefusesConcurrentOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.indra")

	f, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	if _, err := Open(path); err == nil {
		t.Fatal("expected Open to fail while the file is locked by another handle")
	}
}

func TestBranchAndDetachedHead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.indra")
	f, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	h, _ := f.Store().Put(KindCommit, NewEncoder(KindCommit).String("c1").Bytes())
	f.SetRef(DefaultBranch, h)
	f.SetRef("feature", h)

	if branch, ok := f.HeadBranch(); !ok || branch != DefaultBranch {
		t.Fatalf("expected attached HEAD on %q, got %q (%v)", DefaultBranch, branch, ok)
	}

	f.SetHeadDetached(h)
	if _, ok := f.HeadBranch(); ok {
		t.Fatal("expected detached HEAD to report not attached")
	}
	if f.HeadCommit() != h {
		t.Fatalf("detached HEAD should still resolve to %s", h)
	}

	f.SetHeadBranch("feature")
	if branch, ok := f.HeadBranch(); !ok || branch != "feature" {
		t.Fatalf("expected HEAD attached to feature, got %q (%v)", branch, ok)
	}
}

func TestRecoverObjectsAfterTruncatedFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.indra")
	f, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	h, err := f.Store().Put(KindThought, NewEncoder(KindThought).String("recoverable").Bytes())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	f.SetRef(DefaultBranch, h)
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	objectsEnd := f.Store().EndOffset()
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Corrupt the header's recorded footer offsets so Open is forced into
	// recoverObjects, without touching the objects region itself.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	hdr := decodeHeader(raw[:headerLen])
	hdr.indexOffset = uint64(len(raw)) + 1000
	hdr.refsOffset = uint64(len(raw)) + 1000
	fh, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		t.Fatalf("reopen for corruption: %v", err)
	}
	if _, err := fh.WriteAt(encodeHeader(hdr), 0); err != nil {
		t.Fatalf("write corrupted header: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close corruption handle: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open after footer corruption: %v", err)
	}
	defer reopened.Close()

	if !reopened.Store().Has(h) {
		t.Fatal("expected rescanned object store to recover the object written before corruption")
	}
	if reopened.Store().EndOffset() < objectsEnd {
		t.Fatal("expected recovered end offset to cover the recovered object")
	}
}
