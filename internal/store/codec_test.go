package store

import "testing"

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	canonical := NewEncoder(KindThought).String("hello world").Bytes()

	frame := EncodeFrame(KindThought, canonical)
	kind, payload, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if kind != KindThought {
		t.Fatalf("expected kind %d, got %d", KindThought, kind)
	}
	if string(payload) != string(canonical) {
		t.Fatalf("payload mismatch: got %q, want %q", payload, canonical)
	}
}

func TestDecodeFrameTruncated(t *testing.T) {
	if _, _, err := DecodeFrame([]byte{1, 2}); err == nil {
		t.Fatal("expected error decoding a truncated frame")
	}
}

func TestDecodeFrameUnknownKind(t *testing.T) {
	frame := EncodeFrame(Kind(99), []byte("x"))
	frame[0] = 99
	if _, _, err := DecodeFrame(frame); err == nil {
		t.Fatal("expected error for unknown kind byte")
	}
}

func TestEncodeFrameCompresses(t *testing.T) {
	canonical := make([]byte, 4096)
	for i := range canonical {
		canonical[i] = 'a'
	}
	frame := EncodeFrame(KindThought, canonical)
	if len(frame) >= len(canonical) {
		t.Fatalf("expected compression of a repetitive payload, got frame len %d >= payload len %d", len(frame), len(canonical))
	}
}
