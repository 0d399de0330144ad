package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// frame layout: [1-byte kind][4-byte uncompressed length LE][zstd payload]
const frameHeaderLen = 1 + 4

var (
	encoderOnce sync.Once
	sharedEnc   *zstd.Encoder
	decoderOnce sync.Once
	sharedDec   *zstd.Decoder
)

func encoder() *zstd.Encoder {
	encoderOnce.Do(func() {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("indra: init zstd encoder: %v", err))
		}
		sharedEnc = enc
	})
	return sharedEnc
}

func decoder() *zstd.Decoder {
	decoderOnce.Do(func() {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			panic(fmt.Sprintf("indra: init zstd decoder: %v", err))
		}
		sharedDec = dec
	})
	return sharedDec
}

// EncodeFrame compresses a canonical object payload (its first byte already
// carries the Kind tag) into the on-disk frame format.
func EncodeFrame(kind Kind, canonical []byte) []byte {
	compressed := encoder().EncodeAll(canonical, nil)
	frame := make([]byte, frameHeaderLen+len(compressed))
	frame[0] = byte(kind)
	binary.LittleEndian.PutUint32(frame[1:5], uint32(len(canonical)))
	copy(frame[frameHeaderLen:], compressed)
	return frame
}

// DecodeFrame is the inverse of EncodeFrame. It returns the object's Kind
// and its canonical payload bytes (kind tag included, matching what was
// passed to EncodeFrame).
func DecodeFrame(frame []byte) (Kind, []byte, error) {
	if len(frame) < frameHeaderLen {
		return 0, nil, fmt.Errorf("decode frame: truncated header: %w", ErrCorrupt)
	}
	kind := Kind(frame[0])
	switch kind {
	case KindThought, KindEdge, KindTrieNode, KindCommit, KindSnapshot:
	default:
		return 0, nil, fmt.Errorf("decode frame: unknown kind %d: %w", kind, ErrCorrupt)
	}
	uncompressedLen := binary.LittleEndian.Uint32(frame[1:5])
	payload, err := decoder().DecodeAll(frame[frameHeaderLen:], make([]byte, 0, uncompressedLen))
	if err != nil {
		return 0, nil, fmt.Errorf("decode frame: decompress: %w: %v", ErrCorrupt, err)
	}
	if uint32(len(payload)) != uncompressedLen {
		return 0, nil, fmt.Errorf("decode frame: length mismatch: %w", ErrCorrupt)
	}
	return kind, payload, nil
}
