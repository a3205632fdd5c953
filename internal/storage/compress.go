package storage

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Payload blobs are stored zstd-compressed.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

func compress(b []byte) []byte {
	if b == nil {
		return nil
	}
	return encoder.EncodeAll(b, make([]byte, 0, len(b)/8))
}

func decompress(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, nil
	}
	out, err := decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}
