// Package transform implements the chunk compression schemes of the xorb
// container: identity, LZ4 frame, byte-grouped-4 LZ4 for float32 tensor
// data, and full-bitslice LZ4. Scheme tags are stored in xorb chunk headers
// and are protocol constants.
package transform

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/agenthands/xetcas/pkg/core"
)

// Type identifies a compression scheme. The numeric values are wire
// constants (one byte in every xorb chunk header).
type Type uint8

const (
	// None stores chunk bytes verbatim.
	None Type = 0

	// LZ4 applies LZ4 frame compression.
	LZ4 Type = 1

	// ByteGrouping4LZ4 regroups bytes by position within 4-byte words
	// before LZ4. Effective for float32 tensors, where neighboring values
	// share exponent bytes.
	ByteGrouping4LZ4 Type = 2

	// FullBitsliceLZ4 transposes the chunk at bit granularity before LZ4.
	FullBitsliceLZ4 Type = 3
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ByteGrouping4LZ4:
		return "bg4-lz4"
	case FullBitsliceLZ4:
		return "bitslice-lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Valid reports whether t is a known scheme tag.
func (t Type) Valid() bool { return t <= FullBitsliceLZ4 }

// Compress encodes data under the requested scheme. If the encoded form is
// not smaller than the input, the result falls back to None carrying a
// verbatim copy; the returned Type is the one actually used and is what
// belongs in the chunk header.
func Compress(data []byte, scheme Type) ([]byte, Type, error) {
	var encoded []byte
	var err error

	switch scheme {
	case None:
		return append([]byte(nil), data...), None, nil
	case LZ4:
		encoded, err = lz4Compress(data)
	case ByteGrouping4LZ4:
		encoded, err = lz4Compress(ApplyByteGrouping(data))
	case FullBitsliceLZ4:
		encoded, err = lz4Compress(ApplyBitslice(data))
	default:
		return nil, 0, fmt.Errorf("%w: tag %d", core.ErrUnknownCodec, scheme)
	}
	if err != nil {
		return nil, 0, err
	}

	if len(encoded) >= len(data) {
		return append([]byte(nil), data...), None, nil
	}
	return encoded, scheme, nil
}

// Decompress decodes compressed bytes produced under scheme back into
// exactly uncompressedSize bytes. Any size disagreement is an error.
func Decompress(compressed []byte, scheme Type, uncompressedSize int) ([]byte, error) {
	switch scheme {
	case None:
		if len(compressed) != uncompressedSize {
			return nil, fmt.Errorf("%w: stored %d bytes, header says %d",
				core.ErrSizeMismatch, len(compressed), uncompressedSize)
		}
		return append([]byte(nil), compressed...), nil

	case LZ4:
		return lz4Decompress(compressed, uncompressedSize)

	case ByteGrouping4LZ4:
		grouped, err := lz4Decompress(compressed, uncompressedSize)
		if err != nil {
			return nil, err
		}
		return ReverseByteGrouping(grouped), nil

	case FullBitsliceLZ4:
		sliced, err := lz4Decompress(compressed, uncompressedSize)
		if err != nil {
			return nil, err
		}
		return ReverseBitslice(sliced), nil

	default:
		return nil, fmt.Errorf("%w: tag %d", core.ErrUnknownCodec, scheme)
	}
}

func lz4Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCompression, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCompression, err)
	}
	return buf.Bytes(), nil
}

func lz4Decompress(compressed []byte, uncompressedSize int) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(compressed))
	out := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDecompression, err)
	}
	// The frame must contain exactly uncompressedSize bytes.
	var tail [1]byte
	if n, _ := r.Read(tail[:]); n != 0 {
		return nil, fmt.Errorf("%w: frame longer than declared size %d",
			core.ErrSizeMismatch, uncompressedSize)
	}
	return out, nil
}
