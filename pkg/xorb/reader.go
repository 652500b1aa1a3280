package xorb

import (
	"fmt"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/transform"
)

// Chunk is one decompressed chunk read from a container.
type Chunk struct {
	Data  []byte
	Index uint32
}

// Reader is a positional cursor over serialized xorb bytes. GetChunk and
// ExtractChunkRange always scan from the start and do not disturb the
// cursor of Next.
type Reader struct {
	data []byte
	pos  int
	next uint32
}

// NewReader wraps serialized xorb bytes. The reader does not copy data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Next returns the next decompressed chunk, or nil at end of container.
func (r *Reader) Next() (*Chunk, error) {
	if r.pos == len(r.data) {
		return nil, nil
	}
	if len(r.data)-r.pos < HeaderSize {
		return nil, fmt.Errorf("%w: %d trailing bytes, chunk header needs %d",
			core.ErrTruncated, len(r.data)-r.pos, HeaderSize)
	}

	h, err := decodeHeader(r.data[r.pos:])
	if err != nil {
		return nil, err
	}
	payloadStart := r.pos + HeaderSize
	payloadEnd := payloadStart + int(h.compressedSize)
	if payloadEnd > len(r.data) {
		return nil, fmt.Errorf("%w: chunk %d payload needs %d bytes, %d remain",
			core.ErrTruncated, r.next, h.compressedSize, len(r.data)-payloadStart)
	}

	data, err := transform.Decompress(r.data[payloadStart:payloadEnd], h.scheme, int(h.uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", r.next, err)
	}

	c := &Chunk{Data: data, Index: r.next}
	r.pos = payloadEnd
	r.next++
	return c, nil
}

// GetChunk returns the decompressed bytes of the chunk at index i,
// scanning from the start of the container.
func (r *Reader) GetChunk(i uint32) ([]byte, error) {
	scan := NewReader(r.data)
	for {
		c, err := scan.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: chunk %d of %d", core.ErrChunkNotFound, i, scan.next)
		}
		if c.Index == i {
			return c.Data, nil
		}
	}
}

// ExtractChunkRange concatenates the decompressed bytes of chunks with
// index in the half-open range [start, end).
func (r *Reader) ExtractChunkRange(start, end uint32) ([]byte, error) {
	if start >= end {
		return nil, fmt.Errorf("%w: chunk range [%d, %d)", core.ErrInvalidRange, start, end)
	}

	scan := NewReader(r.data)
	var out []byte
	for {
		c, err := scan.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: range [%d, %d) over %d chunks",
				core.ErrRangeOutOfBounds, start, end, scan.next)
		}
		if c.Index >= start {
			out = append(out, c.Data...)
		}
		if c.Index+1 == end {
			return out, nil
		}
	}
}
