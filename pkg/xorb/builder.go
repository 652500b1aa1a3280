// Package xorb builds and parses the chunk container format: an unframed
// concatenation of (8-byte header, compressed payload) records, capped at
// 64 MiB per container. Chunks are addressed by their sequential index.
package xorb

import (
	"fmt"
	"io"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
	"github.com/agenthands/xetcas/pkg/transform"
)

// ErrFull is returned by AddChunk once the estimated serialized size would
// exceed the xorb cap; the caller should seal this xorb and start another.
var ErrFull = fmt.Errorf("%w: xorb full", core.ErrTooLarge)

// Builder accumulates chunks for one xorb. Not safe for concurrent use.
type Builder struct {
	chunks    [][]byte
	estimated int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddChunk appends a chunk's uncompressed bytes. The builder keeps a
// reference to data, so the caller must not mutate it afterwards.
func (b *Builder) AddChunk(data []byte) error {
	if len(data) > core.MaxChunkFieldSize {
		return fmt.Errorf("%w: chunk of %d bytes exceeds u24", core.ErrTooLarge, len(data))
	}
	if b.estimated+HeaderSize+len(data) > core.MaxXorbSize {
		return ErrFull
	}
	b.chunks = append(b.chunks, data)
	b.estimated += HeaderSize + len(data)
	return nil
}

// NumChunks returns the number of chunks added so far.
func (b *Builder) NumChunks() int { return len(b.chunks) }

// Hash computes the xorb's identity: the Merkle root over the data hashes
// and lengths of its chunks, in order.
func (b *Builder) Hash() (hashing.Hash, error) {
	if len(b.chunks) == 0 {
		return hashing.Hash{}, core.ErrEmptyXorb
	}
	leaves := make([]hashing.MerkleNode, len(b.chunks))
	for i, data := range b.chunks {
		leaves[i] = hashing.MerkleNode{
			Hash: hashing.DataHash(data),
			Size: uint64(len(data)),
		}
	}
	return hashing.BuildTree(leaves), nil
}

// Serialize writes the container to w, compressing each chunk under scheme
// (with per-chunk fallback to verbatim storage when compression does not
// pay). Returns the number of bytes written.
func (b *Builder) Serialize(w io.Writer, scheme transform.Type) (int, error) {
	if len(b.chunks) == 0 {
		return 0, core.ErrEmptyXorb
	}

	var hdr [HeaderSize]byte
	written := 0
	for i, data := range b.chunks {
		compressed, used, err := transform.Compress(data, scheme)
		if err != nil {
			return written, fmt.Errorf("chunk %d: %w", i, err)
		}
		if len(compressed) > core.MaxChunkFieldSize {
			return written, fmt.Errorf("%w: chunk %d compressed to %d bytes",
				core.ErrTooLarge, i, len(compressed))
		}

		header{
			version:          Version,
			compressedSize:   uint32(len(compressed)),
			scheme:           used,
			uncompressedSize: uint32(len(data)),
		}.encode(hdr[:])

		n, err := w.Write(hdr[:])
		written += n
		if err != nil {
			return written, err
		}
		n, err = w.Write(compressed)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
