// Package chunker splits byte streams into content-defined chunks using a
// Gearhash rolling hash with min/target/max bounds. Boundaries are
// deterministic: identical input bytes always produce identical chunks.
package chunker

import (
	"context"
	"io"
	"sync"

	"github.com/agenthands/xetcas/pkg/core"
)

// boundaryMask selects the top 16 bits of the rolling hash; a zero masked
// value marks a cut point, giving the 64 KiB target chunk size.
const boundaryMask = 0xFFFF_0000_0000_0000

// firstChunkSkip is the warm-up applied to the very first chunk of a
// stream: this many bytes are consumed without updating the rolling hash,
// keeping the first boundary reproducible across implementations.
const firstChunkSkip = core.MinChunkSize - 65

// Boundary is a half-open [Start, End) byte range over the chunked input.
type Boundary struct {
	Start int
	End   int
}

// Chunk is one content-defined chunk of a stream.
type Chunk struct {
	Buf []byte // owned by the chunker; return via ReturnBuffer when done
	N   int
}

// Chunker splits readers and buffers into content-defined chunks. It is
// safe for concurrent use; each Split call carries its own rolling state.
type Chunker struct {
	cfg  core.ChunkingConfig
	pool sync.Pool
}

// New returns a Chunker with the given bounds. Zero fields take the
// protocol defaults.
func New(cfg core.ChunkingConfig) *Chunker {
	cfg.ApplyDefaults()
	return &Chunker{
		cfg: cfg,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]byte, cfg.Max)
			},
		},
	}
}

// ReturnBuffer returns a chunk buffer to the internal pool for reuse.
func (c *Chunker) ReturnBuffer(buf []byte) {
	c.pool.Put(buf)
}

// state is the rolling Gearhash state for one stream.
type state struct {
	cfg      core.ChunkingConfig
	hash     uint64
	chunkLen int
	first    bool
}

func newState(cfg core.ChunkingConfig) *state {
	return &state{cfg: cfg, first: true}
}

// next consumes bytes from data, returning how many were consumed and
// whether a boundary fell at that point. The boundary ends the current
// chunk; rolling state is reset for the next one.
func (s *state) next(data []byte) (int, bool) {
	n := 0

	// First-chunk warm-up: consume without hashing.
	if s.first && s.chunkLen < firstChunkSkip {
		skip := firstChunkSkip - s.chunkLen
		if skip >= len(data) {
			s.chunkLen += len(data)
			return len(data), false
		}
		n = skip
		s.chunkLen += skip
	}

	for n < len(data) {
		s.hash = s.hash<<1 + gearTable[data[n]]
		n++
		s.chunkLen++

		if s.chunkLen >= s.cfg.Max ||
			(s.chunkLen >= s.cfg.Min && s.hash&boundaryMask == 0) {
			s.hash = 0
			s.chunkLen = 0
			s.first = false
			return n, true
		}
	}
	return n, false
}

// SplitBuffer chunks an in-memory buffer and returns the boundaries in
// stream order. The boundaries are contiguous and cover [0, len(data)); the
// final chunk may be shorter than the minimum size.
func (c *Chunker) SplitBuffer(data []byte) []Boundary {
	s := newState(c.cfg)
	var out []Boundary
	start := 0
	for pos := 0; pos < len(data); {
		consumed, cut := s.next(data[pos:])
		pos += consumed
		if cut {
			out = append(out, Boundary{Start: start, End: pos})
			start = pos
		}
	}
	if start < len(data) {
		out = append(out, Boundary{Start: start, End: len(data)})
	}
	return out
}

// Split chunks a reader, delivering chunks in stream order over a channel.
// The error channel yields at most one error after the chunk channel
// closes. Chunk buffers come from an internal pool; callers hand them back
// with ReturnBuffer.
func (c *Chunker) Split(ctx context.Context, r io.Reader) (<-chan Chunk, <-chan error) {
	chunks := make(chan Chunk, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		s := newState(c.cfg)
		readBuf := make([]byte, c.cfg.Max)

		cur := c.pool.Get().([]byte)
		curN := 0

		emit := func() bool {
			select {
			case <-ctx.Done():
				c.pool.Put(cur)
				errs <- ctx.Err()
				return false
			case chunks <- Chunk{Buf: cur, N: curN}:
				cur = c.pool.Get().([]byte)
				curN = 0
				return true
			}
		}

		for {
			if ctx.Err() != nil {
				c.pool.Put(cur)
				errs <- ctx.Err()
				return
			}

			n, readErr := r.Read(readBuf)
			window := readBuf[:n]
			for len(window) > 0 {
				consumed, cut := s.next(window)
				curN += copy(cur[curN:], window[:consumed])
				window = window[consumed:]
				if cut && !emit() {
					return
				}
			}

			if readErr != nil {
				if readErr == io.EOF {
					if curN > 0 {
						if emit() {
							c.pool.Put(cur)
						}
					} else {
						c.pool.Put(cur)
					}
				} else {
					c.pool.Put(cur)
					errs <- readErr
				}
				return
			}
		}
	}()

	return chunks, errs
}
