package reconstruct

import (
	"context"
	"fmt"
	"io"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
)

// Engine reconstructs files from a CAS through a Resolver. It is safe for
// concurrent use; each reconstruction carries its own fetch state.
type Engine struct {
	resolver Resolver
	cfg      core.FetcherConfig
}

// New returns an Engine over the given resolver.
func New(resolver Resolver, cfg core.FetcherConfig) *Engine {
	cfg.ApplyDefaults()
	return &Engine{resolver: resolver, cfg: cfg}
}

// Reconstruct fetches and assembles the whole file identified by fileHash.
func (e *Engine) Reconstruct(ctx context.Context, fileHash hashing.Hash) ([]byte, error) {
	info, err := e.resolver.ReconstructionInfo(ctx, fileHash, nil)
	if err != nil {
		return nil, err
	}

	var total uint64
	for _, t := range info.Terms {
		total += uint64(t.UnpackedLength)
	}

	results, err := fetchTerms(ctx, info, e.cfg)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, total)
	for _, data := range results {
		out = append(out, data...)
	}
	return out, nil
}

// ReconstructRange fetches the half-open byte range [start, end) of the
// file identified by fileHash.
func (e *Engine) ReconstructRange(ctx context.Context, fileHash hashing.Hash, start, end uint64) ([]byte, error) {
	if start >= end {
		return nil, fmt.Errorf("%w: byte range [%d, %d)", core.ErrInvalidRange, start, end)
	}

	// The resolver takes an inclusive range.
	info, err := e.resolver.ReconstructionInfo(ctx, fileHash, &core.ByteRange{Start: start, End: end - 1})
	if err != nil {
		return nil, err
	}

	results, err := fetchTerms(ctx, info, e.cfg)
	if err != nil {
		return nil, err
	}

	pendingSkip := info.OffsetIntoFirstRange
	remaining := end - start
	out := make([]byte, 0, remaining)

	for _, data := range results {
		if pendingSkip > 0 {
			skip := pendingSkip
			if skip > uint64(len(data)) {
				skip = uint64(len(data))
			}
			data = data[skip:]
			pendingSkip -= skip
		}
		if uint64(len(data)) > remaining {
			data = data[:remaining]
		}
		out = append(out, data...)
		remaining -= uint64(len(data))
		if remaining == 0 {
			break
		}
	}

	if remaining > 0 {
		return nil, fmt.Errorf("%w: terms cover %d of %d requested bytes",
			core.ErrSizeMismatch, (end-start)-remaining, end-start)
	}
	return out, nil
}

// ReconstructStream fetches the whole file and writes it to w in term
// order, without holding the assembled file in one buffer.
func (e *Engine) ReconstructStream(ctx context.Context, fileHash hashing.Hash, w io.Writer) (int64, error) {
	info, err := e.resolver.ReconstructionInfo(ctx, fileHash, nil)
	if err != nil {
		return 0, err
	}

	results, err := fetchTerms(ctx, info, e.cfg)
	if err != nil {
		return 0, err
	}

	var written int64
	for i, data := range results {
		n, err := w.Write(data)
		written += int64(n)
		if err != nil {
			return written, err
		}
		// Release as we go; the slices are owned by this scope.
		results[i] = nil
	}
	return written, nil
}
