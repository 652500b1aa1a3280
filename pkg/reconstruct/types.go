// Package reconstruct turns reconstruction terms into file bytes: it
// schedules one work item per term across a worker pool, fetches the
// covering xorb byte ranges over HTTP, extracts and decompresses the
// requested chunk ranges, and assembles the output in strict term order.
package reconstruct

import (
	"context"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
)

// Term is one (xorb, chunk range) slice contributing a run of bytes to the
// reconstructed file.
type Term struct {
	XorbHash       hashing.Hash
	UnpackedLength uint32
	Range          core.ChunkRange
}

// FetchInfo is a pre-signed URL plus HTTP byte range that yields a xorb
// slice known to cover Range. Range must be a superset of any term range it
// serves.
type FetchInfo struct {
	Range     core.ChunkRange
	URL       string
	ByteRange core.ByteRange
}

// Info is the resolver response for one file (or file byte range): the
// ordered terms and, per xorb (keyed by API-hex hash), the fetch hints.
type Info struct {
	// OffsetIntoFirstRange is the number of bytes to drop from the head
	// of the first term's extracted data when reconstructing a byte
	// range.
	OffsetIntoFirstRange uint64

	Terms     []Term
	FetchInfo map[string][]FetchInfo
}

// Resolver resolves a file hash (and optional inclusive byte range) to
// reconstruction info. The CAS HTTP client implements this; tests supply
// fakes.
type Resolver interface {
	ReconstructionInfo(ctx context.Context, fileHash hashing.Hash, byteRange *core.ByteRange) (*Info, error)
}
