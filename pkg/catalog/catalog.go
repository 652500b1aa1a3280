// Package catalog maintains an embedded index over parsed shards: chunk
// hash to xorb location, and file hash to reconstruction entries. It backs
// dedup lookups; the reconstruction path never touches it.
package catalog

import (
	"context"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/fxamacker/cbor/v2"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
	"github.com/agenthands/xetcas/pkg/shard"
)

var (
	// PrefixChunk maps chunk hash -> ChunkLocation.
	PrefixChunk = []byte("ck:")

	// PrefixFile maps file hash -> []shard.FileEntry.
	PrefixFile = []byte("fl:")
)

// Catalog is the embedded KV index.
type Catalog interface {
	// IndexShard walks a parsed shard and indexes every chunk location and
	// file group it carries. Returns the number of records written.
	IndexShard(ctx context.Context, r *shard.Reader) (int, error)

	// LookupChunk returns where a chunk lives, if known. Callers querying
	// a shard built with an HMAC key must transform the hash with
	// hashing.WithKey first.
	LookupChunk(ctx context.Context, chunkHash hashing.Hash) (shard.ChunkLocation, bool, error)

	// LookupFile returns the reconstruction entries for a file hash, if
	// known.
	LookupFile(ctx context.Context, fileHash hashing.Hash) ([]shard.FileEntry, bool, error)

	Close() error
}

type pebbleCatalog struct {
	db *pebble.DB
}

// Open opens a pebble-backed catalog in dir.
func Open(cfg core.CatalogConfig) (Catalog, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: catalog directory not specified", core.ErrInvalidInput)
	}
	db, err := pebble.Open(cfg.Dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db: %w", err)
	}
	return &pebbleCatalog{db: db}, nil
}

func (c *pebbleCatalog) Close() error {
	return c.db.Close()
}

func (c *pebbleCatalog) IndexShard(ctx context.Context, r *shard.Reader) (int, error) {
	locations, err := r.ParseCASInfo()
	if err != nil {
		return 0, err
	}
	files, err := r.ParseFileInfo()
	if err != nil {
		return 0, err
	}

	batch := c.db.NewBatch()
	defer batch.Close()

	written := 0
	for _, loc := range locations {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		val, err := cbor.Marshal(loc)
		if err != nil {
			return 0, fmt.Errorf("failed to encode chunk location: %w", err)
		}
		key := append(append([]byte(nil), PrefixChunk...), loc.ChunkHash[:]...)
		if err := batch.Set(key, val, nil); err != nil {
			return 0, err
		}
		written++
	}

	for _, fi := range files {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		val, err := cbor.Marshal(fi.Entries)
		if err != nil {
			return 0, fmt.Errorf("failed to encode file entries: %w", err)
		}
		key := append(append([]byte(nil), PrefixFile...), fi.FileHash[:]...)
		if err := batch.Set(key, val, nil); err != nil {
			return 0, err
		}
		written++
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, err
	}
	return written, nil
}

func (c *pebbleCatalog) LookupChunk(ctx context.Context, chunkHash hashing.Hash) (shard.ChunkLocation, bool, error) {
	key := append(append([]byte(nil), PrefixChunk...), chunkHash[:]...)
	val, closer, err := c.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return shard.ChunkLocation{}, false, nil
		}
		return shard.ChunkLocation{}, false, err
	}
	defer closer.Close()

	var loc shard.ChunkLocation
	if err := cbor.Unmarshal(val, &loc); err != nil {
		return shard.ChunkLocation{}, false, fmt.Errorf("%w: bad chunk location record: %v", core.ErrCorrupt, err)
	}
	return loc, true, nil
}

func (c *pebbleCatalog) LookupFile(ctx context.Context, fileHash hashing.Hash) ([]shard.FileEntry, bool, error) {
	key := append(append([]byte(nil), PrefixFile...), fileHash[:]...)
	val, closer, err := c.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer closer.Close()

	var entries []shard.FileEntry
	if err := cbor.Unmarshal(val, &entries); err != nil {
		return nil, false, fmt.Errorf("%w: bad file entry record: %v", core.ErrCorrupt, err)
	}
	return entries, true, nil
}
