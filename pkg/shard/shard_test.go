package shard

import (
	"bytes"
	"errors"
	"testing"

	"github.com/agenthands/xetcas/internal/testkit"
	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
)

func hashFor(label string) hashing.Hash {
	return hashing.DataHash([]byte(label))
}

func TestRoundTrip(t *testing.T) {
	b := NewBuilder()

	xorbA := hashFor("xorb A")
	xorbB := hashFor("xorb B")

	fileEntries := []FileEntry{
		{XorbHash: xorbA, UnpackedBytes: 4000, ChunkStart: 0, ChunkEnd: 3},
		{XorbHash: xorbB, UnpackedBytes: 1200, ChunkStart: 5, ChunkEnd: 6},
	}
	verification := []hashing.Hash{hashFor("verify 0"), hashFor("verify 1")}
	sha := [32]byte{1, 2, 3, 4}

	if err := b.AddFileInfo(hashFor("file 1"), fileEntries, verification, &sha); err != nil {
		t.Fatalf("AddFileInfo: %v", err)
	}
	// Second file: no verification, no metadata extension.
	if err := b.AddFileInfo(hashFor("file 2"), fileEntries[:1], nil, nil); err != nil {
		t.Fatalf("AddFileInfo: %v", err)
	}

	casEntries := []CASEntry{
		{ChunkHash: hashFor("chunk 0"), ByteOffset: 0, UnpackedBytes: 1500},
		{ChunkHash: hashFor("chunk 1"), ByteOffset: 900, UnpackedBytes: 1300},
		{ChunkHash: hashFor("chunk 2"), ByteOffset: 1700, UnpackedBytes: 1200},
	}
	if err := b.AddCASInfo(xorbA, casEntries, 4000, 2500); err != nil {
		t.Fatalf("AddCASInfo: %v", err)
	}

	var buf bytes.Buffer
	n, err := b.Serialize(&buf)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if n != buf.Len() {
		t.Fatalf("Serialize reported %d bytes, wrote %d", n, buf.Len())
	}

	wantLen := HeaderSize +
		(1+2+2+1)*RecordSize + // file 1: header, 2 entries, 2 verification, sha
		(1+1)*RecordSize + // file 2: header, 1 entry
		RecordSize + // file bookend
		(1+3)*RecordSize + // cas group
		RecordSize + // cas bookend
		FooterSize
	if buf.Len() != wantLen {
		t.Fatalf("shard is %d bytes, want %d", buf.Len(), wantLen)
	}

	r, err := NewReader(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.HMACKey != ([32]byte{}) {
		t.Error("unkeyed shard must carry a zero hmac key")
	}
	if r.CreatedAt == 0 {
		t.Error("footer creation timestamp missing")
	}

	t.Run("FileInfo", func(t *testing.T) {
		files, err := r.ParseFileInfo()
		if err != nil {
			t.Fatalf("ParseFileInfo: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("parsed %d file groups, want 2", len(files))
		}

		f1 := files[0]
		if f1.FileHash != hashFor("file 1") {
			t.Error("file 1 hash mismatch")
		}
		if len(f1.Entries) != 2 || f1.Entries[0] != fileEntries[0] || f1.Entries[1] != fileEntries[1] {
			t.Errorf("file 1 entries = %+v", f1.Entries)
		}
		if len(f1.Verification) != 2 || f1.Verification[0] != verification[0] {
			t.Errorf("file 1 verification = %+v", f1.Verification)
		}
		if f1.SHA256 == nil || *f1.SHA256 != sha {
			t.Error("file 1 sha256 extension missing or wrong")
		}

		f2 := files[1]
		if f2.Verification != nil || f2.SHA256 != nil {
			t.Error("file 2 must carry no optional records")
		}
		if len(f2.Entries) != 1 || f2.Entries[0] != fileEntries[0] {
			t.Errorf("file 2 entries = %+v", f2.Entries)
		}
	})

	t.Run("CASInfo", func(t *testing.T) {
		locs, err := r.ParseCASInfo()
		if err != nil {
			t.Fatalf("ParseCASInfo: %v", err)
		}
		if len(locs) != 3 {
			t.Fatalf("parsed %d chunk locations, want 3", len(locs))
		}
		for i, loc := range locs {
			if loc.XorbHash != xorbA {
				t.Errorf("location %d xorb mismatch", i)
			}
			if loc.ChunkHash != casEntries[i].ChunkHash ||
				loc.ByteOffset != casEntries[i].ByteOffset ||
				loc.Size != casEntries[i].UnpackedBytes {
				t.Errorf("location %d = %+v", i, loc)
			}
		}
	})

	t.Run("CASGroups", func(t *testing.T) {
		groups, err := r.ParseCASGroups()
		if err != nil {
			t.Fatalf("ParseCASGroups: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("parsed %d cas groups, want 1", len(groups))
		}
		g := groups[0]
		if g.XorbHash != xorbA || g.TotalRawBytes != 4000 || g.SerializedSize != 2500 {
			t.Errorf("cas group header = %+v", g)
		}
		if len(g.Entries) != 3 {
			t.Errorf("cas group has %d entries, want 3", len(g.Entries))
		}
	})
}

func TestHMACKeyedChunkHashes(t *testing.T) {
	var key [32]byte
	copy(key[:], testkit.RandomBytes(testkit.RNG(31), 32))

	plain := hashFor("chunk under key")
	entries := []CASEntry{{ChunkHash: plain, UnpackedBytes: 100}}

	b := NewBuilder()
	b.SetHMACKey(key, 1_700_000_000)
	if err := b.AddCASInfo(hashFor("xorb"), entries, 100, 80); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := b.Serialize(&buf); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if r.HMACKey != key {
		t.Error("footer must carry the hmac key")
	}
	if r.KeyExpiry != 1_700_000_000 {
		t.Errorf("key expiry = %d", r.KeyExpiry)
	}

	locs, err := r.ParseCASInfo()
	if err != nil {
		t.Fatal(err)
	}
	if locs[0].ChunkHash == plain {
		t.Error("stored chunk hash must be keyed, not plain")
	}
	if locs[0].ChunkHash != hashing.WithKey(plain, key) {
		t.Error("stored chunk hash must match the keyed transform")
	}
}

func TestEmptyShard(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewBuilder().Serialize(&buf); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	files, err := r.ParseFileInfo()
	if err != nil || files != nil {
		t.Fatalf("ParseFileInfo = %v, %v", files, err)
	}
	locs, err := r.ParseCASInfo()
	if err != nil || locs != nil {
		t.Fatalf("ParseCASInfo = %v, %v", locs, err)
	}
}

func TestBuilderRejectsEmptyGroups(t *testing.T) {
	b := NewBuilder()
	if err := b.AddFileInfo(hashFor("f"), nil, nil, nil); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("AddFileInfo error = %v, want ErrInvalidInput", err)
	}
	if err := b.AddCASInfo(hashFor("x"), nil, 0, 0); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("AddCASInfo error = %v, want ErrInvalidInput", err)
	}
	mismatched := []hashing.Hash{hashFor("v")}
	entries := []FileEntry{{XorbHash: hashFor("x")}, {XorbHash: hashFor("y")}}
	if err := b.AddFileInfo(hashFor("f"), entries, mismatched, nil); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("mismatched verification error = %v, want ErrInvalidInput", err)
	}
}

func TestReaderErrors(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder()
	b.AddCASInfo(hashFor("x"), []CASEntry{{ChunkHash: hashFor("c"), UnpackedBytes: 10}}, 10, 8)
	if _, err := b.Serialize(&buf); err != nil {
		t.Fatal(err)
	}
	valid := buf.Bytes()

	t.Run("Truncated", func(t *testing.T) {
		if _, err := NewReader(valid[:HeaderSize]); !errors.Is(err, core.ErrTruncated) {
			t.Errorf("error = %v, want ErrTruncated", err)
		}
	})

	t.Run("BadMagic", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[0] ^= 0xFF
		if _, err := NewReader(bad); !errors.Is(err, core.ErrCorrupt) {
			t.Errorf("error = %v, want ErrCorrupt", err)
		}
	})

	t.Run("BadHeaderVersion", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[32] = 9
		if _, err := NewReader(bad); !errors.Is(err, core.ErrUnknownVersion) {
			t.Errorf("error = %v, want ErrUnknownVersion", err)
		}
	})

	t.Run("BadFooterVersion", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[len(bad)-FooterSize] = 9
		if _, err := NewReader(bad); !errors.Is(err, core.ErrUnknownVersion) {
			t.Errorf("error = %v, want ErrUnknownVersion", err)
		}
	})

	t.Run("MissingBookend", func(t *testing.T) {
		// Drop one record so the cas section runs into the footer without a
		// bookend; the walk must fail cleanly, not loop.
		bad := append([]byte(nil), valid...)
		casBookendStart := len(bad) - FooterSize - RecordSize
		for i := casBookendStart; i < casBookendStart+RecordSize; i++ {
			bad[i] = 0
		}
		r, err := NewReader(bad)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.ParseCASInfo(); err == nil {
			t.Error("expected an error walking a section without a bookend")
		}
	})
}
