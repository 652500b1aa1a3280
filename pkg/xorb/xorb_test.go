package xorb

import (
	"bytes"
	"errors"
	"testing"

	"github.com/agenthands/xetcas/internal/testkit"
	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
	"github.com/agenthands/xetcas/pkg/transform"
)

// buildXorb serializes the given chunk payloads under scheme.
func buildXorb(t *testing.T, scheme transform.Type, chunks ...[]byte) []byte {
	t.Helper()
	b := NewBuilder()
	for _, c := range chunks {
		if err := b.AddChunk(c); err != nil {
			t.Fatalf("AddChunk: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := b.Serialize(&buf, scheme); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return buf.Bytes()
}

func TestThreeChunkRoundTrip(t *testing.T) {
	data := buildXorb(t, transform.None,
		[]byte("Chunk 0"), []byte("Chunk 1"), []byte("Chunk 2"))

	t.Run("Next", func(t *testing.T) {
		r := NewReader(data)
		for i := 0; i < 3; i++ {
			c, err := r.Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if c == nil {
				t.Fatalf("unexpected EOF at chunk %d", i)
			}
			if c.Index != uint32(i) {
				t.Errorf("chunk index %d, want %d", c.Index, i)
			}
			want := []byte{'C', 'h', 'u', 'n', 'k', ' ', byte('0' + i)}
			if !bytes.Equal(c.Data, want) {
				t.Errorf("chunk %d data %q, want %q", i, c.Data, want)
			}
		}
		c, err := r.Next()
		if err != nil || c != nil {
			t.Fatalf("expected clean EOF, got chunk=%v err=%v", c, err)
		}
	})

	t.Run("GetChunk", func(t *testing.T) {
		r := NewReader(data)
		got, err := r.GetChunk(1)
		if err != nil {
			t.Fatalf("GetChunk: %v", err)
		}
		if !bytes.Equal(got, []byte("Chunk 1")) {
			t.Errorf("GetChunk(1) = %q", got)
		}
	})

	t.Run("ExtractChunkRange", func(t *testing.T) {
		r := NewReader(data)
		got, err := r.ExtractChunkRange(1, 3)
		if err != nil {
			t.Fatalf("ExtractChunkRange: %v", err)
		}
		if !bytes.Equal(got, []byte("Chunk 1Chunk 2")) {
			t.Errorf("ExtractChunkRange(1, 3) = %q", got)
		}
	})
}

func TestRoundTripAllSchemes(t *testing.T) {
	r := testkit.RNG(21)
	chunks := [][]byte{
		testkit.CompressibleBytes(r, 16*1024),
		testkit.RandomBytes(r, 8*1024),
		testkit.CompressibleBytes(r, 64*1024),
		{0xAB},
	}

	for _, scheme := range []transform.Type{
		transform.None, transform.LZ4,
		transform.ByteGrouping4LZ4, transform.FullBitsliceLZ4,
	} {
		t.Run(scheme.String(), func(t *testing.T) {
			data := buildXorb(t, scheme, chunks...)

			reader := NewReader(data)
			for i, want := range chunks {
				c, err := reader.Next()
				if err != nil {
					t.Fatalf("Next %d: %v", i, err)
				}
				if c == nil {
					t.Fatalf("unexpected EOF at chunk %d", i)
				}
				if !bytes.Equal(c.Data, want) {
					t.Fatalf("chunk %d mismatch", i)
				}
			}
		})
	}
}

func TestBuilderHash(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if _, err := NewBuilder().Hash(); !errors.Is(err, core.ErrEmptyXorb) {
			t.Errorf("error = %v, want ErrEmptyXorb", err)
		}
	})

	t.Run("SingleChunkIsLeaf", func(t *testing.T) {
		data := []byte("only chunk")
		b := NewBuilder()
		if err := b.AddChunk(data); err != nil {
			t.Fatal(err)
		}
		h, err := b.Hash()
		if err != nil {
			t.Fatal(err)
		}
		if h != hashing.DataHash(data) {
			t.Error("single-chunk xorb hash must equal the chunk data hash")
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		build := func() hashing.Hash {
			b := NewBuilder()
			for i := 0; i < 10; i++ {
				b.AddChunk(bytes.Repeat([]byte{byte(i)}, 100+i))
			}
			h, err := b.Hash()
			if err != nil {
				t.Fatal(err)
			}
			return h
		}
		if build() != build() {
			t.Error("identical chunks must yield identical xorb hashes")
		}
	})
}

func TestBuilderFull(t *testing.T) {
	b := NewBuilder()
	chunk := make([]byte, core.MaxChunkSize)

	var err error
	added := 0
	for added < core.MaxXorbSize/core.MaxChunkSize+2 {
		if err = b.AddChunk(chunk); err != nil {
			break
		}
		added++
	}
	if !errors.Is(err, ErrFull) {
		t.Fatalf("error = %v, want ErrFull", err)
	}
	if !errors.Is(err, core.ErrTooLarge) {
		t.Fatal("ErrFull must wrap ErrTooLarge")
	}
	// The cap includes header overhead, so the last whole chunk must not fit.
	if added*(HeaderSize+core.MaxChunkSize) > core.MaxXorbSize {
		t.Fatalf("accepted %d chunks, exceeding the xorb cap", added)
	}
}

func TestBuilderRejectsOversizedChunk(t *testing.T) {
	err := NewBuilder().AddChunk(make([]byte, core.MaxChunkFieldSize+1))
	if !errors.Is(err, core.ErrTooLarge) {
		t.Fatalf("error = %v, want ErrTooLarge", err)
	}
}

func TestReaderErrors(t *testing.T) {
	valid := buildXorb(t, transform.None, []byte("Chunk 0"), []byte("Chunk 1"))

	t.Run("TruncatedHeader", func(t *testing.T) {
		if _, err := NewReader(valid[:5]).Next(); !errors.Is(err, core.ErrTruncated) {
			t.Errorf("error = %v, want ErrTruncated", err)
		}
	})

	t.Run("TruncatedPayload", func(t *testing.T) {
		if _, err := NewReader(valid[:HeaderSize+3]).Next(); !errors.Is(err, core.ErrTruncated) {
			t.Errorf("error = %v, want ErrTruncated", err)
		}
	})

	t.Run("UnknownVersion", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[0] = 7
		if _, err := NewReader(bad).Next(); !errors.Is(err, core.ErrUnknownVersion) {
			t.Errorf("error = %v, want ErrUnknownVersion", err)
		}
	})

	t.Run("UnknownCompressionTag", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[4] = 200
		if _, err := NewReader(bad).Next(); !errors.Is(err, core.ErrUnknownCodec) {
			t.Errorf("error = %v, want ErrUnknownCodec", err)
		}
	})

	t.Run("CompressedWithoutUncompressed", func(t *testing.T) {
		var hdr [HeaderSize]byte
		header{version: Version, compressedSize: 3, scheme: transform.None}.encode(hdr[:])
		bad := append(hdr[:], 1, 2, 3)
		if _, err := NewReader(bad).Next(); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("EmptyRange", func(t *testing.T) {
		if _, err := NewReader(valid).ExtractChunkRange(5, 5); !errors.Is(err, core.ErrInvalidRange) {
			t.Errorf("error = %v, want ErrInvalidRange", err)
		}
	})

	t.Run("RangeOutOfBounds", func(t *testing.T) {
		if _, err := NewReader(valid).ExtractChunkRange(1, 3); !errors.Is(err, core.ErrRangeOutOfBounds) {
			t.Errorf("error = %v, want ErrRangeOutOfBounds", err)
		}
	})

	t.Run("ChunkNotFound", func(t *testing.T) {
		if _, err := NewReader(valid).GetChunk(9); !errors.Is(err, core.ErrChunkNotFound) {
			t.Errorf("error = %v, want ErrChunkNotFound", err)
		}
	})
}
