package transform

import (
	"bytes"
	"errors"
	"testing"

	"github.com/agenthands/xetcas/internal/testkit"
	"github.com/agenthands/xetcas/pkg/core"
)

var allSchemes = []Type{None, LZ4, ByteGrouping4LZ4, FullBitsliceLZ4}

func TestRoundTrip(t *testing.T) {
	r := testkit.RNG(11)
	inputs := map[string][]byte{
		"empty":        {},
		"single":       {0x42},
		"short":        []byte("hello, xorb"),
		"compressible": testkit.CompressibleBytes(r, 64*1024),
		"random":       testkit.RandomBytes(r, 32*1024),
		"unaligned":    testkit.CompressibleBytes(r, 64*1024-3),
	}

	for name, data := range inputs {
		for _, scheme := range allSchemes {
			t.Run(name+"/"+scheme.String(), func(t *testing.T) {
				compressed, used, err := Compress(data, scheme)
				if err != nil {
					t.Fatalf("Compress: %v", err)
				}
				if !used.Valid() {
					t.Fatalf("invalid scheme tag %d", used)
				}

				back, err := Decompress(compressed, used, len(data))
				if err != nil {
					t.Fatalf("Decompress: %v", err)
				}
				if !bytes.Equal(back, data) {
					t.Fatal("round trip mismatch")
				}
			})
		}
	}
}

func TestIncompressibleFallback(t *testing.T) {
	r := testkit.RNG(12)
	data := testkit.RandomBytes(r, 4096)

	for _, scheme := range []Type{LZ4, ByteGrouping4LZ4, FullBitsliceLZ4} {
		t.Run(scheme.String(), func(t *testing.T) {
			compressed, used, err := Compress(data, scheme)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if used != None {
				t.Fatalf("random data compressed under %s, expected fallback to none", scheme)
			}
			if !bytes.Equal(compressed, data) {
				t.Fatal("fallback must carry a verbatim copy")
			}
		})
	}
}

func TestCompressibleUsesScheme(t *testing.T) {
	r := testkit.RNG(13)
	data := testkit.CompressibleBytes(r, 64*1024)

	compressed, used, err := Compress(data, LZ4)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if used != LZ4 {
		t.Fatalf("scheme = %s, want lz4", used)
	}
	if len(compressed) >= len(data) {
		t.Fatalf("compressed %d bytes from %d, no reduction", len(compressed), len(data))
	}
}

func TestUnknownScheme(t *testing.T) {
	if _, _, err := Compress([]byte("x"), Type(9)); !errors.Is(err, core.ErrUnknownCodec) {
		t.Errorf("Compress error = %v, want ErrUnknownCodec", err)
	}
	if _, err := Decompress([]byte("x"), Type(9), 1); !errors.Is(err, core.ErrUnknownCodec) {
		t.Errorf("Decompress error = %v, want ErrUnknownCodec", err)
	}
}

func TestNoneSizeMismatch(t *testing.T) {
	if _, err := Decompress([]byte("abc"), None, 5); !errors.Is(err, core.ErrSizeMismatch) {
		t.Errorf("error = %v, want ErrSizeMismatch", err)
	}
}

func TestByteGrouping(t *testing.T) {
	t.Run("ReferenceVector", func(t *testing.T) {
		in := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
		want := []byte{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11}
		if got := ApplyByteGrouping(in); !bytes.Equal(got, want) {
			t.Fatalf("ApplyByteGrouping = %v, want %v", got, want)
		}
	})

	t.Run("Inverse", func(t *testing.T) {
		r := testkit.RNG(14)
		for _, n := range []int{0, 1, 2, 3, 4, 5, 7, 8, 1000, 4097} {
			data := testkit.RandomBytes(r, n)
			if !bytes.Equal(ReverseByteGrouping(ApplyByteGrouping(data)), data) {
				t.Fatalf("grouping not invertible for n=%d", n)
			}
		}
	})
}

func TestBitslice(t *testing.T) {
	t.Run("Inverse", func(t *testing.T) {
		r := testkit.RNG(15)
		for _, n := range []int{0, 1, 2, 3, 7, 8, 9, 255, 256, 1000} {
			data := testkit.RandomBytes(r, n)
			if !bytes.Equal(ReverseBitslice(ApplyBitslice(data)), data) {
				t.Fatalf("bitslice not invertible for n=%d", n)
			}
		}
	})

	t.Run("SlicesBitPlanes", func(t *testing.T) {
		// All-0x01 input has every bit-position-0 bit set and nothing
		// else, so the transposed output sets exactly the first eighth of
		// the bit positions.
		n := 8
		data := bytes.Repeat([]byte{0x01}, n)
		out := ApplyBitslice(data)
		want := []byte{0xFF, 0, 0, 0, 0, 0, 0, 0}
		if !bytes.Equal(out, want) {
			t.Fatalf("ApplyBitslice = %v, want %v", out, want)
		}
	})
}
