package xorb

import (
	"fmt"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/transform"
)

// Version is the only chunk header version currently defined.
const Version = 0

// HeaderSize is the fixed size of a per-chunk header.
const HeaderSize = 8

// header is the 8-byte record preceding each chunk payload:
//
//	byte 0   version
//	byte 1-3 compressed size, little-endian u24
//	byte 4   compression scheme tag
//	byte 5-7 uncompressed size, little-endian u24
type header struct {
	version          uint8
	compressedSize   uint32
	scheme           transform.Type
	uncompressedSize uint32
}

func (h header) encode(dst []byte) {
	dst[0] = h.version
	dst[1] = byte(h.compressedSize)
	dst[2] = byte(h.compressedSize >> 8)
	dst[3] = byte(h.compressedSize >> 16)
	dst[4] = byte(h.scheme)
	dst[5] = byte(h.uncompressedSize)
	dst[6] = byte(h.uncompressedSize >> 8)
	dst[7] = byte(h.uncompressedSize >> 16)
}

func decodeHeader(src []byte) (header, error) {
	h := header{
		version:          src[0],
		compressedSize:   uint32(src[1]) | uint32(src[2])<<8 | uint32(src[3])<<16,
		scheme:           transform.Type(src[4]),
		uncompressedSize: uint32(src[5]) | uint32(src[6])<<8 | uint32(src[7])<<16,
	}
	if h.version != Version {
		return header{}, fmt.Errorf("%w: xorb chunk header version %d", core.ErrUnknownVersion, h.version)
	}
	if h.uncompressedSize == 0 && h.compressedSize > 0 {
		return header{}, fmt.Errorf("%w: compressed size %d with zero uncompressed size",
			core.ErrInvalidInput, h.compressedSize)
	}
	if !h.scheme.Valid() {
		return header{}, fmt.Errorf("%w: tag %d", core.ErrUnknownCodec, uint8(h.scheme))
	}
	return h, nil
}
