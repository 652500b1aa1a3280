// Package hashing implements the keyed BLAKE3 hash domains, the API-hex
// encoding, and the variable-branching Merkle aggregation that together
// produce chunk, xorb, and file identities.
package hashing

import (
	"encoding/binary"
	"fmt"

	"github.com/agenthands/xetcas/pkg/core"
)

// Hash is a 32-byte keyed BLAKE3 digest. All identities in the protocol
// (chunk, xorb, file) are this size.
type Hash [32]byte

// HexLen is the length of the API-hex rendering of a Hash.
const HexLen = 64

const hexDigits = "0123456789abcdef"

// Hex renders the hash in API-hex form: the 32 bytes are read as four
// little-endian 64-bit words, each emitted as 16 lowercase hex digits with
// the most significant nibble first. This is the wire identity, and it is
// NOT hex.EncodeToString of the raw bytes.
func (h Hash) Hex() string {
	var out [HexLen]byte
	for w := 0; w < 4; w++ {
		v := binary.LittleEndian.Uint64(h[w*8:])
		for i := 15; i >= 0; i-- {
			out[w*16+i] = hexDigits[v&0xF]
			v >>= 4
		}
	}
	return string(out[:])
}

// String implements fmt.Stringer using the API-hex form.
func (h Hash) String() string { return h.Hex() }

// FromHex parses an API-hex string back into a Hash.
func FromHex(s string) (Hash, error) {
	var h Hash
	if len(s) != HexLen {
		return h, fmt.Errorf("%w: got %d, want %d", core.ErrInvalidHex, len(s), HexLen)
	}
	for w := 0; w < 4; w++ {
		var v uint64
		for i := 0; i < 16; i++ {
			c := s[w*16+i]
			var nib uint64
			switch {
			case c >= '0' && c <= '9':
				nib = uint64(c - '0')
			case c >= 'a' && c <= 'f':
				nib = uint64(c-'a') + 10
			default:
				return Hash{}, fmt.Errorf("%w: bad character %q", core.ErrInvalidInput, c)
			}
			v = v<<4 | nib
		}
		binary.LittleEndian.PutUint64(h[w*8:], v)
	}
	return h, nil
}
