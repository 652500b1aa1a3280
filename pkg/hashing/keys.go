package hashing

import "github.com/zeebo/blake3"

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain separation
// keeps the same input bytes from colliding across contexts (chunk data vs
// tree nodes vs file identities vs verification).
type domainKey [32]byte

// Protocol domain keys. Fixed constants shared with the reference
// implementation; changing any of them invalidates every existing hash in
// that domain.
var (
	dataKey = domainKey{
		0xa8, 0xf4, 0xb0, 0xd6, 0x91, 0x1b, 0x9f, 0x56,
		0xac, 0x19, 0xa9, 0x89, 0xf6, 0xa9, 0xa5, 0xc9,
		0xd6, 0x7c, 0x35, 0x1b, 0x9b, 0xa3, 0x3f, 0xe2,
		0x4a, 0xcb, 0x2f, 0x5e, 0x01, 0xee, 0x04, 0x13,
	}

	internalNodeKey = domainKey{
		0xec, 0x64, 0x8e, 0x97, 0x77, 0xcf, 0x9f, 0x0d,
		0xcd, 0x8d, 0xbb, 0xbc, 0xc2, 0x40, 0xa2, 0x59,
		0x64, 0x9a, 0xa0, 0x30, 0x3d, 0x5a, 0x03, 0x02,
		0xf6, 0x8a, 0xea, 0x47, 0xe9, 0x48, 0x9b, 0xa9,
	}

	fileKey = domainKey{
		0x75, 0x4c, 0x42, 0x96, 0xc6, 0x92, 0x14, 0xf7,
		0x84, 0xe9, 0xb0, 0xab, 0x9b, 0xb4, 0x0a, 0xfc,
		0x55, 0xb2, 0xdf, 0x5f, 0xbe, 0x69, 0xdc, 0x34,
		0x4a, 0xc7, 0x6c, 0x77, 0x06, 0x6a, 0x6a, 0xcd,
	}

	verificationKey = domainKey{
		0x87, 0x58, 0xd9, 0xf6, 0x56, 0xeb, 0x2e, 0x6b,
		0x38, 0x69, 0x9a, 0xf2, 0x5b, 0xc5, 0x21, 0x50,
		0xea, 0x77, 0x8e, 0x96, 0x4a, 0x99, 0x99, 0x71,
		0x91, 0xda, 0x87, 0x42, 0x1b, 0x06, 0x44, 0xaa,
	}
)

// keyedHash computes the BLAKE3 keyed hash of data under the given key.
func keyedHash(key domainKey, data []byte) Hash {
	h, err := blake3.NewKeyed(key[:])
	if err != nil {
		// NewKeyed fails only on wrong key length, which domainKey rules out.
		panic("hashing: blake3 keyed init: " + err.Error())
	}
	h.Write(data)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// DataHash computes the data-domain hash of a chunk's uncompressed bytes.
// This is the chunk's identity for deduplication and verification.
func DataHash(data []byte) Hash {
	return keyedHash(dataKey, data)
}

// InternalNodeHash computes the internal-node-domain hash of a serialized
// group of Merkle children.
func InternalNodeHash(data []byte) Hash {
	return keyedHash(internalNodeKey, data)
}

// FileHash derives the canonical file identity from a Merkle root.
func FileHash(merkleRoot Hash) Hash {
	return keyedHash(fileKey, merkleRoot[:])
}

// FileHashWithSalt derives a file identity from a Merkle root mixed with a
// caller-provided 32-byte salt. A zero salt yields FileHash exactly.
func FileHashWithSalt(merkleRoot Hash, salt [32]byte) Hash {
	var salted Hash
	for i := range salted {
		salted[i] = merkleRoot[i] ^ salt[i]
	}
	return keyedHash(fileKey, salted[:])
}

// VerificationHash computes the verification-domain hash of a range of
// chunk hashes, used by shard verification entries.
func VerificationHash(data []byte) Hash {
	return keyedHash(verificationKey, data)
}

// WithKey transforms a chunk hash under a 32-byte protection key. An
// all-zero key means no keyed protection and passes the hash through
// unchanged; otherwise the result is the keyed BLAKE3 of the hash bytes.
// Shards use this to mask chunk hashes with an HMAC key.
func WithKey(h Hash, key [32]byte) Hash {
	if key == ([32]byte{}) {
		return h
	}
	return keyedHash(domainKey(key), h[:])
}
