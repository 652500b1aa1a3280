// Package shard builds and parses the MDB shard format: a fixed-size-record
// metadata index mapping file hashes to (xorb, chunk-range) sequences and
// xorbs to per-chunk descriptors. Every record is exactly 48 bytes; record
// kinds are positional within their section, not tagged.
package shard

import (
	"encoding/binary"

	"github.com/agenthands/xetcas/pkg/hashing"
)

const (
	// HeaderSize is the fixed shard header size.
	HeaderSize = 48

	// FooterSize is the fixed shard footer size.
	FooterSize = 200

	// RecordSize is the size of every section record, bookends included.
	RecordSize = 48

	// Version is written to both the header and the footer.
	Version = 1
)

// magic is the 32-byte tag opening every shard file.
var magic = [32]byte{
	'X', 'E', 'T', '_', 'M', 'D', 'B', '_',
	'S', 'H', 'A', 'R', 'D', 0, 0, 0,
	0x8e, 0x42, 0xd1, 0x66, 0x5f, 0xb1, 0x06, 0xb9,
	0xa7, 0x59, 0xcc, 0x2b, 0x33, 0x0f, 0x91, 0xd4,
}

// bookend terminates each section: a 48-byte record of 0xFF.
var bookend = func() [RecordSize]byte {
	var b [RecordSize]byte
	for i := range b {
		b[i] = 0xFF
	}
	return b
}()

func isBookend(rec []byte) bool {
	for _, v := range rec[:RecordSize] {
		if v != 0xFF {
			return false
		}
	}
	return true
}

// File flags stored in FileDataSequenceHeader.
const (
	// FlagVerification marks a file group carrying one verification entry
	// per data entry.
	FlagVerification uint32 = 1 << 31

	// FlagMetadataExt marks a file group carrying a trailing metadata
	// extension record.
	FlagMetadataExt uint32 = 1 << 30
)

// FileEntry is one FileDataSequenceEntry: a run of chunks inside one xorb
// contributing unpacked bytes to the file.
type FileEntry struct {
	XorbHash      hashing.Hash
	Flags         uint32
	UnpackedBytes uint32
	ChunkStart    uint32
	ChunkEnd      uint32
}

func (e FileEntry) encode(dst []byte) {
	copy(dst[:32], e.XorbHash[:])
	binary.LittleEndian.PutUint32(dst[32:], e.Flags)
	binary.LittleEndian.PutUint32(dst[36:], e.UnpackedBytes)
	binary.LittleEndian.PutUint32(dst[40:], e.ChunkStart)
	binary.LittleEndian.PutUint32(dst[44:], e.ChunkEnd)
}

func decodeFileEntry(src []byte) FileEntry {
	var e FileEntry
	copy(e.XorbHash[:], src[:32])
	e.Flags = binary.LittleEndian.Uint32(src[32:])
	e.UnpackedBytes = binary.LittleEndian.Uint32(src[36:])
	e.ChunkStart = binary.LittleEndian.Uint32(src[40:])
	e.ChunkEnd = binary.LittleEndian.Uint32(src[44:])
	return e
}

// CASEntry is one CASChunkSequenceEntry: a chunk's identity, its byte
// offset inside the serialized xorb, and its unpacked length.
type CASEntry struct {
	ChunkHash     hashing.Hash
	ByteOffset    uint32
	UnpackedBytes uint32
}

func (e CASEntry) encode(dst []byte) {
	copy(dst[:32], e.ChunkHash[:])
	binary.LittleEndian.PutUint32(dst[32:], e.ByteOffset)
	binary.LittleEndian.PutUint32(dst[36:], e.UnpackedBytes)
	// dst[40:48] unused
}

func decodeCASEntry(src []byte) CASEntry {
	var e CASEntry
	copy(e.ChunkHash[:], src[:32])
	e.ByteOffset = binary.LittleEndian.Uint32(src[32:])
	e.UnpackedBytes = binary.LittleEndian.Uint32(src[36:])
	return e
}

// FileInfo is a decoded file group: the file's identity and its ordered
// reconstruction entries, with optional verification range hashes and
// SHA256 metadata.
type FileInfo struct {
	FileHash     hashing.Hash
	Entries      []FileEntry
	Verification []hashing.Hash
	SHA256       *[32]byte
}

// CASInfo is a decoded CAS group: one xorb and its chunk descriptors.
type CASInfo struct {
	XorbHash       hashing.Hash
	Entries        []CASEntry
	TotalRawBytes  uint32
	SerializedSize uint32
}

// ChunkLocation names where a chunk lives: its xorb, the byte offset of its
// header within the serialized xorb, and its unpacked size.
type ChunkLocation struct {
	ChunkHash  hashing.Hash
	XorbHash   hashing.Hash
	ByteOffset uint32
	Size       uint32
}
