package shard

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
)

// Builder accumulates file-info and cas-info groups and serializes them
// into a shard. Not safe for concurrent use.
type Builder struct {
	fileInfo []byte
	casInfo  []byte

	// hmacKey masks chunk hashes in CAS entries. All-zero means no keyed
	// protection; hashes are stored as-is.
	hmacKey   [32]byte
	keyExpiry uint64
}

// NewBuilder returns an empty shard builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetHMACKey enables keyed protection of chunk hashes. All chunk hashes in
// subsequently added CAS groups are transformed under key; the key and its
// expiry (unix seconds) are recorded in the footer so readers can match
// queries.
func (b *Builder) SetHMACKey(key [32]byte, expiry uint64) {
	b.hmacKey = key
	b.keyExpiry = expiry
}

// AddFileInfo appends a file group: a FileDataSequenceHeader followed by
// one FileDataSequenceEntry per reconstruction term. Optional verification
// hashes (one per entry) and a SHA256 metadata extension follow when
// provided, with the header flags marking their presence.
func (b *Builder) AddFileInfo(fileHash hashing.Hash, entries []FileEntry, verification []hashing.Hash, sha256 *[32]byte) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: file group needs at least one entry", core.ErrInvalidInput)
	}
	if verification != nil && len(verification) != len(entries) {
		return fmt.Errorf("%w: %d verification hashes for %d entries",
			core.ErrInvalidInput, len(verification), len(entries))
	}

	var flags uint32
	if verification != nil {
		flags |= FlagVerification
	}
	if sha256 != nil {
		flags |= FlagMetadataExt
	}

	var rec [RecordSize]byte
	copy(rec[:32], fileHash[:])
	binary.LittleEndian.PutUint32(rec[32:], flags)
	binary.LittleEndian.PutUint32(rec[36:], uint32(len(entries)))
	b.fileInfo = append(b.fileInfo, rec[:]...)

	for _, e := range entries {
		rec = [RecordSize]byte{}
		e.encode(rec[:])
		b.fileInfo = append(b.fileInfo, rec[:]...)
	}
	for _, v := range verification {
		rec = [RecordSize]byte{}
		copy(rec[:32], v[:])
		b.fileInfo = append(b.fileInfo, rec[:]...)
	}
	if sha256 != nil {
		rec = [RecordSize]byte{}
		copy(rec[:32], sha256[:])
		b.fileInfo = append(b.fileInfo, rec[:]...)
	}
	return nil
}

// AddCASInfo appends a CAS group: a CASChunkSequenceHeader for one xorb
// followed by one CASChunkSequenceEntry per chunk. totalRawBytes is the sum
// of unpacked chunk lengths; serializedSize is the on-wire xorb size.
func (b *Builder) AddCASInfo(xorbHash hashing.Hash, entries []CASEntry, totalRawBytes, serializedSize uint32) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: cas group needs at least one entry", core.ErrInvalidInput)
	}

	var rec [RecordSize]byte
	copy(rec[:32], xorbHash[:])
	binary.LittleEndian.PutUint32(rec[36:], uint32(len(entries)))
	binary.LittleEndian.PutUint32(rec[40:], totalRawBytes)
	binary.LittleEndian.PutUint32(rec[44:], serializedSize)
	b.casInfo = append(b.casInfo, rec[:]...)

	for _, e := range entries {
		e.ChunkHash = hashing.WithKey(e.ChunkHash, b.hmacKey)
		rec = [RecordSize]byte{}
		e.encode(rec[:])
		b.casInfo = append(b.casInfo, rec[:]...)
	}
	return nil
}

// Serialize writes the shard: header, file-info section, bookend, cas-info
// section, bookend, footer. Returns the number of bytes written.
func (b *Builder) Serialize(w io.Writer) (int, error) {
	var hdr [HeaderSize]byte
	copy(hdr[:32], magic[:])
	binary.LittleEndian.PutUint64(hdr[32:], Version)
	binary.LittleEndian.PutUint64(hdr[40:], FooterSize)

	written := 0
	emit := func(p []byte) error {
		n, err := w.Write(p)
		written += n
		return err
	}

	if err := emit(hdr[:]); err != nil {
		return written, err
	}

	fileInfoOffset := uint64(written)
	if err := emit(b.fileInfo); err != nil {
		return written, err
	}
	if err := emit(bookend[:]); err != nil {
		return written, err
	}

	casInfoOffset := uint64(written)
	if err := emit(b.casInfo); err != nil {
		return written, err
	}
	if err := emit(bookend[:]); err != nil {
		return written, err
	}

	footerOffset := uint64(written)
	var footer [FooterSize]byte
	binary.LittleEndian.PutUint64(footer[0:], Version)
	binary.LittleEndian.PutUint64(footer[8:], fileInfoOffset)
	binary.LittleEndian.PutUint64(footer[16:], casInfoOffset)
	// footer[24:72] reserved
	copy(footer[72:104], b.hmacKey[:])
	binary.LittleEndian.PutUint64(footer[104:], uint64(time.Now().Unix()))
	binary.LittleEndian.PutUint64(footer[112:], b.keyExpiry)
	// footer[120:192] reserved
	binary.LittleEndian.PutUint64(footer[192:], footerOffset)

	if err := emit(footer[:]); err != nil {
		return written, err
	}
	return written, nil
}
