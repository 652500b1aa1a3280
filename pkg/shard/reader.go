package shard

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
)

// Reader parses a serialized shard. It validates the header and footer at
// construction; section walks are done on demand.
type Reader struct {
	data           []byte
	fileInfoOffset uint64
	casInfoOffset  uint64
	footerOffset   uint64

	// HMACKey is the chunk-hash protection key recorded in the footer.
	// All zero means chunk hashes are stored unkeyed.
	HMACKey [32]byte

	// CreatedAt and KeyExpiry are unix seconds from the footer.
	CreatedAt uint64
	KeyExpiry uint64
}

// NewReader validates the shard framing and returns a Reader over data.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < HeaderSize+FooterSize {
		return nil, fmt.Errorf("%w: shard of %d bytes", core.ErrTruncated, len(data))
	}
	if !bytes.Equal(data[:32], magic[:]) {
		return nil, fmt.Errorf("%w: bad shard magic", core.ErrCorrupt)
	}
	if v := binary.LittleEndian.Uint64(data[32:]); v != Version {
		return nil, fmt.Errorf("%w: shard header version %d", core.ErrUnknownVersion, v)
	}
	footerSize := binary.LittleEndian.Uint64(data[40:])
	if footerSize != FooterSize || footerSize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: footer size %d", core.ErrCorrupt, footerSize)
	}

	footer := data[uint64(len(data))-footerSize:]
	if v := binary.LittleEndian.Uint64(footer[0:]); v != Version {
		return nil, fmt.Errorf("%w: shard footer version %d", core.ErrUnknownVersion, v)
	}

	r := &Reader{
		data:           data,
		fileInfoOffset: binary.LittleEndian.Uint64(footer[8:]),
		casInfoOffset:  binary.LittleEndian.Uint64(footer[16:]),
		footerOffset:   binary.LittleEndian.Uint64(footer[192:]),
	}
	copy(r.HMACKey[:], footer[72:104])
	r.CreatedAt = binary.LittleEndian.Uint64(footer[104:])
	r.KeyExpiry = binary.LittleEndian.Uint64(footer[112:])

	if r.fileInfoOffset > r.casInfoOffset || r.casInfoOffset > r.footerOffset ||
		r.footerOffset != uint64(len(data))-footerSize {
		return nil, fmt.Errorf("%w: shard section offsets out of order", core.ErrCorrupt)
	}
	return r, nil
}

// record returns the 48-byte record at byte offset off.
func (r *Reader) record(off uint64) ([]byte, error) {
	if off+RecordSize > uint64(len(r.data)) {
		return nil, fmt.Errorf("%w: record at offset %d", core.ErrTruncated, off)
	}
	return r.data[off : off+RecordSize], nil
}

// ParseFileInfo walks the file-info section and returns the decoded file
// groups.
func (r *Reader) ParseFileInfo() ([]FileInfo, error) {
	var out []FileInfo
	off := r.fileInfoOffset

	for {
		rec, err := r.record(off)
		if err != nil {
			return nil, err
		}
		off += RecordSize
		if isBookend(rec) {
			return out, nil
		}

		var fi FileInfo
		copy(fi.FileHash[:], rec[:32])
		flags := binary.LittleEndian.Uint32(rec[32:])
		count := binary.LittleEndian.Uint32(rec[36:])
		if count == 0 {
			return nil, fmt.Errorf("%w: empty file group", core.ErrCorrupt)
		}

		for i := uint32(0); i < count; i++ {
			rec, err = r.record(off)
			if err != nil {
				return nil, err
			}
			off += RecordSize
			fi.Entries = append(fi.Entries, decodeFileEntry(rec))
		}

		if flags&FlagVerification != 0 {
			for i := uint32(0); i < count; i++ {
				rec, err = r.record(off)
				if err != nil {
					return nil, err
				}
				off += RecordSize
				var h hashing.Hash
				copy(h[:], rec[:32])
				fi.Verification = append(fi.Verification, h)
			}
		}
		if flags&FlagMetadataExt != 0 {
			rec, err = r.record(off)
			if err != nil {
				return nil, err
			}
			off += RecordSize
			var sha [32]byte
			copy(sha[:], rec[:32])
			fi.SHA256 = &sha
		}

		out = append(out, fi)
	}
}

// ParseCASInfo walks the CAS section, decoding each (header, entries) group
// and emitting one ChunkLocation per chunk.
func (r *Reader) ParseCASInfo() ([]ChunkLocation, error) {
	var out []ChunkLocation
	off := r.casInfoOffset

	for {
		rec, err := r.record(off)
		if err != nil {
			return nil, err
		}
		off += RecordSize
		if isBookend(rec) {
			return out, nil
		}

		var xorbHash hashing.Hash
		copy(xorbHash[:], rec[:32])
		count := binary.LittleEndian.Uint32(rec[36:])
		if count == 0 {
			return nil, fmt.Errorf("%w: empty cas group", core.ErrCorrupt)
		}

		for i := uint32(0); i < count; i++ {
			rec, err = r.record(off)
			if err != nil {
				return nil, err
			}
			off += RecordSize
			e := decodeCASEntry(rec)
			out = append(out, ChunkLocation{
				ChunkHash:  e.ChunkHash,
				XorbHash:   xorbHash,
				ByteOffset: e.ByteOffset,
				Size:       e.UnpackedBytes,
			})
		}
	}
}

// ParseCASGroups walks the CAS section and returns whole groups, keeping
// the per-xorb totals from the group headers.
func (r *Reader) ParseCASGroups() ([]CASInfo, error) {
	var out []CASInfo
	off := r.casInfoOffset

	for {
		rec, err := r.record(off)
		if err != nil {
			return nil, err
		}
		off += RecordSize
		if isBookend(rec) {
			return out, nil
		}

		var ci CASInfo
		copy(ci.XorbHash[:], rec[:32])
		count := binary.LittleEndian.Uint32(rec[36:])
		ci.TotalRawBytes = binary.LittleEndian.Uint32(rec[40:])
		ci.SerializedSize = binary.LittleEndian.Uint32(rec[44:])
		if count == 0 {
			return nil, fmt.Errorf("%w: empty cas group", core.ErrCorrupt)
		}

		for i := uint32(0); i < count; i++ {
			rec, err = r.record(off)
			if err != nil {
				return nil, err
			}
			off += RecordSize
			ci.Entries = append(ci.Entries, decodeCASEntry(rec))
		}
		out = append(out, ci)
	}
}
