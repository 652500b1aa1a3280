package core

import "fmt"

// ChunkRange is a half-open [Start, End) range over chunk indices within a
// xorb.
type ChunkRange struct {
	Start uint32
	End   uint32
}

// Len returns the number of chunks covered by the range.
func (r ChunkRange) Len() uint32 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether r covers the whole of other.
func (r ChunkRange) Contains(other ChunkRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Validate checks that the range is non-empty and well ordered.
func (r ChunkRange) Validate() error {
	if r.Start >= r.End {
		return fmt.Errorf("%w: chunk range [%d, %d)", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// ByteRange is an inclusive [Start, End] byte range, matching the HTTP Range
// header convention used by pre-signed xorb URLs.
type ByteRange struct {
	Start uint64
	End   uint64
}
