package core

// Protocol size constants. These are wire-format invariants shared with the
// reference implementation; changing any of them breaks compatibility.
const (
	MinChunkSize    = 8 * 1024
	TargetChunkSize = 64 * 1024
	MaxChunkSize    = 128 * 1024

	// MaxXorbSize bounds the serialized size of a single xorb.
	MaxXorbSize = 64 * 1024 * 1024

	// MaxChunkFieldSize bounds both size fields of a xorb chunk header,
	// which are stored as 24-bit little-endian integers.
	MaxChunkFieldSize = 0xFFFFFF
)
