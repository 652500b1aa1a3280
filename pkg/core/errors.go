package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Wrap at use sites with fmt.Errorf("%w: ...") and check
// with errors.Is.
var (
	// Input validation.
	ErrInvalidInput   = errors.New("xetcas: invalid input")
	ErrInvalidHex     = errors.New("xetcas: invalid hex hash length")
	ErrInvalidRange   = errors.New("xetcas: invalid range")
	ErrTooLarge       = errors.New("xetcas: too large")
	ErrUnknownCodec   = errors.New("xetcas: unknown compression type")
	ErrUnknownVersion = errors.New("xetcas: unsupported version")
	ErrOffsetTooLarge = errors.New("xetcas: offset too large")

	// Structural corruption.
	ErrCorrupt          = errors.New("xetcas: corrupt data")
	ErrTruncated        = errors.New("xetcas: truncated data")
	ErrSizeMismatch     = errors.New("xetcas: size mismatch")
	ErrMissingResult    = errors.New("xetcas: missing result")
	ErrMissingFetchInfo = errors.New("xetcas: missing fetch info")
	ErrNoMatchingFetch  = errors.New("xetcas: no matching fetch info")
	ErrRangeOutOfBounds = errors.New("xetcas: range out of bounds")
	ErrEmptyXorb        = errors.New("xetcas: empty xorb")
	ErrChunkNotFound    = errors.New("xetcas: chunk not found")
	ErrNotFound         = errors.New("xetcas: not found")

	// Compression.
	ErrCompression   = errors.New("xetcas: compression failed")
	ErrDecompression = errors.New("xetcas: decompression failed")
)

// TransportError carries the HTTP status of a failed request against the CAS
// endpoint or a pre-signed xorb URL. Status 0 means the request never
// produced a response (network error).
type TransportError struct {
	Status int
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("xetcas: network error for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("xetcas: http %d for %s", e.Status, e.URL)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether err is a transport error worth retrying. The
// classification is part of the public API: the core never retries, callers
// decide based on this.
func Retryable(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	switch te.Status {
	case 0,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
