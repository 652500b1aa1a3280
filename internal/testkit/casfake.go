package testkit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// BlobServer is an httptest server handing out stored blobs with HTTP
// byte-range support, standing in for pre-signed xorb URLs.
type BlobServer struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// FailWith, when non-zero, makes every request answer that status.
	FailWith int

	Server *httptest.Server
}

// NewBlobServer starts a blob server. Callers must Close it.
func NewBlobServer() *BlobServer {
	bs := &BlobServer{blobs: make(map[string][]byte)}
	bs.Server = httptest.NewServer(http.HandlerFunc(bs.handle))
	return bs
}

// Put stores a blob under name and returns its URL.
func (bs *BlobServer) Put(name string, data []byte) string {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.blobs[name] = data
	return bs.Server.URL + "/" + name
}

// Close shuts the server down.
func (bs *BlobServer) Close() {
	bs.Server.Close()
}

func (bs *BlobServer) handle(w http.ResponseWriter, r *http.Request) {
	bs.mu.Lock()
	fail := bs.FailWith
	data, ok := bs.blobs[strings.TrimPrefix(r.URL.Path, "/")]
	bs.mu.Unlock()

	if fail != 0 {
		w.WriteHeader(fail)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if rng := r.Header.Get("Range"); rng != "" {
		start, end, err := parseByteRange(rng, len(data))
		if err != nil {
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		}
		w.Header().Set("Content-Range",
			fmt.Sprintf("bytes %d-%d/%d", start, end, len(data)))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(data[start : end+1])
		return
	}
	w.Write(data)
}

// parseByteRange parses "bytes=a-b" (both ends inclusive).
func parseByteRange(header string, size int) (int, int, error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("bad range header %q", header)
	}
	first, second, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, fmt.Errorf("bad range spec %q", spec)
	}
	start, err := strconv.Atoi(first)
	if err != nil {
		return 0, 0, err
	}
	end, err := strconv.Atoi(second)
	if err != nil {
		return 0, 0, err
	}
	if start < 0 || end < start || end >= size {
		return 0, 0, fmt.Errorf("range %d-%d outside blob of %d bytes", start, end, size)
	}
	return start, end, nil
}
