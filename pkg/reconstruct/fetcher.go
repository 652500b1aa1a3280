package reconstruct

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
	"github.com/agenthands/xetcas/pkg/xorb"
)

// workItem is one term's worth of download work. The fetch-info list is
// resolved up front so a missing entry fails before any worker starts.
type workItem struct {
	term    Term
	fetches []FetchInfo
	index   int
}

// fetcher runs the worker pool for one reconstruction. Shared state is the
// work stack, the result slots, and the first-error slot, all behind one
// mutex; everything else is worker-local.
type fetcher struct {
	cfg core.FetcherConfig

	mu      sync.Mutex
	queue   []workItem
	results [][]byte
	errored bool
	err     error
}

// fetchTerms downloads and extracts every term, returning the per-term
// byte slices indexed by term position. On error all partial results are
// released and only the first error observed is returned.
func fetchTerms(ctx context.Context, info *Info, cfg core.FetcherConfig) ([][]byte, error) {
	cfg.ApplyDefaults()

	items := make([]workItem, len(info.Terms))
	for i, term := range info.Terms {
		fetches, ok := info.FetchInfo[term.XorbHash.Hex()]
		if !ok || len(fetches) == 0 {
			return nil, fmt.Errorf("%w: xorb %s", core.ErrMissingFetchInfo, term.XorbHash)
		}
		items[i] = workItem{term: term, fetches: fetches, index: i}
	}

	f := &fetcher{
		cfg:     cfg,
		queue:   items,
		results: make([][]byte, len(items)),
	}

	workers := cfg.Workers
	if workers > len(items) {
		workers = len(items)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each worker owns its HTTP client: isolated connection
			// pool, no shared transport state.
			client := &http.Client{}
			f.run(ctx, client)
		}()
	}
	wg.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errored {
		for i := range f.results {
			f.results[i] = nil
		}
		return nil, f.err
	}
	for i, res := range f.results {
		if res == nil && info.Terms[i].UnpackedLength > 0 {
			return nil, fmt.Errorf("%w: term %d", core.ErrMissingResult, i)
		}
	}
	return f.results, nil
}

// run processes items until the queue drains or a fatal error is flagged.
func (f *fetcher) run(ctx context.Context, client *http.Client) {
	for {
		f.mu.Lock()
		if f.errored || len(f.queue) == 0 {
			f.mu.Unlock()
			return
		}
		item := f.queue[len(f.queue)-1]
		f.queue = f.queue[:len(f.queue)-1]
		f.mu.Unlock()

		data, err := f.processTerm(ctx, client, item)

		f.mu.Lock()
		if err != nil {
			if !f.errored {
				f.errored = true
				f.err = err
			}
			f.mu.Unlock()
			return
		}
		f.results[item.index] = data
		f.mu.Unlock()
	}
}

// processTerm resolves the covering fetch hint, downloads the xorb byte
// range, and extracts the term's chunk range.
func (f *fetcher) processTerm(ctx context.Context, client *http.Client, item workItem) ([]byte, error) {
	term := item.term
	if err := term.Range.Validate(); err != nil {
		return nil, err
	}

	var fetch *FetchInfo
	for i := range item.fetches {
		if item.fetches[i].Range.Contains(term.Range) {
			fetch = &item.fetches[i]
			break
		}
	}
	if fetch == nil {
		return nil, fmt.Errorf("%w: xorb %s chunks [%d, %d)",
			core.ErrNoMatchingFetch, term.XorbHash, term.Range.Start, term.Range.End)
	}

	body, err := fetchByteRange(ctx, client, fetch.URL, fetch.ByteRange)
	if err != nil {
		return nil, err
	}

	localStart := term.Range.Start - fetch.Range.Start
	localEnd := term.Range.End - fetch.Range.Start
	data, err := xorb.NewReader(body).ExtractChunkRange(localStart, localEnd)
	if err != nil {
		return nil, fmt.Errorf("xorb %s: %w", term.XorbHash, err)
	}

	if uint32(len(data)) != term.UnpackedLength {
		return nil, fmt.Errorf("%w: term %d extracted %d bytes, expected %d",
			core.ErrSizeMismatch, item.index, len(data), term.UnpackedLength)
	}

	if f.cfg.VerifyTerms {
		f.cfg.Logger.Debug("term verified",
			zap.Int("term", item.index),
			zap.Stringer("xorb", term.XorbHash),
			zap.Stringer("hash", hashing.DataHash(data)))
	}
	return data, nil
}

// fetchByteRange issues a ranged GET against a pre-signed xorb URL. The
// byte range is inclusive on both ends, per the HTTP Range convention.
func fetchByteRange(ctx context.Context, client *http.Client, url string, br core.ByteRange) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", br.Start, br.End))

	resp, err := client.Do(req)
	if err != nil {
		return nil, &core.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		io.Copy(io.Discard, resp.Body)
		return nil, &core.TransportError{Status: resp.StatusCode, URL: url}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.TransportError{URL: url, Err: err}
	}
	return body, nil
}
