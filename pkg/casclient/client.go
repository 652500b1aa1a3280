// Package casclient is the HTTP shim over the CAS reconstruction endpoint.
// It resolves file hashes to reconstruction info and classifies transport
// failures; retry of retryable failures happens here, never in the core.
package casclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
	"github.com/agenthands/xetcas/pkg/reconstruct"
)

// Client resolves reconstruction info against a CAS endpoint. It
// implements reconstruct.Resolver.
type Client struct {
	cfg  core.ClientConfig
	http *http.Client
	log  *zap.Logger
}

// New returns a Client for the configured endpoint and access token.
func New(cfg core.ClientConfig) (*Client, error) {
	cfg.ApplyDefaults()
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: CAS endpoint not specified", core.ErrInvalidInput)
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  cfg.Logger,
	}, nil
}

// Wire DTOs for the reconstruction-info response.
type rangeJSON struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

type termJSON struct {
	Hash           string    `json:"hash"`
	UnpackedLength uint32    `json:"unpacked_length"`
	Range          rangeJSON `json:"range"`
}

type fetchJSON struct {
	Range    rangeJSON `json:"range"`
	URL      string    `json:"url"`
	URLRange rangeJSON `json:"url_range"`
}

type infoJSON struct {
	OffsetIntoFirstRange uint64                 `json:"offset_into_first_range"`
	Terms                []termJSON             `json:"terms"`
	FetchInfo            map[string][]fetchJSON `json:"fetch_info"`
}

// ReconstructionInfo fetches and decodes the reconstruction info for a
// file hash, optionally restricted to an inclusive byte range.
func (c *Client) ReconstructionInfo(ctx context.Context, fileHash hashing.Hash, byteRange *core.ByteRange) (*reconstruct.Info, error) {
	url := strings.TrimSuffix(c.cfg.Endpoint, "/") + "/v1/reconstructions/" + fileHash.Hex()

	var body []byte
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", core.ErrInvalidInput, err))
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
		if byteRange != nil {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", byteRange.Start, byteRange.End))
		}

		c.log.Debug("fetching reconstruction info", zap.Stringer("file", fileHash))

		resp, err := c.http.Do(req)
		if err != nil {
			return &core.TransportError{URL: url, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			terr := &core.TransportError{Status: resp.StatusCode, URL: url}
			if !core.Retryable(terr) {
				return backoff.Permanent(error(terr))
			}
			return terr
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &core.TransportError{URL: url, Err: err}
		}
		return nil
	}

	var err error
	if c.cfg.MaxRetryElapsed > 0 {
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = c.cfg.MaxRetryElapsed
		err = backoff.RetryNotify(attempt, backoff.WithContext(bo, ctx),
			func(err error, next time.Duration) {
				c.log.Warn("retrying reconstruction info",
					zap.Error(err), zap.Duration("backoff", next))
			})
	} else {
		err = attempt()
	}
	if err != nil {
		return nil, unwrapPermanent(err)
	}

	var decoded infoJSON
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: bad reconstruction info: %v", core.ErrCorrupt, err)
	}
	return convertInfo(&decoded)
}

// convertInfo validates the wire DTO and converts it to engine types.
func convertInfo(in *infoJSON) (*reconstruct.Info, error) {
	out := &reconstruct.Info{
		OffsetIntoFirstRange: in.OffsetIntoFirstRange,
		FetchInfo:            make(map[string][]reconstruct.FetchInfo, len(in.FetchInfo)),
	}

	for _, t := range in.Terms {
		h, err := hashing.FromHex(t.Hash)
		if err != nil {
			return nil, err
		}
		out.Terms = append(out.Terms, reconstruct.Term{
			XorbHash:       h,
			UnpackedLength: t.UnpackedLength,
			Range: core.ChunkRange{
				Start: uint32(t.Range.Start),
				End:   uint32(t.Range.End),
			},
		})
	}

	for key, fetches := range in.FetchInfo {
		if _, err := hashing.FromHex(key); err != nil {
			return nil, err
		}
		converted := make([]reconstruct.FetchInfo, len(fetches))
		for i, f := range fetches {
			converted[i] = reconstruct.FetchInfo{
				Range: core.ChunkRange{
					Start: uint32(f.Range.Start),
					End:   uint32(f.Range.End),
				},
				URL:       f.URL,
				ByteRange: core.ByteRange{Start: f.URLRange.Start, End: f.URLRange.End},
			}
		}
		out.FetchInfo[key] = converted
	}
	return out, nil
}

// unwrapPermanent strips the backoff permanent-error wrapper so callers
// see the underlying transport error.
func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
