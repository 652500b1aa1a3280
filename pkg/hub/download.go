package hub

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/agenthands/xetcas/pkg/casclient"
	"github.com/agenthands/xetcas/pkg/core"
	"github.com/agenthands/xetcas/pkg/hashing"
	"github.com/agenthands/xetcas/pkg/reconstruct"
)

// DownloadOptions configures a model file download.
type DownloadOptions struct {
	// Endpoint overrides the Hub API endpoint. Empty means the public Hub.
	Endpoint string

	// HubToken authenticates the token exchange. Empty falls back to the
	// HF_TOKEN environment variable; the core never reads the environment.
	HubToken string

	Fetcher core.FetcherConfig
	Logger  *zap.Logger
}

// DownloadFile reconstructs the file identified by fileHashHex from the
// repository's CAS and streams it to outPath. The file hash comes from the
// Hub's file metadata (the X-Xet-Hash header on a resolve request).
func DownloadFile(ctx context.Context, repoType, repoID, revision, fileHashHex, outPath string, opts DownloadOptions) (int64, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	fileHash, err := hashing.FromHex(fileHashHex)
	if err != nil {
		return 0, err
	}

	hubToken := opts.HubToken
	if hubToken == "" {
		hubToken = os.Getenv("HF_TOKEN")
	}

	tok, err := ReadToken(ctx, http.DefaultClient, opts.Endpoint, repoType, repoID, revision, hubToken)
	if err != nil {
		return 0, fmt.Errorf("token exchange: %w", err)
	}

	client, err := casclient.New(core.ClientConfig{
		Endpoint:    tok.CasURL,
		AccessToken: tok.AccessToken,
		Logger:      opts.Logger,
	})
	if err != nil {
		return 0, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}

	engine := reconstruct.New(client, opts.Fetcher)
	written, err := engine.ReconstructStream(ctx, fileHash, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(outPath)
		return 0, err
	}

	opts.Logger.Info("file reconstructed",
		zap.String("file", fileHashHex),
		zap.String("path", outPath),
		zap.Int64("bytes", written))
	return written, nil
}
