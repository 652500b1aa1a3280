package core

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// ChunkingConfig holds the content-defined chunking parameters. The defaults
// are protocol constants; overriding them breaks deduplication against
// existing xorbs, so only tests should do so.
type ChunkingConfig struct {
	Min    int
	Target int
	Max    int
}

func (c *ChunkingConfig) ApplyDefaults() {
	if c.Min == 0 {
		c.Min = MinChunkSize
	}
	if c.Target == 0 {
		c.Target = TargetChunkSize
	}
	if c.Max == 0 {
		c.Max = MaxChunkSize
	}
}

// FetcherConfig controls the parallel reconstruction fetcher.
type FetcherConfig struct {
	// Workers is the number of concurrent download workers. Zero means
	// runtime.NumCPU().
	Workers int

	// VerifyTerms computes a BLAKE3 data hash over each term's extracted
	// bytes as they are produced.
	VerifyTerms bool

	Logger *zap.Logger
}

func (c *FetcherConfig) ApplyDefaults() {
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// ClientConfig configures the CAS HTTP client shim.
type ClientConfig struct {
	Endpoint    string
	AccessToken string

	// MaxRetryElapsed bounds the total time spent retrying retryable
	// transport errors. Zero disables retries.
	MaxRetryElapsed time.Duration

	Logger *zap.Logger
}

func (c *ClientConfig) ApplyDefaults() {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// CatalogConfig configures the shard catalog.
type CatalogConfig struct {
	Dir string
}
