package config

import (
	"time"

	"github.com/permavault/permavault/internal/bundles"
	"github.com/permavault/permavault/internal/types"
	"github.com/permavault/permavault/internal/upload"
)

// Config holds runtime settings for the upload engine.
type Config struct {
	// GatewayURL is the base URL of the ledger gateway node.
	GatewayURL string

	// MaxBundleSize bounds the total byte size of one bundle.
	MaxBundleSize types.ByteCount

	// MaxDataItemLimit bounds the number of data items in one bundle
	// and must be at least 2.
	MaxDataItemLimit int

	// MaxConcurrentChunks caps the chunk upload worker pool.
	MaxConcurrentChunks int

	// MaxErrors is the retryable error budget of one upload.
	MaxErrors int

	// RetryDelay is the base wait before retrying a failed request.
	RetryDelay time.Duration

	// JitterFraction is the maximum random reduction of RetryDelay.
	JitterFraction float64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GatewayURL = "http://127.0.0.1:1984"
	c.MaxBundleSize = bundles.DefaultMaxBundleSize
	c.MaxDataItemLimit = bundles.DefaultMaxDataItemLimit
	c.MaxConcurrentChunks = upload.DefaultMaxConcurrentChunks
	c.MaxErrors = upload.DefaultMaxErrors
	c.RetryDelay = upload.DefaultRetryDelay
	c.JitterFraction = upload.DefaultJitterFraction
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
