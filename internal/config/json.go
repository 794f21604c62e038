package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/permavault/permavault/internal/flagx"
	"github.com/permavault/permavault/internal/types"
)

// duration lets JSON specify intervals either as strings like "20s" or
// as integer nanoseconds.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	case float64:
		d.Duration = time.Duration(value)
	}
	return nil
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero so partial files overlay cleanly.
type jsonConfig struct {
	GatewayURL          *string   `json:"gateway_url"`
	MaxBundleSize       *int64    `json:"max_bundle_size"`
	MaxDataItemLimit    *int      `json:"max_data_item_limit"`
	MaxConcurrentChunks *int      `json:"max_concurrent_chunks"`
	MaxErrors           *int      `json:"max_errors"`
	RetryDelay          *duration `json:"retry_delay"`
	JitterFraction      *float64  `json:"jitter_fraction"`
}

// parseJson overlays cfg with values loaded from a JSON file selected
// via the -c or -config flags. No flag means no JSON is loaded. Read or
// unmarshal failures panic; configuration is resolved before anything
// else starts, so there is nothing sensible to degrade to.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.GatewayURL != nil {
		cfg.GatewayURL = *jc.GatewayURL
	}
	if jc.MaxBundleSize != nil {
		cfg.MaxBundleSize = types.ByteCount(*jc.MaxBundleSize)
	}
	if jc.MaxDataItemLimit != nil {
		cfg.MaxDataItemLimit = *jc.MaxDataItemLimit
	}
	if jc.MaxConcurrentChunks != nil {
		cfg.MaxConcurrentChunks = *jc.MaxConcurrentChunks
	}
	if jc.MaxErrors != nil {
		cfg.MaxErrors = *jc.MaxErrors
	}
	if jc.RetryDelay != nil {
		cfg.RetryDelay = jc.RetryDelay.Duration
	}
	if jc.JitterFraction != nil {
		cfg.JitterFraction = *jc.JitterFraction
	}
}
