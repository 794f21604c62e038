// Package config loads runtime configuration for the upload engine.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations can be given either as strings like "20s" or as integer
// nanoseconds:
//
//	{
//	  "gateway_url": "http://127.0.0.1:1984",
//	  "max_bundle_size": 524288000,
//	  "max_data_item_limit": 500,
//	  "max_concurrent_chunks": 32,
//	  "max_errors": 100,
//	  "retry_delay": "20s",
//	  "jitter_fraction": 0.3
//	}
//
// Primary API
//
//   - type Config                     — engine settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
