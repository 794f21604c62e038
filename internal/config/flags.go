package config

import (
	"flag"
	"os"
	"time"

	"github.com/permavault/permavault/internal/flagx"
	"github.com/permavault/permavault/internal/types"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-g string   base URL of the ledger gateway node
//	-b int      max bundle size in bytes
//	-l int      max data items per bundle
//	-w int      max concurrent chunk uploads
//	-e int      retryable error budget per upload
//	-r int      retry delay in seconds
//	-j float    jitter fraction applied to the retry delay
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-g", "-b", "-l", "-w", "-e", "-r", "-j"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.GatewayURL, "g", cfg.GatewayURL, "base URL of the ledger gateway node")
	maxBundleSize := fs.Int64("b", int64(cfg.MaxBundleSize), "max bundle size in bytes")
	fs.IntVar(&cfg.MaxDataItemLimit, "l", cfg.MaxDataItemLimit, "max data items per bundle")
	fs.IntVar(&cfg.MaxConcurrentChunks, "w", cfg.MaxConcurrentChunks, "max concurrent chunk uploads")
	fs.IntVar(&cfg.MaxErrors, "e", cfg.MaxErrors, "retryable error budget per upload")
	retryDelay := fs.Int("r", int(cfg.RetryDelay.Seconds()), "retry delay (in seconds)")
	fs.Float64Var(&cfg.JitterFraction, "j", cfg.JitterFraction, "jitter fraction applied to the retry delay")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.MaxBundleSize = types.ByteCount(*maxBundleSize)
	cfg.RetryDelay = time.Duration(*retryDelay) * time.Second
}
