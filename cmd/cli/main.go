// Command cli prices a set of byte counts against the configured gateway
// and reports whether they would fit into a single bundle.
//
// Usage:
//
//	cli [flags] BYTECOUNT...
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/permavault/permavault/internal/bundles"
	"github.com/permavault/permavault/internal/config"
	"github.com/permavault/permavault/internal/gateway"
	"github.com/permavault/permavault/internal/logging"
	"github.com/permavault/permavault/internal/pricing"
	"github.com/permavault/permavault/internal/types"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	client := gateway.NewClient(cfg.GatewayURL, gateway.WithLogger(logger))
	estimator := pricing.NewEstimator(pricing.NewGatewayOracle(client), pricing.WithLogger(logger))

	packer, err := bundles.NewPacker(cfg.MaxBundleSize, cfg.MaxDataItemLimit)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var sizes []types.ByteCount
	var total types.Winston
	for _, arg := range positionalArgs(os.Args[1:]) {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			log.Fatalf("not a byte count: %q", arg)
		}
		bc, err := types.NewByteCount(v)
		if err != nil {
			log.Fatalf("%q: %v", arg, err)
		}
		sizes = append(sizes, bc)

		price, err := estimator.GetBasePrice(ctx, bc)
		if err != nil {
			log.Fatalf("pricing %d bytes: %v", bc, err)
		}
		total = total.Plus(price)
		fmt.Printf("%12d bytes  %s winston (%s AR)\n", bc, price, price.AR())
	}

	if len(sizes) == 0 {
		fmt.Println("nothing to price; pass byte counts as arguments")
		return
	}

	fmt.Printf("total: %s winston (%s AR)\n", total, total.AR())
	fmt.Printf("fits one bundle: %v\n", packer.CanPackDataItemsWithByteCounts(sizes))
}

// positionalArgs strips flags (and their values) handled by the config
// package, leaving the byte count arguments.
func positionalArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if !strings.Contains(args[i], "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, args[i])
	}
	return out
}
