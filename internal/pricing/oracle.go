// Package pricing converts byte counts into ledger-native winston prices
// through an external oracle, caching results at chunk-count resolution,
// and performs the inverse estimation.
package pricing

import (
	"context"

	"github.com/permavault/permavault/internal/gateway"
	"github.com/permavault/permavault/internal/types"
)

// Oracle is the external source of byte-to-price conversion data.
type Oracle interface {
	// PriceForByteCount returns the current winston price of storing
	// byteCount bytes. It may fail with a network error.
	PriceForByteCount(ctx context.Context, byteCount types.ByteCount) (types.Winston, error)
}

// GatewayOracle asks a gateway node for prices.
type GatewayOracle struct {
	client *gateway.Client
}

func NewGatewayOracle(client *gateway.Client) *GatewayOracle {
	return &GatewayOracle{client: client}
}

func (o *GatewayOracle) PriceForByteCount(ctx context.Context, byteCount types.ByteCount) (types.Winston, error) {
	return o.client.GetPrice(ctx, byteCount)
}
