package pricing

import (
	"context"
	"errors"
	"math"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/permavault/permavault/internal/logging"
	"github.com/permavault/permavault/internal/types"
)

// ErrFlatPriceCurve means the oracle reported the same price for zero
// bytes and one byte, leaving no per-chunk marginal price to divide by.
var ErrFlatPriceCurve = errors.New("oracle price curve has no per-chunk marginal price")

// Estimator caches oracle prices keyed by chunk count. The ledger prices
// transactions at 256 KiB chunk granularity, so byte counts that round to
// the same chunk count share one cached price and one oracle call.
//
// Cache entries never expire within the process lifetime: a price sampled
// once is treated as valid for the rest of the session. Concurrent misses
// on the same key coalesce into a single in-flight oracle query.
type Estimator struct {
	oracle Oracle
	log    logging.Logger

	mu    sync.RWMutex
	cache map[int64]types.Winston
	group singleflight.Group
}

type Option func(*Estimator)

func WithLogger(l logging.Logger) Option {
	return func(e *Estimator) { e.log = l }
}

func NewEstimator(oracle Oracle, opts ...Option) *Estimator {
	e := &Estimator{
		oracle: oracle,
		log:    logging.Noop(),
		cache:  make(map[int64]types.Winston),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetBasePrice returns the winston price of storing byteCount bytes. On a
// cache miss the oracle is queried for the original byte count and the
// result is cached under the chunk-count key. Oracle failures propagate
// to the caller and leave the cache untouched.
func (e *Estimator) GetBasePrice(ctx context.Context, byteCount types.ByteCount) (types.Winston, error) {
	key := byteCount.ChunkCount()

	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := e.group.Do(strconv.FormatInt(key, 10), func() (any, error) {
		// A coalesced caller may have filled the key while this one queued.
		e.mu.RLock()
		cached, ok := e.cache[key]
		e.mu.RUnlock()
		if ok {
			return cached, nil
		}

		price, err := e.oracle.PriceForByteCount(ctx, byteCount)
		if err != nil {
			return nil, err
		}
		e.log.Debug(ctx, "price sampled", "chunks", key, "winston", price.String())

		e.mu.Lock()
		e.cache[key] = price
		e.mu.Unlock()
		return price, nil
	})
	if err != nil {
		return types.Winston{}, err
	}
	return v.(types.Winston), nil
}

// GetByteCountForPrice estimates how many bytes the given amount buys.
//
// It inverts GetBasePrice with a two-sample linear approximation: the
// zero-byte price is the fixed base cost and the one-byte price stands in
// for the one-chunk price, so their difference approximates the marginal
// price per chunk. Amounts below the one-byte price buy nothing; larger
// amounts buy floor((amount − base) / marginal) whole chunks of bytes.
//
// Real network pricing may be super-linear in size, so this is only an
// estimation, suitable for rough capacity planning and nothing stronger.
func (e *Estimator) GetByteCountForPrice(ctx context.Context, amount types.Winston) (types.ByteCount, error) {
	basePrice, err := e.GetBasePrice(ctx, 0)
	if err != nil {
		return 0, err
	}
	oneBytePrice, err := e.GetBasePrice(ctx, 1)
	if err != nil {
		return 0, err
	}

	if amount.Cmp(oneBytePrice) < 0 {
		return 0, nil
	}

	perChunk, err := oneBytePrice.Minus(basePrice)
	if err != nil || perChunk.IsZero() {
		return 0, ErrFlatPriceCurve
	}

	spendable, err := amount.Minus(basePrice)
	if err != nil {
		return 0, err
	}
	chunks, err := spendable.DividedBy(perChunk)
	if err != nil {
		return 0, err
	}
	if chunks > math.MaxInt64/types.ChunkByteSize {
		return 0, types.ErrByteCountOverflow
	}
	return types.ByteCount(chunks * types.ChunkByteSize), nil
}
