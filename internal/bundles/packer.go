// Package bundles groups many small data items into size- and
// count-bounded bundle containers so that each ledger transaction carries
// as many items as fit, cutting per-item ledger overhead.
package bundles

import (
	"errors"

	"github.com/google/uuid"
	"github.com/permavault/permavault/internal/types"
)

const (
	// DefaultMaxBundleSize bounds the total byte size of one bundle (500 MiB).
	DefaultMaxBundleSize types.ByteCount = 524_288_000

	// DefaultMaxDataItemLimit bounds the number of data items in one bundle.
	DefaultMaxDataItemLimit = 500
)

var (
	ErrInvalidDataItemLimit = errors.New("max data item limit must be at least 2")
	ErrInvalidBundleSize    = errors.New("max bundle size must be positive")
	ErrPlanExceedsCapacity  = errors.New("data item plan exceeds bundle capacity")
	ErrInvalidPlan          = errors.New("data item plan must carry at least one data item")
)

// DataItemPlan is one packing request. RequestID ties the plan back to
// the upload request that produced it; uuid.Nil marks bare metadata for
// an oversized file whose content bypasses bundling. Such a plan still
// consumes bundle capacity but is not listed among the bundle's
// per-request plans.
type DataItemPlan struct {
	RequestID           uuid.UUID
	ByteCountAsDataItem types.ByteCount
	NumberOfDataItems   int
}

// BundleIndex identifies a planned bundle within a packing session.
// Once returned it stays valid for the session lifetime, so out-of-band
// metadata can be routed to the same bundle as its sibling later on.
type BundleIndex int

// PlannedBundle accumulates data item plans up to its size and item
// capacity. Both invariants hold after every successful add:
// TotalSize ≤ max bundle size and TotalDataItems ≤ max data item limit.
type PlannedBundle struct {
	plans          []DataItemPlan
	totalSize      types.ByteCount
	totalDataItems int
	maxSize        types.ByteCount
	maxDataItems   int
}

func newPlannedBundle(maxSize types.ByteCount, maxDataItems int) *PlannedBundle {
	return &PlannedBundle{maxSize: maxSize, maxDataItems: maxDataItems}
}

func (b *PlannedBundle) TotalSize() types.ByteCount { return b.totalSize }

func (b *PlannedBundle) TotalDataItems() int { return b.totalDataItems }

func (b *PlannedBundle) RemainingSize() types.ByteCount { return b.maxSize - b.totalSize }

func (b *PlannedBundle) RemainingDataItems() int { return b.maxDataItems - b.totalDataItems }

// DataItemPlans returns the plans that belong to an owning request, in
// packing order. Bare metadata plans contribute capacity only and do not
// appear here.
func (b *PlannedBundle) DataItemPlans() []DataItemPlan {
	out := make([]DataItemPlan, 0, len(b.plans))
	for _, p := range b.plans {
		if p.RequestID != uuid.Nil {
			out = append(out, p)
		}
	}
	return out
}

func (b *PlannedBundle) fits(p DataItemPlan) bool {
	return p.ByteCountAsDataItem <= b.RemainingSize() && p.NumberOfDataItems <= b.RemainingDataItems()
}

func (b *PlannedBundle) add(p DataItemPlan) {
	b.plans = append(b.plans, p)
	b.totalSize += p.ByteCountAsDataItem
	b.totalDataItems += p.NumberOfDataItems
}

// Packer assigns data item plans to bundles with deterministic first-fit
// by ascending bundle index. It owns its bundle sequence for the duration
// of one planning session and is not safe for concurrent use; callers
// serialize PackIntoBundle within the session.
type Packer struct {
	maxBundleSize    types.ByteCount
	maxDataItemLimit int
	bundles          []*PlannedBundle
}

// NewPacker validates the capacity configuration. A bundle of fewer than
// two items gives no packing benefit over a standalone transaction, so
// limits below 2 are rejected outright.
func NewPacker(maxBundleSize types.ByteCount, maxDataItemLimit int) (*Packer, error) {
	if maxBundleSize <= 0 {
		return nil, ErrInvalidBundleSize
	}
	if maxDataItemLimit < 2 {
		return nil, ErrInvalidDataItemLimit
	}
	return &Packer{maxBundleSize: maxBundleSize, maxDataItemLimit: maxDataItemLimit}, nil
}

// PackIntoBundle places the plan into the first existing bundle whose
// remaining size and remaining item count both admit it, scanning bundles
// in creation order. When none qualifies a fresh bundle is appended and
// seeded with the plan. The returned index never changes afterward.
func (p *Packer) PackIntoBundle(plan DataItemPlan) (BundleIndex, error) {
	if plan.NumberOfDataItems < 1 || plan.ByteCountAsDataItem < 0 {
		return 0, ErrInvalidPlan
	}
	if plan.ByteCountAsDataItem > p.maxBundleSize || plan.NumberOfDataItems > p.maxDataItemLimit {
		return 0, ErrPlanExceedsCapacity
	}

	for i, b := range p.bundles {
		if b.fits(plan) {
			b.add(plan)
			return BundleIndex(i), nil
		}
	}

	b := newPlannedBundle(p.maxBundleSize, p.maxDataItemLimit)
	b.add(plan)
	p.bundles = append(p.bundles, b)
	return BundleIndex(len(p.bundles) - 1), nil
}

// CanPackDataItemsWithByteCounts reports whether a single fresh bundle
// could hold data items of exactly the given sizes. It checks feasibility
// only and never mutates packer state; a false result is a normal
// planning signal, not an error.
func (p *Packer) CanPackDataItemsWithByteCounts(byteCounts []types.ByteCount) bool {
	if len(byteCounts) > p.maxDataItemLimit {
		return false
	}
	var total types.ByteCount
	for _, bc := range byteCounts {
		sum, err := total.Plus(bc)
		if err != nil {
			return false
		}
		total = sum
	}
	return total <= p.maxBundleSize
}

// Bundles returns the bundle sequence in creation order. The slice is
// shared with the packer; callers treat it as read-only.
func (p *Packer) Bundles() []*PlannedBundle { return p.bundles }

// Bundle returns the bundle at the given index.
func (p *Packer) Bundle(i BundleIndex) (*PlannedBundle, bool) {
	if i < 0 || int(i) >= len(p.bundles) {
		return nil, false
	}
	return p.bundles[int(i)], true
}
