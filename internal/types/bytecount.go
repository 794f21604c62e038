// Package types defines the exact-arithmetic value types shared by the
// planning, pricing and upload layers: byte counts, chunk counts and
// ledger-native currency amounts. Currency and byte accounting must be
// exact, so nothing here touches native floating point.
package types

import (
	"errors"
	"strconv"
)

// ChunkByteSize is the fixed chunk granularity the ledger prices
// transactions at: 256 KiB. It is a pricing quantization unit only and
// never frames upload payloads.
const ChunkByteSize = 262144

var (
	ErrNegativeByteCount = errors.New("byte count cannot be negative")
	ErrByteCountOverflow = errors.New("byte count overflow")
)

// ByteCount is a non-negative count of bytes.
type ByteCount int64

// NewByteCount validates v as a byte count.
func NewByteCount(v int64) (ByteCount, error) {
	if v < 0 {
		return 0, ErrNegativeByteCount
	}
	return ByteCount(v), nil
}

// Plus returns b+other, failing instead of silently overflowing.
func (b ByteCount) Plus(other ByteCount) (ByteCount, error) {
	sum := b + other
	if sum < b {
		return 0, ErrByteCountOverflow
	}
	return sum, nil
}

// ChunkCount returns how many 256 KiB chunks are needed to hold b,
// i.e. ceil(b / ChunkByteSize).
func (b ByteCount) ChunkCount() int64 {
	return (int64(b) + ChunkByteSize - 1) / ChunkByteSize
}

func (b ByteCount) String() string {
	return strconv.FormatInt(int64(b), 10)
}
