package upload

import (
	"errors"
	"fmt"

	"github.com/permavault/permavault/internal/gateway"
)

var (
	ErrHeaderNotPosted = errors.New("transaction header has not been posted yet")
	ErrTooManyErrors   = errors.New("upload exceeded the retryable error budget")
	ErrIncomplete      = errors.New("upload finished with chunks missing")
)

// fatalCodes are gateway error codes a retry can never fix: the request
// is malformed, exceeds protocol limits or carries an invalid inclusion
// proof. Any of them aborts the whole upload immediately.
var fatalCodes = map[string]struct{}{
	"invalid_json":      {},
	"chunk_too_big":     {},
	"data_path_too_big": {},
	"offset_too_big":    {},
	"data_size_too_big": {},
	"invalid_proof":     {},
}

// IsFatal reports whether err is a protocol error that retrying cannot
// help. Everything else, including transport failures and unclassified
// gateway codes, counts as retryable.
func IsFatal(err error) bool {
	var gerr *gateway.Error
	if !errors.As(err, &gerr) {
		return false
	}
	_, ok := fatalCodes[gerr.Code]
	return ok
}

// Phase names the upload step a failure belongs to.
type Phase string

const (
	PhaseHeader Phase = "header"
	PhaseChunk  Phase = "chunk"
)

// Error reports an aborted upload: the phase that failed (with the chunk
// index for chunk failures), whether the cause was fatal, and the
// underlying error. This lets operators tell configuration problems from
// exhausted transient conditions.
type Error struct {
	Phase      Phase
	ChunkIndex int // valid when Phase is PhaseChunk
	Fatal      bool
	Err        error
}

func (e *Error) Error() string {
	if e.Phase == PhaseChunk {
		return fmt.Sprintf("upload chunk %d: %v", e.ChunkIndex, e.Err)
	}
	return fmt.Sprintf("upload header: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
