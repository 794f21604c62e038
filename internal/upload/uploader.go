// Package upload posts a signed, chunked transaction payload to a ledger
// gateway: the header first, then the chunks from a bounded pool of
// concurrent workers, with a fatal/retryable error split and a jittered
// single-retry policy per request.
package upload

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/permavault/permavault/internal/logging"
)

const (
	// DefaultMaxConcurrentChunks caps the chunk upload worker pool.
	DefaultMaxConcurrentChunks = 32

	// DefaultMaxErrors is the shared budget of retryable failures across
	// all workers before the upload aborts as unrecoverable.
	DefaultMaxErrors = 100

	// DefaultRetryDelay is the base wait before retrying a failed request.
	DefaultRetryDelay = 20 * time.Second

	// DefaultJitterFraction is the maximum random reduction applied to
	// the retry delay so concurrent workers do not retry in lockstep.
	DefaultJitterFraction = 0.3

	// maxChunksInBody: payloads of at most this many chunks ride inline
	// in the header post, skipping the per-chunk round trips entirely.
	maxChunksInBody = 1
)

// Poster is the remote chunk endpoint: POST /tx for headers and
// POST /chunk for individual chunks.
type Poster interface {
	PostTransaction(ctx context.Context, body []byte) error
	PostChunk(ctx context.Context, body []byte) error
}

// Uploader drives one payload through the two-phase upload protocol.
// It owns its attempt state exclusively: created per payload, mutated
// only during the upload, and discarded afterward. It is not resumable
// across process restarts.
//
// Aborting mid-upload is done by abandoning the Uploader (or cancelling
// the context); an in-flight request may still land on the gateway side.
type Uploader struct {
	poster  Poster
	payload SignedPayload
	log     logging.Logger

	maxConcurrent  int
	maxErrors      int64
	retryDelay     time.Duration
	jitterFraction float64

	headerPosted   atomic.Bool
	nextChunk      atomic.Int64
	uploadedChunks atomic.Int64
	totalErrors    atomic.Int64

	failMu    sync.Mutex
	failedIdx int
	failedErr error
}

type Option func(*Uploader)

func WithMaxConcurrentChunks(n int) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.maxConcurrent = n
		}
	}
}

func WithMaxErrors(n int) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.maxErrors = int64(n)
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(u *Uploader) {
		if d > 0 {
			u.retryDelay = d
		}
	}
}

func WithJitterFraction(f float64) Option {
	return func(u *Uploader) {
		if f >= 0 && f < 1 {
			u.jitterFraction = f
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(u *Uploader) { u.log = l }
}

// New validates the payload preconditions and builds an uploader. The
// payload must already be signed and already chunked; this component does
// neither.
func New(poster Poster, payload SignedPayload, opts ...Option) (*Uploader, error) {
	if payload.ID() == "" {
		return nil, ErrPayloadNotSigned
	}
	if payload.ChunkCount() < 1 {
		return nil, ErrPayloadNotChunked
	}

	u := &Uploader{
		poster:         poster,
		payload:        payload,
		log:            logging.Noop(),
		maxConcurrent:  DefaultMaxConcurrentChunks,
		maxErrors:      DefaultMaxErrors,
		retryDelay:     DefaultRetryDelay,
		jitterFraction: DefaultJitterFraction,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Upload runs the full two-phase protocol: header, then chunks.
func (u *Uploader) Upload(ctx context.Context) error {
	if err := u.PostHeader(ctx); err != nil {
		return err
	}
	return u.UploadChunks(ctx)
}

// PostHeader posts the transaction header. Payloads of a single chunk
// inline their data into the header body and are complete after one
// successful post; larger payloads post an empty-bodied header and upload
// chunks separately. Posting an already-posted header is a no-op.
func (u *Uploader) PostHeader(ctx context.Context) error {
	if u.headerPosted.Load() {
		return nil
	}

	inline := u.payload.ChunkCount() <= maxChunksInBody
	body, err := u.payload.HeaderBody(inline)
	if err != nil {
		return &Error{Phase: PhaseHeader, Fatal: true, Err: err}
	}

	u.log.Debug(ctx, "posting transaction header", "tx", u.payload.ID(), "inline", inline)
	err = retry.Do(ctx, retry.WithMaxRetries(1, u.backoff()), func(ctx context.Context) error {
		return u.classify(ctx, u.poster.PostTransaction(ctx, body))
	})
	if err != nil {
		return &Error{Phase: PhaseHeader, Fatal: IsFatal(err), Err: err}
	}

	u.headerPosted.Store(true)
	if inline {
		u.uploadedChunks.Store(int64(u.payload.ChunkCount()))
	}
	return nil
}

// UploadChunks uploads every remaining chunk from a pool of concurrent
// workers. Each worker atomically claims the next chunk index, posts it,
// and moves on, so every chunk is uploaded exactly once. The header must
// have been posted first.
//
// A fatal gateway error or an exhausted error budget aborts the pool. A
// chunk that merely failed its attempt and its single retry is skipped;
// if any were skipped the call reports the upload incomplete.
func (u *Uploader) UploadChunks(ctx context.Context) error {
	if !u.headerPosted.Load() {
		return ErrHeaderNotPosted
	}
	if u.IsComplete() {
		return nil
	}

	total := u.payload.ChunkCount()
	workers := u.maxConcurrent
	if workers > total {
		workers = total
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				idx := u.nextChunk.Add(1) - 1
				if idx >= int64(total) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := u.uploadChunk(ctx, int(idx)); err != nil {
					return err
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if !u.IsComplete() {
		u.failMu.Lock()
		idx, cause := u.failedIdx, u.failedErr
		u.failMu.Unlock()
		return &Error{Phase: PhaseChunk, ChunkIndex: idx, Err: errors.Join(ErrIncomplete, cause)}
	}
	return nil
}

// uploadChunk posts one chunk under the per-request retry policy: a fatal
// error aborts, a retryable error counts against the shared budget and is
// retried exactly once after a jittered delay, and a second failure is
// recorded but lets the worker move on to the next chunk.
func (u *Uploader) uploadChunk(ctx context.Context, idx int) error {
	body, err := u.payload.ChunkBody(idx)
	if err != nil {
		return &Error{Phase: PhaseChunk, ChunkIndex: idx, Fatal: true, Err: err}
	}

	err = retry.Do(ctx, retry.WithMaxRetries(1, u.backoff()), func(ctx context.Context) error {
		return u.classify(ctx, u.poster.PostChunk(ctx, body))
	})
	if err == nil {
		u.uploadedChunks.Add(1)
		return nil
	}

	if IsFatal(err) {
		u.log.Error(ctx, "fatal chunk error, aborting upload", "tx", u.payload.ID(), "chunk", idx, "err", err)
		return &Error{Phase: PhaseChunk, ChunkIndex: idx, Fatal: true, Err: err}
	}
	if errors.Is(err, ErrTooManyErrors) || errors.Is(err, context.Canceled) {
		return &Error{Phase: PhaseChunk, ChunkIndex: idx, Err: err}
	}

	// Retried once without luck: record the failure and move on.
	u.log.Warn(ctx, "chunk failed after retry, moving on", "tx", u.payload.ID(), "chunk", idx, "err", err)
	u.failMu.Lock()
	u.failedIdx, u.failedErr = idx, err
	u.failMu.Unlock()
	return nil
}

// classify maps a request outcome onto the retry policy: fatal errors and
// an exhausted error budget stop retrying, everything else is retried.
func (u *Uploader) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if IsFatal(err) {
		return err
	}
	if n := u.totalErrors.Add(1); n > u.maxErrors {
		return errors.Join(ErrTooManyErrors, err)
	}
	u.log.Debug(ctx, "retryable upload error", "tx", u.payload.ID(), "err", err)
	return retry.RetryableError(err)
}

// backoff yields the configured delay reduced by up to the jitter
// fraction, so many workers failing at once spread their retries out.
func (u *Uploader) backoff() retry.Backoff {
	return retry.BackoffFunc(func() (time.Duration, bool) {
		reduction := time.Duration(rand.Float64() * u.jitterFraction * float64(u.retryDelay))
		return u.retryDelay - reduction, false
	})
}

// IsComplete holds once the header is posted and every chunk is uploaded.
func (u *Uploader) IsComplete() bool {
	return u.headerPosted.Load() && u.uploadedChunks.Load() == int64(u.payload.ChunkCount())
}

// PctComplete is the truncated integer percentage of uploaded chunks.
// It is for progress reporting only; completion decisions use IsComplete.
func (u *Uploader) PctComplete() int {
	return int(u.uploadedChunks.Load() * 100 / int64(u.payload.ChunkCount()))
}

// UploadedChunks returns how many chunks have been uploaded so far.
func (u *Uploader) UploadedChunks() int {
	return int(u.uploadedChunks.Load())
}

// TotalErrors returns how many retryable failures have been counted
// against the error budget.
func (u *Uploader) TotalErrors() int {
	return int(u.totalErrors.Load())
}
