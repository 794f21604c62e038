package upload

import "errors"

var (
	ErrPayloadNotSigned  = errors.New("payload has no transaction id; sign it before uploading")
	ErrPayloadNotChunked = errors.New("payload has no chunks; prepare chunks before uploading")
)

// SignedPayload is a transaction that was signed and partitioned into
// chunks by an external component; the uploader never signs or chunks
// data itself. The payload is borrowed for the duration of one upload and
// must not be mutated while the upload is in flight.
type SignedPayload interface {
	// ID returns the transaction identifier assigned at signing time.
	// An empty id means the payload is unsigned.
	ID() string

	// ChunkCount returns how many chunks the payload was split into.
	ChunkCount() int

	// HeaderBody returns the JSON body for the header post. With inline
	// set, the body carries the full payload data so small transactions
	// complete in a single round trip.
	HeaderBody(inline bool) ([]byte, error)

	// ChunkBody returns the JSON body for the chunk at the given index,
	// including its inclusion proof.
	ChunkBody(index int) ([]byte, error)
}
