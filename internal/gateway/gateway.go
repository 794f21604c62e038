// Package gateway is the HTTP client for a ledger gateway node. It
// carries transaction header and chunk submission, price lookups and
// paginated GraphQL queries against the gateway's index.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/permavault/permavault/internal/logging"
	"github.com/permavault/permavault/internal/types"
)

const (
	txEndpoint    = "/tx"
	chunkEndpoint = "/chunk"
	priceEndpoint = "/price"

	defaultTimeout = 30 * time.Second

	// maxErrorBodyBytes caps how much of an error response body is read
	// while extracting the gateway error code.
	maxErrorBodyBytes = 4096
)

// Error is a non-2xx gateway reply. Code carries the structured error
// string from the response body when the gateway supplies one.
type Error struct {
	StatusCode int
	Code       string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway responded %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("gateway responded %d", e.StatusCode)
}

// Client talks to one gateway node. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to change the
// transport timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logging.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostTransaction submits a transaction header body to POST /tx. For
// small transactions the body may carry the payload data inline.
func (c *Client) PostTransaction(ctx context.Context, body []byte) error {
	return c.post(ctx, txEndpoint, body)
}

// PostChunk submits one binary chunk body to POST /chunk.
func (c *Client) PostChunk(ctx context.Context, body []byte) error {
	return c.post(ctx, chunkEndpoint, body)
}

func (c *Client) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		gerr := &Error{StatusCode: resp.StatusCode, Code: readErrorCode(resp.Body)}
		c.log.Debug(ctx, "gateway post failed", "path", path, "status", resp.StatusCode, "code", gerr.Code)
		return gerr
	}
	return nil
}

// GetPrice asks the gateway for the current winston price of storing the
// given number of bytes via GET /price/{bytes}.
func (c *Client) GetPrice(ctx context.Context, byteCount types.ByteCount) (types.Winston, error) {
	url := fmt.Sprintf("%s%s/%d", c.baseURL, priceEndpoint, byteCount)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.Winston{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return types.Winston{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Winston{}, &Error{StatusCode: resp.StatusCode, Code: readErrorCode(resp.Body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return types.Winston{}, fmt.Errorf("reading price response: %w", err)
	}
	w, err := types.WinstonFromString(strings.TrimSpace(string(body)))
	if err != nil {
		return types.Winston{}, fmt.Errorf("malformed price response: %w", err)
	}
	return w, nil
}

// readErrorCode extracts the structured error string from a failed
// response body. Gateways answer either {"error": "code"} or a bare text
// code; anything unreadable yields an empty code.
func readErrorCode(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
