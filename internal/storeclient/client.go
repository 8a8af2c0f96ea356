// Package storeclient is the HTTP façade over the message store used by the
// orchestrator and the annotation screens.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/message"
)

// FetchError reports a transport failure or a non-2xx response from the
// store. Callers that hold a cached list keep it untouched when they see one.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: store responded %d", e.Op, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
}

// ListForSession returns every message stored for the session, ordered by
// timestamp ascending.
func (c *Client) ListForSession(ctx context.Context, sessionID string) ([]message.Message, error) {
	q := url.Values{}
	q.Set("sessionID", sessionID)
	q.Set("_sort", "timestamp")
	q.Set("_order", "asc")
	return c.list(ctx, q)
}

// ListUpTo returns the session's messages with timestamp at or below
// maxTimestamp, in stored order.
func (c *Client) ListUpTo(ctx context.Context, sessionID string, maxTimestamp float64) ([]message.Message, error) {
	q := url.Values{}
	q.Set("sessionID", sessionID)
	q.Set("timestamp_lte", strconv.FormatFloat(maxTimestamp, 'f', -1, 64))
	return c.list(ctx, q)
}

func (c *Client) list(ctx context.Context, q url.Values) ([]message.Message, error) {
	var msgs []message.Message
	if err := c.do(ctx, http.MethodGet, "/messages?"+q.Encode(), nil, &msgs, "list messages"); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Create persists a new message; the store assigns its id.
func (c *Client) Create(ctx context.Context, m message.Message) (message.Message, error) {
	var stored message.Message
	if err := c.do(ctx, http.MethodPost, "/messages", m, &stored, "create message"); err != nil {
		return message.Message{}, err
	}
	return stored, nil
}

// Patch merges the given fields into the stored record. Callers re-fetch the
// full list afterward instead of trusting the returned record.
func (c *Client) Patch(ctx context.Context, id int, p message.Patch) (message.Message, error) {
	var updated message.Message
	if err := c.do(ctx, http.MethodPatch, "/messages/"+strconv.Itoa(id), p, &updated, "patch message"); err != nil {
		return message.Message{}, err
	}
	return updated, nil
}

// Remove deletes the message with the given id.
func (c *Client) Remove(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/messages/"+strconv.Itoa(id), nil, nil, "delete message")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, op string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Op: op, StatusCode: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
