// Package annotate holds the view-state logic behind the two operator
// screens: the prompter, which drives request/response/rating for a live
// replay, and the coder, which reviews stored messages for a session.
package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/orchestrator"
)

// DiscoveryError reports a failed session listing. Callers degrade to an
// empty selection with no default session.
type DiscoveryError struct {
	StatusCode int
	Err        error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("list sessions: %v", e.Err)
	}
	return fmt.Sprintf("list sessions: server responded %d", e.StatusCode)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// APIClient talks to the orchestration server.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
}

// ListSessions returns the session identifiers the server discovered in its
// media directory.
func (c *APIClient) ListSessions(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/list-media-mp4-basenames", nil)
	if err != nil {
		return nil, &DiscoveryError{Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &DiscoveryError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DiscoveryError{StatusCode: resp.StatusCode}
	}

	var body struct {
		Basenames []string `json:"basenames"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &DiscoveryError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return body.Basenames, nil
}

// Generate requests a simulated assistant message for the current playback
// moment.
func (c *APIClient) Generate(ctx context.Context, genReq orchestrator.Request) (*orchestrator.Response, error) {
	encoded, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-llm-response", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("generate response: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("generate response: server responded %d", resp.StatusCode)
	}

	var out orchestrator.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
