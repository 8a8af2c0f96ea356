// Package orchestrator assembles the multimodal prompt for a simulated
// assistant message and extracts the structured reply.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/imaging"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/message"
)

// Completer produces the raw JSON reply for a two-turn multimodal prompt.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userText, imageDataURL string) (string, error)
}

// MessageLister fetches a session's stored messages up to a playback moment.
type MessageLister interface {
	ListUpTo(ctx context.Context, sessionID string, maxTimestamp float64) ([]message.Message, error)
}

// Request is one generation request for the current playback moment.
// MaxTimestamp and IncludePrevMessages are pointers so a missing field can be
// told apart from a zero; absence of IncludePrevMessages means true.
type Request struct {
	SessionID           string   `json:"sessionID"`
	MaxTimestamp        *float64 `json:"maxTimestamp"`
	SystemPrompt        string   `json:"systemPrompt"`
	Screenshot          string   `json:"screenshot"`
	Transcript          string   `json:"transcript"`
	IncludePrevMessages *bool    `json:"includePrevMessages"`
}

func (r *Request) includePrev() bool {
	return r.IncludePrevMessages == nil || *r.IncludePrevMessages
}

// Validate checks fields in a fixed order and fails fast on the first
// missing one. No external call is made before validation passes.
func (r *Request) Validate() error {
	if r.SessionID == "" {
		return &ValidationError{Msg: "Invalid or missing session ID."}
	}
	if r.MaxTimestamp == nil {
		return &ValidationError{Msg: "Invalid or missing maxTimestamp."}
	}
	if r.SystemPrompt == "" {
		return &ValidationError{Msg: "Invalid or missing system prompt."}
	}
	if r.Transcript == "" {
		return &ValidationError{Msg: "Invalid or missing transcript."}
	}
	if r.Screenshot == "" {
		return &ValidationError{Msg: "Invalid or missing screenshot."}
	}
	return nil
}

// Response is the generated message. Nothing is persisted here; the record
// reaches the store only if the operator later submits a rating.
type Response struct {
	UUID      string `json:"uuid"`
	SessionID string `json:"sessionID"`
	Message   string `json:"message"`
}

type Orchestrator struct {
	llm      Completer
	messages MessageLister
	maxWidth int
	logger   *slog.Logger
}

func New(llm Completer, messages MessageLister, maxWidth int, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		llm:      llm,
		messages: messages,
		maxWidth: maxWidth,
		logger:   logger,
	}
}

// Generate validates the request, downscales the screenshot, gathers prior
// messages when asked to, submits the prompt and extracts the "message"
// field from the model's JSON reply.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	screenshot := req.Screenshot
	if scaled, err := imaging.Downscale(screenshot, o.maxWidth); err != nil {
		// best effort: forward the original, unscaled image
		o.logger.Warn("screenshot downscale failed, forwarding original", "error", err)
	} else {
		screenshot = scaled
	}

	prev := ""
	if req.includePrev() {
		msgs, err := o.messages.ListUpTo(ctx, req.SessionID, *req.MaxTimestamp)
		if err != nil {
			return nil, fmt.Errorf("fetch previous messages: %w", err)
		}
		prev = formatPrevMessages(msgs)
	}

	o.logger.Info("generating response",
		"session_id", req.SessionID,
		"max_timestamp", *req.MaxTimestamp,
		"include_prev", req.includePrev(),
		"transcript_len", len(req.Transcript),
	)

	raw, err := o.llm.CompleteJSON(ctx, req.SystemPrompt, buildUserText(req.Transcript, prev, req.includePrev()), screenshot)
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	var reply struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		o.logger.Error("model reply is not valid JSON", "error", err, "raw", raw)
		return nil, &ParseError{Raw: raw, Err: err}
	}

	return &Response{
		UUID:      uuid.NewString(),
		SessionID: req.SessionID,
		Message:   reply.Message,
	}, nil
}

// formatPrevMessages renders stored messages as one "Timestamp | Message"
// line each, newline-joined.
func formatPrevMessages(msgs []message.Message) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = "Timestamp: " + strconv.FormatFloat(m.Timestamp, 'f', -1, 64) + " | Message: " + m.Message
	}
	return strings.Join(lines, "\n")
}

func buildUserText(transcript, prev string, includePrev bool) string {
	text := "TRANSCRIPT: " + transcript
	if includePrev {
		text += "\nPREVIOUS_AGENT_MESSAGES: " + prev
	}
	return text
}
