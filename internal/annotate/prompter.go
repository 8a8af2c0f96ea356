package annotate

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/message"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/orchestrator"
	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/transcript"
)

const defaultRating = 3

// SessionLister discovers available sessions.
type SessionLister interface {
	ListSessions(ctx context.Context) ([]string, error)
}

// ResponseGenerator requests a simulated assistant message.
type ResponseGenerator interface {
	Generate(ctx context.Context, req orchestrator.Request) (*orchestrator.Response, error)
}

// MessageCreator persists a rated message.
type MessageCreator interface {
	Create(ctx context.Context, m message.Message) (message.Message, error)
}

// Prompter drives the live annotation flow: play back a session, request a
// message for the current moment, rate it, persist the rating. A generated
// message is held transiently until feedback is submitted or cancelled;
// nothing reaches the store before that.
type Prompter struct {
	api    ResponseGenerator
	store  MessageCreator
	logger *slog.Logger

	sessions     []string
	sessionID    string
	systemPrompt string
	includePrev  bool

	cues         []transcript.Cue
	position     float64
	maxTimestamp float64

	pending *orchestrator.Response
	rating  int
	comment string
}

func NewPrompter(api ResponseGenerator, store MessageCreator, logger *slog.Logger) *Prompter {
	return &Prompter{
		api:          api,
		store:        store,
		logger:       logger,
		systemPrompt: DefaultSystemPrompt,
		includePrev:  true,
		rating:       defaultRating,
	}
}

// LoadSessions fetches the available sessions and selects the first one as
// the default. On failure the selection degrades to empty with no default.
func (p *Prompter) LoadSessions(ctx context.Context, lister SessionLister) error {
	sessions, err := lister.ListSessions(ctx)
	if err != nil {
		p.logger.Error("session discovery failed", "error", err)
		p.sessions = nil
		p.sessionID = ""
		return err
	}
	p.sessions = sessions
	if len(sessions) > 0 {
		p.sessionID = sessions[0]
	} else {
		p.sessionID = ""
	}
	return nil
}

func (p *Prompter) Sessions() []string { return p.sessions }

func (p *Prompter) SessionID() string { return p.sessionID }

func (p *Prompter) SelectSession(id string) { p.sessionID = id }

func (p *Prompter) SetSystemPrompt(prompt string) { p.systemPrompt = prompt }

func (p *Prompter) SystemPrompt() string { return p.systemPrompt }

func (p *Prompter) SetIncludePrevMessages(include bool) { p.includePrev = include }

// SetCues installs the parsed subtitle track for the loaded session.
func (p *Prompter) SetCues(cues []transcript.Cue) {
	p.cues = cues
	p.position = 0
	p.maxTimestamp = 0
}

// HandleTimeUpdate records the playback position and returns the transcript
// visible so far. It runs on every time update, continuous or seek.
func (p *Prompter) HandleTimeUpdate(t float64) string {
	p.position = t
	p.maxTimestamp = math.Floor(t)
	return transcript.VisibleAt(p.cues, t)
}

func (p *Prompter) Position() float64 { return p.position }

func (p *Prompter) MaxTimestamp() float64 { return p.maxTimestamp }

// RequestMessage asks the orchestration server for a message at the current
// playback moment, using the supplied video-frame screenshot. On failure the
// previous state is left intact.
func (p *Prompter) RequestMessage(ctx context.Context, screenshot string) error {
	ts := p.maxTimestamp
	include := p.includePrev
	req := orchestrator.Request{
		SessionID:           p.sessionID,
		MaxTimestamp:        &ts,
		SystemPrompt:        p.systemPrompt,
		Screenshot:          screenshot,
		Transcript:          transcript.VisibleAt(p.cues, p.position),
		IncludePrevMessages: &include,
	}

	resp, err := p.api.Generate(ctx, req)
	if err != nil {
		p.logger.Error("message request failed", "session_id", p.sessionID, "error", err)
		return err
	}
	p.pending = resp
	return nil
}

// Pending returns the generated message awaiting feedback, if any.
func (p *Prompter) Pending() *orchestrator.Response { return p.pending }

func (p *Prompter) SetRating(stars int) { p.rating = stars }

func (p *Prompter) Rating() int { return p.rating }

func (p *Prompter) SetComment(comment string) { p.comment = comment }

// SubmitFeedback persists the pending message together with its rating,
// comment and the playback moment it was requested for, then clears the
// pending state for the next request.
func (p *Prompter) SubmitFeedback(ctx context.Context) error {
	if p.pending == nil {
		return errors.New("no pending message to rate")
	}

	_, err := p.store.Create(ctx, message.Message{
		UUID:      p.pending.UUID,
		SessionID: p.pending.SessionID,
		Message:   p.pending.Message,
		Timestamp: p.maxTimestamp,
		Rating:    p.rating,
		Comment:   p.comment,
	})
	if err != nil {
		p.logger.Error("feedback submit failed", "session_id", p.sessionID, "error", err)
		return err
	}
	p.Reset()
	return nil
}

// Reset discards the pending message and restores the rating defaults.
func (p *Prompter) Reset() {
	p.pending = nil
	p.rating = defaultRating
	p.comment = ""
}
