package annotate

import (
	"context"
	"log/slog"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/message"
)

// MessageStore is the CRUD surface the coder screen needs.
type MessageStore interface {
	ListForSession(ctx context.Context, sessionID string) ([]message.Message, error)
	Patch(ctx context.Context, id int, p message.Patch) (message.Message, error)
	Remove(ctx context.Context, id int) error
}

// Coder reviews the stored messages of one session. It keeps a read-through
// cache of the session's list: every mutation is followed by a full re-fetch
// instead of trusting the mutation response, so the cached view stays
// authoritative. When a re-fetch fails the stale cache is kept as-is.
type Coder struct {
	store  MessageStore
	logger *slog.Logger

	sessionID string
	messages  []message.Message
}

func NewCoder(store MessageStore, logger *slog.Logger) *Coder {
	return &Coder{store: store, logger: logger}
}

// SelectSession switches to a session and loads its messages, ordered by
// timestamp ascending.
func (c *Coder) SelectSession(ctx context.Context, sessionID string) error {
	c.sessionID = sessionID
	return c.refresh(ctx)
}

func (c *Coder) SessionID() string { return c.sessionID }

// Messages returns the cached list; it may be stale after a failed refresh.
func (c *Coder) Messages() []message.Message { return c.messages }

// SetRating applies the star-toggle rule: picking the star the message
// already has resets the rating to 0, any other star replaces it.
func (c *Coder) SetRating(ctx context.Context, id, stars int) error {
	newRating := stars
	for _, m := range c.messages {
		if m.ID == id && m.Rating == stars {
			newRating = 0
			break
		}
	}

	if _, err := c.store.Patch(ctx, id, message.Patch{Rating: &newRating}); err != nil {
		c.logger.Error("rating update failed", "id", id, "error", err)
		return err
	}
	return c.refresh(ctx)
}

// SetComment replaces the comment on a stored message.
func (c *Coder) SetComment(ctx context.Context, id int, comment string) error {
	if _, err := c.store.Patch(ctx, id, message.Patch{Comment: &comment}); err != nil {
		c.logger.Error("comment update failed", "id", id, "error", err)
		return err
	}
	return c.refresh(ctx)
}

// Delete removes a stored message.
func (c *Coder) Delete(ctx context.Context, id int) error {
	if err := c.store.Remove(ctx, id); err != nil {
		c.logger.Error("delete failed", "id", id, "error", err)
		return err
	}
	return c.refresh(ctx)
}

func (c *Coder) refresh(ctx context.Context) error {
	msgs, err := c.store.ListForSession(ctx, c.sessionID)
	if err != nil {
		// keep the stale cache rather than dropping to an empty view
		c.logger.Error("message list refresh failed", "session_id", c.sessionID, "error", err)
		return err
	}
	c.messages = msgs
	return nil
}
