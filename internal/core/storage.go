package core

import (
	"context"
	"time"
)

// SessionStore owns the session lifecycle. Create is strict: a second call
// for a live id fails with ErrDuplicateSession. Initialization completes
// before the session becomes visible to Get.
type SessionStore interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	Delete(id string)
}

// TranscriptEntry is one audited line of a debate: a user utterance, a bot
// reply, or a delivered verdict (Winner set).
type TranscriptEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Winner    string    `json:"winner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptRepository is an append-only audit log. Sessions themselves are
// never persisted; the transcript exists for debugging and history review.
type TranscriptRepository interface {
	Append(ctx context.Context, entry TranscriptEntry) error
	Recent(ctx context.Context, sessionID string, limit int) ([]TranscriptEntry, error)
}
