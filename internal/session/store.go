package session

import (
	"time"

	"github.com/chris/relay/internal/llm"
)

// Store holds conversation history keyed by session id. A session is
// created empty on first reference. Implementations must serialize
// concurrent appends for the same session id; distinct ids must not block
// each other.
type Store interface {
	// Get returns the session's messages in order, creating the session if
	// it does not exist yet.
	Get(sessionID string) ([]llm.Message, error)
	AppendUser(sessionID, content string) error
	AppendAssistant(sessionID, content string) error
	Clear(sessionID string) error
	// DeleteIdle removes sessions whose last activity is before cutoff and
	// reports how many were removed.
	DeleteIdle(cutoff time.Time) (int64, error)
	Close() error
}
