package session

import (
	"sync"
	"time"

	"github.com/chris/relay/internal/llm"
)

// MemoryStore keeps sessions in process memory. Each session carries its
// own lock, so appends to the same id are serialized while different ids
// proceed independently.
type MemoryStore struct {
	mu       sync.Mutex // guards the map itself
	sessions map[string]*memorySession

	now func() time.Time
}

type memorySession struct {
	mu       sync.Mutex
	messages []llm.Message
	lastUsed time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		now:      time.Now,
	}
}

func (s *MemoryStore) session(id string) *memorySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &memorySession{lastUsed: s.now()}
		s.sessions[id] = sess
	}
	return sess
}

func (s *MemoryStore) Get(sessionID string) ([]llm.Message, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]llm.Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

func (s *MemoryStore) AppendUser(sessionID, content string) error {
	return s.append(sessionID, llm.Message{Role: "user", Content: content})
}

func (s *MemoryStore) AppendAssistant(sessionID, content string) error {
	return s.append(sessionID, llm.Message{Role: "assistant", Content: content})
}

func (s *MemoryStore) append(sessionID string, msg llm.Message) error {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.messages = append(sess.messages, msg)
	sess.lastUsed = s.now()
	return nil
}

func (s *MemoryStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) DeleteIdle(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Close() error { return nil }
