package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pedefacil/backend/internal/model/conversation"
)

var ErrSessionNotFound = errors.New("session not found")

// skipWindow bounds how old a session may be before a repeated question is
// classified again instead of short-circuited.
const skipWindow = 10 * time.Minute

// SkipDecision is the short-circuit verdict for one inbound message.
type SkipDecision struct {
	Skip   bool
	Intent string
	Reply  string
}

// Store persists conversational state across turns. All operations must be
// safe to call from concurrent turns on different sessions; read-modify-write
// exclusivity for one session is the store's responsibility, not the caller's.
type Store interface {
	GetOrCreateSession(ctx context.Context, sessionID, channelID string) (conversation.Session, error)
	CanSkipModel(ctx context.Context, text string, sess conversation.Session) (SkipDecision, error)
	UpdateSessionContext(ctx context.Context, sessionID, intentLabel string) error
	AppendMessage(ctx context.Context, sessionID, text, intentLabel, replyText string, usedModel bool) error
}

// decideSkip is the shared short-circuit policy: when the customer repeats
// the previous question verbatim while the session is still warm, the last
// reply is reused and the model is not consulted.
func decideSkip(text string, sess conversation.Session, last *conversation.LogEntry, now time.Time) SkipDecision {
	if sess.LastIntent == "" || last == nil || last.Response == "" {
		return SkipDecision{}
	}
	if normalizeText(text) == "" || normalizeText(text) != normalizeText(last.Message) {
		return SkipDecision{}
	}
	if now.Sub(sess.LastActivityAt) > skipWindow {
		return SkipDecision{}
	}
	return SkipDecision{Skip: true, Intent: sess.LastIntent, Reply: last.Response}
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// MemoryStore implements Store with in-memory maps, suitable for tests and
// single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]conversation.Session
	logs     map[string][]conversation.LogEntry
}

// NewMemoryStore bootstraps the in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]conversation.Session),
		logs:     make(map[string][]conversation.LogEntry),
	}
}

func (s *MemoryStore) GetOrCreateSession(_ context.Context, sessionID, channelID string) (conversation.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}

	sess := conversation.Session{
		ID:             sessionID,
		ChannelID:      channelID,
		LastActivityAt: time.Now().UTC(),
		IsActive:       true,
	}
	s.sessions[sessionID] = sess
	return sess, nil
}

func (s *MemoryStore) CanSkipModel(_ context.Context, text string, sess conversation.Session) (SkipDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.logs[sess.ID]
	var last *conversation.LogEntry
	if len(entries) > 0 {
		last = &entries[len(entries)-1]
	}
	return decideSkip(text, sess, last, time.Now().UTC()), nil
}

func (s *MemoryStore) UpdateSessionContext(_ context.Context, sessionID, intentLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastIntent = intentLabel
	sess.Step = intentLabel
	sess.LastActivityAt = time.Now().UTC()
	s.sessions[sessionID] = sess
	return nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, sessionID, text, intentLabel, replyText string, usedModel bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	s.logs[sessionID] = append(s.logs[sessionID], conversation.LogEntry{
		ID:                uuid.NewString(),
		SessionID:         sessionID,
		Message:           text,
		Intent:            intentLabel,
		Response:          replyText,
		UsedLanguageModel: usedModel,
		CreatedAt:         time.Now().UTC(),
	})
	return nil
}
