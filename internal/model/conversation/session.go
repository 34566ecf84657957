package conversation

import "time"

// Session is the per-channel conversational state persisted across turns.
type Session struct {
	ID             string         `json:"id"` // "session_" + channel id
	ChannelID      string         `json:"channelId"`
	LastIntent     string         `json:"lastIntent"`
	Step           string         `json:"conversationStep"`
	LastActivityAt time.Time      `json:"lastActivityAt"`
	IsActive       bool           `json:"isActive"`
	Data           map[string]any `json:"sessionData,omitempty"`
}

// LogEntry is the append-only audit record for one turn. The core only
// writes these; the read side belongs to external reporting.
type LogEntry struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"sessionId"`
	Message           string    `json:"message"`
	Intent            string    `json:"intent"`
	Response          string    `json:"response"`
	UsedLanguageModel bool      `json:"usedLanguageModel"`
	CreatedAt         time.Time `json:"createdAt"`
}

// SessionID derives the store key for a channel identity.
func SessionID(channelID string) string {
	return "session_" + channelID
}
