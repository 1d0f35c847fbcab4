package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a user's conversation log.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Store keeps a bounded, per-user conversation log in memory.
// Each user's log holds at most limit messages; appending past the limit
// evicts the oldest message. State lives for the process lifetime only.
type Store struct {
	mu            sync.RWMutex
	logs          map[string]*userLog
	limit         int
	defaultUserID string
}

// userLog serializes appends for a single user. Different users' logs are
// independent and freely concurrent.
type userLog struct {
	mu   sync.Mutex
	msgs []Message
}

// NewStore creates a conversation store. A limit of 0 is valid: every append
// is immediately evicted and all logs stay empty.
func NewStore(limit int, defaultUserID string) *Store {
	if limit < 0 {
		limit = 0
	}
	if defaultUserID == "" {
		defaultUserID = "default"
	}
	return &Store{
		logs:          make(map[string]*userLog),
		limit:         limit,
		defaultUserID: defaultUserID,
	}
}

// Normalize maps an empty user id to the configured default.
func (s *Store) Normalize(userID string) string {
	if userID == "" {
		return s.defaultUserID
	}
	return userID
}

// Limit returns the per-user message cap.
func (s *Store) Limit() int { return s.limit }

// DefaultUserID returns the id used for requests with no user id.
func (s *Store) DefaultUserID() string { return s.defaultUserID }

// Append records a message at the tail of the user's log, evicting the head
// if the log is at capacity. The user's log is created on first append.
func (s *Store) Append(userID, role, content string) {
	userID = s.Normalize(userID)

	s.mu.Lock()
	log, ok := s.logs[userID]
	if !ok {
		log = &userLog{}
		s.logs[userID] = log
	}
	s.mu.Unlock()

	log.mu.Lock()
	defer log.mu.Unlock()

	log.msgs = append(log.msgs, Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if len(log.msgs) > s.limit {
		log.msgs = log.msgs[len(log.msgs)-s.limit:]
	}
}

// Context returns a copy of the user's stored messages in conversation
// order. Reading an unseen user yields an empty slice and does not create
// a log entry.
func (s *Store) Context(userID string) []Message {
	userID = s.Normalize(userID)

	s.mu.RLock()
	log, ok := s.logs[userID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	out := make([]Message, len(log.msgs))
	copy(out, log.msgs)
	return out
}

// Clear removes a single user's log entirely, reporting whether it existed.
func (s *Store) Clear(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.logs[userID]
	delete(s.logs, userID)
	return ok
}

// ClearAll removes every user's log and returns how many users existed.
func (s *Store) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.logs)
	s.logs = make(map[string]*userLog)
	return n
}

// UserStats summarizes one user's log.
type UserStats struct {
	MessageCount    int        `json:"message_count"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
}

// Stats is a point-in-time snapshot of the store.
type Stats struct {
	MemoryLimit   int                  `json:"memory_limit"`
	DefaultUserID string               `json:"default_user_id"`
	ActiveUsers   int                  `json:"active_users"`
	Users         map[string]UserStats `json:"users"`
}

// Snapshot returns per-user message counts and last-message timestamps.
func (s *Store) Snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		MemoryLimit:   s.limit,
		DefaultUserID: s.defaultUserID,
		ActiveUsers:   len(s.logs),
		Users:         make(map[string]UserStats, len(s.logs)),
	}
	for userID, log := range s.logs {
		log.mu.Lock()
		us := UserStats{MessageCount: len(log.msgs)}
		if n := len(log.msgs); n > 0 {
			ts := log.msgs[n-1].Timestamp
			us.LastMessageTime = &ts
		}
		log.mu.Unlock()
		stats.Users[userID] = us
	}
	return stats
}
