package chat

import (
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/8adimka/Go_Weather_Assistant/internal/agent"
)

// DefaultHistoryLimit is the number of messages kept per session.
const DefaultHistoryLimit = 20

// HistoryStore keeps the recent messages of each chat session in memory.
// Sessions expire after ttl without activity.
type HistoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
	limit int
}

func NewHistoryStore(ttl time.Duration, limit int) *HistoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryStore{
		cache: cache.New(ttl, ttl/2+time.Minute),
		limit: limit,
	}
}

// Get returns a copy of the session history, oldest first.
func (h *HistoryStore) Get(sessionID string) []agent.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.get(sessionID))
}

// Append adds messages and drops the oldest beyond the limit.
func (h *HistoryStore) Append(sessionID string, msgs ...agent.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	history := append(slices.Clone(h.get(sessionID)), msgs...)
	if len(history) > h.limit {
		history = history[len(history)-h.limit:]
	}
	h.cache.SetDefault(sessionID, history)
}

// Clear forgets a session.
func (h *HistoryStore) Clear(sessionID string) {
	h.cache.Delete(sessionID)
}

func (h *HistoryStore) get(sessionID string) []agent.Message {
	if v, ok := h.cache.Get(sessionID); ok {
		return v.([]agent.Message)
	}
	return nil
}
