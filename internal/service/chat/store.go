package chat

import (
	"sync"

	"github.com/lukebdev/termlink/internal/core"
)

// Store keeps a bounded rolling history per conversation id. Histories
// live for the process lifetime; an id always maps to the same history.
// Distinct ids are never evicted, only trimmed in length.
type Store struct {
	mu        sync.Mutex
	histories map[string][]core.HistoryEntry
}

func NewStore() *Store {
	return &Store{
		histories: make(map[string][]core.HistoryEntry),
	}
}

// Append adds an entry, evicting the oldest once the bound is exceeded.
func (s *Store) Append(conversationID string, entry core.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr := append(s.histories[conversationID], entry)
	if len(arr) > core.HistoryLimit {
		arr = arr[len(arr)-core.HistoryLimit:]
	}
	s.histories[conversationID] = arr
}

// History returns a copy of the conversation's entries, oldest first.
func (s *Store) History(conversationID string) []core.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr := s.histories[conversationID]
	out := make([]core.HistoryEntry, len(arr))
	copy(out, arr)
	return out
}
