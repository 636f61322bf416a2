package chat

import (
	"context"
	"sync"
)

// Store persists room messages.
type Store interface {
	Append(ctx context.Context, m Message) error
	// Recent returns up to limit of the newest messages in arrival order.
	// An empty lang matches every language; limit <= 0 means no limit.
	Recent(ctx context.Context, lang string, limit int) ([]Message, error)
	Close() error
}

// MemoryStore keeps messages in a slice.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []Message
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, m Message) error {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	return nil
}

// Recent implements Store.
func (s *MemoryStore) Recent(_ context.Context, lang string, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Message
	for _, m := range s.messages {
		if lang == "" || m.Lang == lang {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
