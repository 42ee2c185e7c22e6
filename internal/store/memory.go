package store

import (
	"context"
	"sync"
)

// MemorySink keeps records in process memory. It backs tests and the
// "memory" store kind used by a single devspell serve process.
type MemorySink struct {
	mu       sync.RWMutex
	chats    []ChatRecord
	projects []ProjectRecord
}

// NewMemorySink returns an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) SaveChat(_ context.Context, userID string, rec ChatRecord) (string, error) {
	rec, err := prepareChat(userID, rec)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.chats = append(m.chats, rec)
	m.mu.Unlock()
	return rec.ID, nil
}

func (m *MemorySink) SaveProject(_ context.Context, userID string, rec ProjectRecord) (string, error) {
	rec, err := prepareProject(userID, rec)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.projects = append(m.projects, rec)
	m.mu.Unlock()
	return rec.ID, nil
}

// ListProjects returns projects in reverse save order.
func (m *MemorySink) ListProjects(_ context.Context, userID string, limit int) ([]ProjectRecord, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []ProjectRecord{}
	for i := len(m.projects) - 1; i >= 0; i-- {
		if m.projects[i].UserID != userID {
			continue
		}
		out = append(out, m.projects[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Chats returns the chat records of userID in save order.
func (m *MemorySink) Chats(userID string) []ChatRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ChatRecord
	for _, c := range m.chats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

func (m *MemorySink) Close() error { return nil }
