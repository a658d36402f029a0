// Package store provides the persistence port for the progress engine.
// The engine is written against the KV interface so it runs unchanged over
// SQLite in production, an in-memory map in tests, and degrades to
// memory-only when storage is unavailable.
package store

import "sync"

// Well-known document keys. Progress state and the achievement log are
// independently keyed JSON documents; the auth session lives apart from both.
const (
	KeyProgressState  = "progress_state"
	KeyAchievementLog = "achievement_log"
	KeyAuthSession    = "auth_session"
)

// KV is the key-value persistence port.
// Load returns found=false (not an error) for a missing key.
type KV interface {
	Load(key string) (data []byte, found bool, err error)
	Save(key string, data []byte) error
}

// ─── In-Memory Backend ──────────────────────────────────────────────────────

// Memory is a map-backed KV for tests and for in-memory-only fallback.
type Memory struct {
	mu sync.Mutex
	m  map[string][]byte
}

// NewMemory creates an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

// Load returns a copy of the stored value.
func (s *Memory) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Save stores a copy of the value.
func (s *Memory) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.m[key] = cp
	return nil
}
