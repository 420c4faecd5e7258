package kv

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	val []byte
	exp time.Time
}

// Memory keeps keys in process. Used by tests and the demo setup.
type Memory struct {
	mu  sync.RWMutex
	m   map[string]memoryEntry
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]memoryEntry), now: time.Now}
}

func (s *Memory) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !e.exp.IsZero() && s.now().After(e.exp) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, nil
}

func (s *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	e := memoryEntry{val: stored}
	if ttl > 0 {
		e.exp = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = e
	s.mu.Unlock()
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Memory) Ping(context.Context) error { return nil }

func (s *Memory) Close() error { return nil }
