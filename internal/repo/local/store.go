// Package local implements the record store on top of a key-value backend.
// Each collection lives under one key as a JSON array.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/platform/kv"
	"worklog/internal/platform/metrics"
)

const (
	usersKey    = "worklog:users"
	projectsKey = "worklog:projects"
	entriesKey  = "worklog:time_entries"
	settingsKey = "worklog:settings"

	backendName = "local"
)

// Store serializes read-modify-write cycles on the backend.
type Store struct {
	backend kv.Backend
	metrics *metrics.Collector
	mu      sync.Mutex
	now     func() time.Time
}

func New(backend kv.Backend, collector *metrics.Collector) *Store {
	return &Store{backend: backend, metrics: collector, now: time.Now}
}

func (s *Store) Users() *UserStore { return &UserStore{s: s} }

func (s *Store) Projects() *ProjectStore { return &ProjectStore{s: s} }

func (s *Store) TimeEntries() *EntryStore { return &EntryStore{s: s} }

func (s *Store) Settings() *SettingsStore { return &SettingsStore{s: s} }

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) observe(op string, start time.Time, err error) {
	s.metrics.ObserveStore(backendName, op, start, err)
}

func loadList[T any](ctx context.Context, backend kv.Backend, key string) ([]T, error) {
	raw, err := backend.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", apperr.ErrTransient, key, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveList[T any](ctx context.Context, backend kv.Backend, key string, items []T) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := backend.Set(ctx, key, payload, 0); err != nil {
		return fmt.Errorf("%w: save %s: %v", apperr.ErrTransient, key, err)
	}
	return nil
}
