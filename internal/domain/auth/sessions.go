package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/platform/kv"
)

const sessionKeyPrefix = "worklog:session:"

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore keeps server-side sessions so tokens can be revoked on
// logout.
type SessionStore struct {
	backend kv.Backend
}

func NewSessionStore(backend kv.Backend) *SessionStore {
	return &SessionStore{backend: backend}
}

func (s *SessionStore) Put(ctx context.Context, session Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	if err := s.backend.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrTransient, err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.backend.Get(ctx, sessionKeyPrefix+id)
	if errors.Is(err, kv.ErrNotFound) {
		return Session{}, apperr.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", apperr.ErrTransient, err)
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

// Delete is idempotent.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, sessionKeyPrefix+id); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("%w: %v", apperr.ErrTransient, err)
	}
	return nil
}
