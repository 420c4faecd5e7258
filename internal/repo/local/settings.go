package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/settings"
	"worklog/internal/platform/kv"
)

type SettingsStore struct {
	s *Store
}

var _ settings.Store = (*SettingsStore)(nil)

func (ss *SettingsStore) Get(ctx context.Context) (current settings.Settings, err error) {
	defer func(start time.Time) { ss.s.observe("settings.get", start, err) }(time.Now())
	raw, err := ss.s.backend.Get(ctx, settingsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return settings.Settings{}, apperr.ErrNotFound
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("%w: load settings: %v", apperr.ErrTransient, err)
	}
	if err := json.Unmarshal(raw, &current); err != nil {
		return settings.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return current, nil
}

func (ss *SettingsStore) Save(ctx context.Context, in settings.Settings) (saved settings.Settings, err error) {
	defer func(start time.Time) { ss.s.observe("settings.save", start, err) }(time.Now())
	payload, err := json.Marshal(in)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("encode settings: %w", err)
	}
	if err := ss.s.backend.Set(ctx, settingsKey, payload, 0); err != nil {
		return settings.Settings{}, fmt.Errorf("%w: save settings: %v", apperr.ErrTransient, err)
	}
	return in, nil
}
