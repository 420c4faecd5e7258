package settings

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/payroll"
)

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Get returns the stored settings, or the defaults when nothing is stored
// or the store cannot be reached.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	current, err := s.store.Get(ctx)
	switch {
	case err == nil:
		return current, nil
	case errors.Is(err, apperr.ErrNotFound):
		return Defaults(), nil
	case apperr.IsTransient(err):
		s.logger.Warn("settings unavailable, using defaults", "err", err)
		return Defaults(), nil
	default:
		return Settings{}, err
	}
}

// Update replaces the settings record and returns it as stored.
func (s *Service) Update(ctx context.Context, in Settings) (Settings, error) {
	in.ID = SingletonID
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = payroll.DefaultCurrency
	}
	if err := apperr.NewChecker().Struct(in).Err(); err != nil {
		return Settings{}, err
	}
	if _, err := s.store.Save(ctx, in); err != nil {
		return Settings{}, err
	}
	return s.Get(ctx)
}
