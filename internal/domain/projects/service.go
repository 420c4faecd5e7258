package projects

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/lifecycle"
)

type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		if apperr.IsTransient(err) {
			s.logger.Warn("project list unavailable", "err", err)
			return []Project{}, nil
		}
		return nil, err
	}
	return list, nil
}

// ListActive returns the projects time can be booked against.
func (s *Service) ListActive(ctx context.Context) ([]Project, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Project, 0, len(list))
	for _, p := range list {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	if strings.TrimSpace(id) == "" {
		return Project{}, apperr.Invalid("id", "is required")
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (lifecycle.Mutation[Project], error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := apperr.NewChecker().Struct(in).Err(); err != nil {
		return lifecycle.Mutation[Project]{}, err
	}
	created, err := s.store.Create(ctx, Project{
		ID:        "proj-" + uuid.NewString(),
		Name:      in.Name,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return lifecycle.Mutation[Project]{}, err
	}
	return s.reload(ctx, created)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (lifecycle.Mutation[Project], error) {
	if strings.TrimSpace(id) == "" {
		return lifecycle.Mutation[Project]{}, apperr.Invalid("id", "is required")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		if utf8.RuneCountInString(name) < 2 {
			return lifecycle.Mutation[Project]{}, apperr.Invalid("name", "must be at least 2 characters")
		}
	}
	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return lifecycle.Mutation[Project]{}, err
	}
	return s.reload(ctx, updated)
}

// SetActive toggles a project between active and archived.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (lifecycle.Mutation[Project], error) {
	return s.Update(ctx, id, Patch{IsActive: &active})
}

func (s *Service) Delete(ctx context.Context, id string) (lifecycle.Mutation[Project], error) {
	switch DeletionPolicy {
	case lifecycle.SoftDelete:
		return s.SetActive(ctx, id, false)
	default:
		return lifecycle.Mutation[Project]{}, lifecycle.ErrUnsupportedPolicy
	}
}

func (s *Service) reload(ctx context.Context, item Project) (lifecycle.Mutation[Project], error) {
	list, err := s.List(ctx)
	if err != nil {
		return lifecycle.Mutation[Project]{}, err
	}
	return lifecycle.Mutation[Project]{Item: item, Collection: list}, nil
}
