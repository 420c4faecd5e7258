package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/lifecycle"
	cryptoutil "worklog/internal/platform/crypto"
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

// List returns every user. A transient store failure degrades to an empty
// list.
func (s *Service) List(ctx context.Context) ([]User, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		if apperr.IsTransient(err) {
			s.logger.Warn("user list unavailable", "err", err)
			return []User{}, nil
		}
		return nil, err
	}
	return list, nil
}

// ListActive is the active roster.
func (s *Service) ListActive(ctx context.Context) ([]User, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(list))
	for _, u := range list {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, apperr.Invalid("id", "is required")
	}
	return s.store.Get(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.store.FindByEmail(ctx, NormalizeEmail(email))
}

func (s *Service) Create(ctx context.Context, in CreateInput) (lifecycle.Mutation[User], error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := apperr.NewChecker().Struct(in).Err(); err != nil {
		return lifecycle.Mutation[User]{}, err
	}
	if in.Role == "" {
		in.Role = RoleEmployee
	}

	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return lifecycle.Mutation[User]{}, err
	}

	hash, err := cryptoutil.HashPassword(in.Password)
	if err != nil {
		return lifecycle.Mutation[User]{}, err
	}

	created, err := s.store.Create(ctx, User{
		ID:                "user-" + uuid.NewString(),
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		Role:              in.Role,
		HourlyRate:        in.HourlyRate,
		MonthlyDeductions: in.MonthlyDeductions,
		IsActive:          true,
		CreatedAt:         s.now().UTC(),
		PasswordHash:      hash,
	})
	if err != nil {
		return lifecycle.Mutation[User]{}, err
	}
	return s.reload(ctx, created)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (lifecycle.Mutation[User], error) {
	if strings.TrimSpace(id) == "" {
		return lifecycle.Mutation[User]{}, apperr.Invalid("id", "is required")
	}
	if err := s.normalizePatch(&patch); err != nil {
		return lifecycle.Mutation[User]{}, err
	}
	if id == BuiltinAdminID && patch.IsActive != nil && !*patch.IsActive {
		return lifecycle.Mutation[User]{}, apperr.Invalid("isActive", "the built-in administrator cannot be deactivated")
	}
	if patch.Email != nil {
		if err := s.ensureEmailFree(ctx, *patch.Email, id); err != nil {
			return lifecycle.Mutation[User]{}, err
		}
	}
	if patch.Password != nil {
		hash, err := cryptoutil.HashPassword(*patch.Password)
		if err != nil {
			return lifecycle.Mutation[User]{}, err
		}
		patch.PasswordHash = &hash
		patch.Password = nil
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return lifecycle.Mutation[User]{}, err
	}
	return s.reload(ctx, updated)
}

// Delete deactivates the user. History stays in place.
func (s *Service) Delete(ctx context.Context, id string) (lifecycle.Mutation[User], error) {
	switch DeletionPolicy {
	case lifecycle.SoftDelete:
		inactive := false
		return s.Update(ctx, id, Patch{IsActive: &inactive})
	default:
		return lifecycle.Mutation[User]{}, lifecycle.ErrUnsupportedPolicy
	}
}

func (s *Service) normalizePatch(p *Patch) error {
	checker := apperr.NewChecker()
	if p.FirstName != nil {
		v := strings.TrimSpace(*p.FirstName)
		p.FirstName = &v
		checker.Check(v != "", "firstName", "is required")
	}
	if p.LastName != nil {
		v := strings.TrimSpace(*p.LastName)
		p.LastName = &v
		checker.Check(v != "", "lastName", "is required")
	}
	if p.Email != nil {
		v := NormalizeEmail(*p.Email)
		p.Email = &v
		checker.Check(apperr.EmailShape(v), "email", "must be a valid email address")
	}
	if p.Password != nil {
		checker.Check(len(*p.Password) >= 4, "password", "must be at least 4 characters")
	}
	if p.Role != nil {
		v := strings.ToLower(strings.TrimSpace(*p.Role))
		p.Role = &v
		checker.Check(v == RoleAdmin || v == RoleEmployee, "role", "must be one of: admin employee")
	}
	if p.HourlyRate != nil {
		checker.Check(*p.HourlyRate > 0, "hourlyRate", "must be greater than 0")
		checker.Check(*p.HourlyRate <= 10000, "hourlyRate", "must be at most 10000")
	}
	if p.MonthlyDeductions != nil {
		checker.Check(*p.MonthlyDeductions >= 0, "monthlyDeductions", "must be at least 0")
	}
	return checker.Err()
}

func (s *Service) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return apperr.ErrDuplicateEmail
		}
		return nil
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) reload(ctx context.Context, item User) (lifecycle.Mutation[User], error) {
	list, err := s.List(ctx)
	if err != nil {
		return lifecycle.Mutation[User]{}, err
	}
	return lifecycle.Mutation[User]{Item: item, Collection: list}, nil
}
