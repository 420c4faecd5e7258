package timeentries

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/lifecycle"
	"worklog/internal/domain/projects"
	"worklog/internal/domain/users"
	"worklog/internal/domain/worktime"
)

// ProjectLookup resolves the project an entry is booked against.
type ProjectLookup interface {
	Get(ctx context.Context, id string) (projects.Project, error)
}

type Service struct {
	store    Store
	projects ProjectLookup
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(store Store, projects ProjectLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, projects: projects, logger: logger, now: time.Now}
}

// List returns all entries, newest first. Transient store failures degrade
// to an empty list.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		if apperr.IsTransient(err) {
			s.logger.Warn("time entry list unavailable", "err", err)
			return []Entry{}, nil
		}
		return nil, err
	}
	SortByDateDesc(list)
	return list, nil
}

// ListVisible returns the entries actor may see: everything for admins,
// their own entries otherwise.
func (s *Service) ListVisible(ctx context.Context, actor users.Actor) ([]Entry, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return list, nil
	}
	if actor.UserID == "" {
		return []Entry{}, nil
	}
	return Apply(list, Filter{UserID: actor.UserID}), nil
}

func (s *Service) Get(ctx context.Context, actor users.Actor, id string) (Entry, error) {
	if strings.TrimSpace(id) == "" {
		return Entry{}, apperr.Invalid("id", "is required")
	}
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if !actor.CanAccess(entry.UserID) {
		return Entry{}, apperr.ErrPermissionDenied
	}
	return entry, nil
}

func (s *Service) Create(ctx context.Context, actor users.Actor, in CreateInput) (lifecycle.Mutation[Entry], error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		in.UserID = actor.UserID
	}
	if !actor.CanAccess(in.UserID) {
		return lifecycle.Mutation[Entry]{}, apperr.ErrPermissionDenied
	}
	in.Description = strings.TrimSpace(in.Description)

	checker := apperr.NewChecker().Struct(in)
	checker.Check(in.UserID != "", "userId", "is required")
	if err := checker.Err(); err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}

	entry := Entry{
		ID:          "entry-" + uuid.NewString(),
		UserID:      in.UserID,
		Date:        in.Date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		ProjectID:   in.ProjectID,
		Description: in.Description,
		CreatedAt:   s.now().UTC(),
	}
	hours, err := resolveHours(in.StartTime, in.EndTime, in.HoursWorked)
	if err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}
	entry.HoursWorked = hours
	if err := s.checkProject(ctx, entry.ProjectID); err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}

	created, err := s.store.Create(ctx, entry)
	if err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}
	return s.reload(ctx, actor, created)
}

func (s *Service) Update(ctx context.Context, actor users.Actor, id string, patch Patch) (lifecycle.Mutation[Entry], error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}

	merged := patch.Apply(existing)
	checker := apperr.NewChecker()
	if patch.Date != nil {
		_, dateErr := worktime.ParseDate(merged.Date)
		checker.Check(dateErr == nil && len(merged.Date) == len(worktime.DateLayout), "date", "must be a date in YYYY-MM-DD format")
	}
	if patch.ProjectID != nil {
		checker.Check(strings.TrimSpace(merged.ProjectID) != "", "projectId", "is required")
	}
	if err := checker.Err(); err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}

	if patch.StartTime != nil || patch.EndTime != nil || patch.HoursWorked != nil {
		hours, err := resolveHours(merged.StartTime, merged.EndTime, patch.HoursWorked)
		if err != nil {
			return lifecycle.Mutation[Entry]{}, err
		}
		patch.HoursWorked = &hours
	}
	if patch.ProjectID != nil {
		if err := s.checkProject(ctx, merged.ProjectID); err != nil {
			return lifecycle.Mutation[Entry]{}, err
		}
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		patch.Description = &desc
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}
	return s.reload(ctx, actor, updated)
}

func (s *Service) Delete(ctx context.Context, actor users.Actor, id string) (lifecycle.Mutation[Entry], error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}
	switch DeletionPolicy {
	case lifecycle.HardDelete:
		if err := s.store.Delete(ctx, id); err != nil {
			return lifecycle.Mutation[Entry]{}, err
		}
	default:
		return lifecycle.Mutation[Entry]{}, lifecycle.ErrUnsupportedPolicy
	}
	return s.reload(ctx, actor, existing)
}

// resolveHours derives hours from the clock pair unless an explicit value is
// given, then enforces the single-entry bounds.
func resolveHours(start, end string, override *float64) (float64, error) {
	_, startErr := worktime.ParseClock(start)
	_, endErr := worktime.ParseClock(end)
	checker := apperr.NewChecker().
		Check(startErr == nil, "startTime", "must be a time in HH:MM format").
		Check(endErr == nil, "endTime", "must be a time in HH:MM format")
	if err := checker.Err(); err != nil {
		return 0, err
	}

	hours, _ := worktime.HoursBetween(start, end)
	if override != nil {
		hours = *override
	}
	if hours <= 0 {
		return 0, apperr.Invalid("hoursWorked", "end time must be after start time")
	}
	if hours > MaxHoursPerEntry {
		return 0, apperr.Invalid("hoursWorked", "cannot exceed 24 hours")
	}
	return hours, nil
}

func (s *Service) checkProject(ctx context.Context, projectID string) error {
	if s.projects == nil {
		return nil
	}
	project, err := s.projects.Get(ctx, projectID)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Invalid("projectId", "unknown project")
	}
	if err != nil {
		return err
	}
	if !project.IsActive {
		return apperr.Invalid("projectId", "project is archived")
	}
	return nil
}

func (s *Service) reload(ctx context.Context, actor users.Actor, item Entry) (lifecycle.Mutation[Entry], error) {
	list, err := s.ListVisible(ctx, actor)
	if err != nil {
		return lifecycle.Mutation[Entry]{}, err
	}
	return lifecycle.Mutation[Entry]{Item: item, Collection: list}, nil
}
