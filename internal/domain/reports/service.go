// Package reports builds the read-side views: the admin report, monthly
// history and timesheets, the company report, dashboards and pay statement
// data. Every view is computed from a fresh snapshot of the stores.
package reports

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"worklog/internal/domain/projects"
	"worklog/internal/domain/settings"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
)

const tracerName = "worklog/reports"

type UserSource interface {
	List(ctx context.Context) ([]users.User, error)
}

type ProjectSource interface {
	List(ctx context.Context) ([]projects.Project, error)
}

type EntrySource interface {
	List(ctx context.Context) ([]timeentries.Entry, error)
}

type SettingsSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

type Service struct {
	users    UserSource
	projects ProjectSource
	entries  EntrySource
	settings SettingsSource
	tracer   trace.Tracer
	now      func() time.Time
}

func NewService(u UserSource, p ProjectSource, e EntrySource, s SettingsSource) *Service {
	return &Service{
		users:    u,
		projects: p,
		entries:  e,
		settings: s,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for "now"-relative reports.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// snapshot is one consistent read of every collection a report needs.
type snapshot struct {
	users    []users.User
	projects []projects.Project
	entries  []timeentries.Entry
	settings settings.Settings

	userByID    map[string]users.User
	projectByID map[string]projects.Project
}

func (s *Service) load(ctx context.Context) (snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "reports.load")
	defer span.End()

	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.users.List(gctx)
		snap.users = list
		return err
	})
	g.Go(func() error {
		list, err := s.projects.List(gctx)
		snap.projects = list
		return err
	})
	g.Go(func() error {
		list, err := s.entries.List(gctx)
		snap.entries = list
		return err
	})
	g.Go(func() error {
		current, err := s.settings.Get(gctx)
		snap.settings = current
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return snapshot{}, err
	}

	snap.userByID = make(map[string]users.User, len(snap.users))
	for _, u := range snap.users {
		snap.userByID[u.ID] = u
	}
	snap.projectByID = make(map[string]projects.Project, len(snap.projects))
	for _, p := range snap.projects {
		snap.projectByID[p.ID] = p
	}
	span.SetAttributes(
		attribute.Int("reports.users", len(snap.users)),
		attribute.Int("reports.projects", len(snap.projects)),
		attribute.Int("reports.entries", len(snap.entries)),
	)
	return snap, nil
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// employees returns the users with the employee role, optionally only the
// active ones.
func (snap snapshot) employees(activeOnly bool) []users.User {
	out := make([]users.User, 0, len(snap.users))
	for _, u := range snap.users {
		if u.Role != users.RoleEmployee {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out
}
