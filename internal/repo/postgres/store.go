// Package postgres implements the record store on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"worklog/internal/domain/apperr"
	"worklog/internal/platform/metrics"
)

const backendName = "postgres"

type Store struct {
	DB      *pgxpool.Pool
	metrics *metrics.Collector
}

func New(db *pgxpool.Pool, collector *metrics.Collector) *Store {
	return &Store{DB: db, metrics: collector}
}

func (s *Store) Users() *UserStore { return &UserStore{s: s} }

func (s *Store) Projects() *ProjectStore { return &ProjectStore{s: s} }

func (s *Store) TimeEntries() *EntryStore { return &EntryStore{s: s} }

func (s *Store) Settings() *SettingsStore { return &SettingsStore{s: s} }

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *Store) observe(op string, start time.Time, err error) {
	s.metrics.ObserveStore(backendName, op, start, err)
}

// classify maps driver errors onto the domain taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.ErrDuplicateEmail
		case "42501":
			return apperr.ErrPermissionDenied
		case "23503", "23514":
			return apperr.Invalid(constraintField(pgErr.ConstraintName), "violates a data constraint")
		case "22007", "22008":
			return apperr.Invalid("date", "must be a date in YYYY-MM-DD format")
		}
	}
	return fmt.Errorf("%w: %s: %v", apperr.ErrTransient, op, err)
}

func constraintField(name string) string {
	switch name {
	case "time_entries_user_id_fkey":
		return "userId"
	case "time_entries_project_id_fkey":
		return "projectId"
	case "time_entries_hours_worked_check":
		return "hoursWorked"
	default:
		return "payload"
	}
}
