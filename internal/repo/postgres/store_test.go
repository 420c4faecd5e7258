package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/projects"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	"worklog/internal/platform/db"
	"worklog/internal/platform/metrics"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  error
		field string
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: apperr.ErrNotFound},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: apperr.ErrDuplicateEmail},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503", ConstraintName: "time_entries_project_id_fkey"}, want: apperr.ErrValidation, field: "projectId"},
		{name: "check", err: &pgconn.PgError{Code: "23514", ConstraintName: "time_entries_hours_worked_check"}, want: apperr.ErrValidation, field: "hoursWorked"},
		{name: "bad date", err: &pgconn.PgError{Code: "22008"}, want: apperr.ErrValidation, field: "date"},
		{name: "other", err: errors.New("connection reset"), want: apperr.ErrTransient},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classify("op", tc.err)
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if tc.field != "" {
				issues := apperr.Issues(got)
				if len(issues) != 1 || issues[0].Field != tc.field {
					t.Fatalf("unexpected issues %+v", issues)
				}
			}
		})
	}

	if classify("op", nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.Migrate(ctx, pool, "../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(pool, metrics.New())
}

func TestStoreRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	user, err := store.Users().Create(ctx, users.User{
		ID:                fmt.Sprintf("user-%d", suffix),
		FirstName:         "Eva",
		LastName:          "Malá",
		Email:             fmt.Sprintf("eva-%d@firma.cz", suffix),
		Role:              users.RoleEmployee,
		HourlyRate:        500,
		MonthlyDeductions: 8000,
		IsActive:          true,
		CreatedAt:         time.Now().UTC(),
		PasswordHash:      "hash",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err = store.Users().Create(ctx, users.User{
		ID:           fmt.Sprintf("user-%d-dup", suffix),
		FirstName:    "Eva",
		LastName:     "Jiná",
		Email:        user.Email,
		Role:         users.RoleEmployee,
		CreatedAt:    time.Now().UTC(),
		PasswordHash: "hash",
	})
	if !errors.Is(err, apperr.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	found, err := store.Users().FindByEmail(ctx, user.Email)
	if err != nil || found.ID != user.ID || found.HourlyRate != 500 {
		t.Fatalf("find by email: %+v %v", found, err)
	}

	project, err := store.Projects().Create(ctx, projects.Project{
		ID:        fmt.Sprintf("proj-%d", suffix),
		Name:      "Interní systém",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	entry, err := store.TimeEntries().Create(ctx, timeentries.Entry{
		ID:          fmt.Sprintf("entry-%d", suffix),
		UserID:      user.ID,
		Date:        "2024-12-03",
		StartTime:   "09:00",
		EndTime:     "17:00",
		HoursWorked: 8,
		ProjectID:   project.ID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if entry.Date != "2024-12-03" || entry.HoursWorked != 8 {
		t.Fatalf("unexpected entry %+v", entry)
	}

	_, err = store.TimeEntries().Create(ctx, timeentries.Entry{
		ID:          fmt.Sprintf("entry-%d-bad", suffix),
		UserID:      user.ID,
		Date:        "2024-12-03",
		StartTime:   "09:00",
		EndTime:     "17:00",
		HoursWorked: 8,
		ProjectID:   "missing-project",
		CreatedAt:   time.Now().UTC(),
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for unknown project, got %v", err)
	}

	hours := 9.5
	updated, err := store.TimeEntries().Update(ctx, entry.ID, timeentries.Patch{HoursWorked: &hours})
	if err != nil || updated.HoursWorked != 9.5 || updated.StartTime != "09:00" {
		t.Fatalf("update entry: %+v %v", updated, err)
	}

	if err := store.TimeEntries().Delete(ctx, entry.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if _, err := store.TimeEntries().Get(ctx, entry.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.TimeEntries().Delete(ctx, entry.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	inactive := false
	archived, err := store.Projects().Update(ctx, project.ID, projects.Patch{IsActive: &inactive})
	if err != nil || archived.IsActive {
		t.Fatalf("archive project: %+v %v", archived, err)
	}
}
