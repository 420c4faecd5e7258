package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/projects"
	"worklog/internal/domain/settings"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	"worklog/internal/platform/kv"
)

type failingBackend struct {
	kv.Backend
}

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	store := New(kv.NewMemory(), nil)
	if err := store.Seed(context.Background(), SeedOptions{Demo: true}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return store
}

func TestSeedLoadsDemoData(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	list, err := store.Users().List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 users, got %d", len(list))
	}
	if list[0].ID != SeedAdminID || list[2].ID != "emp-2" {
		t.Fatalf("expected users ordered by creation, got %s..%s", list[0].ID, list[2].ID)
	}

	entries, err := store.TimeEntries().List(ctx)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 3 || entries[0].Date != "2024-12-02" {
		t.Fatalf("expected entries newest first, got %+v", entries)
	}

	current, err := store.Settings().Get(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if current.CompanyName != settings.Defaults().CompanyName {
		t.Fatalf("expected default settings, got %+v", current)
	}

	// A second seed leaves existing data alone.
	if err := store.Seed(ctx, SeedOptions{Demo: true}); err != nil {
		t.Fatalf("reseed failed: %v", err)
	}
	again, _ := store.Users().List(ctx)
	if len(again) != 3 {
		t.Fatalf("expected reseed to be a no-op, got %d users", len(again))
	}
}

func TestUserStoreRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	_, err := store.Users().Create(ctx, users.User{ID: "user-x", Email: "JAN.NOVAK@firma.cz", CreatedAt: time.Now()})
	if !errors.Is(err, apperr.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	found, err := store.Users().FindByEmail(ctx, "Marie.Svobodova@FIRMA.cz")
	if err != nil || found.ID != "emp-2" {
		t.Fatalf("expected case-insensitive lookup, got %+v %v", found, err)
	}
}

func TestSeedAdminStaysActive(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	inactive := false
	updated, err := store.Users().Update(ctx, SeedAdminID, users.Patch{IsActive: &inactive})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsActive {
		t.Fatal("expected built-in admin to stay active")
	}
}

func TestUpdateMissingRecordIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	name := "Renamed"
	if _, err := store.Projects().Update(ctx, "proj-missing", projects.Patch{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.Users().Update(ctx, "user-missing", users.Patch{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEntryHardDelete(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	if err := store.TimeEntries().Delete(ctx, "time-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.TimeEntries().Get(ctx, "time-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected entry gone, got %v", err)
	}
	if err := store.TimeEntries().Delete(ctx, "time-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if err := store.TimeEntries().Delete(ctx, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected empty id to be an unknown entry, got %v", err)
	}
}

func TestEntryUpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)

	desc := "Code review"
	updated, err := store.TimeEntries().Update(ctx, "time-2", timeentries.Patch{Description: &desc})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Description != desc || updated.HoursWorked != 7.5 {
		t.Fatalf("unexpected merge result %+v", updated)
	}
}

func TestBackendFailureIsTransient(t *testing.T) {
	ctx := context.Background()
	store := New(failingBackend{}, nil)

	if _, err := store.Users().List(ctx); !errors.Is(err, apperr.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if _, err := store.Projects().Create(ctx, projects.Project{ID: "p"}); !errors.Is(err, apperr.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if _, err := store.Settings().Get(ctx); !errors.Is(err, apperr.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}
