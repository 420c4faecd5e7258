package projects_test

import (
	"context"
	"errors"
	"testing"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/projects"
	"worklog/internal/platform/kv"
	"worklog/internal/repo/local"
)

func newService(t *testing.T) *projects.Service {
	t.Helper()
	store := local.New(kv.NewMemory(), nil)
	if err := store.Seed(context.Background(), local.SeedOptions{Demo: true}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return projects.NewService(store.Projects(), nil)
}

func TestCreateProject(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	result, err := svc.Create(ctx, projects.CreateInput{Name: "  Intranet  "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Item.Name != "Intranet" || !result.Item.IsActive {
		t.Fatalf("unexpected project %+v", result.Item)
	}
	if len(result.Collection) != 4 {
		t.Fatalf("expected 4 projects, got %d", len(result.Collection))
	}

	if _, err := svc.Create(ctx, projects.CreateInput{Name: "X"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected short name to fail, got %v", err)
	}
}

func TestArchiveAndRestore(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	result, err := svc.Delete(ctx, "proj-2")
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if result.Item.IsActive {
		t.Fatal("expected archived project")
	}
	if len(result.Collection) != 3 {
		t.Fatalf("expected archived project to stay listed, got %d", len(result.Collection))
	}

	active, _ := svc.ListActive(ctx)
	if len(active) != 2 {
		t.Fatalf("expected 2 active projects, got %d", len(active))
	}

	if _, err := svc.SetActive(ctx, "proj-2", true); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	active, _ = svc.ListActive(ctx)
	if len(active) != 3 {
		t.Fatalf("expected 3 active projects after restore, got %d", len(active))
	}

	if _, err := svc.Delete(ctx, "proj-missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRenameValidation(t *testing.T) {
	svc := newService(t)
	short := " a "
	if _, err := svc.Update(context.Background(), "proj-1", projects.Patch{Name: &short}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
