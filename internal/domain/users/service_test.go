package users_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/users"
	"worklog/internal/platform/kv"
	"worklog/internal/repo/local"
)

type downBackend struct {
	kv.Backend
}

func (downBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func (downBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("dial tcp: connection refused")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T) *users.Service {
	t.Helper()
	store := local.New(kv.NewMemory(), nil)
	if err := store.Seed(context.Background(), local.SeedOptions{Demo: true}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return users.NewService(store.Users(), quietLogger())
}

func validInput() users.CreateInput {
	return users.CreateInput{
		FirstName:         "Petr",
		LastName:          "Dvořák",
		Email:             "Petr.Dvorak@firma.cz",
		Password:          "heslo123",
		HourlyRate:        480,
		MonthlyDeductions: 7000,
	}
}

func TestCreateUserReloadsCollection(t *testing.T) {
	svc := newService(t)

	result, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Item.Email != "petr.dvorak@firma.cz" {
		t.Fatalf("expected normalized email, got %s", result.Item.Email)
	}
	if result.Item.Role != users.RoleEmployee || !result.Item.IsActive {
		t.Fatalf("unexpected defaults: %+v", result.Item)
	}
	if result.Item.PasswordHash == "" || result.Item.PasswordHash == "heslo123" {
		t.Fatal("expected password to be hashed")
	}
	if len(result.Collection) != 4 {
		t.Fatalf("expected reloaded collection of 4, got %d", len(result.Collection))
	}
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*users.CreateInput)
		field string
	}{
		{name: "missing first name", edit: func(in *users.CreateInput) { in.FirstName = " " }, field: "firstName"},
		{name: "bad email", edit: func(in *users.CreateInput) { in.Email = "petr@firma" }, field: "email"},
		{name: "short password", edit: func(in *users.CreateInput) { in.Password = "abc" }, field: "password"},
		{name: "zero rate", edit: func(in *users.CreateInput) { in.HourlyRate = 0 }, field: "hourlyRate"},
		{name: "rate too high", edit: func(in *users.CreateInput) { in.HourlyRate = 10001 }, field: "hourlyRate"},
		{name: "negative deductions", edit: func(in *users.CreateInput) { in.MonthlyDeductions = -1 }, field: "monthlyDeductions"},
		{name: "unknown role", edit: func(in *users.CreateInput) { in.Role = "owner" }, field: "role"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(t)
			in := validInput()
			tc.edit(&in)
			_, err := svc.Create(context.Background(), in)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			found := false
			for _, issue := range apperr.Issues(err) {
				if issue.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue on %s, got %+v", tc.field, apperr.Issues(err))
			}
			list, _ := svc.List(context.Background())
			if len(list) != 3 {
				t.Fatalf("expected store untouched, got %d users", len(list))
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := newService(t)
	in := validInput()
	in.Email = "JAN.NOVAK@firma.cz"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestDeleteDeactivatesUser(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	result, err := svc.Delete(ctx, "emp-1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.Item.IsActive {
		t.Fatal("expected user to be inactive")
	}
	if len(result.Collection) != 3 {
		t.Fatalf("expected user to stay in collection, got %d", len(result.Collection))
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, u := range active {
		if u.ID == "emp-1" {
			t.Fatal("expected deactivated user off the active roster")
		}
	}

	if _, err := svc.Delete(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = svc.Delete(ctx, users.BuiltinAdminID)
	if !errors.Is(err, apperr.ErrValidation) || apperr.Issues(err)[0].Field != "isActive" {
		t.Fatalf("expected built-in admin deactivation to be refused, got %v", err)
	}
	admin, err := svc.Get(ctx, users.BuiltinAdminID)
	if err != nil || !admin.IsActive {
		t.Fatalf("expected built-in admin to stay active: %+v %v", admin, err)
	}
}

func TestUpdateUserPatch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	rate := 600.0
	result, err := svc.Update(ctx, "emp-2", users.Patch{HourlyRate: &rate})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if result.Item.HourlyRate != 600 || result.Item.FirstName != "Marie" {
		t.Fatalf("unexpected merge result %+v", result.Item)
	}

	taken := "jan.novak@firma.cz"
	if _, err := svc.Update(ctx, "emp-2", users.Patch{Email: &taken}); !errors.Is(err, apperr.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	own := "MARIE.svobodova@firma.cz"
	if _, err := svc.Update(ctx, "emp-2", users.Patch{Email: &own}); err != nil {
		t.Fatalf("expected keeping own email to succeed, got %v", err)
	}

	bad := 0.0
	if _, err := svc.Update(ctx, "emp-2", users.Patch{HourlyRate: &bad}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransientFailures(t *testing.T) {
	ctx := context.Background()
	svc := users.NewService(local.New(downBackend{}, nil).Users(), quietLogger())

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("expected degraded read, got %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	if _, err := svc.Create(ctx, validInput()); !errors.Is(err, apperr.ErrTransient) {
		t.Fatalf("expected transient write error, got %v", err)
	}
}
