package local

import (
	"context"
	"errors"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/projects"
	"worklog/internal/domain/settings"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	cryptoutil "worklog/internal/platform/crypto"
)

const (
	DefaultAdminEmail    = "admin@firma.cz"
	DefaultAdminPassword = "admin123"
	demoPassword         = "heslo123"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	Demo          bool
}

// Seed fills an empty backend with the administrator, default settings and,
// when requested, the demo employees, projects and entries. Collections that
// already hold data are left alone.
func (s *Store) Seed(ctx context.Context, opts SeedOptions) error {
	if opts.AdminEmail == "" {
		opts.AdminEmail = DefaultAdminEmail
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = DefaultAdminPassword
	}

	if err := s.seedUsers(ctx, opts); err != nil {
		return err
	}
	if opts.Demo {
		if err := s.seedProjects(ctx); err != nil {
			return err
		}
		if err := s.seedEntries(ctx); err != nil {
			return err
		}
	}
	return s.seedSettings(ctx)
}

func (s *Store) seedUsers(ctx context.Context, opts SeedOptions) error {
	existing, err := loadList[userRecord](ctx, s.backend, usersKey)
	if err != nil || len(existing) > 0 {
		return err
	}

	adminHash, err := cryptoutil.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}
	records := []userRecord{{
		ID:           SeedAdminID,
		FirstName:    "Admin",
		LastName:     "Systému",
		Email:        users.NormalizeEmail(opts.AdminEmail),
		PasswordHash: adminHash,
		Role:         users.RoleAdmin,
		IsActive:     true,
		CreatedAt:    day(2024, time.January, 1),
	}}

	if opts.Demo {
		demoHash, err := cryptoutil.HashPassword(demoPassword)
		if err != nil {
			return err
		}
		records = append(records,
			userRecord{
				ID:                "emp-1",
				FirstName:         "Jan",
				LastName:          "Novák",
				Email:             "jan.novak@firma.cz",
				PasswordHash:      demoHash,
				Role:              users.RoleEmployee,
				HourlyRate:        450,
				MonthlyDeductions: 8500,
				IsActive:          true,
				CreatedAt:         day(2024, time.January, 15),
			},
			userRecord{
				ID:                "emp-2",
				FirstName:         "Marie",
				LastName:          "Svobodová",
				Email:             "marie.svobodova@firma.cz",
				PasswordHash:      demoHash,
				Role:              users.RoleEmployee,
				HourlyRate:        520,
				MonthlyDeductions: 9200,
				IsActive:          true,
				CreatedAt:         day(2024, time.February, 1),
			},
		)
	}
	return saveList(ctx, s.backend, usersKey, records)
}

func (s *Store) seedProjects(ctx context.Context) error {
	existing, err := loadList[projects.Project](ctx, s.backend, projectsKey)
	if err != nil || len(existing) > 0 {
		return err
	}
	created := day(2024, time.January, 1)
	return saveList(ctx, s.backend, projectsKey, []projects.Project{
		{ID: "proj-1", Name: "E-commerce platforma", IsActive: true, CreatedAt: created},
		{ID: "proj-2", Name: "CRM systém", IsActive: true, CreatedAt: created.Add(time.Minute)},
		{ID: "proj-3", Name: "Mobilní aplikace", IsActive: true, CreatedAt: created.Add(2 * time.Minute)},
	})
}

func (s *Store) seedEntries(ctx context.Context) error {
	existing, err := loadList[timeentries.Entry](ctx, s.backend, entriesKey)
	if err != nil || len(existing) > 0 {
		return err
	}
	return saveList(ctx, s.backend, entriesKey, []timeentries.Entry{
		{
			ID: "time-1", UserID: "emp-1", Date: "2024-12-01", StartTime: "09:00", EndTime: "17:00",
			HoursWorked: 8, ProjectID: "proj-1", Description: "Vývoj frontendu obchodu",
			CreatedAt: day(2024, time.December, 1),
		},
		{
			ID: "time-2", UserID: "emp-1", Date: "2024-12-02", StartTime: "08:30", EndTime: "16:00",
			HoursWorked: 7.5, ProjectID: "proj-1", Description: "Opravy chyb a testování",
			CreatedAt: day(2024, time.December, 2),
		},
		{
			ID: "time-3", UserID: "emp-2", Date: "2024-12-01", StartTime: "08:00", EndTime: "16:30",
			HoursWorked: 8.5, ProjectID: "proj-2", Description: "Optimalizace databáze",
			CreatedAt: day(2024, time.December, 1),
		},
	})
}

func (s *Store) seedSettings(ctx context.Context) error {
	_, err := s.Settings().Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	_, err = s.Settings().Save(ctx, settings.Defaults())
	return err
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
