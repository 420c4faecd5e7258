package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"worklog/internal/domain/settings"
	"worklog/internal/domain/users"
	"worklog/internal/platform/config"
	cryptoutil "worklog/internal/platform/crypto"
)

const seedAdminID = users.BuiltinAdminID

// Seed makes sure the administrator account and the settings record exist.
// Demo projects are added when SEED_DEMO_DATA is on.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	if err := ensureSettings(ctx, pool); err != nil {
		return err
	}
	if cfg.SeedDemoData {
		return ensureDemoProjects(ctx, pool)
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	email = users.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE id = $1 OR lower(email) = $2 LIMIT 1", seedAdminID, email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := cryptoutil.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (id, first_name, last_name, email, password_hash, role, hourly_rate, monthly_deductions, is_active)
    VALUES ($1, 'Admin', 'Systému', $2, $3, $4, 0, 0, true)
  `, seedAdminID, email, hash, users.RoleAdmin)
	return err
}

func ensureSettings(ctx context.Context, pool *pgxpool.Pool) error {
	d := settings.Defaults()
	_, err := pool.Exec(ctx, `
    INSERT INTO settings (id, company_name, tax_rate, social_insurance_rate, health_insurance_rate,
                          currency, working_hours_per_day, working_days_per_week)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    ON CONFLICT (id) DO NOTHING
  `, d.ID, d.CompanyName, d.TaxRate, d.SocialInsuranceRate, d.HealthInsuranceRate,
		d.Currency, d.WorkingHoursPerDay, d.WorkingDaysPerWeek)
	return err
}

func ensureDemoProjects(ctx context.Context, pool *pgxpool.Pool) error {
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"E-commerce platforma", "CRM systém", "Mobilní aplikace"} {
		_, err := pool.Exec(ctx, `
      INSERT INTO projects (id, name, is_active, created_at)
      VALUES ($1, $2, true, $3)
      ON CONFLICT (id) DO NOTHING
    `, fmt.Sprintf("proj-%d", i+1), name, created.Add(time.Duration(i)*time.Minute))
		if err != nil {
			return err
		}
	}
	return nil
}
