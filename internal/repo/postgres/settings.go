package postgres

import (
	"context"
	"time"

	"worklog/internal/domain/settings"
)

type SettingsStore struct {
	s *Store
}

var _ settings.Store = (*SettingsStore)(nil)

func (ss *SettingsStore) Get(ctx context.Context) (current settings.Settings, err error) {
	defer func(start time.Time) { ss.s.observe("settings.get", start, err) }(time.Now())
	err = ss.s.DB.QueryRow(ctx, `
    SELECT id, company_name, tax_rate::float8, social_insurance_rate::float8,
           health_insurance_rate::float8, currency, working_hours_per_day::float8,
           working_days_per_week
    FROM settings
    WHERE id = $1
  `, settings.SingletonID).Scan(
		&current.ID, &current.CompanyName, &current.TaxRate, &current.SocialInsuranceRate,
		&current.HealthInsuranceRate, &current.Currency, &current.WorkingHoursPerDay,
		&current.WorkingDaysPerWeek,
	)
	if err != nil {
		return settings.Settings{}, classify("get settings", err)
	}
	return current, nil
}

func (ss *SettingsStore) Save(ctx context.Context, in settings.Settings) (saved settings.Settings, err error) {
	defer func(start time.Time) { ss.s.observe("settings.save", start, err) }(time.Now())
	in.ID = settings.SingletonID
	_, err = ss.s.DB.Exec(ctx, `
    INSERT INTO settings (id, company_name, tax_rate, social_insurance_rate, health_insurance_rate,
                          currency, working_hours_per_day, working_days_per_week, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
    ON CONFLICT (id) DO UPDATE SET
      company_name = EXCLUDED.company_name,
      tax_rate = EXCLUDED.tax_rate,
      social_insurance_rate = EXCLUDED.social_insurance_rate,
      health_insurance_rate = EXCLUDED.health_insurance_rate,
      currency = EXCLUDED.currency,
      working_hours_per_day = EXCLUDED.working_hours_per_day,
      working_days_per_week = EXCLUDED.working_days_per_week,
      updated_at = now()
  `, in.ID, in.CompanyName, in.TaxRate, in.SocialInsuranceRate, in.HealthInsuranceRate,
		in.Currency, in.WorkingHoursPerDay, in.WorkingDaysPerWeek)
	if err != nil {
		return settings.Settings{}, classify("save settings", err)
	}
	return in, nil
}
