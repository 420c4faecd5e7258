package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/users"
)

const userColumns = `id, first_name, last_name, email, password_hash, role,
       hourly_rate::float8, monthly_deductions::float8, is_active, created_at`

type UserStore struct {
	s *Store
}

var _ users.Store = (*UserStore)(nil)

func scanUser(row pgx.Row) (users.User, error) {
	var u users.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role,
		&u.HourlyRate, &u.MonthlyDeductions, &u.IsActive, &u.CreatedAt)
	return u, err
}

func (us *UserStore) List(ctx context.Context) (list []users.User, err error) {
	defer func(start time.Time) { us.s.observe("users.list", start, err) }(time.Now())
	rows, err := us.s.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, classify("list users", err)
	}
	defer rows.Close()

	list = []users.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify("scan user", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list users", err)
	}
	return list, nil
}

func (us *UserStore) Get(ctx context.Context, id string) (u users.User, err error) {
	defer func(start time.Time) { us.s.observe("users.get", start, err) }(time.Now())
	u, err = scanUser(us.s.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return users.User{}, classify("get user", err)
	}
	return u, nil
}

func (us *UserStore) FindByEmail(ctx context.Context, email string) (u users.User, err error) {
	defer func(start time.Time) { us.s.observe("users.find_by_email", start, err) }(time.Now())
	u, err = scanUser(us.s.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return users.User{}, classify("find user", err)
	}
	return u, nil
}

func (us *UserStore) Create(ctx context.Context, user users.User) (created users.User, err error) {
	defer func(start time.Time) { us.s.observe("users.create", start, err) }(time.Now())
	created, err = scanUser(us.s.DB.QueryRow(ctx, `
    INSERT INTO users (id, first_name, last_name, email, password_hash, role,
                       hourly_rate, monthly_deductions, is_active, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING `+userColumns,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role,
		user.HourlyRate, user.MonthlyDeductions, user.IsActive, user.CreatedAt))
	if err != nil {
		return users.User{}, classify("create user", err)
	}
	return created, nil
}

func (us *UserStore) Update(ctx context.Context, id string, patch users.Patch) (updated users.User, err error) {
	defer func(start time.Time) { us.s.observe("users.update", start, err) }(time.Now())
	if id == "" {
		return users.User{}, apperr.Invalid("id", "is required")
	}
	updated, err = scanUser(us.s.DB.QueryRow(ctx, `
    UPDATE users SET
      first_name = COALESCE($2, first_name),
      last_name = COALESCE($3, last_name),
      email = COALESCE($4, email),
      password_hash = COALESCE($5, password_hash),
      role = COALESCE($6, role),
      hourly_rate = COALESCE($7, hourly_rate),
      monthly_deductions = COALESCE($8, monthly_deductions),
      is_active = COALESCE($9, is_active)
    WHERE id = $1
    RETURNING `+userColumns,
		id, patch.FirstName, patch.LastName, patch.Email, patch.PasswordHash, patch.Role,
		patch.HourlyRate, patch.MonthlyDeductions, patch.IsActive))
	if err != nil {
		return users.User{}, classify("update user", err)
	}
	return updated, nil
}
