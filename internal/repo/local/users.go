package local

import (
	"context"
	"sort"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/users"
)

// SeedAdminID is the built-in administrator. It is always reported active.
const SeedAdminID = users.BuiltinAdminID

type userRecord struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"passwordHash"`
	Role              string    `json:"role"`
	HourlyRate        float64   `json:"hourlyRate"`
	MonthlyDeductions float64   `json:"monthlyDeductions"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

func toRecord(u users.User) userRecord {
	return userRecord{
		ID:                u.ID,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role,
		HourlyRate:        u.HourlyRate,
		MonthlyDeductions: u.MonthlyDeductions,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
	}
}

func (r userRecord) user() users.User {
	u := users.User{
		ID:                r.ID,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		PasswordHash:      r.PasswordHash,
		Role:              r.Role,
		HourlyRate:        r.HourlyRate,
		MonthlyDeductions: r.MonthlyDeductions,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
	}
	if u.ID == SeedAdminID {
		u.IsActive = true
	}
	return u
}

type UserStore struct {
	s *Store
}

var _ users.Store = (*UserStore)(nil)

func (us *UserStore) List(ctx context.Context) (list []users.User, err error) {
	defer func(start time.Time) { us.s.observe("users.list", start, err) }(time.Now())
	records, err := loadList[userRecord](ctx, us.s.backend, usersKey)
	if err != nil {
		return nil, err
	}
	list = make([]users.User, 0, len(records))
	for _, r := range records {
		list = append(list, r.user())
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (us *UserStore) Get(ctx context.Context, id string) (users.User, error) {
	list, err := us.List(ctx)
	if err != nil {
		return users.User{}, err
	}
	for _, u := range list {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, apperr.ErrNotFound
}

func (us *UserStore) FindByEmail(ctx context.Context, email string) (users.User, error) {
	list, err := us.List(ctx)
	if err != nil {
		return users.User{}, err
	}
	email = users.NormalizeEmail(email)
	for _, u := range list {
		if users.NormalizeEmail(u.Email) == email {
			return u, nil
		}
	}
	return users.User{}, apperr.ErrNotFound
}

func (us *UserStore) Create(ctx context.Context, user users.User) (created users.User, err error) {
	defer func(start time.Time) { us.s.observe("users.create", start, err) }(time.Now())
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	records, err := loadList[userRecord](ctx, us.s.backend, usersKey)
	if err != nil {
		return users.User{}, err
	}
	for _, r := range records {
		if users.NormalizeEmail(r.Email) == users.NormalizeEmail(user.Email) {
			return users.User{}, apperr.ErrDuplicateEmail
		}
	}
	records = append(records, toRecord(user))
	if err := saveList(ctx, us.s.backend, usersKey, records); err != nil {
		return users.User{}, err
	}
	return toRecord(user).user(), nil
}

func (us *UserStore) Update(ctx context.Context, id string, patch users.Patch) (updated users.User, err error) {
	defer func(start time.Time) { us.s.observe("users.update", start, err) }(time.Now())
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	records, err := loadList[userRecord](ctx, us.s.backend, usersKey)
	if err != nil {
		return users.User{}, err
	}
	idx := -1
	for i, r := range records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return users.User{}, apperr.ErrNotFound
	}
	if patch.Email != nil {
		for i, r := range records {
			if i != idx && users.NormalizeEmail(r.Email) == users.NormalizeEmail(*patch.Email) {
				return users.User{}, apperr.ErrDuplicateEmail
			}
		}
	}
	merged := patch.Apply(records[idx].user())
	records[idx] = toRecord(merged)
	if err := saveList(ctx, us.s.backend, usersKey, records); err != nil {
		return users.User{}, err
	}
	return records[idx].user(), nil
}
