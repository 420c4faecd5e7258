package users

import (
	"strings"
	"time"

	"worklog/internal/domain/lifecycle"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// BuiltinAdminID is the seeded administrator. It cannot be deactivated.
const BuiltinAdminID = "admin-1"

// Registration defaults applied to self sign-ups.
const (
	DefaultHourlyRate        = 450
	DefaultMonthlyDeductions = 8500
)

// DeletionPolicy keeps users around so their time entries stay attributable.
const DeletionPolicy = lifecycle.SoftDelete

type User struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	HourlyRate        float64   `json:"hourlyRate"`
	MonthlyDeductions float64   `json:"monthlyDeductions"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	PasswordHash      string    `json:"-"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type CreateInput struct {
	FirstName         string  `json:"firstName" validate:"required"`
	LastName          string  `json:"lastName" validate:"required"`
	Email             string  `json:"email" validate:"required,emailshape"`
	Password          string  `json:"password" validate:"required,min=4"`
	Role              string  `json:"role" validate:"omitempty,oneof=admin employee"`
	HourlyRate        float64 `json:"hourlyRate" validate:"gt=0,lte=10000"`
	MonthlyDeductions float64 `json:"monthlyDeductions" validate:"gte=0"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	FirstName         *string  `json:"firstName,omitempty"`
	LastName          *string  `json:"lastName,omitempty"`
	Email             *string  `json:"email,omitempty"`
	Password          *string  `json:"password,omitempty"`
	Role              *string  `json:"role,omitempty"`
	HourlyRate        *float64 `json:"hourlyRate,omitempty"`
	MonthlyDeductions *float64 `json:"monthlyDeductions,omitempty"`
	IsActive          *bool    `json:"isActive,omitempty"`

	PasswordHash *string `json:"-"`
}

// Apply merges the patch into u.
func (p Patch) Apply(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.HourlyRate != nil {
		u.HourlyRate = *p.HourlyRate
	}
	if p.MonthlyDeductions != nil {
		u.MonthlyDeductions = *p.MonthlyDeductions
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	return u
}

// Actor identifies who is performing an operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanAccess reports whether the actor may read or change data owned by userID.
func (a Actor) CanAccess(userID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == userID)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
