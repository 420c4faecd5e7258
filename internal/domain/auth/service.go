package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/users"
	cryptoutil "worklog/internal/platform/crypto"
)

const (
	DefaultSessionTTL = 8 * time.Hour
	sessionIDBytes    = 24
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,contains=@"`
	Password string `json:"password" validate:"required,min=4"`
}

type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,contains=@"`
	Password        string `json:"password" validate:"required,min=4"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Principal is the authenticated caller behind a token.
type Principal struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	SessionID string `json:"-"`
}

func (p Principal) Actor() users.Actor {
	return users.Actor{UserID: p.UserID, Role: p.Role}
}

type Result struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      users.User `json:"user"`
}

type Service struct {
	users    *users.Service
	sessions *SessionStore
	secret   string
	ttl      time.Duration
	logger   *slog.Logger
}

func NewService(userService *users.Service, sessions *SessionStore, secret string, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: userService, sessions: sessions, secret: secret, ttl: ttl, logger: logger}
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Result, error) {
	in.Email = users.NormalizeEmail(in.Email)
	if err := apperr.NewChecker().Struct(in).Err(); err != nil {
		return Result{}, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return Result{}, ErrInvalidCredentials
	}
	if err != nil {
		return Result{}, err
	}
	if !user.IsActive {
		return Result{}, ErrInvalidCredentials
	}
	if err := cryptoutil.CheckPassword(user.PasswordHash, in.Password); err != nil {
		return Result{}, ErrInvalidCredentials
	}

	sessionID, err := cryptoutil.RandomToken(sessionIDBytes)
	if err != nil {
		return Result{}, err
	}
	session := Session{
		ID:        sessionID,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl).UTC(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return Result{}, err
	}
	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, Role: user.Role, SessionID: session.ID}, s.ttl)
	if err != nil {
		return Result{}, err
	}
	return Result{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// Register creates an employee account with the default rate and
// deductions, then signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = users.NormalizeEmail(in.Email)
	if err := apperr.NewChecker().Struct(in).Err(); err != nil {
		return Result{}, err
	}

	if _, err := s.users.Create(ctx, users.CreateInput{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		Password:          in.Password,
		Role:              users.RoleEmployee,
		HourlyRate:        users.DefaultHourlyRate,
		MonthlyDeductions: users.DefaultMonthlyDeductions,
	}); err != nil {
		return Result{}, err
	}
	return s.Login(ctx, LoginInput{Email: in.Email, Password: in.Password})
}

// Logout revokes the session. A session that is already gone is not an
// error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a bearer token to a live principal. The role is
// read from the current user record, not from the token.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	user, session, err := s.resolve(ctx, token)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: user.ID, Role: user.Role, SessionID: session.ID}, nil
}

// CurrentSession returns the user behind token, or ok=false when the token
// does not map to a live session.
func (s *Service) CurrentSession(ctx context.Context, token string) (users.User, bool, error) {
	user, _, err := s.resolve(ctx, token)
	if errors.Is(err, ErrUnauthenticated) {
		return users.User{}, false, nil
	}
	if err != nil {
		return users.User{}, false, err
	}
	return user, true, nil
}

func (s *Service) resolve(ctx context.Context, token string) (users.User, Session, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return users.User{}, Session{}, ErrUnauthenticated
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, apperr.ErrNotFound) {
		return users.User{}, Session{}, ErrUnauthenticated
	}
	if err != nil {
		return users.User{}, Session{}, err
	}
	if session.UserID != claims.UserID {
		return users.User{}, Session{}, ErrUnauthenticated
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return users.User{}, Session{}, ErrUnauthenticated
	}
	if err != nil {
		return users.User{}, Session{}, err
	}
	if !user.IsActive {
		return users.User{}, Session{}, ErrUnauthenticated
	}
	return user, session, nil
}
