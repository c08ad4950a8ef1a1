package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nvallon/trainlog-api/internal/domain"
	"github.com/nvallon/trainlog-api/internal/repository/ports"
	"github.com/nvallon/trainlog-api/internal/util"
)

const (
	usernameMinLen    = 5
	usernameMaxLen    = 20
	passwordMinLen    = 8
	sessionTokenChars = 64
)

type AuthServiceConfig struct {
	BcryptCost int
	SessionTTL time.Duration
}

type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository

	bcryptCost int
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionRepository, cfg AuthServiceConfig) *AuthService {
	cost := cfg.BcryptCost
	if cost < util.MinBcryptCost {
		cost = util.MinBcryptCost
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		bcryptCost: cost,
		sessionTTL: ttl,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates all fields at once, hashes the password and persists
// the user. Raw passwords never reach the repository or logs. Duplicate
// usernames or emails surface as a ConflictError from the database unique
// constraint, so two concurrent registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	verrs := domain.ValidationErrors{}
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		verrs.Add("username", fmt.Sprintf("must be between %d and %d characters", usernameMinLen, usernameMaxLen))
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		verrs.Add("email", "must be a valid email address")
	}
	if len(input.Password) < passwordMinLen {
		verrs.Add("password", fmt.Sprintf("must be at least %d characters", passwordMinLen))
	}
	if input.Password != input.ConfirmPassword {
		verrs.Add("confirm_password", "passwords do not match")
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	digest, err := util.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, username, email, digest)
}

// Login verifies credentials and issues a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(password, user.PasswordDigest) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	token, err := util.GenerateSessionToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate session token: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, user.ID, token, s.now().Add(s.sessionTTL))
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// Authenticate resolves a session token to its user. Absent, malformed,
// deactivated and expired tokens all yield ErrSessionInvalid; successful
// resolution slides the expiry forward.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if !validTokenShape(token) {
		return nil, domain.ErrSessionInvalid
	}

	session, err := s.sessions.FindActiveSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, domain.ErrSessionInvalid
	}

	if err := s.sessions.TouchSession(ctx, token, s.now().Add(s.sessionTTL)); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}
	return user, nil
}

// Logout destroys the session. Unknown or already destroyed tokens are not
// an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if !validTokenShape(token) {
		return nil
	}
	return s.sessions.DeactivateSession(ctx, token)
}

func validTokenShape(token string) bool {
	if len(token) != sessionTokenChars {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}
