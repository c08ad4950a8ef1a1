package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nvallon/trainlog-api/internal/domain"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, username, email, passwordDigest string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return nil, &domain.ConflictError{Field: "username"}
		}
		if u.Email == email {
			return nil, &domain.ConflictError{Field: "email"}
		}
	}
	user := &domain.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		PasswordDigest: passwordDigest,
		CreatedAt:      time.Now(),
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	nextID   int64
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *memorySessionRepo) CreateSession(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[token]; exists {
		return nil, errors.New("duplicate session token")
	}
	r.nextID++
	session := &domain.Session{
		ID:         r.nextID,
		UserID:     userID,
		Token:      token,
		CreatedAt:  time.Now(),
		LastSeenAt: time.Now(),
		ExpiresAt:  expiresAt,
		IsActive:   true,
	}
	r.sessions[token] = session
	copied := *session
	return &copied, nil
}

func (r *memorySessionRepo) FindActiveSession(_ context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[token]
	if !ok || !session.IsActive || !session.ExpiresAt.After(time.Now()) {
		return nil, domain.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *memorySessionRepo) TouchSession(_ context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[token]; ok && session.IsActive {
		session.LastSeenAt = time.Now()
		session.ExpiresAt = expiresAt
	}
	return nil
}

func (r *memorySessionRepo) DeactivateSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[token]; ok {
		session.IsActive = false
	}
	return nil
}

func newTestAuthService() (*AuthService, *memoryUserRepo, *memorySessionRepo) {
	users := newMemoryUserRepo()
	sessions := newMemorySessionRepo()
	svc := NewAuthService(users, sessions, AuthServiceConfig{SessionTTL: time.Hour})
	return svc, users, sessions
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	user, err := svc.Register(ctx, RegisterInput{
		Username:        "alice",
		Email:           "alice@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordDigest == "password123" || user.PasswordDigest == "" {
		t.Fatalf("expected hashed digest, got %q", user.PasswordDigest)
	}

	session, loggedIn, err := svc.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("expected login to resolve the registered user")
	}
	if len(session.Token) != sessionTokenChars {
		t.Fatalf("expected %d-char token, got %d", sessionTokenChars, len(session.Token))
	}

	resolved, err := svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("expected session to resolve to the registered user")
	}
}

func TestRegisterCollectsAllFieldErrors(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestAuthService()

	_, err := svc.Register(ctx, RegisterInput{
		Username:        "abc",
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
	})
	verrs, ok := domain.AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, field := range []string{"username", "email", "password", "confirm_password"} {
		if _, present := verrs[field]; !present {
			t.Fatalf("expected a message for field %q, got %v", field, verrs)
		}
	}
	if users.count() != 0 {
		t.Fatalf("expected no user created on validation failure")
	}
}

func TestRegisterUsernameBounds(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	for _, username := range []string{"abcd", "abcdefghijklmnopqrstu"} {
		_, err := svc.Register(ctx, RegisterInput{
			Username:        username,
			Email:           "a@x.com",
			Password:        "password123",
			ConfirmPassword: "password123",
		})
		verrs, ok := domain.AsValidation(err)
		if !ok {
			t.Fatalf("expected ValidationErrors for username %q, got %v", username, err)
		}
		if _, present := verrs["username"]; !present {
			t.Fatalf("expected username error for %q, got %v", username, verrs)
		}
	}

	if _, err := svc.Register(ctx, RegisterInput{
		Username:        "abcde",
		Email:           "b@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("expected 5-char username to pass, got %v", err)
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestAuthService()

	input := RegisterInput{
		Username:        "alice",
		Email:           "alice@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	before := users.count()

	_, err := svc.Register(ctx, input)
	cerr, ok := domain.AsConflict(err)
	if !ok {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cerr.Field != "username" {
		t.Fatalf("expected username conflict, got %q", cerr.Field)
	}
	if users.count() != before {
		t.Fatalf("expected row count unchanged after conflict")
	}

	input.Username = "alice2"
	_, err = svc.Register(ctx, input)
	if cerr, ok := domain.AsConflict(err); !ok || cerr.Field != "email" {
		t.Fatalf("expected email conflict, got %v", err)
	}
	if users.count() != before {
		t.Fatalf("expected row count unchanged after email conflict")
	}
}

func TestLoginGenericFailure(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	if _, err := svc.Register(ctx, RegisterInput{
		Username:        "alice",
		Email:           "alice@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Unknown username and wrong password must be indistinguishable.
	_, _, errUnknown := svc.Login(ctx, "nosuchuser", "password123")
	_, _, errWrongPass := svc.Login(ctx, "alice", "wrongpassword")
	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", errUnknown)
	}
	if !errors.Is(errWrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPass)
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Fatalf("expected identical messages, got %q vs %q", errUnknown, errWrongPass)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	if _, err := svc.Register(ctx, RegisterInput{
		Username:        "alice",
		Email:           "alice@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	session, _, err := svc.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := svc.Authenticate(ctx, session.Token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid after logout, got %v", err)
	}
	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("expected repeated Logout to succeed, got %v", err)
	}
	if err := svc.Logout(ctx, "never-issued"); err != nil {
		t.Fatalf("expected Logout of unknown token to succeed, got %v", err)
	}
}

func TestAuthenticateRejectsMalformedTokens(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	for _, token := range []string{"", "short", "zz" + string(make([]byte, 62))} {
		if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrSessionInvalid) {
			t.Fatalf("expected ErrSessionInvalid for token %q, got %v", token, err)
		}
	}
}

func TestAuthenticateExpiredSession(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newTestAuthService()

	if _, err := svc.Register(ctx, RegisterInput{
		Username:        "alice",
		Email:           "alice@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	session, _, err := svc.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	sessions.mu.Lock()
	sessions.sessions[session.Token].ExpiresAt = time.Now().Add(-time.Minute)
	sessions.mu.Unlock()

	if _, err := svc.Authenticate(ctx, session.Token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for expired session, got %v", err)
	}
}

func TestAuthenticateSlidesExpiry(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newTestAuthService()

	if _, err := svc.Register(ctx, RegisterInput{
		Username:        "alice",
		Email:           "alice@x.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	session, _, err := svc.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// Pretend time has advanced: resolution should push expiry forward.
	later := time.Now().Add(30 * time.Minute)
	svc.now = func() time.Time { return later }

	if _, err := svc.Authenticate(ctx, session.Token); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	sessions.mu.Lock()
	got := sessions.sessions[session.Token].ExpiresAt
	sessions.mu.Unlock()
	want := later.Add(time.Hour)
	if !got.Equal(want) {
		t.Fatalf("expected expiry slid to %v, got %v", want, got)
	}
}
