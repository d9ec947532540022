package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"askboard/internal/identity/models"
	"askboard/internal/platform/metrics"
	"askboard/pkg/domain"
	dErrors "askboard/pkg/domain-errors"
	"askboard/pkg/platform/sentinel"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	FindByToken(ctx context.Context, token string) (models.Session, error)
	Delete(ctx context.Context, token string) error
}

// Service owns registration, login, logout, and per-request principal
// resolution. Credential verification happens only here; the forum service
// receives an already-resolved principal.
type Service struct {
	users      UserStore
	sessions   SessionStore
	metrics    *metrics.Metrics
	sessionTTL time.Duration
	bcryptCost int
}

func New(users UserStore, sessions SessionStore, m *metrics.Metrics, sessionTTL time.Duration, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		sessions:   sessions,
		metrics:    m,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user and immediately opens a session for it, matching
// the signup-then-redirect flow. Duplicate username or email reports conflict.
func (s *Service) Register(ctx context.Context, username, email, password string) (domain.Principal, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return domain.Principal{}, "", dErrors.New(dErrors.CodeValidation, "username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.Principal{}, "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return domain.Principal{}, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user, err := s.users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return domain.Principal{}, "", dErrors.New(dErrors.CodeConflict, "username or email already taken")
		}
		return domain.Principal{}, "", storeFailure(err, "failed to create user")
	}

	if s.metrics != nil {
		s.metrics.UsersRegistered.Inc()
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return domain.Principal{}, "", err
	}
	return domain.Principal{ID: user.ID, Username: user.Username}, token, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password report the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Principal, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Principal{}, "", dErrors.New(dErrors.CodeUnauthenticated, "invalid email or password")
		}
		return domain.Principal{}, "", storeFailure(err, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Principal{}, "", dErrors.New(dErrors.CodeUnauthenticated, "invalid email or password")
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return domain.Principal{}, "", err
	}
	return domain.Principal{ID: user.ID, Username: user.Username}, token, nil
}

// Resolve turns a session token into the principal it was issued to.
// Missing, expired, or unreadable sessions all report unauthenticated.
func (s *Service) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthenticated, "no session token")
	}
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Principal{}, dErrors.New(dErrors.CodeUnauthenticated, "session not found or expired")
		}
		return domain.Principal{}, storeFailure(err, "failed to load session")
	}
	return domain.Principal{ID: session.UserID, Username: session.Username}, nil
}

// Invalidate destroys the session. Logout of an already-gone session
// succeeds, but a failing session store surfaces as an error rather than a
// silent success.
func (s *Service) Invalidate(ctx context.Context, token string) error {
	err := s.sessions.Delete(ctx, token)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return storeFailure(err, "failed to invalidate session")
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, user models.User) (string, error) {
	now := time.Now()
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", storeFailure(err, "failed to create session")
	}
	return session.Token, nil
}

func storeFailure(err error, message string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
