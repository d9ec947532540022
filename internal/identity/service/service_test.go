package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"askboard/internal/identity/models"
	sessionstore "askboard/internal/identity/store/session"
	userstore "askboard/internal/identity/store/user"
	dErrors "askboard/pkg/domain-errors"
	"askboard/pkg/platform/sentinel"
)

type IdentitySuite struct {
	suite.Suite
	service  *Service
	sessions *sessionstore.InMemoryStore
}

func (s *IdentitySuite) SetupTest() {
	s.sessions = sessionstore.New()
	s.service = New(userstore.New(), s.sessions, nil, time.Hour, bcrypt.MinCost)
}

func TestIdentitySuite(t *testing.T) {
	suite.Run(t, new(IdentitySuite))
}

func (s *IdentitySuite) TestRegister() {
	s.Run("creates the user and opens a session", func() {
		principal, token, err := s.service.Register(context.Background(), "alice", "alice@example.com", "secret-pass")
		s.Require().NoError(err)
		s.NotEmpty(principal.ID)
		s.Equal("alice", principal.Username)
		s.NotEmpty(token)

		resolved, err := s.service.Resolve(context.Background(), token)
		s.Require().NoError(err)
		s.Equal(principal, resolved)
	})

	s.Run("duplicate username reports conflict", func() {
		_, _, err := s.service.Register(context.Background(), "bob", "bob@example.com", "secret-pass")
		s.Require().NoError(err)
		_, _, err = s.service.Register(context.Background(), "bob", "other@example.com", "secret-pass")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("missing fields fail validation", func() {
		_, _, err := s.service.Register(context.Background(), " ", "a@b.c", "pw")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *IdentitySuite) TestLogin() {
	s.Run("valid credentials issue a fresh session", func() {
		_, _, err := s.service.Register(context.Background(), "carol", "carol@example.com", "secret-pass")
		s.Require().NoError(err)

		principal, token, err := s.service.Login(context.Background(), "carol@example.com", "secret-pass")
		s.Require().NoError(err)
		s.Equal("carol", principal.Username)

		resolved, err := s.service.Resolve(context.Background(), token)
		s.Require().NoError(err)
		s.Equal(principal, resolved)
	})

	s.Run("wrong password and unknown email fail identically", func() {
		_, _, err := s.service.Register(context.Background(), "dave", "dave@example.com", "secret-pass")
		s.Require().NoError(err)

		_, _, errWrongPassword := s.service.Login(context.Background(), "dave@example.com", "nope")
		_, _, errUnknownEmail := s.service.Login(context.Background(), "ghost@example.com", "nope")
		s.True(dErrors.HasCode(errWrongPassword, dErrors.CodeUnauthenticated))
		s.True(dErrors.HasCode(errUnknownEmail, dErrors.CodeUnauthenticated))
		s.Equal(errWrongPassword.Error(), errUnknownEmail.Error())
	})
}

func (s *IdentitySuite) TestResolve() {
	s.Run("unknown token is unauthenticated", func() {
		_, err := s.service.Resolve(context.Background(), uuid.NewString())
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthenticated))
	})

	s.Run("empty token is unauthenticated", func() {
		_, err := s.service.Resolve(context.Background(), "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthenticated))
	})

	s.Run("expired session is unauthenticated", func() {
		expired := models.Session{
			Token:     uuid.NewString(),
			UserID:    uuid.NewString(),
			Username:  "eve",
			CreatedAt: time.Now().Add(-2 * time.Hour),
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		s.Require().NoError(s.sessions.Create(context.Background(), expired))

		_, err := s.service.Resolve(context.Background(), expired.Token)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthenticated))
	})
}

func (s *IdentitySuite) TestInvalidate() {
	s.Run("destroys the session", func() {
		_, token, err := s.service.Register(context.Background(), "frank", "frank@example.com", "secret-pass")
		s.Require().NoError(err)

		s.Require().NoError(s.service.Invalidate(context.Background(), token))
		_, err = s.service.Resolve(context.Background(), token)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthenticated))
	})

	s.Run("already-gone session still succeeds", func() {
		s.NoError(s.service.Invalidate(context.Background(), uuid.NewString()))
	})

	s.Run("store failure surfaces as an error", func() {
		failing := &failingSessionStore{err: sentinel.ErrUnavailable}
		service := New(userstore.New(), failing, nil, time.Hour, bcrypt.MinCost)
		err := service.Invalidate(context.Background(), uuid.NewString())
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

type failingSessionStore struct {
	err error
}

func (f *failingSessionStore) Create(context.Context, models.Session) error {
	return f.err
}

func (f *failingSessionStore) FindByToken(context.Context, string) (models.Session, error) {
	return models.Session{}, f.err
}

func (f *failingSessionStore) Delete(context.Context, string) error {
	return f.err
}
