package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/regattadev/boatrace/internal/dependencies/mocks"
	"github.com/regattadev/boatrace/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

// Guest tests

func (s *ServiceSuite) TestCreateGuest() {
	session, err := s.service.CreateGuest(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Account.DisplayName)
	s.True(session.Account.IsGuest)

	// Account is persisted
	account, err := s.storage.GetAccount(s.ctx, session.UserID)
	s.Require().NoError(err)
	s.Equal("Alice", account.DisplayName)
}

func (s *ServiceSuite) TestGuestSessionIsValid() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.UserID, validated.UserID)
}

// Register tests

func (s *ServiceSuite) TestRegister() {
	session, err := s.service.Register(s.ctx, "alice", "hunter2", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.False(session.Account.IsGuest)

	creds, err := s.storage.GetCredentialsByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.UserID, creds.UserID)
	// Password is never stored in the clear
	s.NotEqual("hunter2", creds.PasswordHash)
}

func (s *ServiceSuite) TestRegisterDuplicateUsernameFails() {
	_, err := s.service.Register(s.ctx, "alice", "hunter2", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "other", "Alice2")
	s.ErrorIs(err, ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLogin() {
	registered, _ := s.service.Register(s.ctx, "alice", "hunter2", "Alice")

	session, err := s.service.Login(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	s.Equal(registered.UserID, session.UserID)
	s.NotEqual(registered.Token, session.Token)
}

func (s *ServiceSuite) TestLoginWrongPasswordFails() {
	_, _ = s.service.Register(s.ctx, "alice", "hunter2", "Alice")

	_, err := s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsernameFails() {
	_, err := s.service.Login(s.ctx, "nobody", "hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateUnknownTokenFails() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpires() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	expired, _ := s.service.CreateGuest(s.ctx, "Old")
	s.clock.Advance(25 * time.Hour)
	fresh, _ := s.service.CreateGuest(s.ctx, "New")

	s.service.CleanExpiredSessions()

	_, err := s.service.ValidateSession(expired.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestGetAccount() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	account, err := s.service.GetAccount(session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", account.DisplayName)
}
