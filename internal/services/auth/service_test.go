package auth

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/liarsdice-go/internal/dependencies/mocks"
	"github.com/mcoot/liarsdice-go/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Storage
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC))
	s.service = New(s.store, s.clock, Config{SessionDuration: time.Hour})
}

func (s *ServiceSuite) guest(name string) *Session {
	session, err := s.service.CreateGuestPlayer(s.ctx, name)
	s.Require().NoError(err)
	return session
}

func (s *ServiceSuite) TestGuestIsStoredAndSignedIn() {
	session := s.guest("Alice")

	s.True(strings.HasPrefix(string(session.PlayerID), "p_"))
	s.True(session.Player.IsGuest)
	s.Equal(s.clock.Now().Add(time.Hour), session.ExpiresAt)

	stored, err := s.store.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Alice", stored.DisplayName)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, validated.PlayerID)
	s.Equal("Alice", validated.Player.DisplayName)
	s.True(validated.Player.IsGuest)
}

func (s *ServiceSuite) TestEachGuestGetsAFreshID() {
	s.NotEqual(s.guest("A").PlayerID, s.guest("B").PlayerID)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	session, err := s.service.RegisterPlayer(s.ctx, "alice", "correct horse", "Alice")
	s.Require().NoError(err)
	s.False(session.Player.IsGuest)

	account, err := s.store.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, account.PlayerID)
	s.NotContains(account.PasswordHash, "correct horse")
}

func (s *ServiceSuite) TestUsernamesAreCaseInsensitive() {
	_, err := s.service.RegisterPlayer(s.ctx, " Alice ", "pw", "Alice")
	s.Require().NoError(err)

	_, err = s.service.RegisterPlayer(s.ctx, "ALICE", "other", "Impostor")
	s.ErrorIs(err, ErrUsernameExists)

	session, err := s.service.Login(s.ctx, "alice", "pw")
	s.Require().NoError(err)
	s.Equal("Alice", session.Player.DisplayName)
}

func (s *ServiceSuite) TestLoginFailures() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "pw", "Alice")
	s.Require().NoError(err)

	cases := map[string][2]string{
		"wrong password": {"alice", "nope"},
		"unknown user":   {"bob", "pw"},
	}
	for name, c := range cases {
		s.Run(name, func() {
			_, err := s.service.Login(s.ctx, c[0], c[1])
			s.ErrorIs(err, ErrInvalidCredentials)
		})
	}
}

func (s *ServiceSuite) TestSessionExpiresWithClock() {
	session := s.guest("Alice")

	s.clock.Advance(59 * time.Minute)
	_, err := s.service.ValidateSession(session.Token)
	s.NoError(err)

	s.clock.Advance(2 * time.Minute)
	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestRejectsForeignAndTamperedTokens() {
	other := New(s.store, s.clock, Config{Secret: []byte("someone-else")})
	foreign, err := other.CreateGuestPlayer(s.ctx, "Mallory")
	s.Require().NoError(err)

	parts := strings.Split(s.guest("Alice").Token, ".")
	s.Require().Len(parts, 3)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"p_evil","exp":9999999999}`))

	for _, token := range []string{"", "not-a-jwt", foreign.Token, strings.Join(parts, ".")} {
		_, err := s.service.ValidateSession(token)
		s.ErrorIs(err, ErrInvalidSession, token)
	}
}

func (s *ServiceSuite) TestInvalidateSessionRevokesOnlyThatToken() {
	first := s.guest("Alice")
	second, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.service.InvalidateSession(first.Token)
	s.service.InvalidateSession("garbage")

	_, err = s.service.ValidateSession(first.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(second.Token)
	s.NoError(err)
	s.Equal(1, s.service.RevokedCount())
}

func (s *ServiceSuite) TestCleanExpiredSessionsKeepsLiveRevocations() {
	old := s.guest("Alice")
	s.service.InvalidateSession(old.Token)

	s.clock.Advance(2 * time.Hour)
	fresh := s.guest("Bob")
	s.service.InvalidateSession(fresh.Token)
	s.Equal(2, s.service.RevokedCount())

	s.service.CleanExpiredSessions()
	s.Equal(1, s.service.RevokedCount())

	_, err := s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.ErrorIs(err, ErrInvalidSession)
}
