package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// Session is a validated or freshly issued token and the player it names
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Player    model.Player
	CreatedAt time.Time
	ExpiresAt time.Time
}

// claims are signed into every session token. The display name and guest
// flag ride along so validating a token needs no storage lookup.
type claims struct {
	Name  string `json:"name"`
	Guest bool   `json:"guest"`
	jwt.RegisteredClaims
}

func (s *Service) issue(player *model.Player) (*Session, error) {
	now := s.clock.Now()
	expires := now.Add(s.cfg.SessionDuration)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:  player.DisplayName,
		Guest: player.IsGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   string(player.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}).SignedString(s.cfg.Secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		PlayerID:  player.ID,
		Player:    *player,
		CreatedAt: now,
		ExpiresAt: expires,
	}, nil
}

func (s *Service) parse(token string, opts ...jwt.ParserOption) (*claims, error) {
	c := &claims{}
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if _, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) { return s.cfg.Secret, nil }, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// ValidateSession checks the signature, expiry and revocation list
func (s *Service) ValidateSession(token string) (*Session, error) {
	c, err := s.parse(token, jwt.WithExpirationRequired())
	if err != nil || s.isRevoked(c.ID) {
		return nil, ErrInvalidSession
	}

	session := &Session{
		Token:    token,
		PlayerID: model.PlayerID(c.Subject),
		Player: model.Player{
			ID:          model.PlayerID(c.Subject),
			DisplayName: c.Name,
			IsGuest:     c.Guest,
		},
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.IssuedAt != nil {
		session.CreatedAt = c.IssuedAt.Time
		session.Player.CreatedAt = c.IssuedAt.Time
	}
	return session, nil
}

// InvalidateSession revokes a token until it would have expired anyway.
// Unparseable tokens are ignored.
func (s *Service) InvalidateSession(token string) {
	c, err := s.parse(token)
	if err != nil || c.ID == "" || c.ExpiresAt == nil {
		return
	}
	s.mu.Lock()
	s.revoked[c.ID] = c.ExpiresAt.Time
	s.mu.Unlock()
}

func (s *Service) isRevoked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[id]
	return ok
}

// CleanExpiredSessions drops revocations for tokens that have expired, so
// the list only holds tokens that would otherwise still validate
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, expires := range s.revoked {
		if !now.Before(expires) {
			delete(s.revoked, id)
		}
	}
}

// RevokedCount returns how many revocations are tracked
func (s *Service) RevokedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}
