// Package auth owns player accounts and the signed session tokens that
// identify them to the API.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
)

// Config controls session lifetime and the HMAC signing key
type Config struct {
	SessionDuration time.Duration
	Secret          []byte
}

func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		Secret:          []byte("liarsdice-dev-secret"),
	}
}

// Service creates players and issues their session tokens. Tokens are
// self-contained; the only server-side session state is the revocation
// list kept for logouts.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config

	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> token expiry
}

func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if len(cfg.Secret) == 0 {
		cfg.Secret = defaults.Secret
	}
	return &Service{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
		revoked: make(map[string]time.Time),
	}
}

// CreateGuestPlayer creates a throwaway player and signs them in
func (s *Service) CreateGuestPlayer(ctx context.Context, displayName string) (*Session, error) {
	player := s.newPlayer(displayName, true)
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return s.issue(player)
}

// RegisterPlayer creates an account with a bcrypt-hashed password. Usernames
// are case-insensitive.
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error) {
	username = normalizeUsername(username)
	switch _, err := s.storage.GetRegisteredPlayerByUsername(ctx, username); {
	case err == nil:
		return nil, ErrUsernameExists
	case !errors.Is(err, model.ErrPlayerNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	player := s.newPlayer(displayName, false)
	account := &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    player.CreatedAt,
		UpdatedAt:    player.CreatedAt,
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := s.storage.SaveRegisteredPlayer(ctx, account); err != nil {
		return nil, err
	}
	return s.issue(player)
}

// Login checks a username and password and signs the player in
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	account, err := s.storage.GetRegisteredPlayerByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, account.PlayerID)
	if err != nil {
		return nil, err
	}
	return s.issue(player)
}

func (s *Service) newPlayer(displayName string, guest bool) *model.Player {
	return &model.Player{
		ID:          model.PlayerID("p_" + uuid.NewString()),
		DisplayName: displayName,
		IsGuest:     guest,
		CreatedAt:   s.clock.Now(),
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
