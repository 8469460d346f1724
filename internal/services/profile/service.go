package profile

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/liarsdice-go/internal/dependencies/clock"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/notify"
	"github.com/mcoot/liarsdice-go/internal/storage"
)

// MaxNameLength bounds profile display names, in runes
const MaxNameLength = model.MaxNameLength

// Service owns rating profiles
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier notify.Notifier
	logger   *slog.Logger

	// Serialises read-modify-write of profiles
	mu sync.Mutex
}

// New creates a profile service
func New(storage storage.Storage, clock clock.Clock, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		clock:    clock,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "profile")),
	}
}

// ValidateName trims and checks a display name
func ValidateName(name string) (string, error) {
	return model.CleanName(name)
}

// SetProfile creates the player's profile, or renames it if it exists
func (s *Service) SetProfile(ctx context.Context, playerID model.PlayerID, name string) (*model.Profile, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	profile, err := s.loadOrNew(ctx, playerID, name)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	profile.Name = name
	profile.UpdatedAt = s.clock.Now()
	err = s.storage.SaveProfile(ctx, profile)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile set",
		slog.String("player_id", string(playerID)),
		slog.String("name", name),
	)

	s.notifier.Publish(ctx, model.Notification{
		Type:       model.NotificationProfileUpdate,
		Recipients: []model.PlayerID{playerID},
		Payload:    model.ProfileUpdatePayload{Profile: *profile},
		CreatedAt:  profile.UpdatedAt,
	})
	return profile, nil
}

// GetProfile returns a player's profile
func (s *Service) GetProfile(ctx context.Context, playerID model.PlayerID) (*model.Profile, error) {
	return s.storage.GetProfile(ctx, playerID)
}

// EnsureProfile returns the player's profile, creating one with the given
// name if they have never set one
func (s *Service) EnsureProfile(ctx context.Context, playerID model.PlayerID, name string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.storage.GetProfile(ctx, playerID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, model.ErrProfileNotFound) {
		return nil, err
	}

	if name, err = ValidateName(name); err != nil {
		name = string(playerID)
	}
	profile = model.NewProfile(playerID, name, s.clock.Now())
	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update applies fn to the stored profile and persists the result
func (s *Service) Update(ctx context.Context, playerID model.PlayerID, fn func(p *model.Profile)) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.storage.GetProfile(ctx, playerID)
	if err != nil {
		return nil, err
	}
	fn(profile)
	profile.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SetStatus moves a player through idle, searching and playing
func (s *Service) SetStatus(ctx context.Context, playerID model.PlayerID, status model.PlayerStatus, gameID model.GameID) error {
	_, err := s.Update(ctx, playerID, func(p *model.Profile) {
		p.Status = status
		p.CurrentGame = gameID
		if status != model.StatusPlaying {
			p.CurrentGame = ""
		}
	})
	return err
}

// List returns every profile
func (s *Service) List(ctx context.Context) ([]*model.Profile, error) {
	return s.storage.ListProfiles(ctx)
}

func (s *Service) loadOrNew(ctx context.Context, playerID model.PlayerID, name string) (*model.Profile, error) {
	profile, err := s.storage.GetProfile(ctx, playerID)
	if errors.Is(err, model.ErrProfileNotFound) {
		return model.NewProfile(playerID, name, s.clock.Now()), nil
	}
	return profile, err
}
