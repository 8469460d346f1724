package memory

import (
	"context"
	"sync"

	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state
// with the store.
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	profiles          map[model.PlayerID]model.Profile
	games             map[model.GameID]*model.Game
	hands             map[handKey]model.PrivateHand
	queues            map[model.LobbyID]model.MatchQueue
	settlements       map[model.GameID]*model.Settlement
	leaderboard       map[model.PlayerID]model.LeaderboardEntry
}

type handKey struct {
	gameID   model.GameID
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		profiles:          make(map[model.PlayerID]model.Profile),
		games:             make(map[model.GameID]*model.Game),
		hands:             make(map[handKey]model.PrivateHand),
		queues:            make(map[model.LobbyID]model.MatchQueue),
		settlements:       make(map[model.GameID]*model.Settlement),
		leaderboard:       make(map[model.PlayerID]model.LeaderboardEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *rp
	s.registeredPlayers[rp.PlayerID] = &r
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	r := *rp
	return &r, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	playerID, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.GetRegisteredPlayer(ctx, playerID)
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.PlayerID] = *profile
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return &profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make([]*model.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profile := p
		profiles = append(profiles, &profile)
	}
	return profiles, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[id]
	return ok, nil
}

func (s *Storage) ListActiveGames(ctx context.Context) ([]model.GameID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []model.GameID
	for id, game := range s.games {
		if !game.IsOver() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Private hand operations

func (s *Storage) SavePrivateHand(ctx context.Context, hand *model.PrivateHand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := *hand
	h.Dice = append(model.Hand(nil), hand.Dice...)
	s.hands[handKey{gameID: hand.GameID, playerID: hand.PlayerID}] = h
	return nil
}

func (s *Storage) GetPrivateHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PrivateHand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hand, ok := s.hands[handKey{gameID: gameID, playerID: playerID}]
	if !ok {
		return nil, model.ErrPrivateHandNotFound
	}
	hand.Dice = append(model.Hand(nil), hand.Dice...)
	return &hand, nil
}

func (s *Storage) DeletePrivateHandsForGame(ctx context.Context, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.hands {
		if key.gameID == gameID {
			delete(s.hands, key)
		}
	}
	return nil
}

// Matchmaking queue operations

func (s *Storage) SaveQueue(ctx context.Context, queue *model.MatchQueue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := *queue
	q.Entries = append([]model.QueueEntry(nil), queue.Entries...)
	s.queues[queue.LobbyID] = q
	return nil
}

func (s *Storage) GetQueue(ctx context.Context, lobbyID model.LobbyID) (*model.MatchQueue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.queues[lobbyID]
	if !ok {
		return &model.MatchQueue{LobbyID: lobbyID}, nil
	}
	q.Entries = append([]model.QueueEntry(nil), q.Entries...)
	return &q, nil
}

// Settlement operations

func (s *Storage) SaveSettlement(ctx context.Context, settlement *model.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settlements[settlement.GameID] = settlement.Clone()
	return nil
}

func (s *Storage) GetSettlement(ctx context.Context, gameID model.GameID) (*model.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settlement, ok := s.settlements[gameID]
	if !ok {
		return nil, model.ErrSettlementNotFound
	}
	return settlement.Clone(), nil
}

func (s *Storage) ListPendingSettlements(ctx context.Context) ([]model.GameID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []model.GameID
	for id, settlement := range s.settlements {
		if !settlement.Completed {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Leaderboard operations

func (s *Storage) SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaderboard[entry.PlayerID] = *entry
	return nil
}

func (s *Storage) GetLeaderboardEntry(ctx context.Context, playerID model.PlayerID) (*model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.leaderboard[playerID]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return &entry, nil
}

func (s *Storage) ListLeaderboardEntries(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]*model.LeaderboardEntry, 0, len(s.leaderboard))
	for _, e := range s.leaderboard {
		entry := e
		entries = append(entries, &entry)
	}
	return entries, nil
}
