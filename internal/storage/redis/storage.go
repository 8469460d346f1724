package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and pings it before returning
func New(cfg Config) (*Storage, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client, e.g. one pointed at miniredis
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getJSON loads key into dst, returning notFound if the key is missing
func (s *Storage) getJSON(ctx context.Context, key string, dst any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dst)
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}
	return s.client.Set(ctx, playerKey(player.ID), data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var player model.Player
	if err := s.getJSON(ctx, playerKey(id), &player, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	var rp model.RegisteredPlayer
	if err := s.getJSON(ctx, registeredPlayerKey(playerID), &rp, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	key := profileKey(profile.PlayerID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, profilesIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	var profile model.Profile
	if err := s.getJSON(ctx, profileKey(id), &profile, model.ErrProfileNotFound); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	keys, err := s.client.SMembers(ctx, profilesIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Profile{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	profiles := make([]*model.Profile, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var profile model.Profile
		if err := json.Unmarshal([]byte(str), &profile); err != nil {
			continue // Skip invalid data
		}
		profiles = append(profiles, &profile)
	}
	return profiles, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	// Keep the active game index in step with the game's phase
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
	if game.IsOver() {
		pipe.SRem(ctx, activeGamesIndexKey(), string(game.ID))
	} else {
		pipe.SAdd(ctx, activeGamesIndexKey(), string(game.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getJSON(ctx, gameKey(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, activeGamesIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	exists, err := s.client.Exists(ctx, gameKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListActiveGames(ctx context.Context) ([]model.GameID, error) {
	members, err := s.client.SMembers(ctx, activeGamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]model.GameID, len(members))
	for i, m := range members {
		ids[i] = model.GameID(m)
	}
	return ids, nil
}

// Private hand operations

func (s *Storage) SavePrivateHand(ctx context.Context, hand *model.PrivateHand) error {
	data, err := json.Marshal(hand)
	if err != nil {
		return err
	}

	hKey := handKey(hand.GameID, hand.PlayerID)
	indexKey := handsForGameIndexKey(hand.GameID)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, hKey, data, s.cfg.HandTTL)
	pipe.SAdd(ctx, indexKey, hKey)
	pipe.Expire(ctx, indexKey, s.cfg.HandTTL) // Keep index TTL in sync
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPrivateHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PrivateHand, error) {
	var hand model.PrivateHand
	if err := s.getJSON(ctx, handKey(gameID, playerID), &hand, model.ErrPrivateHandNotFound); err != nil {
		return nil, err
	}
	return &hand, nil
}

func (s *Storage) DeletePrivateHandsForGame(ctx context.Context, gameID model.GameID) error {
	indexKey := handsForGameIndexKey(gameID)

	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Matchmaking queue operations

func (s *Storage) SaveQueue(ctx context.Context, queue *model.MatchQueue) error {
	data, err := json.Marshal(queue)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, queueKey(queue.LobbyID), data, s.cfg.QueueTTL).Err()
}

func (s *Storage) GetQueue(ctx context.Context, lobbyID model.LobbyID) (*model.MatchQueue, error) {
	var queue model.MatchQueue
	err := s.getJSON(ctx, queueKey(lobbyID), &queue, errQueueMissing)
	if errors.Is(err, errQueueMissing) {
		return &model.MatchQueue{LobbyID: lobbyID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &queue, nil
}

var errQueueMissing = errors.New("queue missing")

// Settlement operations

func (s *Storage) SaveSettlement(ctx context.Context, settlement *model.Settlement) error {
	data, err := json.Marshal(settlement)
	if err != nil {
		return err
	}

	id := string(settlement.GameID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, settlementKey(settlement.GameID), data, s.cfg.GameTTL)
	if settlement.Completed {
		pipe.SRem(ctx, pendingSettlementsIndexKey(), id)
	} else {
		pipe.SAdd(ctx, pendingSettlementsIndexKey(), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSettlement(ctx context.Context, gameID model.GameID) (*model.Settlement, error) {
	var settlement model.Settlement
	if err := s.getJSON(ctx, settlementKey(gameID), &settlement, model.ErrSettlementNotFound); err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (s *Storage) ListPendingSettlements(ctx context.Context) ([]model.GameID, error) {
	members, err := s.client.SMembers(ctx, pendingSettlementsIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]model.GameID, len(members))
	for i, m := range members {
		ids[i] = model.GameID(m)
	}
	return ids, nil
}

// Leaderboard operations

func (s *Storage) SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, leaderboardKey(), string(entry.PlayerID), data).Err()
}

func (s *Storage) GetLeaderboardEntry(ctx context.Context, playerID model.PlayerID) (*model.LeaderboardEntry, error) {
	data, err := s.client.HGet(ctx, leaderboardKey(), string(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEntryNotFound
		}
		return nil, err
	}

	var entry model.LeaderboardEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Storage) ListLeaderboardEntries(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	all, err := s.client.HGetAll(ctx, leaderboardKey()).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, 0, len(all))
	for _, raw := range all {
		var entry model.LeaderboardEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue // Skip invalid data
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
