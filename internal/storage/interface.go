package storage

import (
	"context"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Profile operations
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	GameExists(ctx context.Context, id model.GameID) (bool, error)
	// ListActiveGames returns the ids of every game not yet over
	ListActiveGames(ctx context.Context) ([]model.GameID, error)

	// Private hand operations
	SavePrivateHand(ctx context.Context, hand *model.PrivateHand) error
	GetPrivateHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PrivateHand, error)
	DeletePrivateHandsForGame(ctx context.Context, gameID model.GameID) error

	// Matchmaking queue operations. GetQueue returns an empty queue for a
	// lobby that has never been saved.
	SaveQueue(ctx context.Context, queue *model.MatchQueue) error
	GetQueue(ctx context.Context, lobbyID model.LobbyID) (*model.MatchQueue, error)

	// Settlement operations. ListPendingSettlements returns the games whose
	// settlement has not completed.
	SaveSettlement(ctx context.Context, settlement *model.Settlement) error
	GetSettlement(ctx context.Context, gameID model.GameID) (*model.Settlement, error)
	ListPendingSettlements(ctx context.Context) ([]model.GameID, error)

	// Leaderboard operations
	SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error
	GetLeaderboardEntry(ctx context.Context, playerID model.PlayerID) (*model.LeaderboardEntry, error)
	ListLeaderboardEntries(ctx context.Context) ([]*model.LeaderboardEntry, error)
}
