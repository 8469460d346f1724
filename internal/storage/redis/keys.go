package redis

import (
	"fmt"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// Key prefix for all liar's dice data
const keyPrefix = "ldice"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

func profileKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

// profilesIndexKey returns the Redis key for the SET of all profile keys
func profilesIndexKey() string {
	return fmt.Sprintf("%s:idx:profiles", keyPrefix)
}

func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// activeGamesIndexKey returns the Redis key for the SET of unfinished game ids
func activeGamesIndexKey() string {
	return fmt.Sprintf("%s:idx:active_games", keyPrefix)
}

func handKey(gameID model.GameID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:hand:%s:%s", keyPrefix, gameID, playerID)
}

// handsForGameIndexKey returns the Redis key for the SET of hand keys in a game
func handsForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:hands_for_game:%s", keyPrefix, gameID)
}

func queueKey(lobbyID model.LobbyID) string {
	return fmt.Sprintf("%s:queue:%s", keyPrefix, lobbyID)
}

// leaderboardKey returns the Redis key for the HASH of player_id -> entry
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

func settlementKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:settlement:%s", keyPrefix, gameID)
}

// pendingSettlementsIndexKey returns the Redis key for the SET of game ids
// whose settlement has not completed
func pendingSettlementsIndexKey() string {
	return fmt.Sprintf("%s:idx:pending_settlements", keyPrefix)
}
