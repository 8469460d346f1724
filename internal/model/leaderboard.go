package model

import "time"

// LeaderboardEntry is the incrementally maintained standing for one player
type LeaderboardEntry struct {
	PlayerID    PlayerID
	Name        string
	Rating      int
	GamesWon    uint64
	GamesPlayed uint64
	WinRateBPS  uint64
	LastGame    GameID // most recent game counted
	UpdatedAt   time.Time
}

// NewLeaderboardEntry returns an empty entry at the starting rating
func NewLeaderboardEntry(playerID PlayerID) *LeaderboardEntry {
	return &LeaderboardEntry{
		PlayerID: playerID,
		Rating:   StartingRating,
	}
}
