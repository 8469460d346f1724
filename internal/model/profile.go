package model

import "time"

// StartingRating is the rating given to every new profile
const StartingRating = 1200

// PlayerStatus tracks where a player is in the matchmaking flow
type PlayerStatus string

const (
	StatusIdle      PlayerStatus = "idle"
	StatusSearching PlayerStatus = "searching"
	StatusPlaying   PlayerStatus = "playing"
)

// Profile is a player's persistent rating and record
type Profile struct {
	PlayerID    PlayerID
	Name        string
	Rating      int
	Stats       LifetimeStats
	Status      PlayerStatus
	CurrentGame GameID // empty unless Status is playing
	LastSettled GameID // most recent game folded into Rating and Stats
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProfile returns a fresh profile at the starting rating
func NewProfile(playerID PlayerID, name string, now time.Time) *Profile {
	return &Profile{
		PlayerID:  playerID,
		Name:      name,
		Rating:    StartingRating,
		Stats:     LifetimeStats{PeakRating: StartingRating},
		Status:    StatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LifetimeStats accumulates a player's record across all games
type LifetimeStats struct {
	GamesPlayed         uint64
	GamesWon            uint64
	RoundsPlayed        uint64
	RoundsWon           uint64
	SuccessfulLiarCalls uint64
	FailedLiarCalls     uint64
	SuccessfulBluffs    uint64
	CurrentWinStreak    uint64
	BestWinStreak       uint64
	PeakRating          int
	TotalWon            uint64
	TotalLost           uint64
}

// RecordGame counts a finished game and updates the win streak
func (s *LifetimeStats) RecordGame(won bool, rounds int) {
	s.GamesPlayed++
	if rounds > 0 {
		s.RoundsPlayed += uint64(rounds)
	}
	if won {
		s.GamesWon++
		s.CurrentWinStreak++
		s.BestWinStreak = max(s.BestWinStreak, s.CurrentWinStreak)
	} else {
		s.CurrentWinStreak = 0
	}
}

func (s *LifetimeStats) RecordRoundWin() {
	s.RoundsWon++
}

func (s *LifetimeStats) RecordLiarCall(successful bool) {
	if successful {
		s.SuccessfulLiarCalls++
	} else {
		s.FailedLiarCalls++
	}
}

// RecordBluff counts a bid that was challenged and held up
func (s *LifetimeStats) RecordBluff(successful bool) {
	if successful {
		s.SuccessfulBluffs++
	}
}

func (s *LifetimeStats) UpdatePeak(rating int) {
	s.PeakRating = max(s.PeakRating, rating)
}

// RecordWinLoss adds a settled stake to the winnings or losses
func (s *LifetimeStats) RecordWinLoss(amount uint64, won bool) {
	if won {
		s.TotalWon += amount
	} else {
		s.TotalLost += amount
	}
}

// WinRateBPS returns games won per games played in basis points
func (s *LifetimeStats) WinRateBPS() uint64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.GamesWon * 10000 / s.GamesPlayed
}

// LiarCallAccuracyBPS returns successful liar calls per call in basis points
func (s *LifetimeStats) LiarCallAccuracyBPS() uint64 {
	total := s.SuccessfulLiarCalls + s.FailedLiarCalls
	if total == 0 {
		return 0
	}
	return s.SuccessfulLiarCalls * 10000 / total
}

// NetProfit returns winnings minus losses
func (s *LifetimeStats) NetProfit() int64 {
	return int64(s.TotalWon) - int64(s.TotalLost)
}
