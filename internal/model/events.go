package model

import "time"

// NotificationType identifies the kind of outbound notification
type NotificationType string

const (
	// Matchmaking notifications
	NotificationMatchFound  NotificationType = "match_found"
	NotificationQueueUpdate NotificationType = "queue_update"

	// Game notifications
	NotificationGameStarted      NotificationType = "game_started"
	NotificationDiceCommitted    NotificationType = "dice_committed"
	NotificationBidMade          NotificationType = "bid_made"
	NotificationLiarCalled       NotificationType = "liar_called"
	NotificationDiceRevealed     NotificationType = "dice_revealed"
	NotificationPlayerEliminated NotificationType = "player_eliminated"
	NotificationRoundResult      NotificationType = "round_result"
	NotificationRoundEnded       NotificationType = "round_ended"
	NotificationGameResult       NotificationType = "game_result"
	NotificationGameEnded        NotificationType = "game_ended"

	// Standings notifications
	NotificationLeaderboardUpdate NotificationType = "leaderboard_update"
	NotificationProfileUpdate     NotificationType = "profile_update"
)

// Notification is pushed to players when something they care about changes.
// Recipients empty means every connected player.
type Notification struct {
	Type       NotificationType
	GameID     GameID
	Recipients []PlayerID
	Game       *Game // snapshot after the change, for game notifications
	Payload    any
	CreatedAt  time.Time
}

// MatchFoundPayload tells a player who they were paired with
type MatchFoundPayload struct {
	GameID         GameID
	Opponent       PlayerID
	OpponentName   string
	OpponentRating int
}

// QueueUpdatePayload carries the lobby queue size
type QueueUpdatePayload struct {
	LobbyID LobbyID
	Size    int
}

// DiceCommittedPayload marks a published commitment
type DiceCommittedPayload struct {
	PlayerID    PlayerID
	BiddingOpen bool
}

// BidMadePayload contains the new bid and who acts next
type BidMadePayload struct {
	Bid      Bid
	NextTurn PlayerID
}

// LiarCalledPayload contains the challenged bid and the reveal deadline
type LiarCalledPayload struct {
	Caller   PlayerID
	Bid      Bid
	Deadline time.Time
}

// DiceRevealedPayload contains an opened hand
type DiceRevealedPayload struct {
	PlayerID PlayerID
	Hand     Hand
	Honest   bool
}

// PlayerEliminatedPayload is sent when a player drops out for any reason
type PlayerEliminatedPayload struct {
	PlayerID PlayerID
	Result   PlayerResult
}

// RoundResultPayload contains the settled challenge
type RoundResultPayload struct {
	Outcome RoundOutcome
}

// RoundEndedPayload marks the move to the next round
type RoundEndedPayload struct {
	Round     int
	NextRound int
}

// GameResultPayload contains the winner and the rating swing
type GameResultPayload struct {
	Winner       PlayerID
	Loser        PlayerID
	RatingChange int
	Ratings      map[PlayerID]int // rating after the game, per participant
	Payout       int64            // stake tokens moved to the winner
}

// LeaderboardUpdatePayload contains the entries touched by a finished game
type LeaderboardUpdatePayload struct {
	Entries []LeaderboardEntry
}

// ProfileUpdatePayload contains a changed profile
type ProfileUpdatePayload struct {
	Profile Profile
}
