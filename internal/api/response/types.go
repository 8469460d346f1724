package response

import (
	"encoding/hex"
	"time"

	"github.com/mcoot/liarsdice-go/internal/commitment"
	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/ranking"
	"github.com/mcoot/liarsdice-go/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Stats is a player's lifetime record
type Stats struct {
	GamesPlayed         uint64 `json:"games_played"`
	GamesWon            uint64 `json:"games_won"`
	RoundsPlayed        uint64 `json:"rounds_played"`
	RoundsWon           uint64 `json:"rounds_won"`
	SuccessfulLiarCalls uint64 `json:"successful_liar_calls"`
	FailedLiarCalls     uint64 `json:"failed_liar_calls"`
	SuccessfulBluffs    uint64 `json:"successful_bluffs"`
	CurrentWinStreak    uint64 `json:"current_win_streak"`
	BestWinStreak       uint64 `json:"best_win_streak"`
	PeakRating          int    `json:"peak_rating"`
	TotalWon            uint64 `json:"total_won"`
	TotalLost           uint64 `json:"total_lost"`
	NetProfit           int64  `json:"net_profit"`
	WinRateBPS          uint64 `json:"win_rate_bps"`
	LiarCallAccuracyBPS uint64 `json:"liar_call_accuracy_bps"`
}

// StatsFromModel converts model.LifetimeStats
func StatsFromModel(s model.LifetimeStats) Stats {
	return Stats{
		GamesPlayed:         s.GamesPlayed,
		GamesWon:            s.GamesWon,
		RoundsPlayed:        s.RoundsPlayed,
		RoundsWon:           s.RoundsWon,
		SuccessfulLiarCalls: s.SuccessfulLiarCalls,
		FailedLiarCalls:     s.FailedLiarCalls,
		SuccessfulBluffs:    s.SuccessfulBluffs,
		CurrentWinStreak:    s.CurrentWinStreak,
		BestWinStreak:       s.BestWinStreak,
		PeakRating:          s.PeakRating,
		TotalWon:            s.TotalWon,
		TotalLost:           s.TotalLost,
		NetProfit:           s.NetProfit(),
		WinRateBPS:          s.WinRateBPS(),
		LiarCallAccuracyBPS: s.LiarCallAccuracyBPS(),
	}
}

// Profile represents a player's rating profile
type Profile struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	Status      string `json:"status"`
	CurrentGame string `json:"current_game,omitempty"`
	Stats       Stats  `json:"stats"`
}

// ProfileFromModel converts model.Profile
func ProfileFromModel(p *model.Profile) Profile {
	return Profile{
		PlayerID:    string(p.PlayerID),
		Name:        p.Name,
		Rating:      p.Rating,
		Status:      string(p.Status),
		CurrentGame: string(p.CurrentGame),
		Stats:       StatsFromModel(p.Stats),
	}
}

// Bid is a claim about the dice on the table
type Bid struct {
	Quantity int    `json:"quantity"`
	Face     int    `json:"face"`
	Bidder   string `json:"bidder"`
}

// BidFromModel converts model.Bid
func BidFromModel(b model.Bid) Bid {
	return Bid{
		Quantity: b.Quantity,
		Face:     int(b.Face),
		Bidder:   string(b.Bidder),
	}
}

// Dice converts a hand to plain ints
func Dice(h model.Hand) []int {
	if h == nil {
		return nil
	}
	dice := make([]int, len(h))
	for i, f := range h {
		dice[i] = int(f)
	}
	return dice
}

// Seat is one player's place at the table. Hand is only set once the
// seat's commitment has been opened.
type Seat struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	Rating     int    `json:"rating"`
	DiceCount  int    `json:"dice_count"`
	Eliminated bool   `json:"eliminated"`
	IsTurn     bool   `json:"is_turn"`
	Result     string `json:"result"`
	Committed  bool   `json:"committed"`
	Revealed   bool   `json:"revealed"`
	Cheater    bool   `json:"cheater,omitempty"`
	Hand       []int  `json:"hand,omitempty"`
}

// SeatFromModel converts model.Seat
func SeatFromModel(s model.Seat) Seat {
	seat := Seat{
		PlayerID:   string(s.PlayerID),
		Name:       s.Name,
		Rating:     s.Rating,
		DiceCount:  s.DiceCount,
		Eliminated: s.Eliminated,
		IsTurn:     s.IsTurn,
		Result:     string(s.Result),
		Committed:  s.Commitment != nil,
		Revealed:   s.Revealed(),
	}
	if s.Commitment != nil {
		seat.Cheater = s.Commitment.Cheater
	}
	if s.Revealed() {
		seat.Hand = Dice(s.Hand)
	}
	return seat
}

// Game is the public view of a game
type Game struct {
	ID             string     `json:"id"`
	LobbyID        string     `json:"lobby_id"`
	Phase          string     `json:"phase"`
	Round          int        `json:"round"`
	Stake          int64      `json:"stake"`
	Seats          []Seat     `json:"seats"`
	TurnHolder     string     `json:"turn_holder,omitempty"`
	CurrentBid     *Bid       `json:"current_bid"`
	Bids           []Bid      `json:"bids"`
	LiarCaller     string     `json:"liar_caller,omitempty"`
	RevealDeadline *time.Time `json:"reveal_deadline,omitempty"`
	TotalDice      int        `json:"total_dice"`
	Winner         string     `json:"winner,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	seats := make([]Seat, len(g.Seats))
	for i, s := range g.Seats {
		seats[i] = SeatFromModel(s)
	}
	bids := make([]Bid, len(g.Bids))
	for i, b := range g.Bids {
		bids[i] = BidFromModel(b)
	}
	var current *Bid
	if g.CurrentBid != nil {
		b := BidFromModel(*g.CurrentBid)
		current = &b
	}
	return Game{
		ID:             string(g.ID),
		LobbyID:        string(g.LobbyID),
		Phase:          string(g.Phase),
		Round:          g.Round,
		Stake:          g.Stake,
		Seats:          seats,
		TurnHolder:     string(g.TurnHolder()),
		CurrentBid:     current,
		Bids:           bids,
		LiarCaller:     string(g.LiarCaller),
		RevealDeadline: g.RevealDeadline,
		TotalDice:      g.TotalDice,
		Winner:         string(g.Winner),
		CreatedAt:      g.CreatedAt,
		StartedAt:      g.StartedAt,
		EndedAt:        g.EndedAt,
	}
}

// PrivateHand is a server-dealt hand, only ever returned to its owner
type PrivateHand struct {
	GameID     string `json:"game_id"`
	Round      int    `json:"round"`
	Dice       []int  `json:"dice"`
	Salt       string `json:"salt"`
	Commitment string `json:"commitment"`
}

// PrivateHandFromModel converts model.PrivateHand
func PrivateHandFromModel(h *model.PrivateHand) PrivateHand {
	hash := commitment.Commit(h.Dice.Bytes(), h.Salt)
	return PrivateHand{
		GameID:     string(h.GameID),
		Round:      h.Round,
		Dice:       Dice(h.Dice),
		Salt:       hex.EncodeToString(h.Salt[:]),
		Commitment: hex.EncodeToString(hash[:]),
	}
}

// RoundOutcome describes a settled challenge
type RoundOutcome struct {
	Round       int              `json:"round"`
	Bid         Bid              `json:"bid"`
	Caller      string           `json:"caller"`
	Loser       string           `json:"loser,omitempty"`
	ActualCount int              `json:"actual_count"`
	BidValid    bool             `json:"bid_valid"`
	Hands       map[string][]int `json:"hands"`
	GameOver    bool             `json:"game_over"`
	Winner      string           `json:"winner,omitempty"`
	Uncontested bool             `json:"uncontested,omitempty"`
}

// RoundOutcomeFromModel converts model.RoundOutcome
func RoundOutcomeFromModel(o *model.RoundOutcome) *RoundOutcome {
	if o == nil {
		return nil
	}
	hands := make(map[string][]int, len(o.Hands))
	for id, h := range o.Hands {
		hands[string(id)] = Dice(h)
	}
	return &RoundOutcome{
		Round:       o.Round,
		Bid:         BidFromModel(o.Bid),
		Caller:      string(o.Caller),
		Loser:       string(o.Loser),
		ActualCount: o.ActualCount,
		BidValid:    o.BidValid,
		Hands:       hands,
		GameOver:    o.GameOver,
		Winner:      string(o.Winner),
		Uncontested: o.Uncontested,
	}
}

// RevealResponse is the response for revealing dice
type RevealResponse struct {
	Honest  bool          `json:"honest"`
	Game    Game          `json:"game"`
	Outcome *RoundOutcome `json:"outcome,omitempty"`
}

// TimeoutResponse is the response for a timeout check
type TimeoutResponse struct {
	TimedOut []string      `json:"timed_out"`
	Game     Game          `json:"game"`
	Outcome  *RoundOutcome `json:"outcome,omitempty"`
}

// QueueEntry is a player waiting for a match
type QueueEntry struct {
	PlayerID   string    `json:"player_id"`
	Name       string    `json:"name"`
	Rating     int       `json:"rating"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// QueueEntryFromModel converts model.QueueEntry
func QueueEntryFromModel(e model.QueueEntry) QueueEntry {
	return QueueEntry{
		PlayerID:   string(e.PlayerID),
		Name:       e.Name,
		Rating:     e.Rating,
		EnqueuedAt: e.EnqueuedAt,
	}
}

// Queue is a lobby's matchmaking queue
type Queue struct {
	LobbyID string       `json:"lobby_id"`
	Size    int          `json:"size"`
	Entries []QueueEntry `json:"entries"`
}

// QueueFromModel converts model.MatchQueue
func QueueFromModel(q *model.MatchQueue) Queue {
	entries := make([]QueueEntry, len(q.Entries))
	for i, e := range q.Entries {
		entries[i] = QueueEntryFromModel(e)
	}
	return Queue{
		LobbyID: string(q.LobbyID),
		Size:    q.Len(),
		Entries: entries,
	}
}

// Match statuses
const (
	MatchSearching = "searching"
	MatchFound     = "matched"
)

// MatchResponse is the response for joining matchmaking
type MatchResponse struct {
	Status    string      `json:"status"`
	QueueSize int         `json:"queue_size"`
	Game      *Game       `json:"game,omitempty"`
	Opponent  *QueueEntry `json:"opponent,omitempty"`
}

// Ranked is one row of a ranking
type Ranked struct {
	Rank    int     `json:"rank"`
	Metric  string  `json:"metric"`
	Value   uint64  `json:"value"`
	Profile Profile `json:"profile"`
}

// RankingFromModel converts ranking rows
func RankingFromModel(rows []ranking.Ranked) []Ranked {
	out := make([]Ranked, len(rows))
	for i, r := range rows {
		out[i] = Ranked{
			Rank:    r.Rank,
			Metric:  string(r.Metric),
			Value:   r.Value,
			Profile: ProfileFromModel(&r.Profile),
		}
	}
	return out
}

// LeaderboardEntry is an incrementally maintained standing
type LeaderboardEntry struct {
	PlayerID    string    `json:"player_id"`
	Name        string    `json:"name"`
	Rating      int       `json:"rating"`
	GamesWon    uint64    `json:"games_won"`
	GamesPlayed uint64    `json:"games_played"`
	WinRateBPS  uint64    `json:"win_rate_bps"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LeaderboardEntriesFromModel converts leaderboard entries
func LeaderboardEntriesFromModel(entries []model.LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			PlayerID:    string(e.PlayerID),
			Name:        e.Name,
			Rating:      e.Rating,
			GamesWon:    e.GamesWon,
			GamesPlayed: e.GamesPlayed,
			WinRateBPS:  e.WinRateBPS,
			UpdatedAt:   e.UpdatedAt,
		}
	}
	return out
}

// Balance is a player's token balance
type Balance struct {
	PlayerID string `json:"player_id"`
	Balance  int64  `json:"balance"`
}
