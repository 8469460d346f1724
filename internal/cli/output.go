package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		printPlayer(v)
	case AuthResult:
		printPlayer(v.Player)
		fmt.Printf("Token: %s\n", v.SessionToken)
	case Profile:
		printProfile(v)
	case Balance:
		fmt.Printf("Balance: %d tokens\n", v.Balance)
	case MatchResult:
		printMatch(v)
	case Queue:
		printQueue(v)
	case Game:
		printGame(v)
	case PrivateHand:
		printHand(v)
	case RevealResult:
		printReveal(v)
	case TimeoutResult:
		printTimeout(v)
	case []Ranked:
		printRanking(v)
	case []LeaderboardEntry:
		printEntries(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Stats mirrors a profile's lifetime record
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

// Profile response type
type Profile struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	Status      string `json:"status"`
	CurrentGame string `json:"current_game,omitempty"`
	Stats       Stats  `json:"stats"`
}

// Balance response type
type Balance struct {
	PlayerID string `json:"player_id"`
	Balance  int64  `json:"balance"`
}

// QueueEntry is one waiting player
type QueueEntry struct {
	PlayerID   string    `json:"player_id"`
	Name       string    `json:"name"`
	Rating     int       `json:"rating"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Queue response type
type Queue struct {
	LobbyID string       `json:"lobby_id"`
	Size    int          `json:"size"`
	Entries []QueueEntry `json:"entries"`
}

// MatchResult is returned when joining matchmaking
type MatchResult struct {
	Status    string      `json:"status"`
	QueueSize int         `json:"queue_size"`
	Game      *Game       `json:"game,omitempty"`
	Opponent  *QueueEntry `json:"opponent,omitempty"`
}

// Bid response type
type Bid struct {
	Quantity int    `json:"quantity"`
	Face     int    `json:"face"`
	Bidder   string `json:"bidder"`
}

// Seat response type
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

// Game response type
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
}

// PrivateHand is a dealt hand only its owner sees
type PrivateHand struct {
	GameID     string `json:"game_id"`
	Round      int    `json:"round"`
	Dice       []int  `json:"dice"`
	Salt       string `json:"salt"`
	Commitment string `json:"commitment"`
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

// RevealResult response type
type RevealResult struct {
	Honest  bool          `json:"honest"`
	Game    Game          `json:"game"`
	Outcome *RoundOutcome `json:"outcome,omitempty"`
}

// TimeoutResult response type
type TimeoutResult struct {
	TimedOut []string      `json:"timed_out"`
	Game     Game          `json:"game"`
	Outcome  *RoundOutcome `json:"outcome,omitempty"`
}

// Ranked is one leaderboard row
type Ranked struct {
	Rank    int     `json:"rank"`
	Metric  string  `json:"metric"`
	Value   uint64  `json:"value"`
	Profile Profile `json:"profile"`
}

// LeaderboardEntry is a stored leaderboard record
type LeaderboardEntry struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	GamesWon    uint64 `json:"games_won"`
	GamesPlayed uint64 `json:"games_played"`
	WinRateBPS  uint64 `json:"win_rate_bps"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func printProfile(p Profile) {
	fmt.Printf("Profile: %s (%s)\n", p.Name, p.PlayerID)
	fmt.Printf("Rating: %d (peak %d)\n", p.Rating, p.Stats.PeakRating)
	fmt.Printf("Status: %s\n", p.Status)
	if p.CurrentGame != "" {
		fmt.Printf("Current Game: %s\n", p.CurrentGame)
	}
	s := p.Stats
	fmt.Printf("Games: %d won of %d (%s)\n", s.GamesWon, s.GamesPlayed, bps(s.WinRateBPS))
	fmt.Printf("Rounds: %d won of %d\n", s.RoundsWon, s.RoundsPlayed)
	fmt.Printf("Liar calls: %d right, %d wrong (%s)\n", s.SuccessfulLiarCalls, s.FailedLiarCalls, bps(s.LiarCallAccuracyBPS))
	fmt.Printf("Streak: %d (best %d)\n", s.CurrentWinStreak, s.BestWinStreak)
	fmt.Printf("Tokens: +%d -%d (net %d)\n", s.TotalWon, s.TotalLost, s.NetProfit)
}

func printMatch(m MatchResult) {
	if m.Game == nil {
		fmt.Printf("Searching... %d in queue\n", m.QueueSize)
		return
	}
	if m.Opponent != nil {
		fmt.Printf("Matched against %s (%d)\n", m.Opponent.Name, m.Opponent.Rating)
	}
	printGame(*m.Game)
}

func printQueue(q Queue) {
	fmt.Printf("Lobby: %s\n", q.LobbyID)
	fmt.Printf("Waiting (%d):\n", q.Size)
	for _, e := range q.Entries {
		fmt.Printf("  - %s (%s) %d\n", e.Name, e.PlayerID, e.Rating)
	}
}

func printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Phase: %s\n", g.Phase)
	fmt.Printf("Round: %d\n", g.Round)
	fmt.Printf("Dice on table: %d\n", g.TotalDice)
	if g.Stake > 0 {
		fmt.Printf("Stake: %d\n", g.Stake)
	}
	if g.CurrentBid != nil {
		fmt.Printf("Current Bid: %s by %s\n", formatBid(*g.CurrentBid), g.CurrentBid.Bidder)
	}
	if g.LiarCaller != "" {
		fmt.Printf("Liar called by: %s\n", g.LiarCaller)
	}
	if g.RevealDeadline != nil {
		fmt.Printf("Reveal by: %s\n", g.RevealDeadline.Format(time.RFC3339))
	}

	fmt.Println("Seats:")
	for _, s := range g.Seats {
		var flags []string
		if s.IsTurn {
			flags = append(flags, "turn")
		}
		if s.Committed {
			flags = append(flags, "committed")
		}
		if s.Revealed {
			flags = append(flags, "revealed")
		}
		if s.Eliminated {
			flags = append(flags, s.Result)
		}
		line := fmt.Sprintf("  - %s (%s) %d dice", s.Name, s.PlayerID, s.DiceCount)
		if len(s.Hand) > 0 {
			line += " " + formatDice(s.Hand)
		}
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Println(line)
	}

	if g.Winner != "" {
		fmt.Printf("\nWinner: %s\n", g.Winner)
	}
}

func printHand(h PrivateHand) {
	fmt.Printf("Game: %s round %d\n", h.GameID, h.Round)
	fmt.Printf("Dice: %s\n", formatDice(h.Dice))
	fmt.Printf("Salt: %s\n", h.Salt)
	fmt.Printf("Commitment: %s\n", h.Commitment)
}

func printOutcome(o RoundOutcome) {
	fmt.Printf("Round %d: %s had %d, bid was %s\n", o.Round, formatBid(o.Bid), o.ActualCount, validity(o.BidValid))
	for pid, hand := range o.Hands {
		fmt.Printf("  %s: %s\n", pid, formatDice(hand))
	}
	if o.Loser != "" {
		fmt.Printf("Loser: %s\n", o.Loser)
	}
	if o.GameOver {
		fmt.Printf("Game over, winner: %s\n", o.Winner)
	}
}

func printReveal(r RevealResult) {
	if r.Honest {
		fmt.Println("Reveal accepted")
	} else {
		fmt.Println("Reveal did not match the commitment")
	}
	if r.Outcome != nil {
		printOutcome(*r.Outcome)
		return
	}
	fmt.Println("Waiting for other reveals")
}

func printTimeout(t TimeoutResult) {
	if len(t.TimedOut) == 0 {
		fmt.Println("Nobody has timed out")
	} else {
		fmt.Printf("Timed out: %s\n", strings.Join(t.TimedOut, ", "))
	}
	if t.Outcome != nil {
		printOutcome(*t.Outcome)
	}
}

func printRanking(rows []Ranked) {
	for _, r := range rows {
		fmt.Printf("%3d. %-20s %8d  (%s)\n", r.Rank, r.Profile.Name, r.Value, r.Metric)
	}
}

func printEntries(entries []LeaderboardEntry) {
	for i, e := range entries {
		fmt.Printf("%3d. %-20s %5d  %d/%d won\n", i+1, e.Name, e.Rating, e.GamesWon, e.GamesPlayed)
	}
}

func formatBid(b Bid) string {
	return fmt.Sprintf("%d x %d", b.Quantity, b.Face)
}

func formatDice(dice []int) string {
	parts := make([]string, len(dice))
	for i, d := range dice {
		parts[i] = fmt.Sprint(d)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func validity(valid bool) string {
	if valid {
		return "true"
	}
	return "a lie"
}

func bps(v uint64) string {
	return fmt.Sprintf("%d.%02d%%", v/100, v%100)
}
