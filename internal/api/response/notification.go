package response

import (
	"encoding/json"
	"time"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// Notification is the JSON envelope pushed over SSE and WebSocket
type Notification struct {
	Type      string    `json:"type"`
	GameID    string    `json:"game_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Game      *Game     `json:"game,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EncodeNotification renders a notification for the wire. Game snapshots go
// through GameFromModel so unrevealed hands never leave the server.
func EncodeNotification(n model.Notification) ([]byte, error) {
	out := Notification{
		Type:      string(n.Type),
		GameID:    string(n.GameID),
		Payload:   payloadFromModel(n.Payload),
		CreatedAt: n.CreatedAt,
	}
	if n.Game != nil {
		g := GameFromModel(n.Game)
		out.Game = &g
	}
	return json.Marshal(out)
}

func payloadFromModel(payload any) any {
	switch p := payload.(type) {
	case model.MatchFoundPayload:
		return map[string]any{
			"game_id":         string(p.GameID),
			"opponent":        string(p.Opponent),
			"opponent_name":   p.OpponentName,
			"opponent_rating": p.OpponentRating,
		}
	case model.QueueUpdatePayload:
		return map[string]any{
			"lobby_id": string(p.LobbyID),
			"size":     p.Size,
		}
	case model.DiceCommittedPayload:
		return map[string]any{
			"player_id":    string(p.PlayerID),
			"bidding_open": p.BiddingOpen,
		}
	case model.BidMadePayload:
		return map[string]any{
			"bid":       BidFromModel(p.Bid),
			"next_turn": string(p.NextTurn),
		}
	case model.LiarCalledPayload:
		return map[string]any{
			"caller":   string(p.Caller),
			"bid":      BidFromModel(p.Bid),
			"deadline": p.Deadline,
		}
	case model.DiceRevealedPayload:
		return map[string]any{
			"player_id": string(p.PlayerID),
			"hand":      Dice(p.Hand),
			"honest":    p.Honest,
		}
	case model.PlayerEliminatedPayload:
		return map[string]any{
			"player_id": string(p.PlayerID),
			"result":    string(p.Result),
		}
	case model.RoundResultPayload:
		return RoundOutcomeFromModel(&p.Outcome)
	case model.RoundEndedPayload:
		return map[string]any{
			"round":      p.Round,
			"next_round": p.NextRound,
		}
	case model.GameResultPayload:
		ratings := make(map[string]int, len(p.Ratings))
		for id, r := range p.Ratings {
			ratings[string(id)] = r
		}
		return map[string]any{
			"winner":        string(p.Winner),
			"loser":         string(p.Loser),
			"rating_change": p.RatingChange,
			"ratings":       ratings,
			"payout":        p.Payout,
		}
	case model.LeaderboardUpdatePayload:
		return map[string]any{
			"entries": LeaderboardEntriesFromModel(p.Entries),
		}
	case model.ProfileUpdatePayload:
		return ProfileFromModel(&p.Profile)
	default:
		return payload
	}
}
