package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/liarsdice-go/internal/commitment"
	"github.com/mcoot/liarsdice-go/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(gameAction("show <game-id>", "Show the game", "GET", "", func() any { return &Game{} }))
	cmd.AddCommand(gameAction("roll <game-id>", "Have the server deal and commit your hand", "POST", "/roll", func() any { return &PrivateHand{} }))
	cmd.AddCommand(gameAction("hand <game-id>", "Show the hand the server dealt you", "GET", "/hand", func() any { return &PrivateHand{} }))
	cmd.AddCommand(gameAction("liar <game-id>", "Call liar on the current bid", "POST", "/liar", func() any { return &Game{} }))
	cmd.AddCommand(gameAction("forfeit <game-id>", "Leave the game", "POST", "/forfeit", func() any { return &Game{} }))
	cmd.AddCommand(gameAction("timeout <game-id>", "Eliminate players who missed the reveal deadline", "POST", "/timeout", func() any { return &TimeoutResult{} }))
	cmd.AddCommand(newGameCommitCmd())
	cmd.AddCommand(newGameBidCmd())
	cmd.AddCommand(newGameRevealCmd())

	return cmd
}

// gameAction builds a command that sends a bodiless request to
// /games/{id}<suffix> and prints the decoded result
func gameAction(use, short, method, suffix string, result func() any) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := result()
			if err := client.Do(cmd.Context(), method, "/games/"+args[0]+suffix, nil, out); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(deref(out))
			return nil
		},
	}
}

func deref(v any) any {
	switch t := v.(type) {
	case *Game:
		return *t
	case *PrivateHand:
		return *t
	case *TimeoutResult:
		return *t
	case *RevealResult:
		return *t
	}
	return v
}

func newGameBidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bid <game-id> <quantity> <face>",
		Short: "Bid that at least <quantity> dice show <face> (ones are wild)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number")
			}
			face, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("face must be a number")
			}

			var result Game
			req := map[string]int{"quantity": quantity, "face": face}
			if err := client.Post(cmd.Context(), "/games/"+args[0]+"/bid", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

// newGameCommitCmd commits to a hand rolled on this machine. Only the hash
// leaves the client; the dice and salt are printed for the later reveal.
func newGameCommitCmd() *cobra.Command {
	var dice, salt string

	cmd := &cobra.Command{
		Use:   "commit <game-id>",
		Short: "Publish a commitment to your own dice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hand, err := parseDice(dice)
			if err != nil {
				return err
			}
			var s [commitment.SaltSize]byte
			if salt == "" {
				if _, err := rand.Read(s[:]); err != nil {
					return err
				}
			} else if s, err = commitment.ParseSalt(salt); err != nil {
				return fmt.Errorf("salt must be 64 hex characters")
			}

			hash := commitment.Commit(hand.Bytes(), s)
			var g Game
			if err := client.Post(cmd.Context(), "/games/"+args[0]+"/commit", map[string]string{"hash": hex.EncodeToString(hash[:])}, &g); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(PrivateHand{
				GameID:     g.ID,
				Round:      g.Round,
				Dice:       diceInts(hand),
				Salt:       hex.EncodeToString(s[:]),
				Commitment: hex.EncodeToString(hash[:]),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&dice, "dice", "", "Comma separated faces, e.g. 1,4,4,6,2 (required)")
	cmd.Flags().StringVar(&salt, "salt", "", "Hex salt (default: random)")
	_ = cmd.MarkFlagRequired("dice")

	return cmd
}

func newGameRevealCmd() *cobra.Command {
	var dice, salt string

	cmd := &cobra.Command{
		Use:   "reveal <game-id>",
		Short: "Open your commitment",
		Long: `Open your commitment after liar is called. With no flags the server
reveals the hand it dealt you with "game roll".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if dice != "" || salt != "" {
				hand, err := parseDice(dice)
				if err != nil {
					return err
				}
				body = map[string]any{"dice": diceInts(hand), "salt": salt}
			}

			var result RevealResult
			if err := client.Post(cmd.Context(), "/games/"+args[0]+"/reveal", body, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dice, "dice", "", "Comma separated faces you committed to")
	cmd.Flags().StringVar(&salt, "salt", "", "Hex salt you committed with")

	return cmd
}

func parseDice(s string) (model.Hand, error) {
	var hand model.Hand
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || !model.ValidFace(model.DieFace(v)) {
			return nil, fmt.Errorf("dice must be faces from 1 to 6, got %q", part)
		}
		hand = append(hand, model.DieFace(v))
	}
	return hand, nil
}

func diceInts(h model.Hand) []int {
	out := make([]int, len(h))
	for i, d := range h {
		out[i] = int(d)
	}
	return out
}
