package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			if err := client.Get(cmd.Context(), "/health", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	var (
		metric string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank players by a metric",
		Long: `Rank players by one of: elo, net_profit, total_winnings, win_rate,
games_played, current_streak, liar_call_accuracy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Ranked
			if err := client.Get(cmd.Context(), fmt.Sprintf("/leaderboard?metric=%s&limit=%d", url.QueryEscape(metric), limit), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&metric, "metric", "elo", "Ranking metric")
	cmd.PersistentFlags().IntVar(&limit, "limit", 20, "Rows to show (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "entries",
		Short: "Show stored leaderboard entries by rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []LeaderboardEntry
			if err := client.Get(cmd.Context(), fmt.Sprintf("/leaderboard/entries?limit=%d", limit), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
