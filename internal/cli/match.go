package cli

import (
	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Matchmaking commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "find",
		Short: "Join the queue, or start a game if someone is waiting",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchResult
			if err := client.Post(cmd.Context(), "/matchmaking", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel",
		Short: "Leave the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/matchmaking"); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Left the queue")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show who is waiting",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Queue
			if err := client.Get(cmd.Context(), "/matchmaking", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
