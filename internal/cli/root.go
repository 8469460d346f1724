package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "liarsdice",
		Short: "CLI tool for the liar's dice server",
		Long: `liarsdice talks to the liar's dice JSON API.

It covers accounts, profiles, matchmaking, every game action including
client-side dice commitments, leaderboards, token balances and live event
streaming over SSE or WebSocket.

Settings come from flags, then LIARSDICE_* environment variables, then
~/.liarsdice/config.yaml.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Bind(cmd.Flags(), configFile); err != nil {
				return err
			}
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default ~/.liarsdice/config.yaml)")
	flags.String("server", cfg.ServerURL, "Server URL (env: LIARSDICE_SERVER)")
	flags.String("token", "", "Session token (env: LIARSDICE_TOKEN)")
	flags.String("token-file", cfg.TokenFile, "Token file path (env: LIARSDICE_TOKEN_FILE)")
	flags.StringP("output", "o", cfg.Output, "Output format: text, json (env: LIARSDICE_OUTPUT)")

	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newBalanceCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
