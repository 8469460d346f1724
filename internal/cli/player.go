package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Create, sign in and sign out players",
	}
	cmd.AddCommand(
		newPlayerGuestCmd(),
		newPlayerRegisterCmd(),
		newPlayerLoginCmd(),
		newPlayerLogoutCmd(),
		newPlayerMeCmd(),
	)
	return cmd
}

// signIn posts to an account endpoint and keeps the returned token for
// later commands
func signIn(ctx context.Context, path string, body map[string]string) error {
	var result AuthResult
	if err := client.Post(ctx, path, body, &result); err != nil {
		return err
	}
	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("saving token to %s: %w", cfg.TokenFile, err)
	}
	NewOutput(cfg.Output).Print(result)
	return nil
}

// credentials binds --user and --pass. The password may come from
// LIARSDICE_PASSWORD instead so it stays out of shell history.
type credentials struct {
	user, pass string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&c.pass, "pass", "", "Password (or set "+envPrefix+"_PASSWORD)")
	_ = cmd.MarkFlagRequired("user")
}

func (c *credentials) body() (map[string]string, error) {
	pass := c.pass
	if pass == "" {
		pass = os.Getenv(envPrefix + "_PASSWORD")
	}
	if pass == "" {
		return nil, fmt.Errorf("a password is required: pass --pass or set %s_PASSWORD", envPrefix)
	}
	return map[string]string{"username": c.user, "password": pass}, nil
}

func newPlayerGuestCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Play as a guest; the token is saved locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd.Context(), "/players/guest", map[string]string{"display_name": name})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var (
		name  string
		creds credentials
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := creds.body()
			if err != nil {
				return err
			}
			body["display_name"] = name
			return signIn(cmd.Context(), "/players/register", body)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")
	creds.bind(cmd)
	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := creds.body()
			if err != nil {
				return err
			}
			return signIn(cmd.Context(), "/players/login", body)
		},
	}
	creds.bind(cmd)
	return cmd
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved token and delete it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token != "" {
				if err := client.Post(cmd.Context(), "/players/logout", nil, nil); err != nil && !HasCode(err, "UNAUTHORIZED") {
					return err
				}
			}
			return cfg.ClearToken()
		},
	}
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show who the saved token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			var me Player
			if err := client.Get(cmd.Context(), "/players/me", &me); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(me)
			return nil
		},
	}
}
