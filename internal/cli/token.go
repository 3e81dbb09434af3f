package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TheValverde/spacetraders-mcp/internal/config"
	"github.com/TheValverde/spacetraders-mcp/internal/tokenstore"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage stored agent tokens",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set AGENT_SYMBOL TOKEN",
	Short: "Store or replace an agent's bearer token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored token for agent %s\n", args[0])
		return nil
	},
}

var tokenRmCmd = &cobra.Command{
	Use:   "rm AGENT_SYMBOL",
	Short: "Delete an agent's stored token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if _, ok := store.Get(args[0]); !ok {
			return fmt.Errorf("no token stored for agent %q", args[0])
		}
		if err := store.Delete(args[0]); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted token for agent %s\n", args[0])
		return nil
	},
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents with stored tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		symbols := store.Symbols()
		if len(symbols) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tokens stored")
			return nil
		}
		for _, symbol := range symbols {
			fmt.Fprintln(cmd.OutOrStdout(), symbol)
		}
		return nil
	},
}

func openStore() (*tokenstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := tokenstore.Open(cfg.TokenFile, zerolog.Nop())
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return store, nil
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenRmCmd)
	tokenCmd.AddCommand(tokenListCmd)
}
