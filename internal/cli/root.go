// Package cli implements the spacetraders-mcp command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spacetraders-mcp",
	Short: "MCP server for the SpaceTraders API",
	Long: `spacetraders-mcp exposes the SpaceTraders game API as MCP tools.

Register agents, command ships, trade cargo, and fulfill contracts from any
MCP client. Agent tokens are stored in a local file and resolved per call.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}
