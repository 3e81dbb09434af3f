package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheValverde/spacetraders-mcp/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spacetraders-mcp %s (commit %s, built %s)\n",
			version.Version, version.GitCommit, version.BuildDate)
	},
}
