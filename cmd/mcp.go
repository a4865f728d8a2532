package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/restcli/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the cd/list/refresh/status tools over MCP stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		return mcpserver.NewServer(sess, version).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
