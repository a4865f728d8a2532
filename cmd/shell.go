package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/restcli/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell (default)",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	sh := &shell.Shell{
		Session: sess,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Prompt:  shell.IsTerminal(os.Stdin),
	}
	return sh.Run(cmd.Context())
}
