package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/restcli/internal/session"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "Print the records under path and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if err := sess.ChangeDirectory(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, session.ErrNoSuchPath) {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				return fmt.Errorf("request backend failed: %w", err)
			}
		}
		out, err := sess.List()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
