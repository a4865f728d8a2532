package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agentic-research/restcli/internal/snapshot"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export [output.db]",
	Short: "Resolve the API and write every record to a SQLite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := args[0]

		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if exportPath != "" {
			// Entering a directory expands the entities along the way.
			if err := sess.ChangeDirectory(cmd.Context(), exportPath); err != nil {
				return fmt.Errorf("expand %s: %w", exportPath, err)
			}
		}

		snap := sess.Snapshot()
		if err := snapshot.Export(output, snap); err != nil {
			return fmt.Errorf("export %s: %w", output, err)
		}
		slog.Info("exported", "records", snap.Len(), "deferred", snap.DeferredCount(), "output", output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "path", "p", "", "Expand entities under this path before exporting")
	rootCmd.AddCommand(exportCmd)
}
