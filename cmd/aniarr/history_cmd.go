package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/aniarr/internal/database"
	"github.com/Nomadcxx/aniarr/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent placements",
		Long: `List the most recent placements recorded in the history database,
newest first.

Examples:
  aniarr history
  aniarr history -n 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd.ErrOrStderr())
			db, err := openHistoryRequired(cfg)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer db.Close()

			ops, err := db.RecentOperations(limit)
			if err != nil {
				return fmt.Errorf("failed to query history: %w", err)
			}
			stats, err := db.Stats()
			if err != nil {
				return fmt.Errorf("failed to query history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(ops) == 0 {
				fmt.Fprintln(out, "No operations recorded.")
				return nil
			}

			ui.CompactTable(out, []string{"WHEN", "BY", "MODE", "KIND", "STATUS", "FILE"}, historyRows(ops))
			fmt.Fprintf(out, "\nTotal: %d  OK: %d  FAIL: %d  Placed: %s\n",
				stats.Total, stats.Succeeded, stats.Failed, ui.FormatBytes(stats.Bytes))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of operations to show")

	return cmd
}

func historyRows(ops []database.Operation) [][]string {
	rows := make([][]string, 0, len(ops))
	for _, op := range ops {
		status, file := "OK", op.FinalPath
		if !op.Success {
			status = "FAIL"
			file = filepath.Base(op.SourcePath) + " :: " + op.Error
		}
		rows = append(rows, []string{
			op.ExecutedAt.Local().Format("2006-01-02 15:04"),
			string(op.ExecutedBy),
			op.Mode,
			op.Kind,
			status,
			file,
		})
	}
	return rows
}
