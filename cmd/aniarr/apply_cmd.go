package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/aniarr/internal/database"
	"github.com/Nomadcxx/aniarr/internal/plans"
	"github.com/Nomadcxx/aniarr/internal/transfer"
	"github.com/Nomadcxx/aniarr/internal/ui"
)

func newApplyCmd() *cobra.Command {
	var (
		move   bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "apply <plan.json|name>",
		Short: "Execute a saved plan",
		Long: `Execute a plan written by --save-plan without planning again.

Items are placed in the saved order with the mode recorded in the plan;
--move forces a move. Sources that no longer exist fail individually; the
rest of the plan still runs. A bare name is looked up in the plans dir.

Examples:
  aniarr -d --save-plan plan.json ./downloads ./Anime
  aniarr apply plan.json
  aniarr apply -m last`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePlanPath(args[0])
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			plan, err := plans.Load(path)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			mode, err := applyMode(plan, move)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}

			cfg := loadConfig(cmd.ErrOrStderr())
			logger := newLogger(cfg)
			defer logger.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan        : %s\n", path)
			fmt.Fprintf(out, "Source      : %s\n", plan.Source)
			fmt.Fprintf(out, "Destination : %s\n", plan.Destination)
			fmt.Fprintf(out, "Mode        : %s\n", ui.ModeLabel(dryRun, mode))
			fmt.Fprintf(out, "Files       : %d planned\n\n", plan.Len())
			ui.PrintPreview(out, plan, ui.TermWidth())

			if dryRun {
				ui.PrintDryRun(out)
				return nil
			}

			ctx, cancel := signalContext()
			defer cancel()
			return execute(ctx, cmd, cfg, logger, plan, mode, database.ExecApply)
		},
	}

	cmd.Flags().BoolVarP(&move, "move", "m", false, "move files instead of hardlinking")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "show the plan without executing it")

	return cmd
}

// applyMode picks the transfer mode for a saved plan: --move, then the mode
// recorded in the plan, then hardlink.
func applyMode(plan *plans.Plan, move bool) (transfer.Mode, error) {
	if move {
		return transfer.ModeMove, nil
	}
	if plan.Mode == "" {
		return transfer.ModeHardlink, nil
	}
	return transfer.ParseMode(plan.Mode)
}
