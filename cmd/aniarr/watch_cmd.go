package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/aniarr/internal/database"
	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/organizer"
	"github.com/Nomadcxx/aniarr/internal/ui"
	"github.com/Nomadcxx/aniarr/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		flags     planFlags
		debounce  time.Duration
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "watch <source> [destination]",
		Short: "Watch a source directory and organize new releases",
		Long: `Monitor a source directory and organize new media as it arrives.

Each burst of file events triggers a fresh plan of the whole source. Items
whose source was already placed (according to the history database) are
skipped, so the history is always enabled in watch mode.

Examples:
  aniarr watch ./downloads ./Anime
  aniarr watch -m --debounce 30s ./downloads ./Anime`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst, err := resolveRoots(args)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}

			cfg := loadConfig(cmd.ErrOrStderr())
			logger := newLogger(cfg)
			defer logger.Close()

			opts, err := flags.options(cfg, dst)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}

			db, err := openHistoryRequired(cfg)
			if err != nil {
				return fmt.Errorf("watch mode requires the history database: %w", err)
			}
			defer db.Close()

			mode := flags.mode()
			out := cmd.OutOrStdout()
			width := ui.TermWidth()
			org := organizer.NewOrganizer(mode,
				organizer.WithLogger(logger),
				organizer.WithHistory(db, database.ExecWatch),
				organizer.WithSkipPlaced(true))

			ctx, cancel := signalContext()
			defer cancel()

			handler := watcher.NewPlanHandler(ctx, watcher.PlanHandlerConfig{
				Source:    src,
				Options:   opts,
				Organizer: org,
				Debounce:  debounce,
				Logger:    logger,
				Report:    ui.Reporter(out, mode, width),
				OnRun: func(sum organizer.Summary, err error) {
					if err != nil {
						ui.ErrorMsg(out, "run failed: %v", err)
						return
					}
					if sum.OK+sum.Failed > 0 {
						ui.PrintSummary(out, sum)
					}
				},
			})
			defer handler.Stop()

			w, err := watcher.NewWatcher(handler,
				watcher.WithExclude(dst),
				watcher.WithRecursive(recursive),
				watcher.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			defer w.Close()

			if err := w.Watch(src); err != nil {
				return fmt.Errorf("setting up watch: %w", err)
			}

			fmt.Fprintf(out, "Watching    : %s\n", src)
			fmt.Fprintf(out, "Destination : %s\n", dst)
			fmt.Fprintf(out, "Mode        : %s\n", mode)
			fmt.Fprintf(out, "History     : %s\n", db.Path())
			fmt.Fprintln(out, "\nPress Ctrl+C to stop")

			// Pick up whatever is already waiting.
			handler.Run(ctx)

			logger.Info("watcher", "started", logging.F("source", src), logging.F("destination", dst))
			return w.Start(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "quiet time before processing")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "watch every subdirectory, not only extras containers")

	return cmd
}
