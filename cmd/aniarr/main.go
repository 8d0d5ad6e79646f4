package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/aniarr/internal/config"
	"github.com/Nomadcxx/aniarr/internal/database"
	"github.com/Nomadcxx/aniarr/internal/extras"
	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/naming"
	"github.com/Nomadcxx/aniarr/internal/organizer"
	"github.com/Nomadcxx/aniarr/internal/plans"
	"github.com/Nomadcxx/aniarr/internal/transfer"
	"github.com/Nomadcxx/aniarr/internal/ui"
	"github.com/Nomadcxx/aniarr/internal/wizard"
)

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile string
	verbose bool
	noColor bool
)

// planFlags are the flags shared by every command that builds a plan.
type planFlags struct {
	move        bool
	season      int
	title       string
	year        string
	noExtras    bool
	extrasScope string
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.move, "move", "m", false, "move files instead of hardlinking")
	cmd.Flags().IntVarP(&f.season, "season", "s", 0, "season number (overrides filenames)")
	cmd.Flags().StringVar(&f.title, "title", "", "force series title")
	cmd.Flags().StringVar(&f.year, "year", "", "force release year")
	cmd.Flags().BoolVar(&f.noExtras, "no-extras", false, "disable extras processing")
	cmd.Flags().StringVar(&f.extrasScope, "extras-scope", string(extras.ScopeSeries), "extras folder level: series or season (config can override)")
}

func (f *planFlags) mode() transfer.Mode {
	if f.move {
		return transfer.ModeMove
	}
	return transfer.ModeHardlink
}

// options turns the flags into planner options. The config's extras_scope
// wins over --extras-scope.
func (f *planFlags) options(cfg *config.Config, destination string) (plans.Options, error) {
	flagScope, ok := extras.ParseScope(f.extrasScope)
	if !ok {
		return plans.Options{}, fmt.Errorf("invalid --extras-scope %q (want series or season)", f.extrasScope)
	}
	if f.season < 0 {
		return plans.Options{}, fmt.Errorf("invalid --season %d", f.season)
	}
	return plans.Options{
		Destination: destination,
		Overrides: naming.Overrides{
			Title:  f.title,
			Year:   f.year,
			Season: f.season,
		},
		ExtrasEnabled: !f.noExtras,
		Scope:         cfg.EffectiveScope(flagScope),
		Classifier:    cfg.Classifier(),
	}, nil
}

// resolvePlanPath maps a bare plan name such as "last" to
// ~/.config/aniarr/plans/last.json. A path with a directory or an extension
// is used as given.
func resolvePlanPath(arg string) (string, error) {
	if filepath.Base(arg) != arg || filepath.Ext(arg) != "" {
		return arg, nil
	}
	return plans.DefaultPlanPath(arg)
}

// resolveRoots validates the source and defaults the destination to
// <source>/organized.
func resolveRoots(args []string) (string, string, error) {
	src := args[0]
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return "", "", fmt.Errorf("%w: %s", plans.ErrInvalidSource, src)
	}
	dst := filepath.Join(src, "organized")
	if len(args) > 1 {
		dst = args[1]
	}
	return src, dst, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	var ee *exitError
	if err != nil && (!errors.As(err, &ee) || ee.err != nil) {
		ui.ErrorMsg(os.Stderr, "%v", err)
	}
	os.Exit(exitCode(err))
}

func newRootCmd() *cobra.Command {
	var (
		flags    planFlags
		dryRun   bool
		yes      bool
		savePlan string
	)

	rootCmd := &cobra.Command{
		Use:   "aniarr [flags] <source> [destination]",
		Short: "Arrange anime releases into a Jellyfin library",
		Long: `aniarr turns a folder of fansub/BD releases into a Jellyfin-style library:
episodes and subtitles go to "<Series>/Season NN/", extras (SP, PV, CM, NCOP,
NCED, menus) go to category folders chosen by configurable rules.

The destination defaults to <source>/organized. Files are hardlinked unless
--move is given; an existing file is never overwritten.

Examples:
  aniarr -d ./downloads ./Anime                   # preview only
  aniarr --extras-scope season ./downloads ./Anime
  aniarr -y --title "Dandadan" --year 2024 ./downloads ./Anime
  aniarr -d --save-plan plan.json ./downloads ./Anime && aniarr apply plan.json
  aniarr -d --save-plan last ./downloads ./Anime && aniarr apply last`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				ui.DisableColors()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, args, &flags, dryRun, yes, savePlan)
		},
	}

	originalHelpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "aniarr" {
			printHeader(version)
		}
		originalHelpFunc(cmd, args)
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/aniarr/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	flags.register(rootCmd)
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview only (no writes)")
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation (non-interactive)")
	rootCmd.Flags().StringVar(&savePlan, "save-plan", "", "write the plan as JSON to this file, or to the plans dir for a bare name")

	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runOrganize(cmd *cobra.Command, args []string, flags *planFlags, dryRun, yes bool, savePlan string) error {
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
	mode := flags.mode()
	out := cmd.OutOrStdout()
	width := ui.TermWidth()

	var plan *plans.Plan
	if yes {
		plan, err = plans.Build(src, opts, logger)
		if err != nil {
			return &exitError{code: exitUsage, err: err}
		}
		ui.PrintHeader(out, ui.NewHeader(plan, opts, ui.ModeLabel(dryRun, mode), cfg.Source))
		ui.PrintPreview(out, plan, width)
	} else {
		w := wizard.New(wizard.Options{
			Source:       src,
			Plan:         opts,
			Mode:         mode,
			DryRun:       dryRun,
			ConfigSource: cfg.Source,
			Width:        width,
			In:           cmd.InOrStdin(),
			Out:          out,
			Logger:       logger,
		})
		decision, err := w.Run()
		if errors.Is(err, wizard.ErrAborted) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
		if err != nil {
			return &exitError{code: exitUsage, err: err}
		}
		plan, mode = decision.Plan, decision.Mode
	}

	if savePlan != "" {
		path, err := resolvePlanPath(savePlan)
		if err != nil {
			return err
		}
		plan.Mode = string(mode)
		if err := plans.Save(plan, path); err != nil {
			return err
		}
		ui.InfoMsg(out, "Plan saved to %s", path)
	}

	if dryRun {
		ui.PrintDryRun(out)
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()
	return execute(ctx, cmd, cfg, logger, plan, mode, database.ExecCLI)
}

// execute runs plan and prints one line per item plus the summary. Any
// failed item turns into exit status 2.
func execute(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *logging.Logger, plan *plans.Plan, mode transfer.Mode, by database.ExecutedBy) error {
	opts := []func(*organizer.Organizer){organizer.WithLogger(logger)}
	if db := openHistory(cfg, logger); db != nil {
		defer db.Close()
		opts = append(opts, organizer.WithHistory(db, by))
	}

	out := cmd.OutOrStdout()
	org := organizer.NewOrganizer(mode, opts...)
	fmt.Fprintln(out)
	sum := org.Execute(ctx, plan, ui.Reporter(out, mode, ui.TermWidth()))
	ui.PrintSummary(out, sum)

	if sum.HasFailures() {
		return &exitError{code: exitFailure}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			printHeader(version)
		},
	}
}
