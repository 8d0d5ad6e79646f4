// Package wizard runs the two-stage interactive confirmation before a plan is
// executed. Every edit in the first stage rebuilds the plan.
package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/plans"
	"github.com/Nomadcxx/aniarr/internal/transfer"
	"github.com/Nomadcxx/aniarr/internal/ui"
)

// ErrAborted is returned when the user quits or input ends.
var ErrAborted = errors.New("aborted")

const (
	stage1Prompt = "[Confirm 1/2] (Enter=next)  [t]itle  [y]ear  [s]eason  [d]estination  [m]ode  [x]extras  [q]uit"
	stage2Prompt = "[Confirm 2/2] Execute %s?  (Enter=yes)  [b]ack  [m]ode  [q]uit"
)

// Options configures wizard behavior
type Options struct {
	Source       string
	Plan         plans.Options
	Mode         transfer.Mode
	DryRun       bool
	ConfigSource string
	// Width is the wrap width; zero means the terminal width.
	Width  int
	In     io.Reader
	Out    io.Writer
	Logger *logging.Logger
}

// Decision is what the user confirmed.
type Decision struct {
	Plan    *plans.Plan
	Options plans.Options
	Mode    transfer.Mode
}

// Wizard provides the interactive confirmation flow
type Wizard struct {
	reader       *bufio.Reader
	out          io.Writer
	source       string
	opts         plans.Options
	mode         transfer.Mode
	dryRun       bool
	configSource string
	width        int
	logger       *logging.Logger

	plan *plans.Plan
}

// New creates a new wizard
func New(opts Options) *Wizard {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	width := opts.Width
	if width == 0 {
		width = ui.TermWidth()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Wizard{
		reader:       bufio.NewReader(in),
		out:          out,
		source:       opts.Source,
		opts:         opts.Plan,
		mode:         opts.Mode,
		dryRun:       opts.DryRun,
		configSource: opts.ConfigSource,
		width:        width,
		logger:       logger,
	}
}

// Run alternates between the two stages until the user confirms the plan
// or quits.
func (w *Wizard) Run() (*Decision, error) {
	for {
		if err := w.stage1(); err != nil {
			return nil, err
		}
		ok, err := w.stage2()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Decision{Plan: w.plan, Options: w.opts, Mode: w.mode}, nil
		}
	}
}

func (w *Wizard) rebuild() error {
	plan, err := plans.Build(w.source, w.opts, w.logger)
	if err != nil {
		return err
	}
	w.plan = plan
	ui.PrintHeader(w.out, ui.NewHeader(plan, w.opts, ui.ModeLabel(w.dryRun, w.mode), w.configSource))
	return nil
}

func (w *Wizard) stage1() error {
	if err := w.rebuild(); err != nil {
		return err
	}

	for {
		fmt.Fprintln(w.out, stage1Prompt)
		choice, err := w.prompt("> ")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "", "p":
			return nil
		case "q":
			return ErrAborted
		case "t":
			if w.opts.Overrides.Title, err = w.prompt("New title (blank=auto): "); err != nil {
				return err
			}
		case "y":
			if w.opts.Overrides.Year, err = w.prompt("New year (blank=auto): "); err != nil {
				return err
			}
		case "s":
			if err := w.editSeason(); err != nil {
				return err
			}
		case "d":
			dst, err := w.prompt(fmt.Sprintf("New destination (blank to keep '%s'): ", w.opts.Destination))
			if err != nil {
				return err
			}
			if dst != "" {
				w.opts.Destination = dst
			}
		case "m":
			w.toggleMode()
		case "x":
			w.opts.ExtrasEnabled = !w.opts.ExtrasEnabled
			fmt.Fprintf(w.out, "Extras => %s (scope=%s)\n", onOff(w.opts.ExtrasEnabled), w.opts.Scope)
		default:
			fmt.Fprintln(w.out, "Unknown option.")
			continue
		}

		if err := w.rebuild(); err != nil {
			return err
		}
	}
}

func (w *Wizard) editSeason() error {
	raw, err := w.prompt("New season number (blank=auto): ")
	if err != nil {
		return err
	}
	if raw == "" {
		w.opts.Overrides.Season = 0
		return nil
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil || n < 0 {
		fmt.Fprintf(w.out, "Invalid season %q.\n", raw)
		return nil
	}
	w.opts.Overrides.Season = n
	return nil
}

// stage2 shows the full plan and reports whether to execute it. False
// means go back to stage 1.
func (w *Wizard) stage2() (bool, error) {
	ui.PrintPreview(w.out, w.plan, w.width)

	for {
		fmt.Fprintln(w.out)
		fmt.Fprintf(w.out, stage2Prompt+"\n", w.mode)
		choice, err := w.prompt("> ")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(choice) {
		case "", "y":
			return true, nil
		case "q":
			return false, ErrAborted
		case "b":
			return false, nil
		case "m":
			w.toggleMode()
			ui.PrintPreview(w.out, w.plan, w.width)
		default:
			fmt.Fprintln(w.out, "Unknown option.")
		}
	}
}

func (w *Wizard) toggleMode() {
	if w.mode == transfer.ModeMove {
		w.mode = transfer.ModeHardlink
	} else {
		w.mode = transfer.ModeMove
	}
	fmt.Fprintf(w.out, "Mode toggled => %s\n", w.mode)
}

// prompt asks for user input. End of input counts as quitting.
func (w *Wizard) prompt(message string) (string, error) {
	fmt.Fprint(w.out, message)
	response, err := w.reader.ReadString('\n')
	if err != nil && (err != io.EOF || response == "") {
		fmt.Fprintln(w.out)
		return "", ErrAborted
	}
	return strings.TrimSpace(response), nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
