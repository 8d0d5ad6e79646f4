// Package ui renders plans, execution results and messages for the terminal.
package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/aniarr/internal/extras"
	"github.com/Nomadcxx/aniarr/internal/naming"
	"github.com/Nomadcxx/aniarr/internal/plans"
	"github.com/Nomadcxx/aniarr/internal/transfer"
)

const (
	autoSuffix = " (auto)"
	emptyValue = "(empty)"
)

// Header is everything shown above a plan.
type Header struct {
	Source        string
	Destination   string
	Mode          string
	Overrides     naming.Overrides
	Resolved      plans.Resolved
	Group         string
	Files         int
	ExtrasEnabled bool
	Scope         extras.Scope
	ConfigSource  string
}

// ModeLabel is DRY-RUN for previews and the transfer mode otherwise.
func ModeLabel(dryRun bool, mode transfer.Mode) string {
	if dryRun {
		return "DRY-RUN"
	}
	return string(mode)
}

// NewHeader collects the header for plan built with opts.
func NewHeader(plan *plans.Plan, opts plans.Options, mode, configSource string) Header {
	return Header{
		Source:        plan.Source,
		Destination:   plan.Destination,
		Mode:          mode,
		Overrides:     opts.Overrides,
		Resolved:      plan.Resolved(),
		Group:         plan.HeaderGroup(),
		Files:         plan.Len(),
		ExtrasEnabled: opts.ExtrasEnabled,
		Scope:         opts.Scope,
		ConfigSource:  configSource,
	}
}

func formatTitle(user, auto string) string {
	switch {
	case user != "":
		return user
	case auto != "":
		return auto + autoSuffix
	}
	return emptyValue
}

// formatYear shows a detected year without the auto marker.
func formatYear(user, auto string) string {
	switch {
	case user != "":
		return user
	case auto != "":
		return auto
	}
	return emptyValue
}

func formatSeason(user, auto int) string {
	switch {
	case user > 0:
		return fmt.Sprintf("S%02d", user)
	case auto > 0:
		return fmt.Sprintf("S%02d%s", auto, autoSuffix)
	}
	return "S01" + autoSuffix
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// PrintHeader writes the plan header.
func PrintHeader(w io.Writer, h Header) {
	rows := [][2]string{
		{"Source", h.Source},
		{"Destination", h.Destination},
		{"Mode", h.Mode},
		{"Title", formatTitle(h.Overrides.Title, h.Resolved.Title)},
		{"Year", formatYear(h.Overrides.Year, h.Resolved.Year)},
		{"Season", formatSeason(h.Overrides.Season, h.Resolved.Season)},
		{"Group", h.Group},
		{"Extras", fmt.Sprintf("%s (scope=%s)", onOff(h.ExtrasEnabled), h.Scope)},
		{"Config", h.ConfigSource},
		{"Files", fmt.Sprintf("%d planned (sorted)", h.Files)},
	}

	fmt.Fprintln(w, Info("=== aniarr ==="))
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s: %s\n", r[0], r[1])
	}
	fmt.Fprintln(w, Info("=============="))
	fmt.Fprintln(w)
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// PlanLine renders one item with its destination relative to root.
func PlanLine(it plans.Item, root string) string {
	rel := relativeTo(root, it.Destination)
	switch it.Kind {
	case plans.KindExtra:
		return fmt.Sprintf("%s -> %s", Extra("[EXTRA/"+string(it.Category)+"]"), rel)
	case plans.KindSubtitle:
		return fmt.Sprintf("%s S%02dE%02d -> %s", Subtitle("[SUB]"), it.Season, it.EpisodeNumber(), rel)
	default:
		return fmt.Sprintf("%s S%02dE%02d -> %s", Video("[VID]"), it.Season, it.EpisodeNumber(), rel)
	}
}

// PrintPlan writes every item in plan order, wrapped to width.
func PrintPlan(w io.Writer, plan *plans.Plan, width int) {
	for _, it := range plan.Items {
		fmt.Fprintln(w, Wrap(PlanLine(it, plan.Destination), width, 2))
	}
}

// PrintSkipped writes the skip report grouped by reason. Nothing is written
// when the report is empty.
func PrintSkipped(w io.Writer, skipped plans.SkipReport, width int) {
	if skipped.Count() == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, Dim("--- Skipped ---"))
	for _, reason := range skipped.Reasons() {
		names := skipped.Names(reason)
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d):\n", reason, len(names))
		for _, name := range names {
			fmt.Fprintln(w, Wrap("  "+name, width, 4))
		}
	}
}

// PrintPreview writes the plan lines followed by the skip report.
func PrintPreview(w io.Writer, plan *plans.Plan, width int) {
	PrintPlan(w, plan, width)
	PrintSkipped(w, plan.Skipped, width)
}
