package ui

import (
	"fmt"
	"io"

	"github.com/Nomadcxx/aniarr/internal/organizer"
	"github.com/Nomadcxx/aniarr/internal/transfer"
)

// ResultLine renders one execution outcome.
func ResultLine(r organizer.OrganizationResult, mode transfer.Mode) string {
	switch {
	case r.Skipped:
		return fmt.Sprintf("%s %s :: %s", Dim("[SKIP]"), r.Item.SourceName(), r.SkipReason)
	case r.Success:
		return fmt.Sprintf("%s -> %s", Success("["+mode.Tag()+"]"), r.FinalPath)
	default:
		return fmt.Sprintf("%s %s :: %v", Error("[FAIL]"), r.Item.SourceName(), r.Error)
	}
}

// Reporter returns an organizer callback that prints each result, wrapped
// to width.
func Reporter(w io.Writer, mode transfer.Mode, width int) func(organizer.OrganizationResult) {
	return func(r organizer.OrganizationResult) {
		fmt.Fprintln(w, Wrap(ResultLine(r, mode), width, 2))
	}
}

// SummaryLine renders the closing tally of an execution.
func SummaryLine(s organizer.Summary) string {
	line := fmt.Sprintf("Done. OK=%d  FAIL=%d", s.OK, s.Failed)
	if s.Skipped > 0 {
		line += fmt.Sprintf("  SKIP=%d", s.Skipped)
	}
	switch {
	case s.Bytes > 0 && s.Duration > 0:
		line += fmt.Sprintf("  (%s placed in %s)", FormatBytes(s.Bytes), FormatDuration(s.Duration))
	case s.Bytes > 0:
		line += fmt.Sprintf("  (%s placed)", FormatBytes(s.Bytes))
	case s.Duration > 0:
		line += fmt.Sprintf("  (%s)", FormatDuration(s.Duration))
	}
	return line
}

// PrintSummary writes the closing tally preceded by a blank line.
func PrintSummary(w io.Writer, s organizer.Summary) {
	fmt.Fprintln(w)
	if s.HasFailures() {
		fmt.Fprintln(w, Error(SummaryLine(s)))
		return
	}
	fmt.Fprintln(w, Success(SummaryLine(s)))
}

// PrintDryRun writes the closing line of a preview-only run.
func PrintDryRun(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary: dry-run only.")
}
