package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	minWidth     = 60
	maxWidth     = 160
	defaultWidth = 88
)

var (
	// Detect if we're in a terminal
	isTerminal   = isatty.IsTerminal(os.Stdout.Fd())
	colorEnabled = true
)

// DisableColors disables all color output
func DisableColors() {
	colorEnabled = false
	isTerminal = false
}

// IsTerminal checks if stdout is a terminal
func IsTerminal() bool {
	return isTerminal && colorEnabled
}

// TermWidth returns the stdout width clamped to 60..160, or 88 when stdout
// is not a terminal.
func TermWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return defaultWidth
	}
	return ClampWidth(w)
}

// ClampWidth limits w to the range used for wrapping.
func ClampWidth(w int) int {
	return max(minWidth, min(w, maxWidth))
}

// Wrap word-wraps line to width, indenting continuation lines by indent.
// Words longer than the width are not broken.
func Wrap(line string, width, indent int) string {
	if width <= indent || ansi.StringWidth(line) <= width {
		return line
	}
	pad := strings.Repeat(" ", indent)
	lines := strings.Split(ansi.Wordwrap(line, width-indent, ""), "\n")
	for i, l := range lines {
		l = strings.TrimRight(l, " ")
		if i > 0 {
			l = pad + strings.TrimLeft(l, " ")
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}

// FormatBytes formats bytes to human-readable format using go-humanize
func FormatBytes(bytes int64) string {
	return humanize.Bytes(uint64(bytes))
}

// FormatDuration formats duration to human-readable format
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// CompactTable writes a borderless table.
func CompactTable(w io.Writer, headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = ansi.StringWidth(h)
		for _, row := range rows {
			if i < len(row) && ansi.StringWidth(row[i]) > widths[i] {
				widths[i] = ansi.StringWidth(row[i])
			}
		}
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		for i := range headers {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				b.WriteString(val)
				break
			}
			b.WriteString(val)
			b.WriteString(strings.Repeat(" ", widths[i]-ansi.StringWidth(val)+2))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	writeRow(headers)
	seps := make([]string, len(headers))
	for i, wd := range widths {
		seps[i] = strings.Repeat("─", wd)
	}
	writeRow(seps)
	for _, row := range rows {
		writeRow(row)
	}
}
