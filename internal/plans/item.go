// Package plans turns a directory of loosely named media files into an
// ordered, collision-free placement plan.
package plans

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nomadcxx/aniarr/internal/extras"
)

// Kind is the role a file plays in the library.
type Kind string

const (
	KindVideo    Kind = "VID"
	KindSubtitle Kind = "SUB"
	KindExtra    Kind = "EXTRA"
)

func (k Kind) order() int {
	switch k {
	case KindVideo:
		return 0
	case KindSubtitle:
		return 1
	case KindExtra:
		return 2
	default:
		return 9
	}
}

// Item is one planned placement. Items are built once and never modified.
type Item struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Kind        Kind   `json:"kind"`
	SeriesKey   string `json:"series_key"`
	SeriesName  string `json:"series_name"`
	Title       string `json:"title"`
	Year        string `json:"year,omitempty"`
	Season      int    `json:"season"`
	// Episode is nil for extras.
	Episode  *int            `json:"episode,omitempty"`
	Language string          `json:"language,omitempty"`
	Category extras.Category `json:"category,omitempty"`
	Label    string          `json:"label,omitempty"`
	// Group is the release group parsed from this file's own name.
	Group string `json:"group,omitempty"`
}

// EpisodeNumber returns the episode, or 0 for extras.
func (it Item) EpisodeNumber() int {
	if it.Episode == nil {
		return 0
	}
	return *it.Episode
}

// SourceName is the base name of the source file.
func (it Item) SourceName() string {
	return filepath.Base(it.Source)
}

// Skip reasons recorded in a SkipReport.
const (
	ReasonUnrecognized  = "unrecognized extension"
	ReasonNonFile       = "non-file entry"
	ReasonSubdirectory  = "unhandled subdirectory"
	ReasonContainerItem = "extras container item"
)

// SkipReport maps a skip reason to the names skipped for it.
type SkipReport map[string][]string

func (r SkipReport) add(reason, name string) {
	r[reason] = append(r[reason], name)
}

// Reasons returns the non-empty reasons in sorted order.
func (r SkipReport) Reasons() []string {
	reasons := make([]string, 0, len(r))
	for reason, names := range r {
		if len(names) > 0 {
			reasons = append(reasons, reason)
		}
	}
	sort.Strings(reasons)
	return reasons
}

// Names returns the names skipped for reason, sorted case-insensitively.
func (r SkipReport) Names(reason string) []string {
	names := append([]string(nil), r[reason]...)
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Count returns the total number of skipped entries.
func (r SkipReport) Count() int {
	n := 0
	for _, names := range r {
		n += len(names)
	}
	return n
}

// Resolved is the title, year and season the plan settled on, for display.
// Values come from the first item; they are empty for an empty plan.
type Resolved struct {
	Title  string
	Year   string
	Season int
}

func resolvedFrom(items []Item) Resolved {
	if len(items) == 0 {
		return Resolved{}
	}
	first := items[0]
	return Resolved{Title: first.Title, Year: first.Year, Season: first.Season}
}
