package plans

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Nomadcxx/aniarr/internal/extras"
	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/naming"
)

// ErrInvalidSource is returned when the source root is missing or is not a
// directory.
var ErrInvalidSource = errors.New("invalid source directory")

// PlanVersion is the format version written by Save.
const PlanVersion = 1

// Plan is an ordered placement plan plus the diagnostics gathered while
// building it.
type Plan struct {
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	// Mode is the transfer mode chosen when the plan was saved. apply uses it
	// unless told otherwise.
	Mode  string `json:"mode,omitempty"`
	Items []Item `json:"items"`
	// SeriesGroups maps a series key to its dominant release group. Series
	// with no group are absent.
	SeriesGroups map[string]string `json:"series_groups"`
	Skipped      SkipReport        `json:"skipped"`
}

// Len returns the number of planned items.
func (p *Plan) Len() int {
	return len(p.Items)
}

// SeriesKeys returns the distinct series keys in plan order.
func (p *Plan) SeriesKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, it := range p.Items {
		if !seen[it.SeriesKey] {
			seen[it.SeriesKey] = true
			keys = append(keys, it.SeriesKey)
		}
	}
	return keys
}

// HeaderGroup returns the dominant group when the plan holds exactly one
// series, otherwise "-".
func (p *Plan) HeaderGroup() string {
	keys := p.SeriesKeys()
	if len(keys) != 1 {
		return "-"
	}
	if g := p.SeriesGroups[keys[0]]; g != "" {
		return g
	}
	return "-"
}

// Resolved returns the title, year and season of the first planned item.
func (p *Plan) Resolved() Resolved {
	return resolvedFrom(p.Items)
}

// Build walks src one level deep (plus extras containers) and assembles the
// sorted plan. It fails only when src is not a readable directory.
func Build(src string, opts Options, logger *logging.Logger) (*Plan, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, src)
	}
	entries, err := readDirSorted(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	if opts.Classifier == nil {
		opts.Classifier = opts.classifier()
	}
	if opts.Scope == "" {
		opts.Scope = extras.ScopeSeries
	}
	if opts.ExtrasEnabled {
		logger.Debug("planner", "extras enabled",
			logging.F("rules", len(opts.Classifier.Rules())),
			logging.F("fallback", opts.Classifier.Fallback()),
			logging.F("scope", opts.Scope))
	}

	a := &assembler{opts: opts, skipped: make(SkipReport)}
	for _, name := range entries {
		a.visit(filepath.Join(src, name), name)
	}

	plan := &Plan{
		Version:      PlanVersion,
		CreatedAt:    time.Now(),
		Source:       src,
		Destination:  opts.Destination,
		Items:        a.items,
		SeriesGroups: DominantGroups(a.items),
		Skipped:      a.skipped,
	}
	SortItems(plan.Items)

	logger.Info("planner", "plan built",
		logging.F("source", src),
		logging.F("items", plan.Len()),
		logging.F("series", len(plan.SeriesKeys())),
		logging.F("skipped", plan.Skipped.Count()))
	return plan, nil
}

type assembler struct {
	opts    Options
	items   []Item
	skipped SkipReport
}

func (a *assembler) visit(path, name string) {
	info, err := os.Stat(path)
	if err != nil {
		a.skipped.add(ReasonNonFile, name)
		return
	}

	if info.IsDir() {
		if a.opts.ExtrasEnabled && extras.IsContainerDir(name) {
			a.visitContainer(path)
			return
		}
		a.skipped.add(ReasonSubdirectory, name)
		return
	}
	if !info.Mode().IsRegular() {
		a.skipped.add(ReasonNonFile, name)
		return
	}

	switch {
	case naming.IsSubtitle(name):
		a.items = append(a.items, BuildMain(path, true, a.opts))
	case naming.IsVideo(name):
		if a.opts.ExtrasEnabled && a.opts.Classifier.Matches(name) {
			a.items = append(a.items, BuildExtra(path, a.opts))
		} else {
			a.items = append(a.items, BuildMain(path, false, a.opts))
		}
	default:
		a.skipped.add(ReasonUnrecognized, name)
	}
}

// visitContainer routes every video directly inside dir through the extras
// path regardless of its name. Anything else is skipped by full path.
func (a *assembler) visitContainer(dir string) {
	names, err := readDirSorted(dir)
	if err != nil {
		a.skipped.add(ReasonSubdirectory, filepath.Base(dir))
		return
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() && naming.IsVideo(name) {
			a.items = append(a.items, BuildExtra(path, a.opts))
			continue
		}
		a.skipped.add(ReasonContainerItem, path)
	}
}

// readDirSorted lists dir sorted case-insensitively, ties broken by the exact
// name.
func readDirSorted(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names, nil
}
