package plans

import (
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/aniarr/internal/extras"
	"github.com/Nomadcxx/aniarr/internal/naming"
)

// Options controls how items are built.
type Options struct {
	// Destination is the library root every destination sits under.
	Destination string
	Overrides   naming.Overrides
	// ExtrasEnabled routes rule-matching videos and extras containers
	// through the extras path.
	ExtrasEnabled bool
	Scope         extras.Scope
	// Classifier defaults to the built-in rules with the default category.
	Classifier *extras.Classifier
}

func (o Options) classifier() *extras.Classifier {
	if o.Classifier != nil {
		return o.Classifier
	}
	return extras.NewClassifier(extras.DefaultRules(), string(extras.DefaultCategory))
}

// BuildMain builds the item for an episode video or subtitle.
func BuildMain(path string, subtitle bool, opts Options) Item {
	name := filepath.Base(path)
	f := naming.ParseMain(name, opts.Overrides)
	key := f.SeriesKey()

	episode := f.Episode
	dst := filepath.Join(
		opts.Destination,
		key,
		naming.FormatSeasonFolder(f.Season),
		naming.FormatEpisodeFilename(key, f.Season, episode, f.Group, filepath.Ext(name)),
	)

	it := Item{
		Source:      path,
		Destination: dst,
		Kind:        KindVideo,
		SeriesKey:   key,
		SeriesName:  f.SeriesName(),
		Title:       f.Title,
		Year:        f.Year,
		Season:      f.Season,
		Episode:     &episode,
		Group:       f.Group,
	}
	if subtitle {
		it.Kind = KindSubtitle
		it.Destination, it.Language = naming.ApplyLanguage(dst, name)
	}
	return it
}

// BuildExtra builds the item for an extra. The file is named after the
// classifier's label alone.
func BuildExtra(path string, opts Options) Item {
	name := filepath.Base(path)
	c := opts.classifier().Classify(name)
	f := naming.ParseExtra(name, c.Matched, opts.Overrides)
	key := f.SeriesKey()

	dir := filepath.Join(opts.Destination, key)
	if opts.Scope == extras.ScopeSeason {
		dir = filepath.Join(dir, naming.FormatSeasonFolder(f.Season))
	}
	file := naming.SanitizeFolder(c.Label) + strings.ToLower(filepath.Ext(name))

	return Item{
		Source:      path,
		Destination: filepath.Join(dir, string(c.Category), file),
		Kind:        KindExtra,
		SeriesKey:   key,
		SeriesName:  f.SeriesName(),
		Title:       f.Title,
		Year:        f.Year,
		Season:      f.Season,
		Category:    c.Category,
		Label:       c.Label,
		Group:       f.Group,
	}
}
