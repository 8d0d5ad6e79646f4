package naming

import (
	"regexp"
	"strings"
)

// Overrides are caller-supplied values that win over anything parsed from a
// filename. Zero values mean "detect".
type Overrides struct {
	Title  string
	Year   string
	Season int
}

// Fields holds everything inferred from a single filename.
type Fields struct {
	Title   string
	Year    string
	Season  int
	Episode int
	// HasEpisode is false for extras, which are not numbered.
	HasEpisode bool
	Group      string
	Rule       EpisodeRule
}

// SeriesName is the display form "Title (Year)".
func (f Fields) SeriesName() string {
	return NormalizeTVShowName(f.Title, f.Year)
}

// SeriesKey is the folder-safe form of SeriesName.
func (f Fields) SeriesKey() string {
	return SeriesKey(f.Title, f.Year)
}

// ParseMain extracts fields from an episode video or subtitle name.
func ParseMain(raw string, ov Overrides) Fields {
	clean := Clean(raw)
	m := ExtractSeasonEpisode(clean)
	return Fields{
		Title:      resolveTitle(clean, ov),
		Year:       resolveYear(clean, ov),
		Season:     ResolveSeason(ov.Season, m.Season),
		Episode:    m.Episode,
		HasEpisode: true,
		Group:      ReleaseGroup(raw),
		Rule:       m.Rule,
	}
}

// ParseExtra extracts fields from an extra. Every bracket group is dropped
// before parsing, and token (the text the classifier matched) is removed so
// "Show NCOP" files under "Show".
func ParseExtra(raw, token string, ov Overrides) Fields {
	base := StripBrackets(Clean(raw))
	if token != "" {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(token))
		if loc := re.FindStringIndex(base); loc != nil {
			base = collapseSeparators(strings.TrimSpace(base[:loc[0]] + " " + base[loc[1]:]))
		}
	}
	m := ExtractSeasonEpisode(base)
	return Fields{
		Title:  resolveTitle(base, ov),
		Year:   resolveYear(base, ov),
		Season: ResolveSeason(ov.Season, m.Season),
		Group:  ReleaseGroup(raw),
		Rule:   m.Rule,
	}
}

func resolveYear(clean string, ov Overrides) string {
	if ov.Year != "" {
		return ov.Year
	}
	return ExtractYear(clean)
}

func resolveTitle(clean string, ov Overrides) string {
	if ov.Title != "" {
		return ov.Title
	}
	return stripTrailingYear(ExtractTitle(clean, ""), resolveYear(clean, ov))
}
