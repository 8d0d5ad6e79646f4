package naming

import (
	"fmt"
	"regexp"
	"strings"
)

// UnknownTitle is used when nothing usable is left after title extraction.
const UnknownTitle = "Unknown"

var (
	yearParenRegex   = regexp.MustCompile(`\(((?:19|20)\d{2})\)`)
	yearRegex        = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	leadingGroup     = regexp.MustCompile(`^\s*\[([^\[\]]+)\]\s*`)
	trailingBrackets = regexp.MustCompile(`\s*\[[^\[\]]+\]\s*$`)
	illegalChars     = regexp.MustCompile(`[/\\:*?"<>|]`)
	digitsOnly       = regexp.MustCompile(`^[\d\s\-_.]+$`)
)

// ExtractYear returns a 19xx/20xx year, preferring one in parentheses.
func ExtractYear(s string) string {
	if m := yearParenRegex.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return yearRegex.FindString(s)
}

// ExtractTitle derives the series title from a cleaned name. A non-empty
// forced title is returned verbatim.
func ExtractTitle(s, forced string) string {
	if forced != "" {
		return forced
	}
	rest := strings.TrimSpace(leadingGroup.ReplaceAllString(s, ""))

	title := rest
	m := ExtractSeasonEpisode(rest)
	cut := m.Pos > 0
	if cut {
		title = rest[:m.Pos]
	}
	title = trailingBrackets.ReplaceAllString(title, "")
	title = undot(collapseSeparators(strings.TrimSpace(title)))

	// A bare episode number is not a title, but "86" before an episode is.
	if title == "" || (!cut && digitsOnly.MatchString(title)) {
		return UnknownTitle
	}
	return title
}

// undot trims dots left at either end by the marker cut. A dotted release
// name with no spaces ("Show.Name") has its dots turned into spaces.
func undot(title string) string {
	title = strings.Trim(title, ". ")
	if !strings.Contains(title, " ") && strings.Contains(title, ".") {
		title = strings.ReplaceAll(title, ".", " ")
		title = collapseSeparators(title)
	}
	return title
}

// stripTrailingYear drops a trailing "(year)" or bare year equal to year so
// the series name does not repeat it.
func stripTrailingYear(title, year string) string {
	if year == "" {
		return title
	}
	for _, suffix := range []string{"(" + year + ")", year} {
		if strings.HasSuffix(title, suffix) {
			trimmed := collapseSeparators(strings.TrimSuffix(title, suffix))
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return title
}

// ReleaseGroup returns the bracketed group at the very start of a raw name,
// brackets included, or "" when there is none.
func ReleaseGroup(raw string) string {
	m := leadingGroup.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return "[" + strings.TrimSpace(m[1]) + "]"
}

// SanitizeFolder replaces characters that are illegal in path components.
func SanitizeFolder(name string) string {
	return strings.TrimSpace(illegalChars.ReplaceAllString(name, "_"))
}

// NormalizeTVShowName renders "Title (Year)" or "Title".
func NormalizeTVShowName(title, year string) string {
	if year != "" {
		return fmt.Sprintf("%s (%s)", title, year)
	}
	return title
}

// SeriesKey is the folder-safe series name.
func SeriesKey(title, year string) string {
	return SanitizeFolder(NormalizeTVShowName(title, year))
}

func FormatSeasonFolder(season int) string {
	return fmt.Sprintf("Season %02d", season)
}

// FormatEpisodeFilename renders "<key> S01E02[ - group]<ext>". ext keeps its
// leading dot and is lower-cased.
func FormatEpisodeFilename(seriesKey string, season, episode int, group, ext string) string {
	base := fmt.Sprintf("%s S%02dE%02d", seriesKey, season, episode)
	if group != "" {
		base += " - " + group
	}
	return base + strings.ToLower(ext)
}
