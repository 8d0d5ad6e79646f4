package naming

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// EpisodeRule identifies which extractor produced an EpisodeMatch.
type EpisodeRule int

const (
	RuleNone EpisodeRule = iota
	RuleSeasonEpisode
	RuleBracketed
	RuleBareNumber
	RuleEpisodeToken
	RuleCJKOrdinal
)

func (r EpisodeRule) String() string {
	switch r {
	case RuleSeasonEpisode:
		return "SxxEyy"
	case RuleBracketed:
		return "bracketed"
	case RuleBareNumber:
		return "bare"
	case RuleEpisodeToken:
		return "EP"
	case RuleCJKOrdinal:
		return "cjk"
	default:
		return "fallback"
	}
}

// EpisodeMatch is the result of season/episode extraction. Season is 0 when
// the name carried no season marker; Pos is the byte offset of the marker in
// the searched string, or -1 for the fallback.
type EpisodeMatch struct {
	Season  int
	Episode int
	Rule    EpisodeRule
	Pos     int
}

type episodeExtractor struct {
	rule    EpisodeRule
	pattern *regexp.Regexp
	// episode is the capture group holding the episode; season is 0 when the
	// pattern has no season group.
	season  int
	episode int
}

// Extractors in priority order; the first one that matches wins even when a
// later one would match earlier in the string. A number opening the name is
// only an episode when nothing else matched, so "91 Days 05" is E05.
var episodeExtractors = []episodeExtractor{
	{rule: RuleSeasonEpisode, pattern: regexp.MustCompile(`[Ss](\d{1,2})[Ee](\d{1,3})`), season: 1, episode: 2},
	{rule: RuleBracketed, pattern: regexp.MustCompile(`[\[\(]\s*(\d{1,3})\s*[\]\)]`), episode: 1},
	{rule: RuleBareNumber, pattern: regexp.MustCompile(`[\s\-_](\d{1,3})(?:[\s\-_.]|$)`), episode: 1},
	{rule: RuleEpisodeToken, pattern: regexp.MustCompile(`\b(?:EP|Ep|ep|E)(\d{1,3})\b`), episode: 1},
	{rule: RuleCJKOrdinal, pattern: regexp.MustCompile(`第([零〇一二两三四五六七八九十0-9０-９]{1,3})\s*(?:話|话|集)`), episode: 1},
	{rule: RuleBareNumber, pattern: regexp.MustCompile(`^(\d{1,3})(?:[\s\-_.]|$)`), episode: 1},
}

// ExtractSeasonEpisode runs the extractors over a cleaned name. When nothing
// matches the result is episode 1 with no season.
func ExtractSeasonEpisode(s string) EpisodeMatch {
	for _, ex := range episodeExtractors {
		loc := ex.pattern.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		m := EpisodeMatch{Rule: ex.rule, Pos: loc[0]}
		episode := s[loc[2*ex.episode]:loc[2*ex.episode+1]]
		if ex.rule == RuleCJKOrdinal {
			m.Episode = cjkToInt(episode)
		} else {
			m.Episode = atoi(episode)
		}
		if ex.season > 0 {
			m.Season = atoi(s[loc[2*ex.season]:loc[2*ex.season+1]])
		}
		return m
	}
	return EpisodeMatch{Episode: 1, Rule: RuleNone, Pos: -1}
}

// ResolveSeason applies the season precedence: a positive override, then a
// detected season, then 1.
func ResolveSeason(override, detected int) int {
	if override > 0 {
		return override
	}
	if detected > 0 {
		return detected
	}
	return 1
}

var cjkDigits = map[rune]int{
	'零': 0, '〇': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9, '十': 10,
}

// cjkToInt converts a CJK ordinal numeral below 100 using the tens-and-units
// rule ("十三" = 13, "二十" = 20). Arabic and full-width digits are accepted.
// Anything it cannot read is 0.
func cjkToInt(t string) int {
	t = width.Narrow.String(t)
	if isDigits(t) {
		return atoi(t)
	}
	runes := []rune(t)
	if len(runes) == 1 {
		return cjkDigits[runes[0]]
	}
	left, right, found := strings.Cut(t, "十")
	if !found {
		return 0
	}
	tens, units := 1, 0
	if left != "" {
		if v, ok := cjkValue(left); ok {
			tens = v
		}
	}
	if right != "" {
		if v, ok := cjkValue(right); ok {
			units = v
		}
	}
	return tens*10 + units
}

func cjkValue(s string) (int, bool) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	v, ok := cjkDigits[runes[0]]
	return v, ok
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
