package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// VideoExtensions and SubtitleExtensions are the lower-cased extensions the
// planner routes; anything else in a source directory is skipped.
var (
	VideoExtensions = map[string]bool{
		".mkv": true, ".mp4": true, ".avi": true,
		".mov": true, ".wmv": true, ".m4v": true,
	}
	SubtitleExtensions = map[string]bool{
		".ass": true, ".srt": true, ".vtt": true,
		".sub": true, ".ssa": true, ".sup": true,
	}
)

var (
	// Quality, codec, audio and HDR tags. Bracketed forms may carry an encoder
	// profile suffix (Ma10p_1080p and friends).
	bracketTagRegex = regexp.MustCompile(`(?i)\[(?:1080p|2160p|720p|x26[45]|HEVC|AVC|WEB[- ]?DL|BluRay|FLAC|AAC|HDR|DV|Ma10p_[^\]]+)\]`)
	bareTagRegex    = regexp.MustCompile(`(?i)\b(?:1080p|2160p|720p|x26[45]|HEVC|AVC|WEB[- ]?DL|BluRay|FLAC|AAC|HDR|DV)\b`)
	separatorRun    = regexp.MustCompile(`[ _\-]{2,}`)
	anyBracketGroup = regexp.MustCompile(`\s*\[[^\[\]]+\]\s*`)
)

const separatorChars = " -_"

// IsVideo reports whether name carries a recognised video extension.
func IsVideo(name string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsSubtitle reports whether name carries a recognised subtitle extension.
func IsSubtitle(name string) bool {
	return SubtitleExtensions[strings.ToLower(filepath.Ext(name))]
}

// Clean strips the media extension and technical tags from a raw filename and
// collapses separator runs. Clean(Clean(s)) == Clean(s) for every s.
func Clean(raw string) string {
	s := raw
	for {
		next := cleanOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = norm.NFC.String(s)
	s = stripMediaExtension(s)
	s = bracketTagRegex.ReplaceAllString(s, "")
	s = bareTagRegex.ReplaceAllString(s, "")
	s = separatorRun.ReplaceAllString(s, " ")
	return strings.Trim(s, separatorChars)
}

// stripMediaExtension removes every trailing video or subtitle extension.
// Only known extensions are removed so dotted names like "Show.S01E02" keep
// their last segment.
func stripMediaExtension(s string) string {
	for {
		ext := strings.ToLower(filepath.Ext(s))
		if ext == "" || (!VideoExtensions[ext] && !SubtitleExtensions[ext]) {
			return s
		}
		s = s[:len(s)-len(ext)]
	}
}

// StripBrackets removes every [..] group from s. Extras use it before title
// extraction so trailing tags never leak into the series name.
func StripBrackets(s string) string {
	return strings.TrimSpace(anyBracketGroup.ReplaceAllString(s, " "))
}

// collapseSeparators squeezes separator runs and trims the ends.
func collapseSeparators(s string) string {
	s = separatorRun.ReplaceAllString(s, " ")
	return strings.Trim(s, separatorChars)
}
