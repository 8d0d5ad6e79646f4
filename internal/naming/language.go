package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

var (
	simplifiedChinese  = language.MustParse("zh-CN")
	traditionalChinese = language.MustParse("zh-TW")

	// Language token preceded by a separator or "[", with an optional track index
	// ("chs_2", "zh-CN-1").
	langTokenRegex = regexp.MustCompile(`[._\-\[](zh[-_ ]?(?:cn|tw|sc|tc)|chinese(?:\s*\(.*?\))?|chs|cht|chi|simp|trad|sc|tc)(?:[_-](\d+))?`)

	// Locale token already sitting at the end of a destination stem.
	trailingLocaleRegex = regexp.MustCompile(`(?i)[._-](zh[-_ ]?(?:cn|tw))(?:[_-](\d+))?$`)

	langAliases = map[string]language.Tag{
		"chs": simplifiedChinese, "sc": simplifiedChinese, "simp": simplifiedChinese, "chi": simplifiedChinese,
		"cht": traditionalChinese, "tc": traditionalChinese, "trad": traditionalChinese,
	}
)

// SubtitleLanguage finds the last Chinese-language token in name, outside the
// leading release group, and returns "zh-CN" or "zh-TW", suffixed with "_<n>"
// when the token carried a track index. It returns "" when no token is present.
func SubtitleLanguage(name string) string {
	lower := strings.ToLower(name)
	// "[SC-Raws]" and "[TC]" name a release group, not a language.
	groupEnd := 0
	if g := leadingGroup.FindStringIndex(lower); g != nil {
		groupEnd = g[1]
	}
	matches := langTokenRegex.FindAllStringSubmatchIndex(lower, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		loc := matches[i]
		if loc[0] < groupEnd {
			continue
		}
		// A token glued to more letters ("screener") is not a language.
		if end := loc[1]; end < len(lower) && isASCIILetter(lower[end]) {
			continue
		}
		tag, ok := languageTag(strings.TrimSpace(lower[loc[2]:loc[3]]))
		if !ok {
			continue
		}
		if loc[4] >= 0 {
			return tag.String() + "_" + lower[loc[4]:loc[5]]
		}
		return tag.String()
	}
	return ""
}

func languageTag(raw string) (language.Tag, bool) {
	if tag, ok := langAliases[raw]; ok {
		return tag, true
	}
	if strings.HasPrefix(raw, "zh") {
		switch raw[len(raw)-2:] {
		case "cn", "sc":
			return simplifiedChinese, true
		case "tw", "tc":
			return traditionalChinese, true
		}
	}
	if strings.HasPrefix(raw, "chinese") {
		if strings.Contains(raw, "trad") {
			return traditionalChinese, true
		}
		return simplifiedChinese, true
	}
	return language.Und, false
}

// ApplyLanguage rewrites a subtitle destination so its stem ends in
// ".<lang>". The language comes from the source name first, then from the
// destination stem. Any locale token already ending the stem is replaced.
func ApplyLanguage(dst, srcName string) (string, string) {
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(dst, ext)

	lang := SubtitleLanguage(srcName)
	if lang == "" {
		lang = trailingLocale(stem)
	}
	if lang == "" {
		return dst, ""
	}
	stem = trailingLocaleRegex.ReplaceAllString(stem, "")
	return stem + "." + lang + ext, lang
}

// trailingLocale reads a locale token ending a destination stem. The group
// suffix of an episode stem ("- [SC-Raws]") is never a language.
func trailingLocale(stem string) string {
	m := trailingLocaleRegex.FindStringSubmatch(stem)
	if m == nil {
		return ""
	}
	tag, ok := languageTag(strings.ToLower(m[1]))
	if !ok {
		return ""
	}
	if m[2] != "" {
		return tag.String() + "_" + m[2]
	}
	return tag.String()
}

// LanguagePriority orders subtitles: simplified, traditional, then the rest.
func LanguagePriority(lang string) int {
	base, _, _ := strings.Cut(lang, "_")
	switch base {
	case simplifiedChinese.String():
		return 0
	case traditionalChinese.String():
		return 1
	default:
		return 9
	}
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
