// Package extras classifies non-episode media (openings, previews, menus,
// specials) into library extra categories using an ordered rule list.
package extras

import "strings"

// Category is a library extras folder name.
type Category string

const (
	CategoryBehindTheScenes Category = "behind the scenes"
	CategoryDeletedScenes   Category = "deleted scenes"
	CategoryInterviews      Category = "interviews"
	CategoryScenes          Category = "scenes"
	CategorySamples         Category = "samples"
	CategoryShorts          Category = "shorts"
	CategoryFeaturettes     Category = "featurettes"
	CategoryClips           Category = "clips"
	CategoryOther           Category = "other"
	CategoryExtras          Category = "extras"
	CategoryTrailers        Category = "trailers"
)

// DefaultCategory receives anything no rule claims and any configured
// category outside the known set.
const DefaultCategory = CategoryExtras

// FallbackLabel names an extra that matched no rule.
const FallbackLabel = "EXTRA"

var knownCategories = map[Category]bool{
	CategoryBehindTheScenes: true,
	CategoryDeletedScenes:   true,
	CategoryInterviews:      true,
	CategoryScenes:          true,
	CategorySamples:         true,
	CategoryShorts:          true,
	CategoryFeaturettes:     true,
	CategoryClips:           true,
	CategoryOther:           true,
	CategoryExtras:          true,
	CategoryTrailers:        true,
}

// IsKnownCategory reports whether name is one of the library categories.
func IsKnownCategory(name string) bool {
	return knownCategories[Category(name)]
}

// ValidateCategory returns name as a Category, or DefaultCategory when it is
// not one of the library categories. Matching is exact.
func ValidateCategory(name string) Category {
	if IsKnownCategory(name) {
		return Category(name)
	}
	return DefaultCategory
}

// Scope decides where the category folder sits inside a series.
type Scope string

const (
	// ScopeSeries puts extras at <series>/<category>.
	ScopeSeries Scope = "series"
	// ScopeSeason puts extras at <series>/Season NN/<category>.
	ScopeSeason Scope = "season"
)

// ParseScope accepts "series" or "season" in any case.
func ParseScope(s string) (Scope, bool) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeSeries:
		return ScopeSeries, true
	case ScopeSeason:
		return ScopeSeason, true
	}
	return "", false
}

// ContainerDirs are subdirectory names whose video files are always extras.
var ContainerDirs = map[string]bool{
	"sps":    true,
	"sp":     true,
	"extras": true,
}

// IsContainerDir reports whether a directory name marks an extras container.
func IsContainerDir(name string) bool {
	return ContainerDirs[strings.ToLower(name)]
}
