package plans

import (
	"sort"
	"strings"

	"github.com/Nomadcxx/aniarr/internal/naming"
)

// SortItems orders items by series key (case-insensitive), season, kind
// (video, subtitle, extra), episode, subtitle language and source name.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessItem(items[i], items[j])
	})
}

func lessItem(a, b Item) bool {
	if ka, kb := strings.ToLower(a.SeriesKey), strings.ToLower(b.SeriesKey); ka != kb {
		return ka < kb
	}
	if a.Season != b.Season {
		return a.Season < b.Season
	}
	if a.Kind.order() != b.Kind.order() {
		return a.Kind.order() < b.Kind.order()
	}
	if a.EpisodeNumber() != b.EpisodeNumber() {
		return a.EpisodeNumber() < b.EpisodeNumber()
	}
	if pa, pb := naming.LanguagePriority(a.Language), naming.LanguagePriority(b.Language); pa != pb {
		return pa < pb
	}
	return strings.ToLower(a.SourceName()) < strings.ToLower(b.SourceName())
}

// groupTally counts release groups for one series in first-seen order.
type groupTally struct {
	order  []string
	counts map[string]int
}

func (t *groupTally) add(group string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[group]; !ok {
		t.order = append(t.order, group)
	}
	t.counts[group]++
}

// dominant returns the most frequent group; ties go to the one seen first.
func (t *groupTally) dominant() string {
	best, bestCount := "", 0
	for _, g := range t.order {
		if c := t.counts[g]; c > bestCount {
			best, bestCount = g, c
		}
	}
	return best
}

// DominantGroups reduces the groups observed on items to the most frequent
// group per series key. Items are read in the order given.
func DominantGroups(items []Item) map[string]string {
	tallies := make(map[string]*groupTally)
	for _, it := range items {
		if it.Group == "" {
			continue
		}
		t, ok := tallies[it.SeriesKey]
		if !ok {
			t = &groupTally{}
			tallies[it.SeriesKey] = t
		}
		t.add(it.Group)
	}

	groups := make(map[string]string, len(tallies))
	for key, t := range tallies {
		groups[key] = t.dominant()
	}
	return groups
}
