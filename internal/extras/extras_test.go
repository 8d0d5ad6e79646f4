package extras

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCategory(t *testing.T) {
	assert.Equal(t, CategoryClips, ValidateCategory("clips"))
	assert.Equal(t, CategoryBehindTheScenes, ValidateCategory("behind the scenes"))
	assert.Equal(t, DefaultCategory, ValidateCategory("bonus"))
	assert.Equal(t, DefaultCategory, ValidateCategory("Clips"))
	assert.Equal(t, DefaultCategory, ValidateCategory(""))
}

func TestParseScope(t *testing.T) {
	s, ok := ParseScope("Season")
	assert.True(t, ok)
	assert.Equal(t, ScopeSeason, s)

	s, ok = ParseScope("series")
	assert.True(t, ok)
	assert.Equal(t, ScopeSeries, s)

	_, ok = ParseScope("episode")
	assert.False(t, ok)
}

func TestIsContainerDir(t *testing.T) {
	assert.True(t, IsContainerDir("SPs"))
	assert.True(t, IsContainerDir("extras"))
	assert.True(t, IsContainerDir("SP"))
	assert.False(t, IsContainerDir("Specials"))
}

func TestClassify_DefaultRules(t *testing.T) {
	c := NewClassifier(DefaultRules(), "extras")

	tests := []struct {
		name     string
		input    string
		category Category
		label    string
	}{
		{"NCOP upper", "[Group] Show NCOP.mkv", CategoryClips, "NCOP"},
		{"ncop is upper-cased", "[Group] Show ncop.mkv", CategoryClips, "NCOP"},
		{"NCED", "[Group] Show NCED [1080p].mkv", CategoryClips, "NCED"},
		{"numbered PV", "[Group] Show pv2.mkv", CategoryTrailers, "PV2"},
		{"CM", "[Group] Show CM01.mkv", CategoryTrailers, "CM01"},
		{"preview keeps case", "[Group] Show preview03.mkv", CategoryTrailers, "preview03"},
		{"trailer", "Show Trailer.mp4", CategoryTrailers, "Trailer"},
		{"menu keeps case", "[Group] Show MENU01.mkv", CategoryOther, "MENU01"},
		{"special", "[Group] Show sp1.mkv", CategoryShorts, "SP1"},
		{"no rule", "[Group] Show Bonus.mkv", CategoryExtras, FallbackLabel},
		{"SP needs a number", "[Group] Show SP.mkv", CategoryExtras, FallbackLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.input)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	rules, errs := CompileRules([]RuleConfig{
		{Pattern: `NCOP`, Category: "clips", Label: "Opening"},
		{Pattern: `NCOP\d*`, Category: "featurettes", LabelFrom: "match"},
	})
	require.Empty(t, errs)

	for i := 0; i < 20; i++ {
		got := NewClassifier(rules, "extras").Classify("Show NCOP2.mkv")
		assert.Equal(t, CategoryClips, got.Category)
		assert.Equal(t, "Opening", got.Label)
		assert.Equal(t, "NCOP", got.Matched)
	}

	swapped := []Rule{rules[1], rules[0]}
	got := NewClassifier(swapped, "extras").Classify("Show NCOP2.mkv")
	assert.Equal(t, CategoryFeaturettes, got.Category)
	assert.Equal(t, "NCOP2", got.Label)
}

func TestClassify_Fallback(t *testing.T) {
	c := NewClassifier(nil, "interviews")
	got := c.Classify("anything.mkv")
	assert.Equal(t, CategoryInterviews, got.Category)
	assert.Equal(t, FallbackLabel, got.Label)
	assert.Empty(t, got.Matched)

	c = NewClassifier(nil, "not-a-category")
	assert.Equal(t, DefaultCategory, c.Fallback())
}

func TestCompileRules(t *testing.T) {
	rules, errs := CompileRules([]RuleConfig{
		{Pattern: `\bOK\b`, Category: "bogus", LabelFrom: "match", Case: "LOWER"},
		{Pattern: `(?=look)`, Category: "clips"},
		{Pattern: "  ", Category: "clips"},
		{Pattern: `Tail`, Category: "samples", Case: "upper"},
	})

	require.Len(t, rules, 2)
	require.Len(t, errs, 2)

	assert.Equal(t, DefaultCategory, rules[0].Category)
	assert.Equal(t, CaseLower, rules[0].Case)
	assert.Equal(t, "ok", rules[0].LabelFor("OK"))

	// Case only applies to labels taken from the match.
	assert.Equal(t, "tail", rules[1].LabelFor("tail"))

	var re *RuleError
	require.True(t, errors.As(errs[0], &re))
	assert.Equal(t, 1, re.Index)
	require.True(t, errors.As(errs[1], &re))
	assert.Equal(t, 2, re.Index)
	assert.ErrorIs(t, errs[1], ErrEmptyPattern)
}

func TestMatches(t *testing.T) {
	c := NewClassifier(DefaultRules(), "extras")
	assert.True(t, c.Matches("[Group] Show NCOP.mkv"))
	assert.False(t, c.Matches("[Group] Show S01E02.mkv"))
	assert.False(t, NewClassifier(nil, "extras").Matches("Show NCOP.mkv"))
}
