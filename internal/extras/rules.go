package extras

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LabelCase is the case transform applied to a label taken from the match.
type LabelCase string

const (
	CaseMatch LabelCase = "match"
	CaseUpper LabelCase = "upper"
	CaseLower LabelCase = "lower"
)

// LabelFromMatch is the only recognised label_from value.
const LabelFromMatch = "match"

// RuleConfig is one classification rule as written in a config file.
type RuleConfig struct {
	Pattern   string `mapstructure:"pattern" toml:"pattern" json:"pattern"`
	Category  string `mapstructure:"category" toml:"category" json:"category"`
	Label     string `mapstructure:"label" toml:"label,omitempty" json:"label,omitempty"`
	LabelFrom string `mapstructure:"label_from" toml:"label_from,omitempty" json:"label_from,omitempty"`
	Case      string `mapstructure:"case" toml:"case,omitempty" json:"case,omitempty"`
}

// DefaultRuleConfigs returns the built-in rule set. Order is significant.
func DefaultRuleConfigs() []RuleConfig {
	return []RuleConfig{
		{Pattern: `\bCM\d*\b`, Category: string(CategoryTrailers), LabelFrom: LabelFromMatch, Case: string(CaseUpper)},
		{Pattern: `\bPV\d*\b`, Category: string(CategoryTrailers), LabelFrom: LabelFromMatch, Case: string(CaseUpper)},
		{Pattern: `\bPreview\d*\b`, Category: string(CategoryTrailers), LabelFrom: LabelFromMatch, Case: string(CaseMatch)},
		{Pattern: `\bTrailer\b`, Category: string(CategoryTrailers), LabelFrom: LabelFromMatch, Case: string(CaseMatch)},
		{Pattern: `\bNCOP\b`, Category: string(CategoryClips), LabelFrom: LabelFromMatch, Case: string(CaseUpper)},
		{Pattern: `\bNCED\b`, Category: string(CategoryClips), LabelFrom: LabelFromMatch, Case: string(CaseUpper)},
		{Pattern: `\bMenu\d+\b`, Category: string(CategoryOther), LabelFrom: LabelFromMatch, Case: string(CaseMatch)},
		{Pattern: `\bSP\d+\b`, Category: string(CategoryShorts), LabelFrom: LabelFromMatch, Case: string(CaseUpper)},
	}
}

// Rule is a compiled RuleConfig.
type Rule struct {
	Source    string
	Category  Category
	Label     string
	FromMatch bool
	Case      LabelCase

	pattern *regexp.Regexp
}

// RuleError reports a rule that could not be compiled.
type RuleError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d (%q): %v", e.Index, e.Pattern, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// ErrEmptyPattern is returned for a rule with a blank pattern.
var ErrEmptyPattern = errors.New("empty pattern")

// CompileRule compiles one rule. Patterns always match case-insensitively.
func CompileRule(rc RuleConfig) (Rule, error) {
	if strings.TrimSpace(rc.Pattern) == "" {
		return Rule{}, ErrEmptyPattern
	}
	re, err := regexp.Compile(`(?i)` + rc.Pattern)
	if err != nil {
		return Rule{}, err
	}
	lc := LabelCase(strings.ToLower(rc.Case))
	switch lc {
	case CaseUpper, CaseLower:
	default:
		lc = CaseMatch
	}
	return Rule{
		Source:    rc.Pattern,
		Category:  ValidateCategory(rc.Category),
		Label:     rc.Label,
		FromMatch: rc.LabelFrom == LabelFromMatch,
		Case:      lc,
		pattern:   re,
	}, nil
}

// CompileRules compiles rules in order. A rule that fails to compile is left
// out and reported; the rest keep their relative order.
func CompileRules(configs []RuleConfig) ([]Rule, []error) {
	rules := make([]Rule, 0, len(configs))
	var errs []error
	for i, rc := range configs {
		r, err := CompileRule(rc)
		if err != nil {
			errs = append(errs, &RuleError{Index: i, Pattern: rc.Pattern, Err: err})
			continue
		}
		rules = append(rules, r)
	}
	return rules, errs
}

// DefaultRules returns the compiled built-in rule set.
func DefaultRules() []Rule {
	rules, errs := CompileRules(DefaultRuleConfigs())
	if len(errs) > 0 {
		panic(errs[0])
	}
	return rules
}

// Find returns the first match of the rule in name, or "" and false.
func (r Rule) Find(name string) (string, bool) {
	loc := r.pattern.FindStringIndex(name)
	if loc == nil {
		return "", false
	}
	return name[loc[0]:loc[1]], true
}

// LabelFor renders the label for matched text. A fixed label wins; otherwise
// the matched text is used, with the case transform applied when the rule
// takes its label from the match.
func (r Rule) LabelFor(matched string) string {
	if r.Label != "" {
		return r.Label
	}
	if !r.FromMatch {
		return matched
	}
	switch r.Case {
	case CaseUpper:
		return cases.Upper(language.Und).String(matched)
	case CaseLower:
		return cases.Lower(language.Und).String(matched)
	}
	return matched
}
