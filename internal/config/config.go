// Package config loads the extras rule set and runtime settings. Loading
// never fails: anything unreadable or invalid falls back to the built-in
// value and is reported in Config.Warnings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/Nomadcxx/aniarr/internal/extras"
	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/paths"
)

// BuiltinSource is the Source of a config that came from no file.
const BuiltinSource = "(built-in)"

type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Path defaults to ~/.config/aniarr/history.db when empty.
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

type Config struct {
	Rules            []extras.RuleConfig `mapstructure:"rules" toml:"rules" json:"rules"`
	FallbackCategory string              `mapstructure:"fallback_category" toml:"fallback_category" json:"fallback_category"`
	// ExtrasScope overrides the --extras-scope flag when set.
	ExtrasScope string         `mapstructure:"extras_scope" toml:"extras_scope,omitempty" json:"extras_scope,omitempty"`
	Logging     logging.Config `mapstructure:"logging" toml:"logging" json:"logging"`
	History     HistoryConfig  `mapstructure:"history" toml:"history" json:"history"`

	// Source is the file the config was read from, or BuiltinSource.
	Source   string   `mapstructure:"-" toml:"-" json:"-"`
	Warnings []string `mapstructure:"-" toml:"-" json:"-"`

	compiled []extras.Rule
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Rules:            extras.DefaultRuleConfigs(),
		FallbackCategory: string(extras.DefaultCategory),
		Logging:          logging.DefaultConfig(),
		History:          HistoryConfig{Enabled: true},
		Source:           BuiltinSource,
		compiled:         extras.DefaultRules(),
	}
}

func (c *Config) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Classifier returns a classifier over the validated rules.
func (c *Config) Classifier() *extras.Classifier {
	rules := c.compiled
	if rules == nil {
		rules = extras.DefaultRules()
	}
	return extras.NewClassifier(rules, c.FallbackCategory)
}

// EffectiveScope returns the configured scope, or flag when none is set.
func (c *Config) EffectiveScope(flag extras.Scope) extras.Scope {
	if s, ok := extras.ParseScope(c.ExtrasScope); ok {
		return s
	}
	if flag == "" {
		return extras.ScopeSeries
	}
	return flag
}

// HistoryPath returns the configured database path or the default one.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return paths.DatabasePath()
}

// Lookup returns the file Load would read: explicit when given, otherwise
// the first of config.toml and aniarr.conf that exists. It returns "" when
// no file applies.
func Lookup(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []func() (string, error){paths.ConfigPath, paths.LegacyConfigPath}
	for _, candidate := range candidates {
		path, err := candidate()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads the config at explicit, or the default locations when explicit
// is empty.
func Load(explicit string) *Config {
	cfg := DefaultConfig()

	path := Lookup(explicit)
	if path == "" {
		return cfg
	}
	if _, err := os.Stat(path); err != nil {
		cfg.warnf("config file %s not found, using built-in defaults", path)
		return cfg
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	if err := v.ReadInConfig(); err != nil {
		cfg.warnf("failed to parse config %s: %v; using built-in defaults", path, err)
		return cfg
	}

	cfg.Source = path
	cfg.applyRules(v)
	cfg.applyFallback(v)
	cfg.applyScope(v)
	if err := v.UnmarshalKey("logging", &cfg.Logging); err != nil {
		cfg.Logging = logging.DefaultConfig()
		cfg.warnf("invalid [logging] section: %v", err)
	}
	if err := v.UnmarshalKey("history", &cfg.History); err != nil {
		cfg.History = HistoryConfig{Enabled: true}
		cfg.warnf("invalid [history] section: %v", err)
	}
	return cfg
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func (c *Config) applyRules(v *viper.Viper) {
	if !v.IsSet("rules") {
		return
	}
	var rules []extras.RuleConfig
	if err := v.UnmarshalKey("rules", &rules); err != nil {
		c.warnf("invalid rules: %v; using built-in rules", err)
		return
	}
	if len(rules) == 0 {
		c.warnf("empty rule list; using built-in rules")
		return
	}

	compiled, errs := extras.CompileRules(rules)
	bad := make(map[int]bool, len(errs))
	for _, err := range errs {
		c.warnf("skipping %v", err)
		var re *extras.RuleError
		if errors.As(err, &re) {
			bad[re.Index] = true
		}
	}
	if len(compiled) == 0 {
		c.warnf("no usable rules; using built-in rules")
		return
	}

	valid := make([]extras.RuleConfig, 0, len(compiled))
	for i, rc := range rules {
		if !bad[i] {
			valid = append(valid, rc)
		}
	}
	c.Rules = valid
	c.compiled = compiled
}

func (c *Config) applyFallback(v *viper.Viper) {
	fallback := strings.TrimSpace(v.GetString("fallback_category"))
	if fallback == "" {
		return
	}
	if !extras.IsKnownCategory(fallback) {
		c.warnf("unknown fallback_category %q; using %q", fallback, extras.DefaultCategory)
		return
	}
	c.FallbackCategory = fallback
}

func (c *Config) applyScope(v *viper.Viper) {
	raw := v.GetString("extras_scope")
	if raw == "" {
		return
	}
	scope, ok := extras.ParseScope(raw)
	if !ok {
		c.warnf("unknown extras_scope %q; ignoring", raw)
		return
	}
	c.ExtrasScope = string(scope)
}

// ToTOML renders the config as TOML.
func (c *Config) ToTOML() (string, error) {
	var buf bytes.Buffer
	buf.WriteString("# aniarr configuration\n# Rules are tried in order; the first match wins.\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Save writes the config as TOML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}
	content, err := c.ToTOML()
	if err != nil {
		return fmt.Errorf("unable to encode config: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0644)
}
