package formula

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config carries the translation tables: canonical function names with their
// localized spellings, and the argument separator of each locale. A Config is
// loaded once, never mutated afterwards, and safe to share between
// goroutines.
type Config struct {
	Functions map[string]map[string]string `yaml:"functions"`
	Locales   map[string]LocaleConfig      `yaml:"locales"`

	keys    []string
	matcher language.Matcher
}

type LocaleConfig struct {
	Separator string `yaml:"separator"`
}

func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, cfg.finalize()
}

func LoadConfigFile(file string) (*Config, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return LoadConfig(r)
}

// DefaultConfig returns the built in translation tables: the common
// worksheet functions with their de-DE spellings, comma as separator for
// en-US and semicolon for de-DE.
func DefaultConfig() *Config {
	cfg := Config{
		Functions: map[string]map[string]string{
			"SUM":         {"de-DE": "SUMME"},
			"AVERAGE":     {"de-DE": "MITTELWERT"},
			"COUNT":       {"de-DE": "ANZAHL"},
			"COUNTA":      {"de-DE": "ANZAHL2"},
			"MAX":         {"de-DE": "MAX"},
			"MIN":         {"de-DE": "MIN"},
			"IF":          {"de-DE": "WENN"},
			"IFERROR":     {"de-DE": "WENNFEHLER"},
			"SUMIF":       {"de-DE": "SUMMEWENN"},
			"COUNTIF":     {"de-DE": "ZÄHLENWENN"},
			"VLOOKUP":     {"de-DE": "SVERWEIS"},
			"HLOOKUP":     {"de-DE": "WVERWEIS"},
			"INDEX":       {"de-DE": "INDEX"},
			"MATCH":       {"de-DE": "VERGLEICH"},
			"LEFT":        {"de-DE": "LINKS"},
			"RIGHT":       {"de-DE": "RECHTS"},
			"MID":         {"de-DE": "TEIL"},
			"LEN":         {"de-DE": "LÄNGE"},
			"TRIM":        {"de-DE": "GLÄTTEN"},
			"ROUND":       {"de-DE": "RUNDEN"},
			"ABS":         {"de-DE": "ABS"},
			"CONCATENATE": {"de-DE": "VERKETTEN"},
			"TODAY":       {"de-DE": "HEUTE"},
			"NOW":         {"de-DE": "JETZT"},
			"AND":         {"de-DE": "UND"},
			"OR":          {"de-DE": "ODER"},
			"NOT":         {"de-DE": "NICHT"},
		},
		Locales: map[string]LocaleConfig{
			"en-US": {Separator: ","},
			"de-DE": {Separator: ";"},
		},
	}
	return mustFinalize(&cfg)
}

// mustFinalize serves the built in tables, which are static and always
// valid; configs coming from outside go through LoadConfig instead.
func mustFinalize(cfg *Config) *Config {
	if err := cfg.finalize(); err != nil {
		panic(err)
	}
	return cfg
}

// Translate gives the locale spelling of a canonical function name. The
// second value reports whether the tables know the function for that locale.
func (c *Config) Translate(name, locale string) (string, bool) {
	spellings, ok := c.Functions[strings.ToUpper(name)]
	if !ok {
		return name, false
	}
	if str, ok := spellings[locale]; ok {
		return str, true
	}
	if key := c.resolve(locale); key != "" {
		if str, ok := spellings[key]; ok {
			return str, true
		}
	}
	return name, false
}

// Separator gives the argument separator of a locale and falls back to the
// comma when the locale is unknown.
func (c *Config) Separator(locale string) string {
	if lc, ok := c.Locales[locale]; ok {
		return lc.Separator
	}
	if key := c.resolve(locale); key != "" {
		return c.Locales[key].Separator
	}
	return ","
}

// Known reports whether the tables carry the given canonical function name.
func (c *Config) Known(name string) bool {
	_, ok := c.Functions[strings.ToUpper(name)]
	return ok
}

// resolve matches a free form locale code such as "de" or "de-AT" against
// the configured locales.
func (c *Config) resolve(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	_, ix, conf := c.matcher.Match(tag)
	if conf == language.No {
		return ""
	}
	return c.keys[ix]
}

func (c *Config) finalize() error {
	funcs := make(map[string]map[string]string, len(c.Functions))
	for name, spellings := range c.Functions {
		funcs[strings.ToUpper(name)] = spellings
	}
	c.Functions = funcs

	var tags []language.Tag
	for key, lc := range c.Locales {
		if lc.Separator != "," && lc.Separator != ";" {
			return fmt.Errorf("config: %s: unusable separator %q", key, lc.Separator)
		}
		tag, err := language.Parse(key)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		c.keys = append(c.keys, key)
		tags = append(tags, tag)
	}
	c.matcher = language.NewMatcher(tags)
	return nil
}
