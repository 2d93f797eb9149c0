package formula

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/midbel/dialect/formula/op"
)

// Mapper rewrites function names and argument separators of a formula into
// another locale. It works on the token stream alone, never parses, and is
// total: whatever it does not understand it copies through unchanged.
type Mapper struct {
	cfg    *Config
	logger zerolog.Logger
}

func NewMapper(cfg *Config, logger zerolog.Logger) *Mapper {
	return &Mapper{
		cfg:    cfg,
		logger: logger.With().Str("component", "mapper").Logger(),
	}
}

// Map translates formula into the given locale. Only function tokens and
// comma separators are replaced; the raw bytes of every other token and of
// the whitespace between tokens are copied verbatim. Text not shaped like a
// formula, the empty string included, comes back untouched. Functions
// missing from the tables keep their name and leave a warning behind.
func (m *Mapper) Map(formula, locale string) string {
	if !strings.HasPrefix(formula, "=") {
		return formula
	}
	var (
		sep  = m.cfg.Separator(locale)
		buf  strings.Builder
		last int
	)
	for _, tok := range Tokenize(formula) {
		buf.WriteString(formula[last:tok.Offset])
		switch tok.Type {
		case op.Func:
			name := tok.Literal
			if str, ok := m.cfg.Translate(name, locale); ok {
				name = str
			} else if !m.cfg.Known(name) {
				m.logger.Warn().
					Str("function", name).
					Str("locale", locale).
					Msg("function unknown to translation tables")
			}
			buf.WriteString(name)
		case op.Comma:
			buf.WriteString(sep)
		default:
			buf.WriteString(formula[tok.Offset:tok.End])
		}
		last = tok.End
	}
	buf.WriteString(formula[last:])
	return buf.String()
}

// Functions lists the canonical function names used by formula, uppercased,
// each one once, in order of first appearance.
func (m *Mapper) Functions(formula string) []string {
	var (
		list []string
		seen = make(map[string]struct{})
	)
	for _, tok := range Tokenize(formula) {
		if tok.Type != op.Func {
			continue
		}
		name := strings.ToUpper(tok.Literal)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		list = append(list, name)
	}
	return list
}

// Supported reports whether formula uses only functions the translation
// tables know about. Strings not shaped like a formula are never supported.
func (m *Mapper) Supported(formula string) bool {
	if !strings.HasPrefix(formula, "=") {
		return false
	}
	for _, name := range m.Functions(formula) {
		if !m.cfg.Known(name) {
			return false
		}
	}
	return true
}
