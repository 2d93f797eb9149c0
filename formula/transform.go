package formula

import (
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/midbel/dialect/formula/op"
)

// Strategy selects how an INDIRECT(ADDRESS(...)) pattern gets rewritten.
type Strategy int

const (
	// StrategyConcat moves the sheet argument of ADDRESS in front of the
	// call as a string concatenation: INDIRECT("Sheet."&ADDRESS(r;c;a;f)).
	StrategyConcat Strategy = iota
	// StrategyOffset replaces the pattern with an OFFSET call anchored on
	// the sheet's A1 cell: OFFSET(Sheet.A1;r-1;c-1).
	StrategyOffset
)

// SheetNameMap overrides how a sheet name appears in rewritten references.
// The value is used verbatim, quotes included when the caller wants them.
type SheetNameMap map[string]string

// Transformer rewrites the dynamic addressing pattern of a formula tree and
// repairs the stray dollar sign broken cross sheet references carry. A
// Transformer holds no per formula state and can be shared by concurrent
// workers.
type Transformer struct {
	sheets  SheetNameMap
	logger  zerolog.Logger
	skipped atomic.Int64
}

func NewTransformer(sheets SheetNameMap, logger zerolog.Logger) *Transformer {
	return &Transformer{
		sheets: sheets,
		logger: logger.With().Str("component", "transformer").Logger(),
	}
}

// RewriteFormula parses formula, rewrites every INDIRECT(ADDRESS(...))
// pattern it holds with the given strategy and prints the result.
func (t *Transformer) RewriteFormula(formula string, strategy Strategy) (string, error) {
	expr, err := ParseFormula(formula)
	if err != nil {
		return "", err
	}
	return Print(t.Rewrite(expr, strategy)), nil
}

// FixFormula parses formula, drops the stray dollar sign in front of every
// sheet qualifier and prints the result.
func (t *Transformer) FixFormula(formula string) (string, error) {
	expr, err := ParseFormula(formula)
	if err != nil {
		return "", err
	}
	return Print(t.FixSheetDollar(expr)), nil
}

// Rewrite walks expr bottom up and rewrites every matching pattern. Shapes
// that look like the pattern but do not fit it, such as an ADDRESS call
// without its sheet argument, are left alone and counted as skipped. The
// rewrite is idempotent: running it on its own output changes nothing.
func (t *Transformer) Rewrite(expr Expr, strategy Strategy) Expr {
	switch e := expr.(type) {
	case call:
		args := make([]Expr, len(e.args))
		for i := range e.args {
			args[i] = t.Rewrite(e.args[i], strategy)
		}
		e.args = args
		return t.rewriteCall(e, strategy)
	case binary:
		e.left = t.Rewrite(e.left, strategy)
		e.right = t.Rewrite(e.right, strategy)
		return e
	default:
		return expr
	}
}

func (t *Transformer) rewriteCall(e call, strategy Strategy) Expr {
	if !strings.EqualFold(e.name, "INDIRECT") || len(e.args) != 1 {
		return e
	}
	addr, ok := e.args[0].(call)
	if !ok || !strings.EqualFold(addr.name, "ADDRESS") {
		return e
	}
	if len(addr.args) != 5 {
		t.skip(e, "address call does not carry five arguments")
		return e
	}
	sheet, ok := addr.args[4].(literal)
	if !ok {
		t.skip(e, "sheet argument is not a string")
		return e
	}
	var (
		ref  = t.sheetRef(sheet.text)
		head = call{
			name: addr.name,
			args: addr.args[:4],
		}
	)
	t.logger.Debug().
		Str("sheet", sheet.text).
		Msg("rewriting dynamic cross sheet address")
	if strategy == StrategyOffset {
		base := cellRef{
			sheet: ref,
			ref:   "A1",
		}
		row := NewBinary(addr.args[0], NewNumber("1"), op.Sub)
		col := NewBinary(addr.args[1], NewNumber("1"), op.Sub)
		return call{
			name: "OFFSET",
			args: []Expr{base, row, col},
		}
	}
	lead := NewLiteral(ref + ".")
	e.args = []Expr{
		NewBinary(lead, head, op.Concat),
	}
	return e
}

// FixSheetDollar clears the stray dollar sign flag on every sheet qualified
// reference in expr. Absolute markers inside the cell address stay as they
// are.
func (t *Transformer) FixSheetDollar(expr Expr) Expr {
	switch e := expr.(type) {
	case cellRef:
		e.stray = false
		return e
	case rangeRef:
		e.from.stray = false
		e.to.stray = false
		return e
	case call:
		for i := range e.args {
			e.args[i] = t.FixSheetDollar(e.args[i])
		}
		return e
	case binary:
		e.left = t.FixSheetDollar(e.left)
		e.right = t.FixSheetDollar(e.right)
		return e
	default:
		return expr
	}
}

// Skipped reports how many pattern candidates were left unchanged because
// their shape did not fit.
func (t *Transformer) Skipped() int64 {
	return t.skipped.Load()
}

// sheetRef gives the reference text of a sheet name: the mapped text when
// the caller provided one, the name quoted when it would not survive bare.
func (t *Transformer) sheetRef(name string) string {
	if ref, ok := t.sheets[name]; ok {
		return ref
	}
	return QuoteSheet(name)
}

// sheetSpecials are the characters a bare sheet reference cannot carry.
const sheetSpecials = " -!@#$%^&*()+=[]{};:,.<>?/\\|`~"

// QuoteSheet wraps name in single quotes when a reference needs them: names
// starting with a digit or holding a character from sheetSpecials.
func QuoteSheet(name string) string {
	if name == "" {
		return name
	}
	if isDigit(rune(name[0])) || strings.ContainsAny(name, sheetSpecials) {
		return "'" + name + "'"
	}
	return name
}

func (t *Transformer) skip(e call, msg string) {
	t.skipped.Add(1)
	t.logger.Warn().
		Str("formula", e.String()).
		Msg(msg)
}
