package formula

import (
	"github.com/midbel/dialect/formula/op"
)

const (
	powLowest = iota
	powCmp
	powAdd
	powMul
	powPow
	powRange
)

var bindings = map[op.Op]int{
	op.Eq:       powCmp,
	op.Ne:       powCmp,
	op.Lt:       powCmp,
	op.Le:       powCmp,
	op.Gt:       powCmp,
	op.Ge:       powCmp,
	op.Add:      powAdd,
	op.Sub:      powAdd,
	op.Concat:   powAdd,
	op.Mul:      powMul,
	op.Div:      powMul,
	op.Pow:      powPow,
	op.RangeRef: powRange,
}

type (
	PrefixFunc func(*Parser) (Expr, error)
	InfixFunc  func(*Parser, Expr) (Expr, error)
)

type Grammar struct {
	prefix   map[op.Op]PrefixFunc
	infix    map[op.Op]InfixFunc
	bindings map[op.Op]int
}

// FormulaGrammar wires the expression grammar: comparisons bind loosest,
// then addition, subtraction and concatenation on one tier, then
// multiplication and division, then power, then range construction.
func FormulaGrammar() *Grammar {
	g := Grammar{
		prefix:   make(map[op.Op]PrefixFunc),
		infix:    make(map[op.Op]InfixFunc),
		bindings: bindings,
	}

	g.RegisterPrefix(op.Number, parseNumber)
	g.RegisterPrefix(op.Literal, parseLiteral)
	g.RegisterPrefix(op.Cell, parseCellRef)
	g.RegisterPrefix(op.Ident, parseQualifiedRef)
	g.RegisterPrefix(op.Quoted, parseQualifiedRef)
	g.RegisterPrefix(op.Func, parseCall)
	g.RegisterPrefix(op.Sub, parseSignedNumber)
	g.RegisterPrefix(op.Add, parseSignedNumber)
	g.RegisterPrefix(op.BegGrp, parseGroup)

	g.RegisterInfix(op.RangeRef, parseRange)
	g.RegisterInfix(op.Add, parseBinary)
	g.RegisterInfix(op.Sub, parseBinary)
	g.RegisterInfix(op.Mul, parseBinary)
	g.RegisterInfix(op.Div, parseBinary)
	g.RegisterInfix(op.Concat, parseBinary)
	g.RegisterInfix(op.Pow, parseBinary)
	g.RegisterInfix(op.Eq, parseBinary)
	g.RegisterInfix(op.Ne, parseBinary)
	g.RegisterInfix(op.Lt, parseBinary)
	g.RegisterInfix(op.Le, parseBinary)
	g.RegisterInfix(op.Gt, parseBinary)
	g.RegisterInfix(op.Ge, parseBinary)

	return &g
}

func (g *Grammar) Pow(kind op.Op) int {
	pow, ok := g.bindings[kind]
	if !ok {
		pow = powLowest
	}
	return pow
}

func (g *Grammar) Prefix(tok Token) (PrefixFunc, bool) {
	fn, ok := g.prefix[tok.Type]
	return fn, ok
}

func (g *Grammar) Infix(tok Token) (InfixFunc, bool) {
	fn, ok := g.infix[tok.Type]
	return fn, ok
}

func (g *Grammar) RegisterPrefix(kd op.Op, fn PrefixFunc) {
	g.prefix[kd] = fn
}

func (g *Grammar) RegisterInfix(kd op.Op, fn InfixFunc) {
	g.infix[kd] = fn
}
