package formula

import (
	"fmt"
	"io"
	"strings"

	"github.com/midbel/dialect/formula/op"
)

// ParseError reports the first point where a formula stops making sense.
// Offset is a byte position in the original input, Literal the token found
// there.
type ParseError struct {
	Literal string
	Offset  int
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Literal == "" {
		return fmt.Sprintf("at %d: %s", e.Offset, e.Msg)
	}
	return fmt.Sprintf("at %d: %s (got %q)", e.Offset, e.Msg, e.Literal)
}

type Parser struct {
	scan    *Scanner
	grammar *Grammar

	curr Token
	peek Token
}

// ParseFormula parses str into an expression tree. The formula has to start
// with an equal sign and hold exactly one expression.
func ParseFormula(str string) (Expr, error) {
	if !strings.HasPrefix(str, "=") {
		return nil, &ParseError{
			Literal: str,
			Msg:     "formula does not start with equal sign",
		}
	}
	p, err := NewParser(strings.NewReader(str))
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func NewParser(r io.Reader) (*Parser, error) {
	scan, err := Scan(r)
	if err != nil {
		return nil, err
	}
	p := Parser{
		scan:    scan,
		grammar: FormulaGrammar(),
	}
	p.next()
	p.next()
	return &p, nil
}

func (p *Parser) Parse() (Expr, error) {
	if p.done() {
		return nil, p.parseError("empty formula given")
	}
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.parseError("invalid formula given")
	}
	return expr, nil
}

func (p *Parser) parse(pow int) (Expr, error) {
	fn, ok := p.grammar.Prefix(p.curr)
	if !ok {
		return nil, p.parseError("unexpected token")
	}
	left, err := fn(p)
	if err != nil {
		return nil, err
	}
	for !p.done() && pow < p.grammar.Pow(p.curr.Type) {
		fn, ok := p.grammar.Infix(p.curr)
		if !ok {
			return nil, p.parseError("unexpected operator")
		}
		left, err = fn(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func parseNumber(p *Parser) (Expr, error) {
	expr := NewNumber(p.curr.Literal)
	p.next()
	return expr, nil
}

// parseSignedNumber folds a leading sign into the numeric literal that has
// to follow it. A sign in front of anything else is an error.
func parseSignedNumber(p *Parser) (Expr, error) {
	sign := p.curr.Type
	p.next()
	if p.curr.Type != op.Number {
		return nil, p.parseError("number expected after sign")
	}
	text := p.curr.Literal
	if sign == op.Sub {
		text = "-" + text
	}
	expr := NewNumber(text)
	p.next()
	return expr, nil
}

func parseLiteral(p *Parser) (Expr, error) {
	expr := NewLiteral(p.curr.Literal)
	p.next()
	return expr, nil
}

func parseCellRef(p *Parser) (Expr, error) {
	expr := NewCellRef(p.curr.Literal)
	p.next()
	return expr, nil
}

// parseQualifiedRef parses a sheet qualified cell address: an identifier or
// a single quoted name, a dot, then the address. A dollar sign glued in
// front of the sheet name is kept on the node so it can be repaired later.
func parseQualifiedRef(p *Parser) (Expr, error) {
	var (
		sheet  string
		quoted bool
		stray  bool
	)
	switch p.curr.Type {
	case op.Quoted:
		sheet = p.curr.Literal
		quoted = true
	case op.Ident:
		sheet = p.curr.Literal
		if strings.HasPrefix(sheet, "$") {
			stray = true
			sheet = strings.TrimPrefix(sheet, "$")
		}
		if sheet == "" && p.peek.Type == op.Quoted {
			p.next()
			sheet = p.curr.Literal
			quoted = true
		}
	}
	if sheet == "" {
		return nil, p.parseError("sheet name expected")
	}
	p.next()
	if p.curr.Type != op.Dot {
		return nil, p.parseError("dot expected after sheet name")
	}
	p.next()
	if p.curr.Type != op.Cell {
		return nil, p.parseError("cell address expected after sheet name")
	}
	expr := NewQualifiedRef(sheet, p.curr.Literal, quoted, stray)
	p.next()
	return expr, nil
}

func parseCall(p *Parser) (Expr, error) {
	name := p.curr.Literal
	p.next()
	if p.curr.Type != op.BegGrp {
		return nil, p.parseError("opening parenthesis expected")
	}
	p.next()
	var args []Expr
	for !p.done() && p.curr.Type != op.EndGrp {
		arg, err := p.parse(powLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.curr.Type {
		case op.Semi, op.Comma:
			p.next()
			if p.curr.Type == op.EndGrp {
				return nil, p.parseError("argument expected after separator")
			}
		case op.EndGrp:
		default:
			return nil, p.parseError("argument separator expected")
		}
	}
	if p.curr.Type != op.EndGrp {
		return nil, p.parseError("closing parenthesis expected")
	}
	p.next()
	return NewCall(name, args), nil
}

func parseGroup(p *Parser) (Expr, error) {
	p.next()
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if p.curr.Type != op.EndGrp {
		return nil, p.parseError("closing parenthesis expected")
	}
	p.next()
	return expr, nil
}

func parseBinary(p *Parser, left Expr) (Expr, error) {
	oper := p.curr.Type
	pow := p.grammar.Pow(oper)
	if oper == op.Pow {
		pow--
	}
	p.next()
	right, err := p.parse(pow)
	if err != nil {
		return nil, err
	}
	return NewBinary(left, right, oper), nil
}

func parseRange(p *Parser, left Expr) (Expr, error) {
	from, ok := left.(cellRef)
	if !ok {
		return nil, p.parseError("cell address expected before colon")
	}
	p.next()
	var (
		to  Expr
		err error
	)
	switch p.curr.Type {
	case op.Cell:
		to, err = parseCellRef(p)
	case op.Ident, op.Quoted:
		to, err = parseQualifiedRef(p)
	default:
		return nil, p.parseError("cell address expected after colon")
	}
	if err != nil {
		return nil, err
	}
	return NewRangeRef(from, to.(cellRef)), nil
}

func (p *Parser) next() {
	p.curr = p.peek
	p.peek = p.scan.Scan()
}

func (p *Parser) done() bool {
	return p.curr.Type == op.EOF
}

func (p *Parser) parseError(msg string) error {
	return &ParseError{
		Literal: p.curr.Literal,
		Offset:  p.curr.Offset,
		Msg:     msg,
	}
}
