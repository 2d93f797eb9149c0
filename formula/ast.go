package formula

import (
	"bytes"
	"fmt"
	"io"

	"github.com/midbel/dialect/formula/op"
)

// Expr is the closed set of node kinds a parsed formula is made of: number,
// literal, cellRef, rangeRef, call and binary. Nothing else ever enters a
// tree built by the parser or rebuilt by the transformer.
type Expr interface {
	fmt.Stringer
}

type number struct {
	text string
}

func NewNumber(text string) Expr {
	return number{
		text: text,
	}
}

func (n number) String() string {
	return n.text
}

type literal struct {
	text string
}

func NewLiteral(text string) Expr {
	return literal{
		text: text,
	}
}

func (i literal) String() string {
	return fmt.Sprintf("\"%s\"", i.text)
}

// cellRef is a single cell or column/row reference, possibly qualified by a
// sheet name. The reference text is kept as written, absolute markers
// included. stray records the one leading dollar sign the broken cross sheet
// form carries in front of the sheet qualifier.
type cellRef struct {
	sheet  string
	quoted bool
	stray  bool
	ref    string
}

func NewCellRef(ref string) Expr {
	return cellRef{
		ref: ref,
	}
}

func NewQualifiedRef(sheet, ref string, quoted, stray bool) Expr {
	return cellRef{
		sheet:  sheet,
		quoted: quoted,
		stray:  stray,
		ref:    ref,
	}
}

func (c cellRef) String() string {
	var buf bytes.Buffer
	writeCellRef(&buf, c)
	return buf.String()
}

type rangeRef struct {
	from cellRef
	to   cellRef
}

func NewRangeRef(from, to cellRef) Expr {
	return rangeRef{
		from: from,
		to:   to,
	}
}

func (r rangeRef) String() string {
	return fmt.Sprintf("%s:%s", r.from.String(), r.to.String())
}

type call struct {
	name string
	args []Expr
}

func NewCall(name string, args []Expr) Expr {
	return call{
		name: name,
		args: args,
	}
}

func (c call) String() string {
	var buf bytes.Buffer
	writeExpr(&buf, c)
	return buf.String()
}

type binary struct {
	left  Expr
	right Expr
	op    op.Op
}

func NewBinary(left, right Expr, oper op.Op) Expr {
	return binary{
		left:  left,
		right: right,
		op:    oper,
	}
}

func (b binary) String() string {
	var buf bytes.Buffer
	writeExpr(&buf, b)
	return buf.String()
}

// DumpExpr renders the node structure of expr, mostly useful when debugging
// a transformation.
func DumpExpr(expr Expr) string {
	var buf bytes.Buffer
	dumpExpr(&buf, expr)
	return buf.String()
}

func dumpExpr(w io.Writer, expr Expr) {
	switch e := expr.(type) {
	case number:
		io.WriteString(w, "number(")
		io.WriteString(w, e.text)
		io.WriteString(w, ")")
	case literal:
		io.WriteString(w, "literal(")
		io.WriteString(w, e.text)
		io.WriteString(w, ")")
	case cellRef:
		io.WriteString(w, "cell(")
		io.WriteString(w, e.String())
		io.WriteString(w, ")")
	case rangeRef:
		io.WriteString(w, "range(")
		dumpExpr(w, e.from)
		io.WriteString(w, ", ")
		dumpExpr(w, e.to)
		io.WriteString(w, ")")
	case call:
		io.WriteString(w, "call(")
		io.WriteString(w, e.name)
		io.WriteString(w, ", args: ")
		for i := range e.args {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			dumpExpr(w, e.args[i])
		}
		io.WriteString(w, ")")
	case binary:
		io.WriteString(w, "binary(")
		dumpExpr(w, e.left)
		io.WriteString(w, ", ")
		dumpExpr(w, e.right)
		io.WriteString(w, ", ")
		io.WriteString(w, op.Symbol(e.op))
		io.WriteString(w, ")")
	default:
		fmt.Fprintf(w, "unknown(%T)", e)
	}
}
