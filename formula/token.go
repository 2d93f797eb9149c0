package formula

import (
	"fmt"

	"github.com/midbel/dialect/formula/op"
)

// Token is one lexical unit of a formula. Offset and End delimit the raw
// bytes of the token in the scanned input, quotes included, so that callers
// can reproduce the source verbatim.
type Token struct {
	Literal string
	Type    op.Op
	Offset  int
	End     int
}

func (t Token) String() string {
	var str string
	switch t.Type {
	case op.Invalid:
		return fmt.Sprintf("<invalid(%s)>", t.Literal)
	case op.EOF:
		return "<eof>"
	case op.Func:
		str = "function"
	case op.Ident:
		str = "identifier"
	case op.Cell:
		str = "cell"
	case op.Number:
		str = "number"
	case op.Literal:
		str = "literal"
	case op.Quoted:
		str = "quoted"
	case op.Add:
		return "<add>"
	case op.Sub:
		return "<subtract>"
	case op.Mul:
		return "<multiply>"
	case op.Div:
		return "<divide>"
	case op.Pow:
		return "<power>"
	case op.Concat:
		return "<concat>"
	case op.Eq:
		return "<equal>"
	case op.Ne:
		return "<notequal>"
	case op.Lt:
		return "<lesser>"
	case op.Le:
		return "<lesseq>"
	case op.Gt:
		return "<greater>"
	case op.Ge:
		return "<greateq>"
	case op.Comma:
		return "<comma>"
	case op.Semi:
		return "<semicolon>"
	case op.Dot:
		return "<dot>"
	case op.BegGrp:
		return "<beg-group>"
	case op.EndGrp:
		return "<end-group>"
	case op.RangeRef:
		return "<range>"
	}
	return fmt.Sprintf("%s(%s)", str, t.Literal)
}
