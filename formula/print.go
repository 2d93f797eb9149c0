package formula

import (
	"bytes"
	"io"

	"github.com/midbel/dialect/formula/op"
)

// Print serializes expr back to a formula string. The result always starts
// with an equal sign, joins function arguments with semicolons and keeps
// only the parentheses the grouping of the tree requires: reparsing the
// output yields the same tree.
func Print(expr Expr) string {
	var buf bytes.Buffer
	buf.WriteByte(equal)
	writeExpr(&buf, expr)
	return buf.String()
}

func writeExpr(w io.Writer, expr Expr) {
	switch e := expr.(type) {
	case number:
		io.WriteString(w, e.text)
	case literal:
		io.WriteString(w, "\"")
		io.WriteString(w, e.text)
		io.WriteString(w, "\"")
	case cellRef:
		writeCellRef(w, e)
	case rangeRef:
		writeCellRef(w, e.from)
		io.WriteString(w, ":")
		writeCellRef(w, e.to)
	case call:
		io.WriteString(w, e.name)
		io.WriteString(w, "(")
		for i := range e.args {
			if i > 0 {
				io.WriteString(w, ";")
			}
			writeExpr(w, e.args[i])
		}
		io.WriteString(w, ")")
	case binary:
		writeOperand(w, e.left, e.op, false)
		io.WriteString(w, op.Symbol(e.op))
		writeOperand(w, e.right, e.op, true)
	}
}

func writeOperand(w io.Writer, expr Expr, parent op.Op, right bool) {
	if child, ok := expr.(binary); ok && needsParens(child.op, parent, right) {
		io.WriteString(w, "(")
		writeExpr(w, expr)
		io.WriteString(w, ")")
		return
	}
	writeExpr(w, expr)
}

func writeCellRef(w io.Writer, ref cellRef) {
	if ref.sheet != "" {
		if ref.stray {
			io.WriteString(w, "$")
		}
		if ref.quoted {
			io.WriteString(w, "'")
			io.WriteString(w, ref.sheet)
			io.WriteString(w, "'")
		} else {
			io.WriteString(w, ref.sheet)
		}
		io.WriteString(w, ".")
	}
	io.WriteString(w, ref.ref)
}

// needsParens decides whether a binary child has to keep its parentheses
// under the given parent. A tier below the parent always does. On the same
// tier the grouping matters on the right of an operator that is not
// associative with the child, and on the left of the right associative
// power operator.
func needsParens(child, parent op.Op, right bool) bool {
	cp, ok := binding(child)
	if !ok {
		return false
	}
	pp, ok := binding(parent)
	if !ok {
		return false
	}
	if cp != pp {
		return cp < pp
	}
	if parent == op.Pow {
		return !right
	}
	if !right {
		return false
	}
	return parent != child || !isAssociative(parent)
}

func isAssociative(oper op.Op) bool {
	switch oper {
	case op.Add, op.Mul, op.Concat:
		return true
	default:
		return false
	}
}

func binding(oper op.Op) (int, bool) {
	pow, ok := bindings[oper]
	return pow, ok
}
