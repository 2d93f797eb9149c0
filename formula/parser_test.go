package formula

import (
	"errors"
	"testing"

	"github.com/midbel/dialect/formula/op"
)

func TestParseFormula(t *testing.T) {
	tests := []struct {
		Input string
		Want  Expr
	}{
		{
			Input: "=42",
			Want:  NewNumber("42"),
		},
		{
			Input: "=-3.14",
			Want:  NewNumber("-3.14"),
		},
		{
			Input: "=\"Yes\"",
			Want:  NewLiteral("Yes"),
		},
		{
			Input: "=$A$1",
			Want:  NewCellRef("$A$1"),
		},
		{
			Input: "=A1:A10",
			Want:  NewRangeRef(cellRef{ref: "A1"}, cellRef{ref: "A10"}),
		},
		{
			Input: "=Tabelle.$D$5",
			Want:  NewQualifiedRef("Tabelle", "$D$5", false, false),
		},
		{
			Input: "=$Tabelle.$D$5",
			Want:  NewQualifiedRef("Tabelle", "$D$5", false, true),
		},
		{
			Input: "='My Sheet'.A1",
			Want:  NewQualifiedRef("My Sheet", "A1", true, false),
		},
		{
			Input: "=$'My Sheet'.A1",
			Want:  NewQualifiedRef("My Sheet", "A1", true, true),
		},
		{
			Input: "=SUM(A1;A2;A3)",
			Want: NewCall("SUM", []Expr{
				NewCellRef("A1"),
				NewCellRef("A2"),
				NewCellRef("A3"),
			}),
		},
		{
			Input: "=SUM(A1,A2,A3)",
			Want: NewCall("SUM", []Expr{
				NewCellRef("A1"),
				NewCellRef("A2"),
				NewCellRef("A3"),
			}),
		},
		{
			Input: "=ROW()",
			Want:  NewCall("ROW", nil),
		},
		{
			Input: "=A1+B1*C1",
			Want: NewBinary(
				NewCellRef("A1"),
				NewBinary(NewCellRef("B1"), NewCellRef("C1"), op.Mul),
				op.Add,
			),
		},
		{
			Input: "=(A1+B1)*C1",
			Want: NewBinary(
				NewBinary(NewCellRef("A1"), NewCellRef("B1"), op.Add),
				NewCellRef("C1"),
				op.Mul,
			),
		},
		{
			Input: "=2^3^2",
			Want: NewBinary(
				NewNumber("2"),
				NewBinary(NewNumber("3"), NewNumber("2"), op.Pow),
				op.Pow,
			),
		},
		{
			Input: "=A1>5",
			Want:  NewBinary(NewCellRef("A1"), NewNumber("5"), op.Gt),
		},
		{
			Input: "=\"a\"&B1&\"c\"",
			Want: NewBinary(
				NewBinary(NewLiteral("a"), NewCellRef("B1"), op.Concat),
				NewLiteral("c"),
				op.Concat,
			),
		},
		{
			Input: "=IF(SUM(A1:A10)>100;MAX(B1:B10);MIN(B1:B10))",
			Want: NewCall("IF", []Expr{
				NewBinary(
					NewCall("SUM", []Expr{NewRangeRef(cellRef{ref: "A1"}, cellRef{ref: "A10"})}),
					NewNumber("100"),
					op.Gt,
				),
				NewCall("MAX", []Expr{NewRangeRef(cellRef{ref: "B1"}, cellRef{ref: "B10"})}),
				NewCall("MIN", []Expr{NewRangeRef(cellRef{ref: "B1"}, cellRef{ref: "B10"})}),
			}),
		},
	}
	for _, c := range tests {
		got, err := ParseFormula(c.Input)
		if err != nil {
			t.Errorf("%s: fail to parse: %s", c.Input, err)
			continue
		}
		if DumpExpr(got) != DumpExpr(c.Want) {
			t.Errorf("%s: got %s, want %s", c.Input, DumpExpr(got), DumpExpr(c.Want))
		}
	}
}

func TestParseFormulaErrors(t *testing.T) {
	tests := []string{
		"",
		"not a formula",
		"123",
		"=",
		"=SUM(A1;A2",
		"=SUM(A1;)",
		"=A1+",
		"=-A1",
		"=Tabelle.",
		"=Tabelle.foo",
		"=A1:5",
		"=5:A1",
		"=(A1",
		"=A1 B1",
		"=\"unterminated",
	}
	for _, c := range tests {
		_, err := ParseFormula(c)
		if err == nil {
			t.Errorf("%s: no error reported", c)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%s: error is %T, not a parse error", c, err)
		}
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := ParseFormula("=SUM(A1;@)")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("parse error expected, got %v", err)
	}
	if perr.Offset != 8 {
		t.Errorf("offset: got %d, want 8", perr.Offset)
	}
	if perr.Literal != "@" {
		t.Errorf("literal: got %q, want %q", perr.Literal, "@")
	}
}
