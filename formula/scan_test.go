package formula

import (
	"testing"

	"github.com/midbel/dialect/formula/op"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		Input string
		Want  []Token
	}{
		{
			Input: "=SUM(A1:A10)",
			Want: []Token{
				{Literal: "SUM", Type: op.Func},
				{Type: op.BegGrp},
				{Literal: "A1", Type: op.Cell},
				{Type: op.RangeRef},
				{Literal: "A10", Type: op.Cell},
				{Type: op.EndGrp},
			},
		},
		{
			Input: "=IF(A1>5,B1,C1)",
			Want: []Token{
				{Literal: "IF", Type: op.Func},
				{Type: op.BegGrp},
				{Literal: "A1", Type: op.Cell},
				{Type: op.Gt},
				{Literal: "5", Type: op.Number},
				{Type: op.Comma},
				{Literal: "B1", Type: op.Cell},
				{Type: op.Comma},
				{Literal: "C1", Type: op.Cell},
				{Type: op.EndGrp},
			},
		},
		{
			Input: "=$A$1+$B2+C$3",
			Want: []Token{
				{Literal: "$A$1", Type: op.Cell},
				{Type: op.Add},
				{Literal: "$B2", Type: op.Cell},
				{Type: op.Add},
				{Literal: "C$3", Type: op.Cell},
			},
		},
		{
			Input: "=IF(A1>=5;\"Yes\";'Nein')",
			Want: []Token{
				{Literal: "IF", Type: op.Func},
				{Type: op.BegGrp},
				{Literal: "A1", Type: op.Cell},
				{Type: op.Ge},
				{Literal: "5", Type: op.Number},
				{Type: op.Semi},
				{Literal: "Yes", Type: op.Literal},
				{Type: op.Semi},
				{Literal: "Nein", Type: op.Quoted},
				{Type: op.EndGrp},
			},
		},
		{
			Input: "=A1<>3.14^2",
			Want: []Token{
				{Literal: "A1", Type: op.Cell},
				{Type: op.Ne},
				{Literal: "3.14", Type: op.Number},
				{Type: op.Pow},
				{Literal: "2", Type: op.Number},
			},
		},
		{
			Input: "=$Tabelle.$D$5",
			Want: []Token{
				{Literal: "$Tabelle", Type: op.Ident},
				{Type: op.Dot},
				{Literal: "$D$5", Type: op.Cell},
			},
		},
		{
			Input: "=\"a\"&B2",
			Want: []Token{
				{Literal: "a", Type: op.Literal},
				{Type: op.Concat},
				{Literal: "B2", Type: op.Cell},
			},
		},
		{
			Input: "=ROW()-27",
			Want: []Token{
				{Literal: "ROW", Type: op.Func},
				{Type: op.BegGrp},
				{Type: op.EndGrp},
				{Type: op.Sub},
				{Literal: "27", Type: op.Number},
			},
		},
		{
			Input: "=1e5+2E+3",
			Want: []Token{
				{Literal: "1e5", Type: op.Number},
				{Type: op.Add},
				{Literal: "2E+3", Type: op.Number},
			},
		},
		{
			Input: "=3.14e-2",
			Want: []Token{
				{Literal: "3.14e-2", Type: op.Number},
			},
		},
		{
			// no digits after the marker: the e starts the next token
			Input: "=1e",
			Want: []Token{
				{Literal: "1", Type: op.Number},
				{Literal: "e", Type: op.Ident},
			},
		},
		{
			Input: "=A1 @ B1",
			Want: []Token{
				{Literal: "A1", Type: op.Cell},
				{Literal: "@", Type: op.Invalid},
				{Literal: "B1", Type: op.Cell},
			},
		},
	}
	for _, c := range tests {
		got := Tokenize(c.Input)
		if len(got) != len(c.Want) {
			t.Errorf("%s: got %d tokens, want %d", c.Input, len(got), len(c.Want))
			continue
		}
		for i := range got {
			if got[i].Type != c.Want[i].Type {
				t.Errorf("%s: token %d: got %s, want %s", c.Input, i, got[i], c.Want[i])
				continue
			}
			if got[i].Literal != c.Want[i].Literal {
				t.Errorf("%s: token %d: got literal %q, want %q", c.Input, i, got[i].Literal, c.Want[i].Literal)
			}
		}
	}
}

func TestTokenizeOffsets(t *testing.T) {
	input := "=SUM( A1, 'My Sheet'.B2 )"
	for _, tok := range Tokenize(input) {
		raw := input[tok.Offset:tok.End]
		switch tok.Type {
		case op.Quoted:
			if raw != "'"+tok.Literal+"'" {
				t.Errorf("quoted token: raw %q does not wrap literal %q", raw, tok.Literal)
			}
		case op.Func, op.Cell, op.Ident, op.Number:
			if raw != tok.Literal {
				t.Errorf("token %s: raw %q, literal %q", tok, raw, tok.Literal)
			}
		}
	}
}

func TestTokenizeCellShapes(t *testing.T) {
	cells := []string{"A1", "$A$1", "$B2", "C$3", "AB12", "Z99"}
	for _, c := range cells {
		got := Tokenize("=" + c)
		if len(got) != 1 || got[0].Type != op.Cell {
			t.Errorf("%s: not recognized as cell: %v", c, got)
		}
	}
	idents := []string{"Tabelle", "A0", "SUM", "$Tabelle", "A1B", "sheet1"}
	for _, c := range idents {
		got := Tokenize("=" + c)
		if len(got) != 1 || got[0].Type != op.Ident {
			t.Errorf("%s: not recognized as identifier: %v", c, got)
		}
	}
}
