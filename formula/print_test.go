package formula

import (
	"testing"
)

func TestPrint(t *testing.T) {
	tests := []struct {
		Input string
		Want  string
	}{
		{
			Input: "=SUM(A1,A2,A3)",
			Want:  "=SUM(A1;A2;A3)",
		},
		{
			Input: "=SUM( A1 ; A2 )",
			Want:  "=SUM(A1;A2)",
		},
		{
			Input: "=A1+B1*C1",
			Want:  "=A1+B1*C1",
		},
		{
			Input: "=(A1+B1)*C1",
			Want:  "=(A1+B1)*C1",
		},
		{
			Input: "=(A1*B1)+C1",
			Want:  "=A1*B1+C1",
		},
		{
			Input: "=A1-(B1-C1)",
			Want:  "=A1-(B1-C1)",
		},
		{
			Input: "=(A1-B1)-C1",
			Want:  "=A1-B1-C1",
		},
		{
			Input: "=A1/(B1/C1)",
			Want:  "=A1/(B1/C1)",
		},
		{
			Input: "=A1&(B1+C1)",
			Want:  "=A1&(B1+C1)",
		},
		{
			Input: "=2^3^2",
			Want:  "=2^3^2",
		},
		{
			Input: "=(2^3)^2",
			Want:  "=(2^3)^2",
		},
		{
			Input: "=IF(A1>=5;\"Yes\";\"No\")",
			Want:  "=IF(A1>=5;\"Yes\";\"No\")",
		},
		{
			Input: "='My Sheet'.A1:$B$2",
			Want:  "='My Sheet'.A1:$B$2",
		},
		{
			Input: "=$Tabelle.$D$5+1",
			Want:  "=$Tabelle.$D$5+1",
		},
		{
			Input: "=MIN(INDIRECT(\"Spieler!\"&ADDRESS(ROW()-27;2;4;1)&\":\"&ADDRESS(ROW()-27;$Tabelle.$D$5+1;4;1);1))",
			Want:  "=MIN(INDIRECT(\"Spieler!\"&ADDRESS(ROW()-27;2;4;1)&\":\"&ADDRESS(ROW()-27;$Tabelle.$D$5+1;4;1);1))",
		},
	}
	for _, c := range tests {
		expr, err := ParseFormula(c.Input)
		if err != nil {
			t.Errorf("%s: fail to parse: %s", c.Input, err)
			continue
		}
		if got := Print(expr); got != c.Want {
			t.Errorf("%s: got %s, want %s", c.Input, got, c.Want)
		}
	}
}

// Printing a parse result and parsing it again has to give back the same
// tree, and printing that tree the same text.
func TestPrintRoundTrip(t *testing.T) {
	formulas := []string{
		"=SUM(A1:A10)",
		"=IF(SUM(A1:A10)>AVERAGE(B1:B10);MAX(C1:C10);MIN(D1:D10))",
		"=A1-(B1-C1)*2",
		"=(2^3)^2-1",
		"=\"a\"&B1&\"c\"",
		"=INDIRECT(\"Sheet1.\"&ADDRESS(5;3;4;1))",
		"='Jahr 2024'.B2+Tabelle.$C$3",
	}
	for _, f := range formulas {
		expr, err := ParseFormula(f)
		if err != nil {
			t.Errorf("%s: fail to parse: %s", f, err)
			continue
		}
		text := Print(expr)
		again, err := ParseFormula(text)
		if err != nil {
			t.Errorf("%s: fail to reparse %s: %s", f, text, err)
			continue
		}
		if DumpExpr(expr) != DumpExpr(again) {
			t.Errorf("%s: reparse of %s gives a different tree", f, text)
		}
		if next := Print(again); next != text {
			t.Errorf("%s: print not stable: %s then %s", f, text, next)
		}
	}
}
