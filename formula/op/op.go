package op

type Op rune

const (
	Invalid Op = 0

	EOF Op = 1 << iota
	Func
	Ident
	Cell
	Number
	Literal
	Quoted
	Add
	Sub
	Mul
	Div
	Pow
	Concat
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Comma
	Semi
	Dot
	BegGrp
	EndGrp
	RangeRef
)

var mapping = map[Op]string{
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Pow:    "^",
	Concat: "&",
	Eq:     "=",
	Ne:     "<>",
	Lt:     "<",
	Le:     "<=",
	Gt:     ">",
	Ge:     ">=",
}

func Symbol(oper Op) string {
	return mapping[oper]
}

func IsComparison(oper Op) bool {
	switch oper {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	default:
		return false
	}
}
