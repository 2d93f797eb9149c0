package formula

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/midbel/dialect/formula/op"
)

// Scanner turns a formula into a stream of tokens. Scanning is total: bytes
// matched by no rule come out as single character Invalid tokens and the
// stream always ends on EOF.
type Scanner struct {
	input []byte
	pos   int
	next  int
	char  rune

	buf bytes.Buffer
}

func Scan(r io.Reader) (*Scanner, error) {
	var (
		scan Scanner
		err  error
	)
	scan.input, err = io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	scan.read()
	if scan.char == equal && scan.pos == 0 {
		scan.read()
	}
	return &scan, nil
}

// Tokenize scans the whole of str, leading equal sign included when present.
func Tokenize(str string) []Token {
	scan, _ := Scan(strings.NewReader(str))
	var list []Token
	for {
		tok := scan.Scan()
		if tok.Type == op.EOF {
			break
		}
		list = append(list, tok)
	}
	return list
}

func (s *Scanner) Scan() Token {
	s.skipBlanks()

	var tok Token
	tok.Offset = s.pos
	if s.done() {
		tok.Type = op.EOF
		tok.End = s.pos
		return tok
	}
	defer s.reset()
	switch {
	case isOperator(s.char):
		s.scanOperator(&tok)
	case isDelimiter(s.char):
		s.scanDelimiter(&tok)
	case isQuote(s.char):
		s.scanLiteral(&tok)
	case isDigit(s.char):
		s.scanNumber(&tok)
	case isAlpha(s.char):
		s.scanIdent(&tok)
	default:
		s.scanUnknown(&tok)
	}
	tok.End = s.pos
	if s.done() {
		tok.End = len(s.input)
	}
	return tok
}

func (s *Scanner) scanIdent(tok *Token) {
	reco := recognizeCell()
	for !s.done() && isAlpha(s.char) {
		reco.Update(s.char)
		s.write()
		s.read()
	}
	tok.Literal = s.literal()
	switch {
	case reco.IsCell():
		tok.Type = op.Cell
	case s.nextMeaningful() == lparen:
		tok.Type = op.Func
	default:
		tok.Type = op.Ident
	}
}

func (s *Scanner) scanNumber(tok *Token) {
	tok.Type = op.Number
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
	if s.char == dot {
		s.write()
		s.read()
		for !s.done() && isDigit(s.char) {
			s.write()
			s.read()
		}
	}
	s.scanExponent()
	tok.Literal = s.literal()
}

// scanExponent consumes an exponent suffix, only when digits follow the
// marker: a lone e or E after a number belongs to the next token.
func (s *Scanner) scanExponent() {
	if s.char != 'e' && s.char != 'E' {
		return
	}
	ix := s.next
	if ix < len(s.input) && (s.input[ix] == plus || s.input[ix] == minus) {
		ix++
	}
	if ix >= len(s.input) || !isDigit(rune(s.input[ix])) {
		return
	}
	s.write()
	s.read()
	if s.char == plus || s.char == minus {
		s.write()
		s.read()
	}
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
}

func (s *Scanner) scanLiteral(tok *Token) {
	quote := s.char
	s.read()
	for !s.done() && s.char != quote {
		s.write()
		s.read()
	}
	if quote == dquote {
		tok.Type = op.Literal
	} else {
		tok.Type = op.Quoted
	}
	tok.Literal = s.literal()
	if s.char == quote {
		s.read()
	} else {
		tok.Type = op.Invalid
	}
}

func (s *Scanner) scanOperator(tok *Token) {
	tok.Type = op.Invalid
	switch s.char {
	case dot:
		tok.Type = op.Dot
	case amper:
		tok.Type = op.Concat
	case plus:
		tok.Type = op.Add
	case minus:
		tok.Type = op.Sub
	case star:
		tok.Type = op.Mul
	case slash:
		tok.Type = op.Div
	case caret:
		tok.Type = op.Pow
	case langle:
		tok.Type = op.Lt
		if c := s.peek(); c == equal {
			s.read()
			tok.Type = op.Le
		} else if c == rangle {
			s.read()
			tok.Type = op.Ne
		}
	case rangle:
		tok.Type = op.Gt
		if s.peek() == equal {
			s.read()
			tok.Type = op.Ge
		}
	case equal:
		tok.Type = op.Eq
	case colon:
		tok.Type = op.RangeRef
	}
	s.read()
}

func (s *Scanner) scanDelimiter(tok *Token) {
	switch s.char {
	case comma:
		tok.Type = op.Comma
	case semi:
		tok.Type = op.Semi
	case lparen:
		tok.Type = op.BegGrp
	case rparen:
		tok.Type = op.EndGrp
	}
	s.read()
}

func (s *Scanner) scanUnknown(tok *Token) {
	tok.Type = op.Invalid
	s.write()
	s.read()
	tok.Literal = s.literal()
}

func (s *Scanner) literal() string {
	return s.buf.String()
}

func (s *Scanner) write() {
	s.buf.WriteRune(s.char)
}

func (s *Scanner) reset() {
	s.buf.Reset()
}

func (s *Scanner) read() {
	if s.next >= len(s.input) {
		s.pos = len(s.input)
		s.char = 0
		return
	}
	r, n := utf8.DecodeRune(s.input[s.next:])
	if r == utf8.RuneError && n <= 1 {
		r = rune(s.input[s.next])
		n = 1
	}
	s.char, s.pos, s.next = r, s.next, s.next+n
}

func (s *Scanner) peek() rune {
	if s.next >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(s.input[s.next:])
	return r
}

// nextMeaningful reports the first non blank rune at or after the current
// position. Used to tell a function name from a bare identifier.
func (s *Scanner) nextMeaningful() rune {
	if !isBlank(s.char) {
		return s.char
	}
	for i := s.next; i < len(s.input); i++ {
		c := rune(s.input[i])
		if !isBlank(c) {
			return c
		}
	}
	return 0
}

func (s *Scanner) done() bool {
	return s.char == 0 && s.pos >= len(s.input)
}

func (s *Scanner) skipBlanks() {
	for isBlank(s.char) {
		s.read()
	}
}

type recoState int

const (
	cellAbsCol recoState = iota
	cellCol
	cellAbsRow
	cellRow
	cellDead
)

// cellRecognizer runs a small state machine over an identifier to decide
// whether it has the shape of a cell reference ($?[A-Z]+$?[1-9][0-9]*).
type cellRecognizer struct {
	state recoState
}

func recognizeCell() *cellRecognizer {
	return &cellRecognizer{
		state: cellAbsCol,
	}
}

func (c *cellRecognizer) Update(ch rune) {
	switch c.state {
	case cellAbsCol:
		if ch == dollar {
			c.state = cellCol
			break
		}
		if isUpper(ch) {
			c.state = cellCol
			break
		}
		c.state = cellDead
	case cellCol:
		if isUpper(ch) {
			break
		}
		if ch == dollar {
			c.state = cellAbsRow
			break
		}
		if isDigit(ch) && ch != '0' {
			c.state = cellRow
			break
		}
		c.state = cellDead
	case cellAbsRow:
		if isDigit(ch) && ch != '0' {
			c.state = cellRow
			break
		}
		c.state = cellDead
	case cellRow:
		if isDigit(ch) {
			break
		}
		c.state = cellDead
	}
}

func (c *cellRecognizer) IsCell() bool {
	return c.state == cellRow
}

const (
	underscore = '_'
	semi       = ';'
	comma      = ','
	rparen     = ')'
	lparen     = '('
	squote     = '\''
	dquote     = '"'
	space      = ' '
	tab        = '\t'
	plus       = '+'
	minus      = '-'
	star       = '*'
	slash      = '/'
	caret      = '^'
	equal      = '='
	langle     = '<'
	rangle     = '>'
	colon      = ':'
	dot        = '.'
	amper      = '&'
	dollar     = '$'
)

func isQuote(c rune) bool {
	return c == squote || c == dquote
}

func isLower(c rune) bool {
	return c >= 'a' && c <= 'z'
}

func isUpper(c rune) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c rune) bool {
	return isLower(c) || isUpper(c) || c == underscore
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return isLetter(c) || isDigit(c) || c == dollar
}

func isBlank(c rune) bool {
	return c == space || c == tab
}

func isDelimiter(c rune) bool {
	return c == semi || c == comma || c == lparen || c == rparen
}

func isOperator(c rune) bool {
	return c == plus || c == minus || c == slash || c == star ||
		c == langle || c == rangle || c == colon || c == equal ||
		c == caret || c == amper || c == dot
}
