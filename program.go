package calc

import (
	"io"
	"strings"
)

// Program is a compiled expression in postfix order. A Program is immutable,
// so it is safe to evaluate concurrently.
type Program struct {
	code []Token
}

// Compile reads an infix expression and compiles it to a Program.
func Compile(src io.RuneScanner) (*Program, error) {
	toks, err := Scan(src)
	if err != nil {
		return nil, err
	}
	code, err := ToPostfix(toks)
	if err != nil {
		return nil, err
	}
	return &Program{code: code}, nil
}

// CompileString is a shortcut to compile a string expression.
func CompileString(src string) (*Program, error) {
	return Compile(strings.NewReader(src))
}

// ParseProgram reads a program from postfix text, where each operator follows
// its two operands, e.g. "3 4 2 * +". Numbers must be separated by spaces.
// The program must reduce to exactly one value.
func ParseProgram(rpn string) (*Program, error) {
	toks, err := Tokenize(rpn)
	if err != nil {
		return nil, err
	}
	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case TokenNum:
			depth++
		case TokenOp:
			if depth < 2 {
				return nil, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "operator needs two operands"}
			}
			depth--
		default:
			return nil, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "bracket in postfix program"}
		}
	}
	if depth != 1 {
		return nil, &MalformedError{Col: endcol(toks), Reason: "program does not reduce to one value"}
	}
	return &Program{code: toks}, nil
}

// Eval evaluates the program.
func (p *Program) Eval() (float64, error) {
	return EvalPostfix(p.code)
}

// Postfix returns a copy of the program's tokens.
func (p *Program) Postfix() []Token {
	return append([]Token(nil), p.code...)
}

// String formats the program as postfix text that ParseProgram accepts.
func (p *Program) String() string {
	return fmtPostfix(p.code)
}

// MarshalText implements encoding.TextMarshaler.
func (p *Program) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseProgram.
func (p *Program) UnmarshalText(text []byte) error {
	q, err := ParseProgram(string(text))
	if err != nil {
		return err
	}
	*p = *q
	return nil
}
