package calc

import (
	"io"
	"strconv"
	"strings"
)

// machine is an operand stack for running one postfix sequence.
type machine struct {
	stack []float64
}

func (m *machine) push(v float64) {
	m.stack = append(m.stack, v)
}

// pop removes the top from the stack and returns it.
func (m *machine) pop() float64 {
	r := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return r
}

// EvalPostfix evaluates a postfix token sequence. Each operator applies to
// the two values before it. The sequence must reduce to exactly one value;
// otherwise, the error is a *MalformedError.
func EvalPostfix(postfix []Token) (float64, error) {
	m := machine{stack: make([]float64, 0, len(postfix)/2+1)}
	for _, tok := range postfix {
		switch tok.Kind {
		case TokenNum:
			m.push(tok.Num)
		case TokenOp:
			if len(m.stack) < 2 {
				return 0, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "operator needs two operands, have " + strconv.Itoa(len(m.stack))}
			}
			b := m.pop()
			a := m.pop()
			r, err := tok.Op.apply(a, b, tok.Pos)
			if err != nil {
				return 0, err
			}
			m.push(r)
		default:
			return 0, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "bracket in postfix sequence"}
		}
	}
	switch len(m.stack) {
	case 1:
		return m.stack[0], nil
	case 0:
		return 0, &MalformedError{Col: endcol(postfix), Reason: "no value"}
	default:
		return 0, &MalformedError{Col: endcol(postfix), Reason: strconv.Itoa(len(m.stack)) + " values left without operators"}
	}
}

// Eval is a shortcut to compile an expression and return its result.
func Eval(src io.RuneScanner) (float64, error) {
	p, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return p.Eval()
}

// EvalString is a shortcut to compile and evaluate a string expression.
func EvalString(src string) (float64, error) {
	return Eval(strings.NewReader(src))
}
