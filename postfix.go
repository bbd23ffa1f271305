package calc

import (
	"math"
	"strconv"
)

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^"

// Op is a binary operator.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
	OpPow Op = '^'
)

func (o Op) String() string {
	return string(rune(o))
}

// Prec returns the precedence of the operator. Higher binds tighter. The
// result is 0 for an invalid operator.
func (o Op) Prec() int {
	switch o {
	case OpAdd, OpSub:
		return 1
	case OpMul, OpDiv:
		return 2
	case OpPow:
		return 3
	default:
		return 0
	}
}

// RightAssoc returns whether a chain of the operator groups right to left.
func (o Op) RightAssoc() bool {
	return o == OpPow
}

// moreBinding returns whether o, appearing to the right of than, takes its
// left operand before than does.
func (o Op) moreBinding(than Op) bool {
	if p, q := o.Prec(), than.Prec(); p != q {
		return p > q
	}
	return o.RightAssoc()
}

// Apply computes a o b. Division by zero returns a *DivisionError.
func (o Op) Apply(a, b float64) (float64, error) {
	return o.apply(a, b, 0)
}

// apply is Apply with the operator's position for errors.
func (o Op) apply(a, b float64, col int) (float64, error) {
	switch o {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv:
		if b == 0 {
			return 0, &DivisionError{Col: col, X: a}
		}
		return a / b, nil
	case OpPow:
		return math.Pow(a, b), nil
	default:
		return 0, &MalformedError{Col: col, Token: o.String(), Reason: "unknown operator"}
	}
}

// ToPostfix rearranges an infix token sequence into postfix order. The
// result contains only numbers and operators. ToPostfix also checks that the
// tokens form an expression: numbers and parenthesized groups alternate with
// operators, every parenthesis is matched, and groups are not empty.
func ToPostfix(tokens []Token) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	var stack []Token
	// operand is whether the next token must begin an operand.
	operand := true
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenNum:
			if !operand {
				return nil, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "missing operator before number"}
			}
			out = append(out, tok)
			operand = false
		case TokenOp:
			if operand {
				return nil, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "missing left operand"}
			}
			if tok.Op.Prec() == 0 {
				return nil, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "unknown operator"}
			}
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind != TokenOp || tok.Op.moreBinding(top.Op) {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
			operand = true
		case TokenOpen:
			if !operand {
				return nil, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "missing operator before group"}
			}
			stack = append(stack, tok)
		case TokenClose:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == TokenOpen {
					matched = true
					break
				}
				out = append(out, top)
			}
			if !matched {
				return nil, &BracketError{Col: tok.Pos, Right: ")"}
			}
			if operand {
				return nil, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "missing operand before close bracket"}
			}
		default:
			return nil, &MalformedError{Col: tok.Pos, Token: tok.String(), Reason: "invalid token"}
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Kind == TokenOpen {
			return nil, &BracketError{Col: top.Pos, Left: "("}
		}
		out = append(out, top)
	}
	if operand {
		return nil, &MalformedError{Col: endcol(tokens), Reason: "missing operand at end"}
	}
	return out, nil
}

// endcol estimates the column just past the last token.
func endcol(tokens []Token) int {
	if len(tokens) == 0 {
		return 1
	}
	t := tokens[len(tokens)-1]
	if t.Kind == TokenNum {
		return t.Pos + len(t.String())
	}
	return t.Pos + 1
}

// fmtPostfix formats a token sequence as space-separated text.
func fmtPostfix(toks []Token) string {
	b := make([]byte, 0, 4*len(toks))
	for i, tok := range toks {
		if i > 0 {
			b = append(b, ' ')
		}
		switch tok.Kind {
		case TokenNum:
			b = strconv.AppendFloat(b, tok.Num, 'f', -1, 64)
		default:
			b = append(b, tok.String()...)
		}
	}
	return string(b)
}
