package calc

import "strconv"

// BracketError is an error indicating an unmatched parenthesis. It implements
// InputError.
type BracketError struct {
	// Col is the position of the unmatched bracket.
	Col int
	// Left is the open bracket that was never closed, or empty.
	Left string
	// Right is the close bracket with no open bracket, or empty.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// MalformedError is an error indicating tokens that do not form an
// expression, such as two adjacent numbers or an operator without operands.
// It implements InputError.
type MalformedError struct {
	// Col is the position of the offending token. At the end of the input,
	// it is the position just past the last token.
	Col int
	// Token is the offending token, or empty at the end of the input.
	Token string
	// Reason describes what was wrong.
	Reason string
}

func (err *MalformedError) Error() string {
	if err.Token == "" {
		return errpos(err.Col, "malformed expression: "+err.Reason)
	}
	return errpos(err.Col, "malformed expression at "+strconv.Quote(err.Token)+": "+err.Reason)
}

func (err *MalformedError) Pos() int {
	return err.Col
}

// DivisionError is an error indicating a division by zero. It implements
// InputError.
type DivisionError struct {
	// Col is the position of the division operator.
	Col int
	// X is the dividend.
	X float64
}

func (err *DivisionError) Error() string {
	return errpos(err.Col, "division of "+strconv.FormatFloat(err.X, 'g', -1, 64)+" by zero")
}

func (err *DivisionError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the 1-based column of the
	// token that caused it.
	Pos() int
}

var (
	_ InputError = (*CharError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*MalformedError)(nil)
	_ InputError = (*DivisionError)(nil)
)
