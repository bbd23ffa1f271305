package calc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a single lexical element of an expression.
type Token struct {
	// Kind selects which of the other fields are meaningful.
	Kind TokenKind
	// Num is the value of a TokenNum.
	Num float64
	// Op is the operator of a TokenOp.
	Op Op
	// Pos is the 1-based rune column where the token starts in its source,
	// or 0 if the token did not come from scanned text.
	Pos int
}

// String returns the source form of the token.
func (t Token) String() string {
	switch t.Kind {
	case TokenNum:
		return strconv.FormatFloat(t.Num, 'f', -1, 64)
	case TokenOp:
		return t.Op.String()
	case TokenOpen:
		return "("
	case TokenClose:
		return ")"
	default:
		return "$" + t.Kind.String() + "$"
	}
}

// TokenKind is the type of a token.
type TokenKind int8

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=TokenKind -trimprefix=Token
//go:generate go mod tidy

const (
	// TokenNum is a number.
	TokenNum TokenKind = iota + 1
	// TokenOp is a binary operator.
	TokenOp
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
)

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// col is the column of the next rune to be read.
	col int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src: src,
		col: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info.
func (l *lexer) unreadRune() error {
	if err := l.src.UnreadRune(); err != nil {
		return fmt.Errorf("unreading column %d: %w", l.col-1, err)
	}
	l.col--
	return nil
}

// next scans the next token from the input. At the end of the input, the
// error is io.EOF.
func (l *lexer) next() (Token, error) {
	for {
		col := l.col
		r, err := l.readRune()
		if err != nil {
			return Token{}, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			if err := l.unreadRune(); err != nil {
				return Token{}, err
			}
			return l.scanNum()
		case r == '(':
			return Token{Kind: TokenOpen, Pos: col}, nil
		case r == ')':
			return Token{Kind: TokenClose, Pos: col}, nil
		default:
			if strings.ContainsRune(Operators, r) {
				return Token{Kind: TokenOp, Op: Op(r), Pos: col}, nil
			}
			return Token{}, &CharError{Col: col, Char: r}
		}
	}
}

// scanNum scans digits and decimal points into a number token.
func (l *lexer) scanNum() (Token, error) {
	defer l.buf.Reset()
	col := l.col
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Token{}, err
		}
		if r != '.' && (r < '0' || '9' < r) {
			if err := l.unreadRune(); err != nil {
				return Token{}, err
			}
			break
		}
		l.buf.WriteRune(r)
	}
	text := l.buf.String()
	// ParseFloat also rejects values that overflow float64.
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, &NumberError{Col: col, Text: text}
	}
	return Token{Kind: TokenNum, Num: v, Pos: col}, nil
}

// Scan reads tokens from src until EOF. Errors from src other than io.EOF,
// including a failed UnreadRune, are returned with no tokens.
func Scan(src io.RuneScanner) ([]Token, error) {
	l := lex(src)
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// Tokenize splits an expression into tokens.
func Tokenize(src string) ([]Token, error) {
	return Scan(strings.NewReader(src))
}

// CharError indicates a character that cannot appear in an expression. It
// implements InputError.
type CharError struct {
	// Col is the column of the character.
	Col int
	// Char is the character.
	Char rune
}

func (err *CharError) Error() string {
	return errpos(err.Col, "invalid character "+strconv.QuoteRune(err.Char))
}

func (err *CharError) Pos() int {
	return err.Col
}

// NumberError indicates a run of digits and decimal points that is not a
// valid number, e.g. "1.2.3". It implements InputError.
type NumberError struct {
	// Col is the column where the number starts.
	Col int
	// Text is the scanned number text.
	Text string
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}
