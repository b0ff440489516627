package expr

import (
	"iter"
	"strconv"
)

// Variable is the only identifier an equation may contain.
const Variable = 'x'

// TokenKind classifies a token.
type TokenKind int

const (
	// TokenNum is a numeric literal: digits with an optional fractional part.
	TokenNum TokenKind = iota + 1
	// TokenOp is one of the binary operators + - * / ^.
	TokenOp
	// TokenOpen is an opening parenthesis.
	TokenOpen
	// TokenClose is a closing parenthesis.
	TokenClose
)

func (k TokenKind) String() string {
	switch k {
	case TokenNum:
		return "Num"
	case TokenOp:
		return "Op"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a lexical unit of an equation.
type Token struct {
	Kind TokenKind
	Text string
	// Pos is the byte offset of the token in the scanned string.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// Tokens lazily scans s. Anything that does not start a token (letters, stray dots, unknown
// symbols, whitespace) is skipped without error.
func Tokens(s string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		i := 0
		for i < len(s) {
			c := s[i]
			switch {
			case isDigit(c):
				end := scanNum(s, i)
				if !yield(Token{Kind: TokenNum, Text: s[i:end], Pos: i}) {
					return
				}
				i = end
				continue
			case isOperator(c):
				if !yield(Token{Kind: TokenOp, Text: s[i : i+1], Pos: i}) {
					return
				}
			case c == '(':
				if !yield(Token{Kind: TokenOpen, Text: "(", Pos: i}) {
					return
				}
			case c == ')':
				if !yield(Token{Kind: TokenClose, Text: ")", Pos: i}) {
					return
				}
			}
			i++
		}
	}
}

// scanNum returns the end of the number starting at i. A dot is only part of the number when
// a digit follows it, so "1." scans as "1" and leaves the dot to be skipped.
func scanNum(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '^':
		return true
	}
	return false
}
