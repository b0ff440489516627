package expr

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidCharacter is returned when an equation contains a character outside the
	// accepted alphabet.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrEmptyResult is returned when a postfix sequence does not reduce to exactly one value,
	// typically because an operator is missing an operand.
	ErrEmptyResult = errors.New("empty result")
)

// ValidationError reports an equation rejected by Validate. It unwraps to
// ErrInvalidCharacter.
type ValidationError struct {
	// Equation is the rejected text.
	Equation string
	// Col is the 1-based rune position of the first offending character. It is 0 when the
	// equation is empty.
	Col int
	// Char is the offending character, or 0 for an empty equation.
	Char rune
}

func (err *ValidationError) Error() string {
	if err.Col == 0 {
		return "empty equation: " + ErrInvalidCharacter.Error()
	}
	return "column " + strconv.Itoa(err.Col) + ": " + ErrInvalidCharacter.Error() + " " + strconv.QuoteRune(err.Char) + " in " + strconv.Quote(err.Equation)
}

func (err *ValidationError) Unwrap() error {
	return ErrInvalidCharacter
}

// Pos returns the position of the offending character.
func (err *ValidationError) Pos() int {
	return err.Col
}

// EvalError reports an equation that could not be reduced to a single value. It unwraps to
// ErrEmptyResult.
type EvalError struct {
	// Equation is the text after substitution of the variable.
	Equation string
	// Reason is a short description of what went wrong.
	Reason string
}

func (err *EvalError) Error() string {
	return ErrEmptyResult.Error() + ": " + err.Reason + " in " + strconv.Quote(err.Equation)
}

func (err *EvalError) Unwrap() error {
	return ErrEmptyResult
}
