package expr

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Evaluate computes equation with the variable bound to x.
//
// The variable is substituted textually before tokenization. A malformed expression, such as
// one with an operator missing an operand, fails with an error wrapping ErrEmptyResult.
// Arithmetic never fails: division by zero and invalid powers yield ±Inf or NaN.
func Evaluate(equation string, x float64) (float64, error) {
	src := Substitute(equation, x)
	return EvalPostfix(src, ToPostfix(Tokens(src)))
}

// Substitute replaces every occurrence of the variable in equation with the decimal text of
// x. Exponent notation is never produced, so the result always tokenizes as one number;
// non-finite values become "NaN", "+Inf" or "-Inf".
func Substitute(equation string, x float64) string {
	return strings.ReplaceAll(equation, string(Variable), FormatValue(x))
}

// FormatValue renders x the way Substitute inserts it.
func FormatValue(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// EvalPostfix reduces a postfix token sequence. src is the text the tokens were scanned from;
// it only appears in errors.
func EvalPostfix(src string, postfix []Token) (float64, error) {
	stack := make([]float64, 0, len(postfix))
	for _, tok := range postfix {
		switch tok.Kind {
		case TokenNum:
			v, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return 0, &EvalError{Equation: src, Reason: "bad number " + strconv.Quote(tok.Text)}
			}
			stack = append(stack, v)
		case TokenOp:
			if len(stack) < 2 {
				return 0, &EvalError{Equation: src, Reason: "missing operand for " + strconv.Quote(tok.Text) + " at offset " + strconv.Itoa(tok.Pos)}
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, apply(tok.Text, a, b))
		default:
			// ToPostfix never emits parentheses.
			return 0, &EvalError{Equation: src, Reason: "unexpected token " + tok.String()}
		}
	}
	switch len(stack) {
	case 0:
		return 0, &EvalError{Equation: src, Reason: "no value"}
	case 1:
		return stack[0], nil
	default:
		return 0, &EvalError{Equation: src, Reason: strconv.Itoa(len(stack)) + " values left on the stack"}
	}
}

func apply(op string, a, b float64) float64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	case "^":
		return math.Pow(a, b)
	}
	return math.NaN()
}
