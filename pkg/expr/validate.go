package expr

import "unicode"

// Validate checks that equation consists only of digits, the operators + - * / ^, the
// variable x and whitespace. It does not check structure: balanced parentheses and operator
// arity are the evaluator's concern. Parentheses and decimal points are not part of the
// accepted alphabet, so equations using them are rejected here even though Evaluate
// understands them.
func Validate(equation string) error {
	if equation == "" {
		return &ValidationError{Equation: equation}
	}
	col := 0
	for _, r := range equation {
		col++
		if !allowed(r) {
			return &ValidationError{Equation: equation, Col: col, Char: r}
		}
	}
	return nil
}

func allowed(r rune) bool {
	switch {
	case '0' <= r && r <= '9':
		return true
	case r == Variable:
		return true
	case r == '+', r == '-', r == '*', r == '/', r == '^':
		return true
	}
	return unicode.IsSpace(r)
}
