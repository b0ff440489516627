package expr

import "iter"

// precedence gives the binding strength of each binary operator.
var precedence = map[string]int{
	"+": 1,
	"-": 1,
	"*": 2,
	"/": 2,
	"^": 3,
}

// ToPostfix reorders infix tokens into postfix order using the shunting-yard algorithm.
//
// An incoming operator first pops every stacked operator whose precedence is greater than or
// equal to its own, which makes every operator left-associative, ^ included. A closing
// parenthesis pops up to the matching opening one and both are discarded. Unmatched
// parentheses are dropped rather than reported; the evaluator catches any resulting arity
// problem.
func ToPostfix(tokens iter.Seq[Token]) []Token {
	var out, ops []Token
	for tok := range tokens {
		switch tok.Kind {
		case TokenNum:
			out = append(out, tok)
		case TokenOp:
			p := precedence[tok.Text]
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Kind != TokenOp || precedence[top.Text] < p {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		case TokenOpen:
			ops = append(ops, tok)
		case TokenClose:
			for len(ops) > 0 && ops[len(ops)-1].Kind != TokenOpen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) > 0 {
				// Discard the matching (.
				ops = ops[:len(ops)-1]
			}
		}
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].Kind == TokenOp {
			out = append(out, ops[i])
		}
	}
	return out
}
