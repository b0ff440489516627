/*
Package expr implements the single-variable expression engine used by funchain nodes.

An equation is plain infix arithmetic over the variable x: numbers, the binary operators
+ - * / ^ and parentheses. Evaluation is textual: x is replaced by the decimal form of its
value, the result is tokenized lazily, converted to postfix with the shunting-yard algorithm
and reduced on a single stack.

# Semantics worth knowing

  - All operators are left-associative, including ^ (2^3^2 is 64).
  - There is no unary minus. A negative x substitutes as "-3", where "-" is a binary operator
    with no left operand, so "x*2" fails for negative inputs.
  - Characters that do not start a token are skipped during tokenization.
  - Division by zero and invalid powers produce ±Inf or NaN, not errors.

Validate is the coarse character-set check applied before an equation is stored. It is
intentionally separate from Evaluate: "x+" passes Validate and fails Evaluate.
*/
package expr
