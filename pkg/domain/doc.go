/*
Package domain contains the core models of the funchain engine.

It defines the function nodes that make up a chain, the per-node outcomes recorded while a
chain is evaluated, and the result handed back to callers. The package is kept free of I/O
and of the expression engine itself, so adapters can depend on it without pulling in runtime
behaviour.

# Key Entities

  - FunctionNode: one step of a chain, an equation over x plus an optional successor id.
  - Step: the record of one node visit (input and Outcome).
  - Outcome: either Ok(value) or Failed(error), never both.
  - Result: the trace of a run plus its final value and status.
  - Value: a float64 that survives JSON even when it is NaN or infinite.
*/
package domain
