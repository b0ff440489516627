/*
Package funchain evaluates chains of single-variable functions.

A chain is an ordered collection of function nodes. Each node holds an id, an equation over
the variable x (for example "x^2" or "2*x+4") and the id of its successor. Evaluation feeds an
initial value into the entry node and passes every result on to the next node until a node
has no successor, producing the final value and a trace of every intermediate step.

# Concept

Chains are untrusted, user-edited data. Equations are restricted to digits, x, + - * / ^
and whitespace; edits with other characters are rejected before they reach the chain.
Successor links may dangle or loop: a dangling link ends the run normally, and a run that
visits more nodes than the chain holds stops with ErrCycleDetected instead of spinning.
A node that fails to evaluate is recorded in the trace and the run continues with the last
good value.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/funchain"
		"github.com/aretw0/funchain/pkg/adapters/memory"
	)

	func main() {
		eng, err := funchain.New("", funchain.WithLoader(memory.Seed()))
		if err != nil {
			log.Fatal(err)
		}

		res := eng.Evaluate(context.Background(), 2)
		for _, step := range res.Trace {
			fmt.Println(step.NodeID, step.Outcome)
		}
		fmt.Println("final:", res.Final) // 45
	}

Without WithLoader, New reads a directory of Markdown documents through Loam.
*/
package funchain
