package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/funchain"
)

const replHelp = `Commands:
  eval [x]             evaluate from the entry node (default initial value if x is omitted)
  set <node> <eq>      replace the equation of a node
  show                 list the nodes
  check                validate the chain
  reload               re-read the chain source, discarding edits
  help                 show this message
  quit                 leave`

// RunREPL reads commands line by line from in until EOF, "quit" or ctx is cancelled.
// Command errors are printed and do not end the session.
func RunREPL(ctx context.Context, engine *funchain.Engine, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	printSystemMessage(out, "Type 'help' for commands.")
	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			if quit := execLine(ctx, engine, strings.TrimSpace(line), out); quit {
				return nil
			}
		}
	}
}

func execLine(ctx context.Context, engine *funchain.Engine, line string, out io.Writer) (quit bool) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(out, replHelp)
	case "eval", "e":
		initial := engine.InitialValue()
		if rest != "" {
			v, err := strconv.ParseFloat(rest, 64)
			if err != nil {
				printSystemMessage(out, "not a number: %q", rest)
				return false
			}
			initial = v
		}
		if err := WriteResult(out, engine.Evaluate(ctx, initial), false); err != nil {
			printSystemMessage(out, "%v", err)
		}
	case "set":
		id, eq, found := strings.Cut(rest, " ")
		if !found || strings.TrimSpace(eq) == "" {
			printSystemMessage(out, "usage: set <node> <equation>")
			return false
		}
		if err := engine.SetEquation(id, strings.TrimSpace(eq)); err != nil {
			printSystemMessage(out, "rejected: %v", err)
			return false
		}
		printSystemMessage(out, "%s updated.", id)
	case "show":
		for _, n := range engine.Inspect() {
			marker := " "
			if n.ID == engine.EntryNode() {
				marker = "*"
			}
			next := n.Next
			if next == "" {
				next = "end"
			}
			fmt.Fprintf(out, "%s %s: %s -> %s\n", marker, n.ID, n.Equation, next)
		}
	case "check":
		report := engine.Check()
		for _, issue := range report.Issues {
			fmt.Fprintln(out, issue)
		}
		if report.Err() == nil {
			printSystemMessage(out, "Chain is valid.")
		}
	case "reload":
		if err := engine.Reload(ctx); err != nil {
			printSystemMessage(out, "reload failed: %v", err)
			return false
		}
		printSystemMessage(out, "Chain reloaded.")
	default:
		printSystemMessage(out, "unknown command %q, type 'help'", cmd)
	}
	return false
}
