package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/funchain"
	"github.com/aretw0/funchain/internal/presentation/tui"
	"github.com/aretw0/funchain/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// ChainPath is a chain file or directory. Empty selects the built-in seed chain.
	ChainPath string
	Entry     string
	Initial   *float64
	JSON      bool
	Debug     bool
	Watch     bool

	// Interactive starts a REPL reading commands from In.
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// Execute evaluates the chain once, keeps re-evaluating it on change in watch mode, or
// starts a REPL in interactive mode.
// A run that fails as a whole is returned as an error after its trace is written.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Interactive && (opts.Watch || opts.JSON) {
		return fmt.Errorf("--interactive cannot be combined with --watch or --json")
	}
	logger := CreateLogger(opts.Debug)

	engine, err := NewEngine(opts, logger)
	if err != nil {
		return err
	}

	if !opts.JSON && isTerminal(opts.Out) {
		tui.PrintBanner(opts.Out)
	}

	if opts.Watch {
		return RunWatch(ctx, engine, opts, logger)
	}
	if opts.Interactive {
		return RunREPL(ctx, engine, opts.In, opts.Out)
	}

	res := engine.Evaluate(ctx, engine.InitialValue())
	if err := WriteResult(opts.Out, res, opts.JSON); err != nil {
		return err
	}
	return res.Err
}

// WriteResult prints a run either as JSON or as a markdown trace, rendered with glamour
// when w is a terminal.
func WriteResult(w io.Writer, res *domain.Result, jsonMode bool) error {
	if jsonMode {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	md := tui.TraceMarkdown(res)
	if isTerminal(w) {
		if out, err := tui.NewRenderer()(md); err == nil {
			md = out
		}
		printSystemMessage(w, "%s in %d steps", tui.Status(string(res.Status)), len(res.Trace))
	}
	_, err := fmt.Fprint(w, md)
	return err
}

// VersionString returns the trimmed embedded version.
func VersionString() string {
	return strings.TrimSpace(funchain.Version)
}
