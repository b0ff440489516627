package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/funchain/pkg/domain"
)

// TraceMarkdown formats a run as a markdown table, one row per step.
func TraceMarkdown(res *domain.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Run `%s`\n\n", res.RunID)
	fmt.Fprintf(&sb, "Entry **%s**, initial value **%s**.\n\n", res.Entry, res.Initial)

	if len(res.Trace) == 0 {
		sb.WriteString("_No nodes were evaluated._\n\n")
	} else {
		sb.WriteString("| # | Node | Input | Output |\n")
		sb.WriteString("|---|------|-------|--------|\n")
		for i, step := range res.Trace {
			out := "-"
			if v, ok := step.Outcome.Value(); ok {
				out = v.String()
			} else if err := step.Outcome.Err(); err != nil {
				out = "⚠ " + escapeCell(err.Error())
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", i+1, escapeCell(step.NodeID), step.Input, out)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "**Final:** %s (%s)\n", res.Final, res.Status)
	if res.Err != nil {
		fmt.Fprintf(&sb, "\n> %s\n", res.Err)
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
