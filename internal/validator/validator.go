// Package validator statically checks a chain before it is evaluated.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/funchain/pkg/chain"
	"github.com/aretw0/funchain/pkg/expr"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind names the check that produced an Issue.
type Kind string

const (
	KindMissingEntry      Kind = "missing_entry"
	KindInvalidEquation   Kind = "invalid_equation"
	KindMalformedEquation Kind = "malformed_equation"
	KindDanglingLink      Kind = "dangling_link"
	KindUnreachable       Kind = "unreachable"
	KindCycle             Kind = "cycle"
)

// Issue is one finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	NodeID   string   `json:"node_id,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.NodeID, i.Message)
}

// Report aggregates the findings of Check. It implements error.
type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) add(sev Severity, kind Kind, nodeID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Kind: kind, NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Err returns r if it holds any error-severity issue, nil otherwise.
func (r *Report) Err() error {
	if len(r.Errors()) == 0 {
		return nil
	}
	return r
}

func (r *Report) Error() string {
	errs := r.Errors()
	lines := make([]string, len(errs))
	for i, issue := range errs {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("found %d errors:\n- %s", len(errs), strings.Join(lines, "\n- "))
}

// Check walks the chain from entry and reports problems the evaluator would tolerate
// silently or fail on at run time.
//
// Equations with disallowed characters and equations that cannot produce a value
// (for example "x+") are errors, as are a missing entry node and a cycle reachable from
// the entry. Dangling successors, unreachable nodes and cycles off the entry path are
// warnings.
func Check(snap *chain.Snapshot, entry string) *Report {
	r := &Report{}
	nodes := snap.Nodes()

	for _, n := range nodes {
		if err := expr.Validate(n.Equation); err != nil {
			r.add(SeverityError, KindInvalidEquation, n.ID, "%v", err)
			continue
		}
		// The value of x does not affect structure, only the numbers.
		if _, err := expr.Evaluate(n.Equation, 1); errors.Is(err, expr.ErrEmptyResult) {
			r.add(SeverityError, KindMalformedEquation, n.ID, "equation %q cannot produce a value", n.Equation)
		}
		if n.Next != "" {
			if _, ok := snap.Lookup(n.Next); !ok {
				r.add(SeverityWarning, KindDanglingLink, n.ID, "successor %q does not exist, the run ends here", n.Next)
			}
		}
	}

	if len(nodes) == 0 {
		return r
	}

	if _, ok := snap.Lookup(entry); !ok {
		r.add(SeverityError, KindMissingEntry, "", "entry node %q not found", entry)
		return r
	}

	onPath := make(map[string]bool)
	id := entry
	for {
		n, ok := snap.Lookup(id)
		if !ok {
			break
		}
		if onPath[id] {
			r.add(SeverityError, KindCycle, id, "successor links loop back to %s", id)
			break
		}
		onPath[id] = true
		id = n.Next
	}

	for _, n := range nodes {
		if onPath[n.ID] {
			continue
		}
		r.add(SeverityWarning, KindUnreachable, n.ID, "not reachable from entry %s", entry)
		if loopsBack(snap, n.ID) {
			r.add(SeverityWarning, KindCycle, n.ID, "successor links from %s loop", n.ID)
		}
	}

	return r
}

func loopsBack(snap *chain.Snapshot, start string) bool {
	seen := make(map[string]bool)
	for id := start; ; {
		n, ok := snap.Lookup(id)
		if !ok {
			return false
		}
		if seen[id] {
			return true
		}
		seen[id] = true
		id = n.Next
	}
}
