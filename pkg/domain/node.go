package domain

// FunctionNode represents one function in a chain.
type FunctionNode struct {
	ID string `json:"id" yaml:"id"`

	// Equation is the user-editable expression over x, e.g. "2*x+4".
	Equation string `json:"equation" yaml:"equation"`

	// Next is the id of the successor node. Empty means the chain ends here.
	// It may reference a node that does not exist, or loop back onto an earlier node.
	Next string `json:"next,omitempty" yaml:"next,omitempty"`
}

// IsTerminal reports whether the node has no successor.
func (n FunctionNode) IsTerminal() bool {
	return n.Next == ""
}
