package dsl

import "github.com/aretw0/funchain/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
// A node starts as the identity equation "x" with no successor.
type NodeBuilder struct {
	node    domain.FunctionNode
	builder *Builder
}

// Equation sets the expression applied to x.
func (n *NodeBuilder) Equation(eq string) *NodeBuilder {
	n.node.Equation = eq
	return n
}

// Go links the node to its successor.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.node.Next = target
	return n
}

// Then links the node to target, adds target to the chain and returns its builder.
func (n *NodeBuilder) Then(target string) *NodeBuilder {
	n.node.Next = target
	return n.builder.Add(target)
}

// Entry marks the node evaluation starts from.
func (n *NodeBuilder) Entry() *NodeBuilder {
	n.builder.entry = n.node.ID
	return n
}

// Terminal removes the successor link, ending the chain at this node.
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.node.Next = ""
	return n
}

// Build returns the underlying domain.FunctionNode.
func (n *NodeBuilder) Build() domain.FunctionNode {
	return n.node
}
