package dsl

import (
	"fmt"

	"github.com/aretw0/funchain/pkg/adapters/memory"
	"github.com/aretw0/funchain/pkg/chain"
	"github.com/aretw0/funchain/pkg/domain"
)

// Builder manages the chain construction. Nodes keep the order they were added in.
type Builder struct {
	order   []*NodeBuilder
	nodes   map[string]*NodeBuilder
	entry   string
	initial *float64
	name    string
}

// New creates a new chain builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the chain.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.FunctionNode{ID: id, Equation: "x"},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, nb)
	return nb
}

// Initial sets the default initial value of the chain.
func (b *Builder) Initial(v float64) *Builder {
	b.initial = &v
	return b
}

// Name sets the chain label.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Nodes returns the declared nodes in order.
func (b *Builder) Nodes() []domain.FunctionNode {
	nodes := make([]domain.FunctionNode, len(b.order))
	for i, nb := range b.order {
		nodes[i] = nb.node
	}
	return nodes
}

// Build validates the chain and compiles it into a memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	nodes := b.Nodes()

	var chainOpts []chain.Option
	if b.entry != "" {
		chainOpts = append(chainOpts, chain.WithEntry(b.entry))
	}
	c, err := chain.New(nodes, chainOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build chain: %w", err)
	}

	opts := []memory.Option{memory.WithEntry(c.Entry())}
	if b.initial != nil {
		opts = append(opts, memory.WithInitial(*b.initial))
	}
	if b.name != "" {
		opts = append(opts, memory.WithName(b.name))
	}
	return memory.NewLoader(nodes, opts...), nil
}
