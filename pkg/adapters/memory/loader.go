package memory

import (
	"context"
	"slices"

	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/ports"
)

// Option configures a Loader.
type Option func(*Loader)

// WithEntry sets the entry node id.
func WithEntry(id string) Option {
	return func(l *Loader) {
		l.entry = id
	}
}

// WithInitial sets the default initial value.
func WithInitial(v float64) Option {
	return func(l *Loader) {
		l.initial = &v
	}
}

// WithName sets the chain label.
func WithName(name string) Option {
	return func(l *Loader) {
		l.name = name
	}
}

// Loader implements ports.ChainLoader with nodes declared in code.
type Loader struct {
	nodes   []domain.FunctionNode
	entry   string
	initial *float64
	name    string
}

// NewLoader creates a loader that returns the given nodes in order.
func NewLoader(nodes []domain.FunctionNode, opts ...Option) *Loader {
	l := &Loader{nodes: slices.Clone(nodes)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns a copy of the declared chain.
func (l *Loader) Load(_ context.Context) (ports.Definition, error) {
	return ports.Definition{
		Name:    l.name,
		Entry:   l.entry,
		Initial: l.initial,
		Nodes:   slices.Clone(l.nodes),
	}, nil
}

// SeedNodes returns the five-node demo chain. Starting from 2 it computes
// 4, 12, 10, 5 and finally 45.
func SeedNodes() []domain.FunctionNode {
	return []domain.FunctionNode{
		{ID: "F1", Equation: "x^2", Next: "F2"},
		{ID: "F2", Equation: "2*x+4", Next: "F4"},
		{ID: "F3", Equation: "x^2+20"},
		{ID: "F4", Equation: "x-2", Next: "F5"},
		{ID: "F5", Equation: "x/2", Next: "F3"},
	}
}

// Seed returns a loader for the demo chain, entering at F1 with initial value 2.
func Seed() *Loader {
	return NewLoader(SeedNodes(),
		WithName("seed"),
		WithEntry("F1"),
		WithInitial(domain.DefaultInitialValue),
	)
}
