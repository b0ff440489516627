// Package chain holds the mutable, ordered collection of function nodes that the engine
// evaluates.
//
// Nodes are kept in an arena keyed by id; successors are plain ids, so dangling references
// and cycles are representable without any pointer graph. Every mutation publishes a new
// immutable Snapshot, which lets evaluations read without holding a lock.
package chain

import (
	"fmt"
	"sync"

	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/expr"
)

// Snapshot is an immutable view of a chain at one point in time.
type Snapshot struct {
	order []string
	nodes map[string]domain.FunctionNode
	entry string
}

// Lookup returns the node with the given id.
func (s *Snapshot) Lookup(id string) (domain.FunctionNode, bool) {
	if id == "" {
		return domain.FunctionNode{}, false
	}
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns a copy of the nodes in authoring order.
func (s *Snapshot) Nodes() []domain.FunctionNode {
	out := make([]domain.FunctionNode, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Len returns the number of distinct node ids.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Entry returns the id traversal starts from.
func (s *Snapshot) Entry() string {
	return s.entry
}

// Option configures a Chain.
type Option func(*config)

type config struct {
	entry string
}

// WithEntry sets the entry node id. By default the first node is the entry.
// The id does not have to exist; a run from a missing entry simply computes nothing.
func WithEntry(id string) Option {
	return func(c *config) {
		c.entry = id
	}
}

// Chain is the mutable collection. Safe for concurrent use.
type Chain struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// New builds a chain from nodes in authoring order. Ids must be unique and non-empty, and
// every equation must pass expr.Validate.
func New(nodes []domain.FunctionNode, opts ...Option) (*Chain, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	snap := &Snapshot{
		order: make([]string, 0, len(nodes)),
		nodes: make(map[string]domain.FunctionNode, len(nodes)),
		entry: cfg.entry,
	}
	for i, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node at position %d: %w", i, domain.ErrEmptyNodeID)
		}
		if _, dup := snap.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateNode, n.ID)
		}
		if err := expr.Validate(n.Equation); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		snap.order = append(snap.order, n.ID)
		snap.nodes[n.ID] = n
	}
	if snap.entry == "" && len(snap.order) > 0 {
		snap.entry = snap.order[0]
	}

	return &Chain{snap: snap}, nil
}

// Snapshot returns the current immutable view.
func (c *Chain) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Nodes returns the current nodes in authoring order.
func (c *Chain) Nodes() []domain.FunctionNode {
	return c.Snapshot().Nodes()
}

// Lookup returns the current definition of a node.
func (c *Chain) Lookup(id string) (domain.FunctionNode, bool) {
	return c.Snapshot().Lookup(id)
}

// Entry returns the entry node id.
func (c *Chain) Entry() string {
	return c.Snapshot().Entry()
}

// SetEquation replaces the equation of a node after validating its character set.
// On error the previous equation is kept.
func (c *Chain) SetEquation(id, equation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.snap.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	if err := expr.Validate(equation); err != nil {
		return err
	}

	next := &Snapshot{
		order: c.snap.order,
		nodes: make(map[string]domain.FunctionNode, len(c.snap.nodes)),
		entry: c.snap.entry,
	}
	for k, v := range c.snap.nodes {
		next.nodes[k] = v
	}
	node.Equation = equation
	next.nodes[id] = node
	c.snap = next
	return nil
}
