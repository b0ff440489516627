package ports

import (
	"context"

	"github.com/aretw0/funchain/pkg/domain"
)

// ChainEngine is the interface used by transports (HTTP, MCP).
type ChainEngine interface {
	// Evaluate runs the chain from its entry node. It always returns a trace.
	Evaluate(ctx context.Context, initial float64) *domain.Result

	// SetEquation replaces one node's equation after validating it.
	SetEquation(nodeID, equation string) error

	// Inspect returns the current nodes in authoring order.
	Inspect() []domain.FunctionNode

	// EntryNode returns the node evaluation starts from.
	EntryNode() string

	// InitialValue returns the default starting value of the loaded chain.
	InitialValue() float64

	// ChainName returns the name of the loaded chain.
	ChainName() string
}
