package ports

import (
	"context"

	"github.com/aretw0/funchain/pkg/domain"
)

// Definition is a chain as authored: nodes in authoring order plus run defaults.
type Definition struct {
	// Name is a descriptive label (file or directory name). Optional.
	Name string
	// Entry is the node traversal starts from. Empty means the first node.
	Entry string
	// Initial is the default starting value. Nil means domain.DefaultInitialValue.
	Initial *float64
	Nodes   []domain.FunctionNode
}

// InitialValue returns the configured initial value or the default.
func (d Definition) InitialValue() float64 {
	if d.Initial == nil {
		return domain.DefaultInitialValue
	}
	return *d.Initial
}

// ChainLoader defines how the engine retrieves chain definitions.
// This allows the storage layer (Loam, file, Memory) to be decoupled.
type ChainLoader interface {
	// Load reads the whole chain. Loaders return nodes in a stable order.
	Load(ctx context.Context) (Definition, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used to reload the chain while serving.
type Watchable interface {
	// Watch returns a channel that receives the id of each changed document.
	Watch(ctx context.Context) (<-chan string, error)
}
