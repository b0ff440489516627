package ports

import (
	"context"

	"github.com/aretw0/funchain/pkg/domain"
)

// ResultStore keeps the results of past runs so transports can serve them by id.
type ResultStore interface {
	// Save records a result under its RunID.
	Save(ctx context.Context, result *domain.Result) error

	// Load retrieves a result by run id.
	// Returns domain.ErrRunNotFound if the run is unknown (or was evicted).
	Load(ctx context.Context, runID string) (*domain.Result, error)

	// List returns the stored run ids, oldest first.
	List(ctx context.Context) ([]string, error)
}
