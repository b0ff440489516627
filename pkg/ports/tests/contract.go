package tests

import (
	"context"
	"testing"

	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/expr"
	"github.com/aretw0/funchain/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ChainLoaderContractTest is a reusable test suite that verifies if an adapter complies with
// ports.ChainLoader. want lists the nodes the loader is expected to return, in order.
func ChainLoaderContractTest(t *testing.T, loader ports.ChainLoader, want []domain.FunctionNode) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Nodes", func(t *testing.T) {
		def, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, def.Nodes)
	})

	t.Run("Load_UniqueIDs", func(t *testing.T) {
		def, err := loader.Load(ctx)
		require.NoError(t, err)

		seen := make(map[string]bool, len(def.Nodes))
		for _, n := range def.Nodes {
			assert.NotEmpty(t, n.ID)
			assert.False(t, seen[n.ID], "duplicate node %s", n.ID)
			seen[n.ID] = true
		}
	})

	t.Run("Load_StableOrder", func(t *testing.T) {
		first, err := loader.Load(ctx)
		require.NoError(t, err)
		second, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.Nodes, second.Nodes)
		assert.Equal(t, first.Entry, second.Entry)
	})

	t.Run("Load_ValidEquations", func(t *testing.T) {
		def, err := loader.Load(ctx)
		require.NoError(t, err)
		for _, n := range def.Nodes {
			assert.NoError(t, expr.Validate(n.Equation), "node %s", n.ID)
		}
	})
}

// ResultStoreContractTest runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract.
func ResultStoreContractTest(t *testing.T, store ports.ResultStore) {
	t.Helper()
	ctx := context.Background()

	result := &domain.Result{
		RunID:   "contract-run",
		Entry:   "A",
		Initial: 2,
		Final:   4,
		Status:  domain.StatusCompleted,
		Trace:   []domain.Step{{NodeID: "A", Input: 2, Outcome: domain.Ok(4)}},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, result))

		loaded, err := store.Load(ctx, result.RunID)
		require.NoError(t, err)
		assert.Equal(t, result.Final, loaded.Final)
		assert.Equal(t, result.Visited(), loaded.Visited())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-run")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Isolation", func(t *testing.T) {
		loaded, err := store.Load(ctx, result.RunID)
		require.NoError(t, err)
		loaded.Trace[0].NodeID = "mutated"

		again, err := store.Load(ctx, result.RunID)
		require.NoError(t, err)
		assert.Equal(t, "A", again.Trace[0].NodeID)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, result.RunID)
	})
}
