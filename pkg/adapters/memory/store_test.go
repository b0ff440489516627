package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/funchain/pkg/adapters/memory"
	"github.com/aretw0/funchain/pkg/domain"
	contract "github.com/aretw0/funchain/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	contract.ResultStoreContractTest(t, memory.NewStore(0))
}

func TestMemoryStore_Evicts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(2)

	for i := range 3 {
		require.NoError(t, store.Save(ctx, &domain.Result{RunID: fmt.Sprintf("run-%d", i)}))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1", "run-2"}, ids)

	_, err = store.Load(ctx, "run-0")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
