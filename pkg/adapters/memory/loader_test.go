package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/funchain/pkg/adapters/memory"
	"github.com/aretw0/funchain/pkg/domain"
	contract "github.com/aretw0/funchain/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoader_Contract(t *testing.T) {
	contract.ChainLoaderContractTest(t, memory.Seed(), memory.SeedNodes())
}

func TestSeed(t *testing.T) {
	def, err := memory.Seed().Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "F1", def.Entry)
	assert.Equal(t, 2.0, def.InitialValue())
	assert.Len(t, def.Nodes, 5)
}

func TestLoader_ReturnsCopies(t *testing.T) {
	nodes := []domain.FunctionNode{{ID: "A", Equation: "x"}}
	loader := memory.NewLoader(nodes)
	nodes[0].Equation = "x+1"

	def, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", def.Nodes[0].Equation)
	assert.Nil(t, def.Initial)
	assert.Equal(t, domain.DefaultInitialValue, def.InitialValue())

	def.Nodes[0].Equation = "mutated"
	again, _ := loader.Load(context.Background())
	assert.Equal(t, "x", again.Nodes[0].Equation)
}
