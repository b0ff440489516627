package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/funchain/pkg/adapters/file"
	"github.com/aretw0/funchain/pkg/adapters/memory"
	"github.com/aretw0/funchain/pkg/domain"
	contract "github.com/aretw0/funchain/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `entry: F1
initial: 2
functions:
  - id: F1
    equation: x^2
    next: F2
  - id: F2
    equation: 2*x+4
    next: F4
  - id: F3
    equation: x^2+20
  - id: F4
    equation: x-2
    next: F5
  - id: F5
    equation: x/2
    next: F3
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileLoader_Contract(t *testing.T) {
	path := writeFile(t, "seed.yaml", seedYAML)
	contract.ChainLoaderContractTest(t, file.New(path), memory.SeedNodes())
}

func TestFileLoader_YAML(t *testing.T) {
	path := writeFile(t, "seed.yaml", seedYAML)

	def, err := file.New(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seed", def.Name)
	assert.Equal(t, "F1", def.Entry)
	assert.Equal(t, 2.0, def.InitialValue())
}

func TestFileLoader_JSON(t *testing.T) {
	path := writeFile(t, "chain.json", `{
  "initial": "3",
  "functions": [
    {"id": "A", "equation": "x*2", "next": "B"},
    {"id": "B", "equation": 7}
  ]
}`)

	def, err := file.New(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "chain", def.Name)
	assert.Empty(t, def.Entry)
	assert.Equal(t, 3.0, def.InitialValue())
	assert.Equal(t, []domain.FunctionNode{
		{ID: "A", Equation: "x*2", Next: "B"},
		{ID: "B", Equation: "7"},
	}, def.Nodes)
}

func TestFileLoader_Errors(t *testing.T) {
	_, err := file.New(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = file.Decode([]byte("functions: [\n"))
	assert.Error(t, err)

	_, err = file.Decode([]byte(""))
	assert.Error(t, err)

	_, err = file.Decode([]byte("functions:\n  - id: A\n    equation: x\n    color: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color")
}

func TestEncode_RoundTrip(t *testing.T) {
	def, err := memory.Seed().Load(context.Background())
	require.NoError(t, err)

	data, err := file.Encode(def)
	require.NoError(t, err)

	doc, err := file.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "F1", doc.Entry)
	require.NotNil(t, doc.Initial)
	assert.Equal(t, 2.0, *doc.Initial)
	assert.Len(t, doc.Functions, 5)
}
