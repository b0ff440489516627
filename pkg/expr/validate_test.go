package expr_test

import (
	"errors"
	"testing"

	"github.com/aretw0/funchain/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	accepted := []string{"x", "x^2", "2*x+4", "x - 2", "x/2", "x+", "\tx\n", "++", "42"}
	for _, eq := range accepted {
		assert.NoError(t, expr.Validate(eq), eq)
	}

	rejected := []struct {
		eq   string
		col  int
		char rune
	}{
		{"", 0, 0},
		{"(x+1)", 1, '('},
		{"x+1)", 4, ')'},
		{"x*1.5", 4, '.'},
		{"y+1", 1, 'y'},
		{"sin(x)", 1, 's'},
		{"x×2", 2, '×'},
	}
	for _, c := range rejected {
		t.Run(c.eq, func(t *testing.T) {
			err := expr.Validate(c.eq)
			require.Error(t, err)
			assert.True(t, errors.Is(err, expr.ErrInvalidCharacter))

			var verr *expr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, c.col, verr.Pos())
			assert.Equal(t, c.char, verr.Char)
		})
	}
}
