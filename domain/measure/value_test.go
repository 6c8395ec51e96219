package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticPropagatesUnknown(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Value) Value
	}{
		{"add", Value.Add},
		{"sub", Value.Sub},
		{"mul", Value.Mul},
		{"div", Value.Div},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.op(Known(2), Unknown()).IsKnown())
			assert.False(t, tt.op(Unknown(), Known(2)).IsKnown())
			assert.False(t, tt.op(Unknown(), Unknown()).IsKnown())
			assert.True(t, tt.op(Known(2), Known(3)).IsKnown())
		})
	}
}

func TestArithmeticKnownValues(t *testing.T) {
	sum, ok := Known(2).Add(Known(3)).Float()
	require.True(t, ok)
	assert.Equal(t, 5.0, sum)

	quot, ok := Known(9).Div(Known(3)).Float()
	require.True(t, ok)
	assert.Equal(t, 3.0, quot)
}

func TestDivisionByZeroIsUnknown(t *testing.T) {
	assert.False(t, Known(1).Div(Known(0)).IsKnown())
}

func TestComparisonsUndefinedOnUnknown(t *testing.T) {
	_, ok := Known(1).Equal(Unknown())
	assert.False(t, ok)

	_, ok = Unknown().Less(Known(1))
	assert.False(t, ok)

	less, ok := Known(1).Less(Known(2))
	require.True(t, ok)
	assert.True(t, less)

	eq, ok := Known(2).Equal(Known(2))
	require.True(t, ok)
	assert.True(t, eq)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 7.5, Known(7.5).Coalesce(0))
	assert.Equal(t, 0.0, Unknown().Coalesce(0))
	assert.Equal(t, -1.0, Unknown().Coalesce(-1))
}

func TestFloatRequiresKnownCheck(t *testing.T) {
	v, ok := Unknown().Float()
	assert.False(t, ok)
	assert.Equal(t, 0.0, v) // zero value must never be trusted without ok
}

func TestTristateAnd(t *testing.T) {
	tests := []struct {
		name string
		a, b Tristate
		want Tristate
	}{
		{"true and true", True, True, True},
		{"true and false", True, False, False},
		{"false and false", False, False, False},
		{"unknown absorbs true", True, Indeterminate, Indeterminate},
		{"unknown absorbs false", False, Indeterminate, Indeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.And(tt.b))
			assert.Equal(t, tt.want, tt.b.And(tt.a))
		})
	}
}

func TestTristateOf(t *testing.T) {
	assert.Equal(t, True, TristateOf(true))
	assert.Equal(t, False, TristateOf(false))
	assert.True(t, True.Fired())
	assert.False(t, Indeterminate.IsKnown())
}
