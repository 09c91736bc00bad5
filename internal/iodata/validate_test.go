package iodata

import (
	"testing"

	"github.com/danmuck/azadio/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nest(v any, dim int) any {
	for i := 0; i < dim; i++ {
		v = []any{v, v}
	}
	return v
}

func TestCheckDataTypeEveryTypeEveryDimension(t *testing.T) {
	testlog.Start(t)
	r := Default()
	samples := map[string]any{
		"int":       7,
		"long long": int64(1) << 40,
		"float":     1.5,
		"double":    2.5,
		"str":       "abc",
		"bool":      true,
	}
	for name, scalar := range samples {
		for dim := 0; dim <= r.MaxDimension(); dim++ {
			ok, err := r.CheckDataType(nest(scalar, dim), name, dim)
			require.NoError(t, err)
			assert.True(t, ok, "%s dim=%d", name, dim)
		}
	}
}

func TestCheckDataTypeMismatches(t *testing.T) {
	testlog.Start(t)
	r := Default()

	ok, err := r.CheckDataType([]any{1, 2}, "int", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.CheckDataType(1, "int", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.CheckDataType([]any{1, "x"}, "int", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.CheckDataType([]any{}, "str", 3)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.CheckDataType(1, "char", 0)
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = r.CheckDataType(1, "int", r.MaxDimension()+1)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestCheckDataCompatibility(t *testing.T) {
	testlog.Start(t)
	r := Default()

	ok, err := r.CheckDataCompatibility(int64(1)<<31, "int")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.CheckDataCompatibility(int64(1)<<31, "long long")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.CheckDataCompatibility([]any{[]any{1, 2}, []any{3}}, "integer")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.CheckDataCompatibility([]any{"ok", "ünicode"}, "string")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.CheckDataCompatibility([]any{1, "x"}, "int")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = r.CheckDataCompatibility(1, "char")
	assert.ErrorIs(t, err, ErrUnknownType)
}
