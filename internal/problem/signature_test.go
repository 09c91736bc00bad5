package problem

import (
	"errors"
	"testing"

	"github.com/danmuck/azadio/internal/iodata"
	"github.com/danmuck/azadio/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Signature {
	return Signature{
		Parameters: []Param{
			{Name: "a", Type: "int", Dimension: 1},
			{Name: "b", Type: "string", Dimension: 0},
		},
		Return: Param{Type: "double", Dimension: 2},
	}
}

func TestSignatureValidate(t *testing.T) {
	testlog.Start(t)
	reg := iodata.Default()
	require.NoError(t, sample().Validate(reg))

	cases := map[string]Signature{
		"unknown type":   {Parameters: []Param{{Name: "a", Type: "char"}}, Return: Param{Type: "int"}},
		"missing name":   {Parameters: []Param{{Type: "int"}}, Return: Param{Type: "int"}},
		"duplicate name": {Parameters: []Param{{Name: "a", Type: "int"}, {Name: "a", Type: "str"}}, Return: Param{Type: "int"}},
		"deep dimension": {Return: Param{Type: "int", Dimension: 5}},
		"negative dim":   {Return: Param{Type: "int", Dimension: -1}},
	}
	for name, sig := range cases {
		err := sig.Validate(reg)
		assert.ErrorIs(t, err, ErrInvalidSignature, name)
	}
	assert.ErrorIs(t, cases["unknown type"].Validate(reg), iodata.ErrUnknownType)
	assert.ErrorIs(t, cases["deep dimension"].Validate(reg), iodata.ErrInvalidDimension)
}

func TestValidateParameters(t *testing.T) {
	testlog.Start(t)
	reg := iodata.Default()
	sig := sample()

	require.NoError(t, sig.ValidateParameters(reg, []any{[]any{1, 2, 3}, "hi"}))
	require.NoError(t, sig.ValidateParameters(reg, []any{[]any{}, ""}))

	err := sig.ValidateParameters(reg, []any{[]any{1}})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, verr.Field)
	assert.ErrorIs(t, err, ErrValidation)

	err = sig.ValidateParameters(reg, []any{1, "hi"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "a", verr.Field)
	assert.ErrorIs(t, err, iodata.ErrTypeMismatch)

	err = sig.ValidateParameters(reg, []any{[]any{1, int64(1) << 40}, "hi"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "a", verr.Field)
	assert.ErrorIs(t, err, iodata.ErrDataValidation)

	err = sig.ValidateParameters(reg, []any{[]any{1}, "hé"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "b", verr.Field)
}

func TestValidateNamed(t *testing.T) {
	testlog.Start(t)
	reg := iodata.Default()
	sig := sample()

	values := iodata.NewMap()
	values.Set("b", "x")
	values.Set("a", []any{7})
	require.NoError(t, sig.ValidateNamed(reg, values))

	values.Set("c", 1)
	var verr ValidationError
	require.ErrorAs(t, sig.ValidateNamed(reg, values), &verr)
	assert.Equal(t, "c", verr.Field)

	missing := iodata.NewMap()
	missing.Set("a", []any{7})
	require.ErrorAs(t, sig.ValidateNamed(reg, missing), &verr)
	assert.Equal(t, "b", verr.Field)

	require.ErrorAs(t, sig.ValidateNamed(reg, nil), &verr)
	assert.Equal(t, "a", verr.Field)
}

func TestValidateReturn(t *testing.T) {
	testlog.Start(t)
	reg := iodata.Default()
	sig := sample()

	require.NoError(t, sig.ValidateReturn(reg, []any{[]any{1.5, 2.5}, []any{}}))

	err := sig.ValidateReturn(reg, []any{1.5})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReturnField, verr.Field)
}

func TestClassifyParameters(t *testing.T) {
	testlog.Start(t)
	params, err := ClassifyParameters(iodata.Default(), []any{
		1,
		"s",
		[]any{2.5},
		[]any{[]any{true}},
	})
	require.NoError(t, err)
	assert.Equal(t, []Param{
		{Name: "p0", Type: "int", Dimension: 0},
		{Name: "p1", Type: "str", Dimension: 0},
		{Name: "p2", Type: "float", Dimension: 1},
		{Name: "p3", Type: "bool", Dimension: 2},
	}, params)

	_, err = ClassifyParameters(iodata.Default(), []any{1, struct{}{}})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "p1", verr.Field)
	assert.True(t, errors.Is(err, iodata.ErrDataValidation))
}

func TestParamString(t *testing.T) {
	assert.Equal(t, "a int/1", Param{Name: "a", Type: "int", Dimension: 1}.String())
	assert.Equal(t, "double/0", Param{Type: "double"}.String())
}
