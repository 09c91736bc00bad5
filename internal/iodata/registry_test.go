package iodata

import (
	"errors"
	"testing"

	"github.com/danmuck/azadio/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryOrderIsContract(t *testing.T) {
	testlog.Start(t)
	types := Default().Types()
	names := make([]string, 0, len(types))
	for _, d := range types {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"int", "long long", "float", "double", "str", "bool"}, names)
}

func TestLookupAliases(t *testing.T) {
	testlog.Start(t)
	r := Default()
	cases := map[string]string{
		"int":           "int",
		"integer":       "int",
		"long long":     "long long",
		"long":          "long long",
		"long long int": "long long",
		"float":         "float",
		"double":        "double",
		"real":          "double",
		"str":           "str",
		"string":        "str",
		"bool":          "bool",
		"boolean":       "bool",
	}
	for name, want := range cases {
		d, err := r.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, d.Name, name)
	}
	assert.Len(t, r.Names(), len(cases))
}

func TestLookupUnknownType(t *testing.T) {
	testlog.Start(t)
	_, err := Default().Lookup("char")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestAcceptsIgnoresRange(t *testing.T) {
	testlog.Start(t)
	r := Default()
	intType, err := r.Lookup("int")
	require.NoError(t, err)
	assert.True(t, r.Accepts(intType, int64(1)<<40))
	assert.False(t, r.SatisfiesConstraint(intType, int64(1)<<40))
	assert.False(t, r.Accepts(intType, 1.0))
	assert.False(t, r.Accepts(intType, true))

	boolType, err := r.Lookup("boolean")
	require.NoError(t, err)
	assert.True(t, r.Accepts(boolType, true))
	assert.True(t, r.Accepts(boolType, 7))
	assert.True(t, r.SatisfiesConstraint(boolType, 1))
	assert.False(t, r.SatisfiesConstraint(boolType, 7))
}

func TestBuiltinConstraints(t *testing.T) {
	testlog.Start(t)
	r := Default()
	cases := []struct {
		typ  string
		v    any
		want bool
	}{
		{"int", int64(-1 << 31), true},
		{"int", int64(1<<31 - 1), true},
		{"int", int64(1 << 31), false},
		{"long long", int64(1 << 62), true},
		{"long long", uint64(1 << 63), false},
		{"float", 1.5, true},
		{"float", 0.0, false},
		{"float", 1e39, false},
		{"float", float32(-3.25), true},
		{"double", 1e300, true},
		{"double", 1e-320, false},
		{"str", "hello", true},
		{"str", "héllo", false},
		{"bool", false, true},
		{"bool", 0, true},
		{"bool", 2, false},
	}
	for _, tc := range cases {
		d, err := r.Lookup(tc.typ)
		require.NoError(t, err)
		assert.Equal(t, tc.want, r.SatisfiesConstraint(d, tc.v), "%s %v", tc.typ, tc.v)
	}
}

func TestNewRegistryRejectsMisconfiguration(t *testing.T) {
	testlog.Start(t)
	valid := func() TypeDescriptor {
		return TypeDescriptor{
			Name:       "char",
			Accepts:    []Kind{KindText},
			Constraint: func(any) bool { return true },
			Strize:     strizeText,
		}
	}
	cases := map[string]func() ([]TypeDescriptor, map[string]string){
		"empty name": func() ([]TypeDescriptor, map[string]string) {
			d := valid()
			d.Name = " "
			return []TypeDescriptor{d}, nil
		},
		"no kinds": func() ([]TypeDescriptor, map[string]string) {
			d := valid()
			d.Accepts = nil
			return []TypeDescriptor{d}, nil
		},
		"no constraint": func() ([]TypeDescriptor, map[string]string) {
			d := valid()
			d.Constraint = nil
			return []TypeDescriptor{d}, nil
		},
		"no strize": func() ([]TypeDescriptor, map[string]string) {
			d := valid()
			d.Strize = nil
			return []TypeDescriptor{d}, nil
		},
		"duplicate": func() ([]TypeDescriptor, map[string]string) {
			return []TypeDescriptor{valid(), valid()}, nil
		},
		"alias to unknown": func() ([]TypeDescriptor, map[string]string) {
			return []TypeDescriptor{valid()}, map[string]string{"character": "rune"}
		},
		"alias collides": func() ([]TypeDescriptor, map[string]string) {
			return []TypeDescriptor{valid()}, map[string]string{"char": "char"}
		},
	}
	for name, build := range cases {
		entries, aliases := build()
		_, err := NewRegistry(entries, aliases, DefaultOptions())
		assert.True(t, errors.Is(err, ErrInvalidDescriptor), "%s: %v", name, err)
	}

	assert.Panics(t, func() {
		MustRegistry([]TypeDescriptor{{Name: "x"}}, nil, DefaultOptions())
	})
}

func TestRegistryIsImmutableFromOutside(t *testing.T) {
	testlog.Start(t)
	r := Default()
	types := r.Types()
	types[0].Name = "mutated"
	types[0].Accepts[0] = KindText

	d, err := r.Lookup("int")
	require.NoError(t, err)
	assert.Equal(t, "int", d.Name)
	assert.Equal(t, []Kind{KindInt}, d.Accepts)
}
