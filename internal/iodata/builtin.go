package iodata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// DefaultFloatPrecision is the comparison tolerance used when a problem does
// not declare one.
const DefaultFloatPrecision = 1e-3

const (
	floatMinMagnitude  = 1.175494351e-38
	floatMaxMagnitude  = 3.402823466e38
	doubleMinMagnitude = 0x1p-1022
	doubleMaxMagnitude = math.MaxFloat64
)

// BuiltinTypes returns the built-in descriptors in canonical order.
func BuiltinTypes() []TypeDescriptor {
	return []TypeDescriptor{
		{
			Name:       "int",
			Accepts:    []Kind{KindInt},
			Constraint: intInRange(math.MinInt32, math.MaxInt32),
			Strize:     strizeInt,
		},
		{
			Name:       "long long",
			Accepts:    []Kind{KindInt},
			Constraint: intInRange(math.MinInt64, math.MaxInt64),
			Strize:     strizeInt,
		},
		{
			Name:       "float",
			Accepts:    []Kind{KindReal},
			Constraint: realMagnitude(floatMinMagnitude, floatMaxMagnitude),
			Strize:     strizeReal,
		},
		{
			Name:       "double",
			Accepts:    []Kind{KindReal},
			Constraint: realMagnitude(doubleMinMagnitude, doubleMaxMagnitude),
			Strize:     strizeReal,
		},
		{
			Name:       "str",
			Accepts:    []Kind{KindText},
			Constraint: asciiOnly,
			Strize:     strizeText,
		},
		{
			Name:       "bool",
			Accepts:    []Kind{KindBool, KindInt},
			Constraint: boolLike,
			Strize:     strizeBool,
		},
	}
}

// BuiltinAliases maps accepted alternative spellings to canonical names.
func BuiltinAliases() map[string]string {
	return map[string]string{
		"integer":       "int",
		"long":          "long long",
		"long long int": "long long",
		"real":          "double",
		"string":        "str",
		"boolean":       "bool",
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide built-in registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustRegistry(BuiltinTypes(), BuiltinAliases(), DefaultOptions())
	})
	return defaultRegistry
}

func intInRange(lo, hi int64) func(any) bool {
	return func(v any) bool {
		n, overflow, ok := IntValue(v)
		return ok && !overflow && lo <= n && n <= hi
	}
}

func realMagnitude(lo, hi float64) func(any) bool {
	return func(v any) bool {
		x, ok := RealValue(v)
		if !ok {
			return false
		}
		a := math.Abs(x)
		return lo <= a && a <= hi
	}
}

func asciiOnly(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func boolLike(v any) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	n, overflow, ok := IntValue(v)
	return ok && !overflow && (n == 0 || n == 1)
}

func strizeInt(v any) string {
	n, overflow, ok := IntValue(v)
	switch {
	case !ok:
		return fmt.Sprint(v)
	case overflow:
		return strconv.FormatUint(toUint64(v), 10)
	default:
		return strconv.FormatInt(n, 10)
	}
}

func strizeReal(v any) string {
	var s string
	switch x := v.(type) {
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}

func strizeText(v any) string {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return `"` + textEscaper.Replace(s) + `"`
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func strizeBool(v any) string {
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	n, overflow, _ := IntValue(v)
	return strconv.FormatBool(overflow || n != 0)
}
