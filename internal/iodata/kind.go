package iodata

import (
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the closed set of native value shapes the I/O layer understands.
type Kind uint8

const (
	KindUnsupported Kind = iota
	KindNull
	KindBool
	KindInt
	KindReal
	KindText
	KindBytes
	KindByteArray
	KindSequence
	KindSet
	KindMapping
)

var kindNames = []string{
	KindUnsupported: "unsupported",
	KindNull:        "null",
	KindBool:        "bool",
	KindInt:         "int",
	KindReal:        "real",
	KindText:        "text",
	KindBytes:       "bytes",
	KindByteArray:   "bytearray",
	KindSequence:    "sequence",
	KindSet:         "set",
	KindMapping:     "mapping",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unsupported"
}

// Scalar reports whether k is a literal kind (no children, no units).
func (k Kind) Scalar() bool {
	switch k {
	case KindNull, KindBool, KindInt, KindReal:
		return true
	default:
		return false
	}
}

// Map is an insertion-ordered mapping value.
type Map = orderedmap.OrderedMap[any, any]

// NewMap returns an empty ordered mapping.
func NewMap() *Map {
	return orderedmap.New[any, any]()
}

// Set is an unordered collection of unique hashable values.
type Set map[any]struct{}

// NewSet builds a set from members.
func NewSet(members ...any) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(v any) bool {
	_, ok := s[v]
	return ok
}

// ByteArray is the mutable byte-buffer kind. Plain []byte is KindBytes.
type ByteArray []byte

// KindOf classifies v. Anything outside the closed set is KindUnsupported.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindReal
	case string:
		return KindText
	case []byte:
		return KindBytes
	case ByteArray:
		return KindByteArray
	case []any:
		return KindSequence
	case Set:
		return KindSet
	case *Map:
		return KindMapping
	default:
		return KindUnsupported
	}
}

// Hashable reports whether v may be used as a mapping key or set member.
func Hashable(v any) bool {
	k := KindOf(v)
	return k.Scalar() || k == KindText
}

// IntValue returns v as int64. overflow is true for unsigned values above
// math.MaxInt64; ok is false when v is not an integer.
func IntValue(v any) (n int64, overflow bool, ok bool) {
	switch x := v.(type) {
	case int:
		return int64(x), false, true
	case int8:
		return int64(x), false, true
	case int16:
		return int64(x), false, true
	case int32:
		return int64(x), false, true
	case int64:
		return x, false, true
	case uint8:
		return int64(x), false, true
	case uint16:
		return int64(x), false, true
	case uint32:
		return int64(x), false, true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, true, true
		}
		return int64(x), false, true
	case uint64:
		if x > math.MaxInt64 {
			return 0, true, true
		}
		return int64(x), false, true
	default:
		return 0, false, false
	}
}

// RealValue returns v as float64.
func RealValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// intEqual compares two integer values, including unsigned values that do
// not fit int64.
func intEqual(a, b any) bool {
	an, aover, _ := IntValue(a)
	bn, bover, _ := IntValue(b)
	if aover || bover {
		if !(aover && bover) {
			return false
		}
		return toUint64(a) == toUint64(b)
	}
	return an == bn
}

func toUint64(v any) uint64 {
	switch x := v.(type) {
	case uint:
		return uint64(x)
	case uint64:
		return x
	default:
		return 0
	}
}
