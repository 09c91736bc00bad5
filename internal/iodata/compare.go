package iodata

import (
	"fmt"
	"math"
)

const nearZero = 1e-10

// CheckPrecision reports whether b is within precision of a, either
// absolutely or relative to a. When |a| is near zero only the absolute
// difference counts.
func CheckPrecision(a, b, precision float64) (bool, error) {
	if !(precision > 0) {
		return false, fmt.Errorf("%w: %g", ErrInvalidPrecision, precision)
	}
	if a == b {
		return true, nil
	}
	diff := math.Abs(a - b)
	if math.Abs(a) <= nearZero {
		return diff <= precision, nil
	}
	return diff <= precision || math.Abs((a-b)/a) <= precision, nil
}

// CompareAnswers reports whether every answer equals the first one. Sequences
// compare element-wise and a shape mismatch is false. Integers, booleans and
// text compare exactly; reals use CheckPrecision. Scalars of different kinds
// are ErrTypeMismatch and kinds with no comparison rule are
// ErrUnsupportedType.
func CompareAnswers(precision float64, answers ...any) (bool, error) {
	if len(answers) < 2 {
		return false, fmt.Errorf("%w: got %d", ErrTooFewAnswers, len(answers))
	}
	return compareAnswers(precision, answers)
}

func compareAnswers(precision float64, answers []any) (bool, error) {
	if first, ok := answers[0].([]any); ok {
		for _, a := range answers[1:] {
			seq, ok := a.([]any)
			if !ok || len(seq) != len(first) {
				return false, nil
			}
		}
		column := make([]any, len(answers))
		for i := range first {
			for j, a := range answers {
				column[j] = a.([]any)[i]
			}
			ok, err := compareAnswers(precision, column)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}

	kind := KindOf(answers[0])
	switch kind {
	case KindInt, KindBool, KindText, KindReal:
	default:
		return false, fmt.Errorf("%w: cannot compare %s answers", ErrUnsupportedType, kind)
	}
	for i, a := range answers[1:] {
		if k := KindOf(a); k != kind {
			return false, fmt.Errorf("%w: answer %d is %s, want %s", ErrTypeMismatch, i+1, k, kind)
		}
	}

	for _, a := range answers[1:] {
		var equal bool
		switch kind {
		case KindInt:
			equal = intEqual(answers[0], a)
		case KindBool:
			equal = answers[0].(bool) == a.(bool)
		case KindText:
			equal = answers[0].(string) == a.(string)
		case KindReal:
			x, _ := RealValue(answers[0])
			y, _ := RealValue(a)
			var err error
			if equal, err = CheckPrecision(x, y, precision); err != nil {
				return false, err
			}
		}
		if !equal {
			return false, nil
		}
	}
	return true, nil
}
