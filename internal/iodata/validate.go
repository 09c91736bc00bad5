package iodata

import "fmt"

// CheckDataType reports whether v is a dim-deep nesting of sequences whose
// leaves have one of typeName's native kinds. Range constraints are not
// applied. An error is returned only for an unknown type or an out-of-range
// dimension; a mismatched value is simply false.
func (r *Registry) CheckDataType(v any, typeName string, dim int) (bool, error) {
	d, err := r.lookup(typeName)
	if err != nil {
		return false, err
	}
	if err := r.checkDimension(dim); err != nil {
		return false, err
	}
	return CheckKinds(v, d.Accepts, dim), nil
}

// CheckKinds is CheckDataType over an already-resolved kind set.
func CheckKinds(v any, accepts []Kind, dim int) bool {
	if dim == 0 {
		k := KindOf(v)
		for _, a := range accepts {
			if a == k {
				return true
			}
		}
		return false
	}
	seq, ok := v.([]any)
	if !ok {
		return false
	}
	for _, elem := range seq {
		if !CheckKinds(elem, accepts, dim-1) {
			return false
		}
	}
	return true
}

// CheckDataCompatibility recurses through sequences and applies typeName's
// constraint to every leaf. A leaf whose kind the type does not accept is
// ErrTypeMismatch.
func (r *Registry) CheckDataCompatibility(v any, typeName string) (bool, error) {
	d, err := r.lookup(typeName)
	if err != nil {
		return false, err
	}
	return r.compatible(v, d)
}

func (r *Registry) compatible(v any, d TypeDescriptor) (bool, error) {
	if seq, ok := v.([]any); ok {
		for _, elem := range seq {
			ok, err := r.compatible(elem, d)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	if k := KindOf(v); !d.AcceptsKind(k) {
		return false, fmt.Errorf("%w: %s value cannot be %q", ErrTypeMismatch, k, d.Name)
	}
	return r.SatisfiesConstraint(d, v), nil
}

func (r *Registry) checkDimension(dim int) error {
	if dim < 0 || dim > r.maxDim {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidDimension, dim, r.maxDim)
	}
	return nil
}
