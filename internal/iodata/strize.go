package iodata

import (
	"fmt"
	"strings"
)

// Strize renders v in the canonical text form consumed by code generation.
// Sequences become bracketed, comma-joined lists of their elements.
func (r *Registry) Strize(v any, typeName string) (string, error) {
	d, err := r.lookup(typeName)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := r.strize(&b, v, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Registry) strize(b *strings.Builder, v any, d TypeDescriptor) error {
	if seq, ok := v.([]any); ok {
		b.WriteByte('[')
		for i, elem := range seq {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := r.strize(b, elem, d); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	}
	if !r.Accepts(d, v) {
		return fmt.Errorf("%w: %s value cannot be strized as %q", ErrTypeMismatch, KindOf(v), d.Name)
	}
	b.WriteString(r.Format(d, v))
	return nil
}
