package iodata

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultMaxDimension bounds sequence nesting for validation and inference.
const DefaultMaxDimension = 4

// TypeDescriptor describes one primitive I/O type.
type TypeDescriptor struct {
	Name       string
	Accepts    []Kind
	Constraint func(v any) bool
	Strize     func(v any) string
}

// AcceptsKind reports whether k is one of the descriptor's native kinds.
func (d TypeDescriptor) AcceptsKind(k Kind) bool {
	return slices.Contains(d.Accepts, k)
}

// Options tunes registry construction.
type Options struct {
	MaxDimension int
}

// DefaultOptions returns the built-in registry options.
func DefaultOptions() Options {
	return Options{MaxDimension: DefaultMaxDimension}
}

// Registry is an immutable, ordered catalog of primitive types.
// It is safe for concurrent use.
type Registry struct {
	types  []TypeDescriptor
	index  map[string]int
	names  []string
	maxDim int
}

// NewRegistry validates entries and aliases and builds a registry. Entry order
// is preserved and used as the inference tie-break.
func NewRegistry(entries []TypeDescriptor, aliases map[string]string, opts Options) (*Registry, error) {
	if opts.MaxDimension < 0 {
		return nil, fmt.Errorf("%w: negative max dimension %d", ErrInvalidDescriptor, opts.MaxDimension)
	}
	r := &Registry{
		types:  make([]TypeDescriptor, 0, len(entries)),
		index:  make(map[string]int, len(entries)+len(aliases)),
		maxDim: opts.MaxDimension,
	}
	for i, d := range entries {
		if err := validateDescriptor(d); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, dup := r.index[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate type name %q", ErrInvalidDescriptor, d.Name)
		}
		d.Accepts = slices.Clone(d.Accepts)
		r.index[d.Name] = len(r.types)
		r.types = append(r.types, d)
		r.names = append(r.names, d.Name)
	}

	aliasNames := make([]string, 0, len(aliases))
	for alias := range aliases {
		aliasNames = append(aliasNames, alias)
	}
	slices.Sort(aliasNames)
	for _, alias := range aliasNames {
		target := aliases[alias]
		if strings.TrimSpace(alias) == "" {
			return nil, fmt.Errorf("%w: empty alias for %q", ErrInvalidDescriptor, target)
		}
		if _, dup := r.index[alias]; dup {
			return nil, fmt.Errorf("%w: alias %q collides with a registered name", ErrInvalidDescriptor, alias)
		}
		pos, ok := r.index[target]
		if !ok || r.types[pos].Name != target {
			return nil, fmt.Errorf("%w: alias %q targets unknown type %q", ErrInvalidDescriptor, alias, target)
		}
		r.index[alias] = pos
		r.names = append(r.names, alias)
	}
	log.Debug().Int("types", len(r.types)).Int("aliases", len(aliases)).Int("max_dimension", r.maxDim).Msg("iodata registry built")
	return r, nil
}

// MustRegistry is NewRegistry for startup wiring; it panics on misconfiguration.
func MustRegistry(entries []TypeDescriptor, aliases map[string]string, opts Options) *Registry {
	r, err := NewRegistry(entries, aliases, opts)
	if err != nil {
		panic(err)
	}
	return r
}

func validateDescriptor(d TypeDescriptor) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
	case len(d.Accepts) == 0:
		return fmt.Errorf("%w: %q accepts no kinds", ErrInvalidDescriptor, d.Name)
	case d.Constraint == nil:
		return fmt.Errorf("%w: %q has no constraint", ErrInvalidDescriptor, d.Name)
	case d.Strize == nil:
		return fmt.Errorf("%w: %q has no strize", ErrInvalidDescriptor, d.Name)
	}
	for _, k := range d.Accepts {
		if k == KindUnsupported || int(k) >= len(kindNames) {
			return fmt.Errorf("%w: %q accepts invalid kind %d", ErrInvalidDescriptor, d.Name, k)
		}
	}
	return nil
}

// Lookup resolves a name or alias to its canonical descriptor.
func (r *Registry) Lookup(name string) (TypeDescriptor, error) {
	d, err := r.lookup(name)
	if err != nil {
		return TypeDescriptor{}, err
	}
	d.Accepts = slices.Clone(d.Accepts)
	return d, nil
}

// lookup shares the registry's Accepts slice; callers must not modify it.
func (r *Registry) lookup(name string) (TypeDescriptor, error) {
	pos, ok := r.index[name]
	if !ok {
		return TypeDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return r.types[pos], nil
}

// Canonical returns the canonical name for name.
func (r *Registry) Canonical(name string) (string, error) {
	d, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	return d.Name, nil
}

// Accepts reports a native-kind match only; range constraints are ignored.
func (r *Registry) Accepts(d TypeDescriptor, v any) bool {
	return d.AcceptsKind(KindOf(v))
}

// SatisfiesConstraint applies the descriptor constraint. Callers check
// Accepts first.
func (r *Registry) SatisfiesConstraint(d TypeDescriptor, v any) bool {
	if d.Constraint == nil {
		return true
	}
	return d.Constraint(v)
}

// Format renders a scalar with the descriptor strize function.
func (r *Registry) Format(d TypeDescriptor, v any) string {
	return d.Strize(v)
}

// Types returns canonical descriptors in declaration order.
func (r *Registry) Types() []TypeDescriptor {
	out := slices.Clone(r.types)
	for i := range out {
		out[i].Accepts = slices.Clone(out[i].Accepts)
	}
	return out
}

// Names returns canonical names in declaration order followed by aliases.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// MaxDimension is the deepest sequence nesting validation will consider.
func (r *Registry) MaxDimension() int {
	return r.maxDim
}
