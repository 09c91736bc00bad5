package iodata

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

type guessConfig struct {
	dimension   int
	fixed       bool
	constraints bool
}

// GuessOption narrows or tightens GuessDataType.
type GuessOption func(*guessConfig)

// WithDimension restricts the search to a single dimension.
func WithDimension(dim int) GuessOption {
	return func(c *guessConfig) {
		c.dimension = dim
		c.fixed = true
	}
}

// WithConstraints also requires the value to satisfy the type's range
// constraint.
func WithConstraints() GuessOption {
	return func(c *guessConfig) {
		c.constraints = true
	}
}

// GuessDataType returns the first (type, dimension) that fits v. Dimensions
// are tried in increasing order and, within a dimension, types in registry
// declaration order. There is no fallback: an exhausted search is
// ErrDataValidation.
func (r *Registry) GuessDataType(v any, opts ...GuessOption) (string, int, error) {
	var cfg guessConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	lo, hi := 0, r.maxDim
	if cfg.fixed {
		if err := r.checkDimension(cfg.dimension); err != nil {
			return "", 0, err
		}
		lo, hi = cfg.dimension, cfg.dimension
	}

	for dim := lo; dim <= hi; dim++ {
		for _, d := range r.types {
			if !CheckKinds(v, d.Accepts, dim) {
				continue
			}
			if cfg.constraints {
				if ok, err := r.compatible(v, d); err != nil || !ok {
					continue
				}
			}
			log.Debug().Str("type", d.Name).Int("dimension", dim).Bool("constraints", cfg.constraints).Msg("iodata guessed data type")
			return d.Name, dim, nil
		}
	}
	return "", 0, fmt.Errorf("%w: %s value searched dimensions %d..%d", ErrDataValidation, KindOf(v), lo, hi)
}
