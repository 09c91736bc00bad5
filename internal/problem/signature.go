package problem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/azadio/internal/iodata"
	"github.com/danmuck/azadio/internal/observability"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidSignature = errors.New("problem: invalid signature")
	ErrValidation       = errors.New("problem: validation failed")
)

// ReturnField is the field name used for return value failures.
const ReturnField = "return"

// Param declares one value: a registry type name and a nesting depth.
type Param struct {
	Name      string
	Type      string
	Dimension int
}

func (p Param) String() string {
	if p.Name == "" {
		return fmt.Sprintf("%s/%d", p.Type, p.Dimension)
	}
	return fmt.Sprintf("%s %s/%d", p.Name, p.Type, p.Dimension)
}

// Signature is the declared shape of a problem's input and output.
type Signature struct {
	Parameters []Param
	Return     Param
}

// ValidationError names the field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("problem: %s", e.Reason)
	}
	return fmt.Sprintf("problem: field=%s: %s", e.Field, e.Reason)
}

func (e ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// Validate checks that every declared type resolves, every dimension is in
// range and parameter names are unique and non-empty.
func (s Signature) Validate(reg *iodata.Registry) error {
	seen := make(map[string]struct{}, len(s.Parameters))
	for i, p := range s.Parameters {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("%w: parameter[%d] missing name", ErrInvalidSignature, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidSignature, name)
		}
		seen[name] = struct{}{}
		if err := checkParam(reg, p); err != nil {
			return fmt.Errorf("%w: parameter %q: %w", ErrInvalidSignature, name, err)
		}
	}
	if err := checkParam(reg, s.Return); err != nil {
		return fmt.Errorf("%w: return: %w", ErrInvalidSignature, err)
	}
	return nil
}

func checkParam(reg *iodata.Registry, p Param) error {
	if _, err := reg.Canonical(p.Type); err != nil {
		return err
	}
	if p.Dimension < 0 || p.Dimension > reg.MaxDimension() {
		return fmt.Errorf("%w: %d not in [0, %d]", iodata.ErrInvalidDimension, p.Dimension, reg.MaxDimension())
	}
	return nil
}

// ValidateParameters checks values positionally against the declared
// parameters: count first, then shape, then range constraints.
func (s Signature) ValidateParameters(reg *iodata.Registry, values []any) error {
	if len(values) != len(s.Parameters) {
		err := ValidationError{Reason: fmt.Sprintf("got %d values for %d parameters", len(values), len(s.Parameters))}
		observability.RecordValidationFailure("count")
		return err
	}
	for i, p := range s.Parameters {
		if err := validateValue(reg, p.Name, p, values[i]); err != nil {
			return err
		}
	}
	log.Debug().Int("parameters", len(values)).Msg("problem parameters valid")
	return nil
}

// ValidateNamed is ValidateParameters over a mapping keyed by parameter name,
// as decoded from a parameters message. Extra keys are rejected.
func (s Signature) ValidateNamed(reg *iodata.Registry, values *iodata.Map) error {
	if values == nil {
		values = iodata.NewMap()
	}
	ordered := make([]any, 0, len(s.Parameters))
	for _, p := range s.Parameters {
		v, ok := values.Get(p.Name)
		if !ok {
			observability.RecordValidationFailure("missing")
			return ValidationError{Field: p.Name, Reason: "missing parameter"}
		}
		ordered = append(ordered, v)
	}
	if values.Len() != len(s.Parameters) {
		for pair := values.Oldest(); pair != nil; pair = pair.Next() {
			name, _ := pair.Key.(string)
			if !s.hasParam(name) {
				observability.RecordValidationFailure("unknown")
				return ValidationError{Field: fmt.Sprint(pair.Key), Reason: "unknown parameter"}
			}
		}
	}
	return s.ValidateParameters(reg, ordered)
}

func (s Signature) hasParam(name string) bool {
	for _, p := range s.Parameters {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ValidateReturn checks a produced answer against the declared return.
func (s Signature) ValidateReturn(reg *iodata.Registry, value any) error {
	return validateValue(reg, ReturnField, s.Return, value)
}

func validateValue(reg *iodata.Registry, field string, p Param, v any) error {
	ok, err := reg.CheckDataType(v, p.Type, p.Dimension)
	if err != nil {
		observability.RecordValidationFailure("declaration")
		return ValidationError{Field: field, Reason: "bad declaration " + p.String(), Err: err}
	}
	if !ok {
		observability.RecordValidationFailure("shape")
		return ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("want %s, got %s", p, iodata.KindOf(v)),
			Err:    iodata.ErrTypeMismatch,
		}
	}
	ok, err = reg.CheckDataCompatibility(v, p.Type)
	if err != nil || !ok {
		observability.RecordValidationFailure("constraint")
		return ValidationError{Field: field, Reason: "value out of range for " + p.Type, Err: iodata.ErrDataValidation}
	}
	return nil
}

// ClassifyParameters infers a declaration for each sample value, in order.
// Inferred params are named p0, p1 and so on.
func ClassifyParameters(reg *iodata.Registry, values []any, opts ...iodata.GuessOption) ([]Param, error) {
	out := make([]Param, 0, len(values))
	for i, v := range values {
		typeName, dim, err := reg.GuessDataType(v, opts...)
		if err != nil {
			return nil, ValidationError{Field: fmt.Sprintf("p%d", i), Reason: "no type fits", Err: err}
		}
		out = append(out, Param{Name: fmt.Sprintf("p%d", i), Type: typeName, Dimension: dim})
	}
	return out, nil
}
