package iodata

import "errors"

var (
	ErrUnknownType       = errors.New("iodata: unknown type")
	ErrTypeMismatch      = errors.New("iodata: type mismatch")
	ErrUnsupportedType   = errors.New("iodata: unsupported type")
	ErrDataValidation    = errors.New("iodata: no (type, dimension) could validate data")
	ErrInvalidDimension  = errors.New("iodata: invalid dimension")
	ErrInvalidPrecision  = errors.New("iodata: non-positive precision")
	ErrTooFewAnswers     = errors.New("iodata: at least two answers are required")
	ErrInvalidDescriptor = errors.New("iodata: invalid type descriptor")
)
