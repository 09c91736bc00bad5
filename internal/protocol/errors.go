package protocol

import "errors"

var (
	ErrTypeMismatch    = errors.New("protocol: type mismatch")
	ErrInvalidLength   = errors.New("protocol: invalid length")
	ErrUnsupportedType = errors.New("protocol: unsupported type")
	ErrTruncated       = errors.New("protocol: stream ended inside a value")
	ErrTrailingData    = errors.New("protocol: unexpected trailing data")
	ErrDepthExceeded   = errors.New("protocol: nesting depth exceeded")
	ErrUnhashable      = errors.New("protocol: unhashable key or member")
)
