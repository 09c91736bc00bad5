// Package iodata owns the I/O value type system.
//
// Ownership boundary:
// - native kind classification
// - primitive type registry (names, aliases, constraints, strize)
// - (type, dimension) validation and inference
// - answer comparison with float tolerance
//
// Values are plain Go values. Sequences are []any, mappings are *Map and
// sets are Set. Registry declaration order is part of the contract: it breaks
// ties during inference (an int literal matches both "int" and "long long",
// and "int" wins).
package iodata
