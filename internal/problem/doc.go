// Package problem checks values against a problem's declared signature.
//
// Ownership boundary:
// - parameter / return declarations (type name + dimension)
// - per-field validation errors
// - answer verdicts
//
// Type semantics live in iodata; this package only names fields and decides
// verdicts.
package problem
