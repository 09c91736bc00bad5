// Package protocol owns the Primitive Data Protocol.
//
// Ownership boundary:
// - frame/item primitives
// - lazy value encoding into a flat item stream
// - single-pass value decoding from a Source
//
// A composite value is a Frame (kind, child count, optional identifier)
// followed by its children. Mapping children alternate key, value. Text and
// byte frames are followed by bare units. Scalars travel as bare literals.
// There is no whole-message length: Decode consumes exactly the items Encode
// produced, in the same order, with no lookahead.
//
// Byte layout is owned by protocol/tlv; message envelopes by protocol/frame.
package protocol
