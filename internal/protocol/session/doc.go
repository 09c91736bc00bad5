// Package session moves whole values between cooperating processes.
//
// Ownership boundary:
// - one value per frame envelope
// - message id sequencing
// - trailing-data detection on receive
//
// A payload is the tlv record stream of exactly one encoded value. Receive
// decodes with checkEnd, so extra records in a payload are a framing error.
package session
