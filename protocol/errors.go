// Package protocol implements the two on-wire codecs a Session can speak:
// the CSV line protocol and the binary length-prefixed frame protocol. Both
// translate between raw bytes and the domain package's Request/Event
// values; neither knows anything about sockets, sessions, or the engine.
package protocol

import "errors"

// Sentinel protocol errors, returned wrapped and distinguishable with
// errors.Is. The Session closes on any decode error, these included
// (spec.md §7); none of them ever reaches the Engine.
var (
	// ErrMalformed covers an empty line/frame, a non-numeric value where
	// a number is required, or an invalid side.
	ErrMalformed = errors.New("protocol: malformed message")

	// ErrUnknownTag covers a tag byte/letter outside the set defined by
	// spec.md §6.
	ErrUnknownTag = errors.New("protocol: unknown tag")

	// ErrFieldCount covers a CSV line with the right tag but the wrong
	// number of comma-separated fields following it, or a binary frame
	// whose body length does not match its tag's fixed layout.
	ErrFieldCount = errors.New("protocol: wrong field count")
)
