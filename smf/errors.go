package smf

import "errors"

// Decode failures fall into exactly two buckets. Neither is recoverable: a
// corrupt file yields no notes rather than a truncated note list.
var (
	// ErrInvalidFormat means a chunk tag was not what the format requires
	// ("MThd" at the header, "MTrk" at each track) or the division mode is
	// unsupported.
	ErrInvalidFormat = errors.New("invalid midi format")

	// ErrMalformedFile means a read ran past the end of the buffer, a track
	// overran its declared length, or an unrecognized status byte appeared.
	ErrMalformedFile = errors.New("malformed midi file")
)
