package smf

import (
	"github.com/pkg/errors"
)

// reader is a cursor over a fixed in-memory buffer. All multi-byte reads are
// big-endian, per the SMF format. Every read that would pass the end of the
// buffer fails with ErrMalformedFile.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, errors.Wrapf(ErrMalformedFile, "read of %v bytes at offset %v passes end of buffer", n, r.pos)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// readString reads n bytes as ASCII. Used for the 4-byte chunk tags.
func (r *reader) readString(n int) (string, error) {
	b, err := r.readBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) readByte() (byte, error) {
	b, err := r.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readUint16() (uint16, error) {
	b, err := r.readBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// readVarLen decodes a MIDI variable-length quantity: 7 bits per byte,
// big-endian, continuation flagged by the high bit. Returns the value and the
// number of bytes consumed. A quantity whose continuation bits run past the
// end of the buffer fails with ErrMalformedFile.
func (r *reader) readVarLen() (uint32, int, error) {
	var value uint32
	var consumed int
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, consumed, errors.Wrap(ErrMalformedFile, "unterminated variable-length quantity")
		}
		consumed++
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, consumed, nil
		}
	}
}

func (r *reader) skip(n int) error {
	_, err := r.readBytes(n)
	return err
}

// unread rewinds the cursor one byte. Used when a running-status data byte
// was read as a status candidate.
func (r *reader) unread() {
	r.pos--
}
