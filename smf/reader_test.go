package smf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadsBigEndianValues(t *testing.T) {
	r := newReader([]byte{'M', 'T', 'h', 'd', 0x00, 0x00, 0x00, 0x06, 0x01, 0xE0})

	assert := assert.New(t)

	tag, err := r.readString(4)
	assert.NoError(err)
	assert.Equal("MThd", tag)

	u32, err := r.readUint32()
	assert.NoError(err)
	assert.Equal(uint32(6), u32)

	u16, err := r.readUint16()
	assert.NoError(err)
	assert.Equal(uint16(480), u16)
}

func TestReadPastEndIsMalformed(t *testing.T) {
	assert := assert.New(t)

	r := newReader([]byte{0x01, 0x02})
	_, err := r.readUint32()
	assert.ErrorIs(err, ErrMalformedFile)

	r = newReader([]byte{'M', 'T'})
	_, err = r.readString(4)
	assert.ErrorIs(err, ErrMalformedFile)
}

func TestReadVarLen(t *testing.T) {
	cases := []struct {
		bytes    []byte
		value    uint32
		consumed int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x40}, 0x40, 1},
		{[]byte{0x7F}, 0x7F, 1},
		{[]byte{0x81, 0x00}, 0x80, 2},
		{[]byte{0xC0, 0x00}, 0x2000, 2},
		{[]byte{0xFF, 0x7F}, 0x3FFF, 2},
		{[]byte{0x81, 0x80, 0x00}, 0x4000, 3},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0x0FFFFFFF, 4},
	}

	assert := assert.New(t)
	for _, c := range cases {
		r := newReader(c.bytes)
		value, consumed, err := r.readVarLen()
		assert.NoError(err)
		assert.Equal(c.value, value)
		assert.Equal(c.consumed, consumed)
	}
}

func TestUnterminatedVarLenIsMalformed(t *testing.T) {
	r := newReader([]byte{0x81, 0x80, 0x80})
	_, _, err := r.readVarLen()
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestUnreadRewindsOneByte(t *testing.T) {
	r := newReader([]byte{0x40, 0x50})

	assert := assert.New(t)

	b, err := r.readByte()
	assert.NoError(err)
	assert.Equal(byte(0x40), b)

	r.unread()
	b, err = r.readByte()
	assert.NoError(err)
	assert.Equal(byte(0x40), b)
}
