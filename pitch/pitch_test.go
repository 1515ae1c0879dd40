package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequency(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(440.0, Frequency(69), 1e-9)
	assert.InDelta(880.0, Frequency(81), 1e-9)
	assert.InDelta(261.626, Frequency(60), 0.001)
	assert.InDelta(8.176, Frequency(0), 0.001)
}

func TestName(t *testing.T) {
	cases := map[uint8]string{
		0:   "C-1",
		21:  "A0",
		60:  "C4",
		61:  "C#4",
		69:  "A4",
		127: "G9",
	}

	assert := assert.New(t)
	for pitch, want := range cases {
		assert.Equal(want, Name(pitch))
	}
}

func TestBlackAndWhiteKeys(t *testing.T) {
	assert := assert.New(t)

	// one octave from middle C
	black := []uint8{61, 63, 66, 68, 70}
	white := []uint8{60, 62, 64, 65, 67, 69, 71, 72}

	for _, p := range black {
		assert.True(IsBlackKey(p), "pitch %v", p)
		assert.False(IsWhiteKey(p), "pitch %v", p)
	}
	for _, p := range white {
		assert.True(IsWhiteKey(p), "pitch %v", p)
	}
}
