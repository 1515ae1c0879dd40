// Package pitch holds pure helpers for MIDI pitch numbers (0..127).
package pitch

import (
	"math"
	"strconv"
)

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Octave offsets of the five black keys.
var blackKeys = map[int]bool{1: true, 3: true, 6: true, 8: true, 10: true}

// Frequency returns the equal-temperament frequency in Hz, with A4 (69) at
// 440 Hz.
func Frequency(pitch uint8) float64 {
	return 440 * math.Pow(2, (float64(pitch)-69)/12)
}

// Name returns the human-readable note name, e.g. 60 -> "C4", 69 -> "A4".
func Name(pitch uint8) string {
	octave := int(pitch)/12 - 1
	return names[int(pitch)%12] + strconv.Itoa(octave)
}

// IsBlackKey reports whether the pitch lands on a black piano key.
func IsBlackKey(pitch uint8) bool {
	return blackKeys[int(pitch)%12]
}

// IsWhiteKey reports whether the pitch lands on a white piano key.
func IsWhiteKey(pitch uint8) bool {
	return !IsBlackKey(pitch)
}
