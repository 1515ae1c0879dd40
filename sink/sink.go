// Package sink defines the note output contract the player drives, plus the
// concrete sinks: a MIDI out port, a SoundFont synthesizer, and an in-memory
// recorder for tests and dry runs.
package sink

// Sink receives fire-and-forget note instructions from the player. A sink is
// never asked to confirm or retry anything.
type Sink interface {
	// Start begins sounding a pitch. If duration is positive the sink
	// schedules its own stop at that offset.
	Start(pitch, velocity uint8, duration float64)

	// Stop begins the release of a sounding pitch. Idempotent if the pitch
	// is not sounding.
	Stop(pitch uint8)

	// StopAll silences every sounding voice.
	StopAll()

	// SetVolume sets the output level, 0..1.
	SetVolume(level float64)
}
