package model

// Note is a closed note interval produced by the decoder. Times are in
// seconds, already converted from ticks with the tempo active at decode time.
type Note struct {
	Pitch     uint8   `json:"pitch"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
	Velocity  uint8   `json:"velocity"`
	Channel   uint8   `json:"channel"`
}

// End returns the time the note stops sounding.
func (n Note) End() float64 {
	return n.StartTime + n.Duration
}

// TempoChange records a set-tempo meta event. Not deduplicated; a file may
// declare the same tempo twice.
type TempoChange struct {
	Time float64 `json:"time"`
	BPM  float64 `json:"bpm"`
}

// DecodedFile is the full result of decoding one SMF.
type DecodedFile struct {
	Notes        []Note        `json:"notes"`
	Duration     float64       `json:"duration"`
	TempoChanges []TempoChange `json:"tempo_changes"`
}
