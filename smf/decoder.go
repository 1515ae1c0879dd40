package smf

import (
	"sort"

	"github.com/PeterBaptista/piano-midi/model"
	"github.com/pkg/errors"
)

// defaultTempo is the MIDI specification default of 500000 µs per quarter
// note (120 BPM), in effect until the first set-tempo meta event.
const defaultTempo = 500000

// MIDI channel voice commands (high nibble of the status byte).
const (
	cmdNoteOff         = 0x80
	cmdNoteOn          = 0x90
	cmdAftertouch      = 0xA0
	cmdControlChange   = 0xB0
	cmdProgramChange   = 0xC0
	cmdChannelPressure = 0xD0
	cmdPitchBend       = 0xE0
)

const metaSetTempo = 0x51

// openNote is a Note-On waiting for its matching Note-Off.
type openNote struct {
	start    float64
	velocity uint8
	channel  uint8
}

// Decode parses a Standard MIDI File into a flat, start-time-sorted note list
// with tempo metadata. No partial results: any structural error aborts the
// whole decode.
func Decode(data []byte) (model.DecodedFile, error) {
	var out model.DecodedFile

	r := newReader(data)

	tag, err := r.readString(4)
	if err != nil {
		return out, err
	}
	if tag != "MThd" {
		return out, errors.Wrapf(ErrInvalidFormat, "expected MThd chunk, got %q", tag)
	}

	headerLen, err := r.readUint32()
	if err != nil {
		return out, err
	}
	if headerLen < 6 {
		return out, errors.Wrapf(ErrMalformedFile, "header length %v is shorter than 6", headerLen)
	}

	// Format (0/1/2) is informational only.
	if _, err := r.readUint16(); err != nil {
		return out, err
	}
	trackCount, err := r.readUint16()
	if err != nil {
		return out, err
	}
	division, err := r.readUint16()
	if err != nil {
		return out, err
	}
	if division&0x8000 != 0 {
		return out, errors.Wrap(ErrInvalidFormat, "SMPTE division is not supported")
	}
	if division == 0 {
		return out, errors.Wrap(ErrMalformedFile, "division of zero ticks per quarter note")
	}
	if err := r.skip(int(headerLen) - 6); err != nil {
		return out, err
	}

	var notes []model.Note
	var tempi []model.TempoChange
	for i := 0; i < int(trackCount); i++ {
		trackNotes, trackTempi, err := decodeTrack(r, division)
		if err != nil {
			return out, err
		}
		notes = append(notes, trackNotes...)
		tempi = append(tempi, trackTempi...)
	}

	return buildResult(notes, tempi), nil
}

// decodeTrack parses a single MTrk chunk. Tick-to-second conversion is a
// running accumulation: each delta is converted with the tempo in effect at
// that point in the track, and a set-tempo event only affects events after it.
// Tempo state is local to the track.
func decodeTrack(r *reader, ticksPerQuarter uint16) ([]model.Note, []model.TempoChange, error) {
	tag, err := r.readString(4)
	if err != nil {
		return nil, nil, err
	}
	if tag != "MTrk" {
		return nil, nil, errors.Wrapf(ErrInvalidFormat, "expected MTrk chunk, got %q", tag)
	}

	length, err := r.readUint32()
	if err != nil {
		return nil, nil, err
	}
	trackEnd := r.pos + int(length)
	if trackEnd > len(r.buf) {
		return nil, nil, errors.Wrapf(ErrMalformedFile, "track length %v passes end of buffer", length)
	}

	var notes []model.Note
	var tempi []model.TempoChange

	tempo := defaultTempo
	secondsPerTick := func() float64 {
		return float64(tempo) / 1e6 / float64(ticksPerQuarter)
	}

	var now float64
	var running byte
	open := make(map[uint8]openNote)

	closeNote := func(pitch uint8) {
		o, ok := open[pitch]
		if !ok {
			// Note-Off with no matching Note-On: silently dropped.
			return
		}
		delete(open, pitch)
		notes = append(notes, model.Note{
			Pitch:     pitch,
			StartTime: o.start,
			Duration:  now - o.start,
			Velocity:  o.velocity,
			Channel:   o.channel,
		})
	}

	for r.pos < trackEnd {
		delta, _, err := r.readVarLen()
		if err != nil {
			return nil, nil, err
		}
		now += float64(delta) * secondsPerTick()

		status, err := r.readByte()
		if err != nil {
			return nil, nil, err
		}
		if status&0x80 == 0 {
			// Running status: this byte is already the first data byte of an
			// event reusing the previous status.
			if running == 0 {
				return nil, nil, errors.Wrapf(ErrMalformedFile, "data byte 0x%02X with no running status", status)
			}
			r.unread()
			status = running
		}

		switch {
		case status == 0xFF:
			running = 0
			metaType, err := r.readByte()
			if err != nil {
				return nil, nil, err
			}
			metaLen, _, err := r.readVarLen()
			if err != nil {
				return nil, nil, err
			}
			payload, err := r.readBytes(int(metaLen))
			if err != nil {
				return nil, nil, err
			}
			if metaType == metaSetTempo && metaLen == 3 {
				// The event's own time was converted with the old tempo; the
				// new tempo applies from here on.
				micros := int(payload[0])<<16 | int(payload[1])<<8 | int(payload[2])
				if micros > 0 {
					tempi = append(tempi, model.TempoChange{Time: now, BPM: 60e6 / float64(micros)})
					tempo = micros
				}
			}
			// Every other meta type is consumed and ignored.

		case status == 0xF0 || status == 0xF7:
			running = 0
			sysexLen, _, err := r.readVarLen()
			if err != nil {
				return nil, nil, err
			}
			if err := r.skip(int(sysexLen)); err != nil {
				return nil, nil, err
			}

		default:
			running = status
			command := status & 0xF0
			channel := status & 0x0F
			switch command {
			case cmdNoteOn:
				data, err := r.readBytes(2)
				if err != nil {
					return nil, nil, err
				}
				pitch, velocity := data[0], data[1]
				if velocity == 0 {
					// Zero-velocity Note-On is a Note-Off.
					closeNote(pitch)
					break
				}
				// A second Note-On for an already-open pitch closes the
				// previous note at this event's time.
				closeNote(pitch)
				open[pitch] = openNote{start: now, velocity: velocity, channel: channel}
			case cmdNoteOff:
				// Release velocity is ignored.
				data, err := r.readBytes(2)
				if err != nil {
					return nil, nil, err
				}
				closeNote(data[0])
			case cmdAftertouch, cmdControlChange, cmdPitchBend:
				if err := r.skip(2); err != nil {
					return nil, nil, err
				}
			case cmdProgramChange, cmdChannelPressure:
				if err := r.skip(1); err != nil {
					return nil, nil, err
				}
			default:
				return nil, nil, errors.Wrapf(ErrMalformedFile, "unrecognized status byte 0x%02X", status)
			}
		}
	}

	if r.pos != trackEnd {
		return nil, nil, errors.Wrapf(ErrMalformedFile, "track data overruns declared length %v", length)
	}

	// Notes still open at track end never got a Note-Off; they are dropped.
	return notes, tempi, nil
}

// buildResult sorts notes by start time (stable, preserving per-track emission
// order on ties) and computes the total duration.
func buildResult(notes []model.Note, tempi []model.TempoChange) model.DecodedFile {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].StartTime < notes[j].StartTime
	})
	sort.SliceStable(tempi, func(i, j int) bool {
		return tempi[i].Time < tempi[j].Time
	})

	var duration float64
	for _, n := range notes {
		if end := n.End(); end > duration {
			duration = end
		}
	}

	return model.DecodedFile{Notes: notes, Duration: duration, TempoChanges: tempi}
}
