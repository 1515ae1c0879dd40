package sink

import (
	"sync"
	"time"

	"github.com/PeterBaptista/piano-midi/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const volumeController = 7

// MidiPort is a Sink that forwards note instructions to a MIDI output port.
// The rtmididrv driver must be registered by the importing command.
type MidiPort struct {
	mu       sync.Mutex
	send     func(midi.Message) error
	channel  uint8
	sounding map[uint8]*time.Timer
}

// OpenMidiPort opens the MIDI out port with the given number.
func OpenMidiPort(portNum int, channel uint8) (*MidiPort, error) {
	out, err := midi.OutPort(portNum)
	if err != nil {
		return nil, err
	}
	return newMidiPort(out, channel)
}

// FindMidiPort opens the first MIDI out port whose name contains the given
// string.
func FindMidiPort(name string, channel uint8) (*MidiPort, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		return nil, err
	}
	return newMidiPort(out, channel)
}

func newMidiPort(out drivers.Out, channel uint8) (*MidiPort, error) {
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, err
	}
	return &MidiPort{
		send:     send,
		channel:  channel,
		sounding: make(map[uint8]*time.Timer),
	}, nil
}

func (m *MidiPort) Start(pitch, velocity uint8, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked(pitch)
	// send errors are dropped: instructions are fire-and-forget
	m.send(midi.NoteOn(m.channel, pitch, velocity))
	if duration > 0 {
		m.sounding[pitch] = time.AfterFunc(
			time.Duration(duration*float64(time.Second)),
			func() { m.Stop(pitch) },
		)
	} else {
		m.sounding[pitch] = nil
	}
}

func (m *MidiPort) Stop(pitch uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked(pitch)
}

func (m *MidiPort) stopLocked(pitch uint8) {
	timer, ok := m.sounding[pitch]
	if !ok {
		return
	}
	if timer != nil {
		timer.Stop()
	}
	delete(m.sounding, pitch)
	m.send(midi.NoteOff(m.channel, pitch))
}

func (m *MidiPort) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pitch := range m.sounding {
		m.stopLocked(pitch)
	}
}

func (m *MidiPort) SetVolume(level float64) {
	level = util.Clamp(level, 0, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.send(midi.ControlChange(m.channel, volumeController, uint8(level*127)))
}
