// Package player drives decoded notes against a sink. The player owns no
// timer: the host calls Tick with wall-clock deltas, which keeps playback
// deterministic under test.
package player

import (
	"sync"

	"github.com/PeterBaptista/piano-midi/model"
	"github.com/PeterBaptista/piano-midi/sink"
	"golang.org/x/exp/slices"
)

type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Player walks a play-head across a start-time-sorted note list, telling the
// sink which notes start sounding. A dispatched set keeps multi-tick notes
// from re-triggering; it is cleared on seek and stop so the same note can
// legitimately sound again.
type Player struct {
	mu sync.Mutex

	notes    []model.Note
	duration float64
	out      sink.Sink

	state State
	time  float64
	speed float64

	dispatched map[int]bool
	sounding   map[uint8]bool // pitches started on the sink by file playback
	fileActive map[uint8]bool
	manual     map[uint8]bool // pitches held down by the user
}

func New(file model.DecodedFile, out sink.Sink) *Player {
	return &Player{
		notes:      file.Notes,
		duration:   file.Duration,
		out:        out,
		speed:      1,
		dispatched: make(map[int]bool),
		sounding:   make(map[uint8]bool),
		fileActive: make(map[uint8]bool),
		manual:     make(map[uint8]bool),
	}
}

// Play starts or resumes playback. Starting again after the file has run to
// the end restarts from zero.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Idle && p.time >= p.duration && p.duration > 0 {
		p.seekLocked(0)
	}
	p.state = Playing
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Playing {
		p.state = Paused
	}
}

// Stop is seek-to-zero plus halting the drive loop.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekLocked(0)
	p.state = Idle
}

// Seek moves the play-head to t, clamped to [0, duration]. The dispatched set
// is cleared and every sounding voice is silenced, so a note whose interval
// contains t sounds again on the next tick and nothing before t replays.
func (p *Player) Seek(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekLocked(t)
}

func (p *Player) seekLocked(t float64) {
	if t < 0 {
		t = 0
	}
	if t > p.duration {
		t = p.duration
	}
	p.time = t
	p.dispatched = make(map[int]bool)
	p.sounding = make(map[uint8]bool)
	p.fileActive = make(map[uint8]bool)
	p.manual = make(map[uint8]bool)
	p.out.StopAll()
}

// Tick advances the play-head by delta (wall-clock seconds) times the speed
// multiplier and dispatches every transition against the one new time
// snapshot. No-op unless playing.
func (p *Player) Tick(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing {
		return
	}

	newTime := p.time + delta*p.speed
	active := make(map[uint8]bool)

	for i, n := range p.notes {
		if n.StartTime > newTime {
			break // sorted: nothing further can be active yet
		}
		end := n.End()
		switch {
		case newTime < end:
			active[n.Pitch] = true
			if !p.dispatched[i] {
				p.dispatched[i] = true
				if p.sounding[n.Pitch] {
					// one voice per pitch: retire the old one first
					p.out.Stop(n.Pitch)
				}
				p.out.Start(n.Pitch, n.Velocity, end-newTime)
				p.sounding[n.Pitch] = true
			}
		case p.dispatched[i]:
			// fully elapsed: forget it so a seek back can re-trigger it
			delete(p.dispatched, i)
		}
	}

	for pitch := range p.sounding {
		if !active[pitch] {
			delete(p.sounding, pitch)
		}
	}
	p.fileActive = active
	p.time = newTime

	if newTime >= p.duration {
		p.time = p.duration
		p.state = Idle
	}
}

// Press starts a user-held key, outside file playback. It bypasses the
// dispatched set but enforces the same one-voice-per-pitch rule.
func (p *Player) Press(pitch, velocity uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sounding[pitch] || p.manual[pitch] {
		p.out.Stop(pitch)
		delete(p.sounding, pitch)
	}
	p.out.Start(pitch, velocity, 0)
	p.manual[pitch] = true
}

// Release stops a user-held key.
func (p *Player) Release(pitch uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.manual[pitch] {
		return
	}
	delete(p.manual, pitch)
	p.out.Stop(pitch)
}

// SetSpeed sets the playback speed multiplier. Non-positive values are
// ignored.
func (p *Player) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = speed
}

func (p *Player) SetVolume(level float64) {
	p.out.SetVolume(level)
}

func (p *Player) Time() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.time
}

func (p *Player) Duration() float64 {
	return p.duration
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ActivePitches returns the sorted set of pitches sounding right now, from
// file playback and held keys together.
func (p *Player) ActivePitches() []uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	set := make(map[uint8]bool, len(p.fileActive)+len(p.manual))
	for pitch := range p.fileActive {
		set[pitch] = true
	}
	for pitch := range p.manual {
		set[pitch] = true
	}
	out := make([]uint8, 0, len(set))
	for pitch := range set {
		out = append(out, pitch)
	}
	slices.Sort(out)
	return out
}
