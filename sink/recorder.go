package sink

import "sync"

// Event is one recorded sink instruction.
type Event struct {
	Kind     string // "start", "stop", "stopAll", "volume"
	Pitch    uint8
	Velocity uint8
	Duration float64
	Level    float64
}

// Recorder is a Sink that remembers every instruction it receives. Used by
// tests and by `pianomidi play --dry-run`.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Start(pitch, velocity uint8, duration float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: "start", Pitch: pitch, Velocity: velocity, Duration: duration})
}

func (r *Recorder) Stop(pitch uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: "stop", Pitch: pitch})
}

func (r *Recorder) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: "stopAll"})
}

func (r *Recorder) SetVolume(level float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: "volume", Level: level})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Starts returns only the recorded start events.
func (r *Recorder) Starts() []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == "start" {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears the recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
