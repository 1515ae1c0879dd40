package sink

import (
	"encoding/binary"
	"math"
	"os"
	"sync"
	"time"

	"github.com/PeterBaptista/piano-midi/util"
	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

const synthSampleRate = 44100

// Synth is a Sink that renders notes through a SoundFont synthesizer and
// streams the audio to the system output.
type Synth struct {
	mu       sync.Mutex
	synth    *meltysynth.Synthesizer
	channel  int32
	sounding map[uint8]*time.Timer

	ctx    *oto.Context
	player *oto.Player
}

// NewSynth loads a .sf2 SoundFont and starts the audio stream. Close releases
// the output when playback is over.
func NewSynth(soundFontPath string, channel uint8) (*Synth, error) {
	f, err := os.Open(soundFontPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening soundfont")
	}
	defer f.Close()

	sf, err := meltysynth.NewSoundFont(f)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing soundfont")
	}

	settings := meltysynth.NewSynthesizerSettings(synthSampleRate)
	synthesizer, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, errors.Wrap(err, "error creating synthesizer")
	}

	s := &Synth{
		synth:    synthesizer,
		channel:  int32(channel),
		sounding: make(map[uint8]*time.Timer),
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   synthSampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error opening audio output")
	}
	<-ready

	s.ctx = ctx
	s.player = ctx.NewPlayer(&synthStream{synth: s})
	s.player.Play()

	return s, nil
}

func (s *Synth) Start(pitch, velocity uint8, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(pitch)
	s.synth.NoteOn(s.channel, int32(pitch), int32(velocity))
	if duration > 0 {
		s.sounding[pitch] = time.AfterFunc(
			time.Duration(duration*float64(time.Second)),
			func() { s.Stop(pitch) },
		)
	} else {
		s.sounding[pitch] = nil
	}
}

func (s *Synth) Stop(pitch uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(pitch)
}

func (s *Synth) stopLocked(pitch uint8) {
	timer, ok := s.sounding[pitch]
	if !ok {
		return
	}
	if timer != nil {
		timer.Stop()
	}
	delete(s.sounding, pitch)
	s.synth.NoteOff(s.channel, int32(pitch))
}

func (s *Synth) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pitch, timer := range s.sounding {
		if timer != nil {
			timer.Stop()
		}
		delete(s.sounding, pitch)
	}
	s.synth.NoteOffAll(false)
}

func (s *Synth) SetVolume(level float64) {
	level = util.Clamp(level, 0, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synth.MasterVolume = float32(level)
}

// Close stops the audio stream.
func (s *Synth) Close() error {
	s.StopAll()
	return s.player.Close()
}

// synthStream adapts the synthesizer's block renderer to the io.Reader the
// audio player pulls from. It runs on the audio thread.
type synthStream struct {
	synth *Synth
	left  []float32
	right []float32
}

func (st *synthStream) Read(p []byte) (int, error) {
	frames := len(p) / 8 // two float32 samples per frame
	if frames == 0 {
		return 0, nil
	}
	if len(st.left) < frames {
		st.left = make([]float32, frames)
		st.right = make([]float32, frames)
	}
	left := st.left[:frames]
	right := st.right[:frames]

	st.synth.mu.Lock()
	st.synth.synth.Render(left, right)
	st.synth.mu.Unlock()

	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint32(p[i*8:], math.Float32bits(left[i]))
		binary.LittleEndian.PutUint32(p[i*8+4:], math.Float32bits(right[i]))
	}
	return frames * 8, nil
}
