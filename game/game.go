// Package game scores user key events against a decoded note list, the way a
// falling-notes rhythm game does.
package game

import (
	"math"

	"github.com/PeterBaptista/piano-midi/model"
)

type Rating int

const (
	RatingMiss Rating = iota
	RatingGood
	RatingPerfect
)

func (r Rating) String() string {
	switch r {
	case RatingPerfect:
		return "perfect"
	case RatingGood:
		return "good"
	default:
		return "miss"
	}
}

// Timing windows, in seconds from a note's start time.
const (
	PerfectWindow     = 0.05
	GoodWindow        = 0.15
	DefaultMissWindow = 0.15
)

const (
	perfectPoints = 100
	goodPoints    = 50
)

// Hit is the outcome of one key event.
type Hit struct {
	Rating Rating
	// NoteIndex is the matched note's index, or -1 when no note was within
	// the miss window.
	NoteIndex int
	// Delta is the signed offset of the key event from the note's start
	// time. Zero when no note matched.
	Delta float64
	// Points is what the hit added to the score, multiplier included.
	Points int
}

// Session tracks combo and score over one play-through. Each note can be
// matched by at most one key event; notes whose miss window passes without a
// matching key are swept to misses by Advance.
type Session struct {
	notes      []model.Note
	consumed   []bool
	missWindow float64
	score      int
	combo      int
}

func NewSession(notes []model.Note) *Session {
	return NewSessionWithWindow(notes, DefaultMissWindow)
}

func NewSessionWithWindow(notes []model.Note, missWindow float64) *Session {
	return &Session{
		notes:      notes,
		consumed:   make([]bool, len(notes)),
		missWindow: missWindow,
	}
}

// HandleKey matches a user key event at the given playback time against the
// closest unconsumed note of that pitch within the miss window.
func (s *Session) HandleKey(pitch uint8, at float64) Hit {
	best := -1
	var bestDiff float64
	for i, n := range s.notes {
		if s.consumed[i] || n.Pitch != pitch {
			continue
		}
		diff := math.Abs(n.StartTime - at)
		if diff > s.missWindow {
			continue
		}
		if best == -1 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}

	if best == -1 {
		s.combo = 0
		return Hit{Rating: RatingMiss, NoteIndex: -1}
	}

	s.consumed[best] = true

	rating := RatingMiss
	switch {
	case bestDiff <= PerfectWindow:
		rating = RatingPerfect
	case bestDiff <= GoodWindow:
		rating = RatingGood
	}

	hit := Hit{
		Rating:    rating,
		NoteIndex: best,
		Delta:     at - s.notes[best].StartTime,
		Points:    s.award(rating),
	}
	return hit
}

// award applies the hit to score and combo. The multiplier uses the combo as
// it stood before this hit; the result is truncated to an integer.
func (s *Session) award(rating Rating) int {
	if rating == RatingMiss {
		s.combo = 0
		return 0
	}
	base := goodPoints
	if rating == RatingPerfect {
		base = perfectPoints
	}
	multiplier := 1 + math.Floor(float64(s.combo)/10)*0.1
	points := int(float64(base) * multiplier)
	s.score += points
	s.combo++
	return points
}

// Advance sweeps notes whose miss window has fully passed with no matching
// key event, marking each a miss. The drive loop calls this every tick.
// Returns the indices of the newly missed notes.
func (s *Session) Advance(now float64) []int {
	var missed []int
	for i, n := range s.notes {
		if s.consumed[i] {
			continue
		}
		if n.StartTime+s.missWindow < now {
			s.consumed[i] = true
			s.combo = 0
			missed = append(missed, i)
		}
	}
	return missed
}

func (s *Session) Score() int {
	return s.score
}

func (s *Session) Combo() int {
	return s.combo
}

// Remaining counts notes not yet hit or missed.
func (s *Session) Remaining() int {
	var n int
	for _, c := range s.consumed {
		if !c {
			n++
		}
	}
	return n
}
