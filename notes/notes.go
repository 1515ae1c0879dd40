// Package notes post-processes decoded note lists: merging rapid repetitions
// of the same pitch into one sustained note and normalizing velocities.
package notes

import (
	"sort"

	"github.com/PeterBaptista/piano-midi/model"
)

// MergeRepeated merges consecutive notes of the same pitch whose gap is at
// most maxGap seconds. Rapid re-strikes of one key, common in transcribed
// audio, become a single sustained note carrying the higher velocity. The
// input is not modified; the result is sorted by start time.
func MergeRepeated(in []model.Note, maxGap float64) []model.Note {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]model.Note, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	var merged []model.Note
	current := sorted[0]

	for _, next := range sorted[1:] {
		gap := next.StartTime - current.End()
		if next.Pitch == current.Pitch && gap <= maxGap {
			if next.End() > current.End() {
				current.Duration = next.End() - current.StartTime
			}
			if next.Velocity > current.Velocity {
				current.Velocity = next.Velocity
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}

// NormalizeVelocity sets every note's velocity to the given value, the way
// transcribed files are flattened before playback. Returns a new slice.
func NormalizeVelocity(in []model.Note, velocity uint8) []model.Note {
	out := make([]model.Note, len(in))
	copy(out, in)
	for i := range out {
		out[i].Velocity = velocity
	}
	return out
}

// TotalDuration recomputes the end of the last-sounding note. Zero for an
// empty list.
func TotalDuration(in []model.Note) float64 {
	var duration float64
	for _, n := range in {
		if end := n.End(); end > duration {
			duration = end
		}
	}
	return duration
}
