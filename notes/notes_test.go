package notes

import (
	"testing"

	"github.com/PeterBaptista/piano-midi/model"
	"github.com/stretchr/testify/assert"
)

func TestMergesCloseRepetitionsOfSamePitch(t *testing.T) {
	in := []model.Note{
		{Pitch: 60, StartTime: 0, Duration: 0.5, Velocity: 80},
		{Pitch: 60, StartTime: 0.55, Duration: 0.5, Velocity: 100},
	}

	out := MergeRepeated(in, 0.08)

	assert := assert.New(t)
	assert.Len(out, 1)
	assert.Equal(0.0, out[0].StartTime)
	assert.InDelta(1.05, out[0].End(), 1e-9)
	assert.Equal(uint8(100), out[0].Velocity)
}

func TestKeepsRepetitionsBeyondGap(t *testing.T) {
	in := []model.Note{
		{Pitch: 60, StartTime: 0, Duration: 0.5},
		{Pitch: 60, StartTime: 1.0, Duration: 0.5},
	}

	out := MergeRepeated(in, 0.08)
	assert.Len(t, out, 2)
}

func TestNeverMergesDifferentPitches(t *testing.T) {
	in := []model.Note{
		{Pitch: 60, StartTime: 0, Duration: 0.5},
		{Pitch: 62, StartTime: 0.5, Duration: 0.5},
	}

	out := MergeRepeated(in, 0.08)
	assert.Len(t, out, 2)
}

func TestMergeChainsAcrossSeveralNotes(t *testing.T) {
	in := []model.Note{
		{Pitch: 60, StartTime: 0, Duration: 0.2},
		{Pitch: 60, StartTime: 0.25, Duration: 0.2},
		{Pitch: 60, StartTime: 0.5, Duration: 0.2},
	}

	out := MergeRepeated(in, 0.08)

	assert := assert.New(t)
	assert.Len(out, 1)
	assert.InDelta(0.7, out[0].End(), 1e-9)
}

func TestMergeSortsUnorderedInput(t *testing.T) {
	in := []model.Note{
		{Pitch: 60, StartTime: 0.25, Duration: 0.2},
		{Pitch: 60, StartTime: 0, Duration: 0.2},
	}

	out := MergeRepeated(in, 0.08)
	assert.Len(t, out, 1)
}

func TestMergeEmptyInput(t *testing.T) {
	assert.Empty(t, MergeRepeated(nil, 0.08))
}

func TestNormalizeVelocityLeavesInputAlone(t *testing.T) {
	in := []model.Note{{Pitch: 60, Velocity: 33}}
	out := NormalizeVelocity(in, 80)

	assert := assert.New(t)
	assert.Equal(uint8(80), out[0].Velocity)
	assert.Equal(uint8(33), in[0].Velocity)
}

func TestTotalDuration(t *testing.T) {
	in := []model.Note{
		{StartTime: 0, Duration: 3},
		{StartTime: 1, Duration: 1},
	}

	assert := assert.New(t)
	assert.Equal(3.0, TotalDuration(in))
	assert.Equal(0.0, TotalDuration(nil))
}
