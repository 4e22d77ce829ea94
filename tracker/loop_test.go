package tracker_test

import (
	"testing"

	"github.com/rollseq/rollseq/tracker"
	"github.com/stretchr/testify/assert"
)

func TestLoopMark(t *testing.T) {
	var l tracker.LoopState
	_, _, ok := l.Bounds()
	assert.False(t, ok)

	l = l.Mark(10).Mark(5)
	start, end, ok := l.Bounds()
	assert.True(t, ok)
	assert.Equal(t, 5, start)
	assert.Equal(t, 10, end)

	l = l.Mark(20)
	assert.Equal(t, 20, l.Start.Value())
	assert.True(t, l.End.Empty())

	l = l.Mark(30)
	start, end, _ = l.Bounds()
	assert.Equal(t, 20, start)
	assert.Equal(t, 30, end)
}

func TestLoopIsLooping(t *testing.T) {
	l := tracker.LoopState{}.ToggleMode()
	assert.False(t, l.IsLooping(), "looping needs both marks")
	l = l.Mark(0).Mark(32)
	assert.True(t, l.IsLooping())
	assert.False(t, l.ToggleMode().IsLooping())
	assert.False(t, l.Clear().IsLooping())
	assert.Equal(t, tracker.LoopDisabled, l.Clear().Mode)
	assert.Equal(t, "0..32 looping", l.String())
}
