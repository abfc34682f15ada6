package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTimerOptions(t *testing.T) {
	opts := DefaultTimerOptions()
	assert.True(t, opts.PromptOnExit)
	assert.True(t, opts.ShowProgressInTaskbar)
	assert.False(t, opts.LockInterface)
	assert.Equal(t, "Bell", opts.Sound.DisplayName())
	assert.True(t, opts.Sound.IsBell())
}

func TestTimerOptionsCloneIsDeep(t *testing.T) {
	opts := DefaultTimerOptions()
	opts.Title = "tea"
	clone := opts.Clone()
	clone.Sound.Name = "Other"
	clone.Title = "coffee"

	assert.Equal(t, "Bell", opts.Sound.Name)
	assert.Equal(t, "tea", opts.Title)
}

func TestSameSound(t *testing.T) {
	a := &Sound{Name: "Chime"}
	b := &Sound{Name: "Chime", Path: "/tmp/chime.wav"}
	assert.True(t, SameSound(a, b))
	assert.True(t, SameSound(nil, nil))
	assert.False(t, SameSound(a, nil))
	assert.Equal(t, "None", (*Sound)(nil).DisplayName())
}
