package timer

import (
	"testing"
	"time"

	"github.com/sandeepkv93/countdown/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddRemoveAndOrder(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry()
	a := New(model.DefaultTimerOptions(), clock)
	b := New(model.DefaultTimerOptions(), clock)
	r.Add(a)
	r.Add(b)
	r.Add(a)

	require.Equal(t, 2, r.Len())
	assert.Equal(t, []*Timer{a, b}, r.All())
	assert.Same(t, b, r.Get(b.ID()))
	assert.Same(t, a, r.Find(a.ID()[:12]))

	assert.True(t, r.Remove(a.ID()))
	assert.False(t, r.Remove(a.ID()))
	assert.Equal(t, []*Timer{b}, r.All())
}

func TestRegistryTickAllReportsExpired(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry()
	short := New(model.DefaultTimerOptions(), clock)
	long := New(model.DefaultTimerOptions(), clock)
	idle := New(model.DefaultTimerOptions(), clock)
	require.NoError(t, short.Start(seconds(5)))
	require.NoError(t, long.Start(seconds(50)))
	r.Add(short)
	r.Add(long)
	r.Add(idle)

	expired := r.TickAll(clock.Advance(10 * time.Second))
	assert.Equal(t, []*Timer{short}, expired)
	assert.Empty(t, r.TickAll(clock.Advance(time.Second)))
	assert.Equal(t, []*Timer{long}, r.Resumable())
}
