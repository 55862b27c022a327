package bridge

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/bnema/blitzbridge/pkg/blitz"
)

func TestRenderLoopStartIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	loop := NewRenderLoop(clock, func() blitz.Host { return nil }, zerolog.Nop())

	loop.Start()
	loop.Start()

	assert.Equal(t, 1, clock.active(), "double start must keep exactly one subscription")
	assert.True(t, loop.Attached())
}

func TestRenderLoopStopIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	loop := NewRenderLoop(clock, func() blitz.Host { return nil }, zerolog.Nop())

	loop.Start()
	loop.Stop()
	loop.Stop()

	assert.Equal(t, 0, clock.active())
	assert.False(t, loop.Attached())
}

func TestRenderLoopRestart(t *testing.T) {
	clock := newFakeClock()
	host := &fakeHost{}
	loop := NewRenderLoop(clock, func() blitz.Host { return host }, zerolog.Nop())

	loop.Start()
	loop.Stop()
	loop.Start()

	assert.Equal(t, 1, clock.active())
	clock.tick()
	assert.Equal(t, 1, host.renders)
}

func TestRenderLoopTicksBeforeHostAreHarmless(t *testing.T) {
	clock := newFakeClock()
	var host blitz.Host
	loop := NewRenderLoop(clock, func() blitz.Host { return host }, zerolog.Nop())

	loop.Start()
	clock.tick()
	clock.tick()

	recording := &fakeHost{}
	host = recording
	clock.tick()

	assert.Equal(t, 1, recording.renders, "only post-initialization ticks reach the host")
}

func TestRenderLoopSwallowsRenderFailure(t *testing.T) {
	clock := newFakeClock()
	host := &fakeHost{renderErr: errBoom}
	loop := NewRenderLoop(clock, func() blitz.Host { return host }, zerolog.Nop())

	loop.Start()
	clock.tick()
	clock.tick()

	// The loop keeps running through persistent failures.
	assert.Equal(t, 2, host.renders)
	assert.True(t, loop.Attached())
}

func TestRenderLoopWithoutClockStaysDetached(t *testing.T) {
	loop := NewRenderLoop(nil, func() blitz.Host { return nil }, zerolog.Nop())

	loop.Start()

	assert.False(t, loop.Attached())
}
