package bridge

import (
	"github.com/rs/zerolog"

	"github.com/bnema/blitzbridge/pkg/blitz"
	"github.com/bnema/blitzbridge/pkg/compositor"
)

// RenderLoop subscribes a "render once" callback to the compositor frame
// clock. Two states: detached (no subscription) and attached (exactly
// one). Start and Stop are idempotent and restartable in any order.
type RenderLoop struct {
	clock compositor.FrameClock
	host  func() blitz.Host
	log   zerolog.Logger

	cancel   compositor.Unsubscribe
	failures uint64
}

// NewRenderLoop creates a detached loop. host is re-queried on every
// tick so the loop can be started before the engine exists;
// pre-initialization ticks are expected and harmless.
func NewRenderLoop(clock compositor.FrameClock, host func() blitz.Host, log zerolog.Logger) *RenderLoop {
	return &RenderLoop{
		clock: clock,
		host:  host,
		log:   log.With().Str("component", "renderloop").Logger(),
	}
}

// Start attaches the per-frame subscription. No-op when already
// attached or when no frame clock is available.
func (r *RenderLoop) Start() {
	if r.cancel != nil {
		return
	}
	if r.clock == nil {
		r.log.Debug().Msg("no frame clock available, staying detached")
		return
	}
	r.cancel = r.clock.OnFrame(r.onFrame)
	r.log.Debug().Msg("render loop attached")
}

// Stop removes the subscription. No-op when already detached; no stale
// token is retained.
func (r *RenderLoop) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.cancel = nil
	r.log.Debug().Msg("render loop detached")
}

// Attached reports whether a frame subscription is active.
func (r *RenderLoop) Attached() bool {
	return r.cancel != nil
}

func (r *RenderLoop) onFrame() {
	h := r.host()
	if h == nil {
		return
	}
	if err := h.RenderOnce(); err != nil {
		// A persistent render failure does not stop the loop; it only
		// shows up here. Kept from the original behavior, counted so a
		// debug session can see how persistent it is.
		r.failures++
		r.log.Debug().Err(err).Uint64("failures", r.failures).Msg("render once failed")
	}
}
