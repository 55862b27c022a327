// Package bridge is the composition root of the embedding: it attaches
// the engine's swap chain to a UI panel, normalizes panel input into the
// engine's vocabulary, paces rendering off the compositor frame clock
// and routes network results back in through the UI dispatcher.
//
// Everything here runs on the single UI thread; the only concurrency is
// inside pkg/netfetch, which re-enters through the Dispatcher before
// touching the host.
package bridge

import (
	"github.com/rs/zerolog"

	"github.com/bnema/blitzbridge/pkg/blitz"
	"github.com/bnema/blitzbridge/pkg/compositor"
	"github.com/bnema/blitzbridge/pkg/netfetch"
)

// ViewOptions wires a View to its collaborators.
type ViewOptions struct {
	// Factory constructs the embedded host once size and scale are
	// known. Required.
	Factory blitz.Factory

	// Dispatcher marshals fetch completions onto the UI call path.
	// Required.
	Dispatcher compositor.Dispatcher

	// Clock paces the render loop. Optional: without one the view works
	// but never renders on its own.
	Clock compositor.FrameClock

	// InitialContent is the first document handed to the host.
	InitialContent string

	// Fetch tunes the network pipeline.
	Fetch netfetch.Options

	// Logger is the diagnostic sink. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// View mediates between one composition panel and one embedded host
// instance. It owns the host, the attacher, the render loop and the
// fetch pipeline; it only borrows the panel.
type View struct {
	opts ViewOptions
	log  zerolog.Logger

	panel    compositor.Panel
	attacher *Attacher
	host     blitz.Host
	loop     *RenderLoop
	fetch    *netfetch.Pipeline
	subs     []compositor.Unsubscribe
	state    State
}

// NewView creates an uninitialized view. Bind it to a panel with
// ApplyTemplate once the embedding toolkit has one.
func NewView(opts ViewOptions) (*View, error) {
	if opts.Factory == nil {
		return nil, ErrNilFactory
	}
	if opts.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	v := &View{
		opts:  opts,
		log:   log.With().Str("component", "view").Logger(),
		state: StateUninitialized,
	}
	v.loop = NewRenderLoop(opts.Clock, func() blitz.Host { return v.host }, log)
	return v, nil
}

// State returns the current lifecycle state.
func (v *View) State() State { return v.state }

// Host returns the live host, or nil before initialization and after
// teardown.
func (v *View) Host() blitz.Host { return v.host }

// Fetcher returns the network pipeline, or nil before the host exists.
func (v *View) Fetcher() blitz.Fetcher {
	if v.fetch == nil {
		return nil
	}
	return v.fetch
}

// ApplyTemplate rebinds the view to a panel after the control template
// has been (re-)applied. Prior subscriptions are removed first, so two
// applications never leave duplicate callbacks behind. A nil panel is
// valid and leaves the view uninitialized: template part lookup may
// legitimately yield nothing.
func (v *View) ApplyTemplate(panel compositor.Panel) {
	v.detachPanel()

	v.panel = panel
	if panel == nil {
		v.state = StateUninitialized
		v.log.Debug().Msg("template applied without a panel")
		return
	}

	v.state = StatePanelBound
	v.tryInitializeHost()
	if v.host != nil {
		// Rebound with a surviving host: resume rendering against the
		// new panel.
		v.loop.Start()
		v.state = StateActive
	}
	v.subscribe()
}

// Close tears the view down: render loop stopped, panel released, host
// destroyed. In-flight fetches keep running and their results are
// dropped at delivery time.
func (v *View) Close() {
	v.detachPanel()
	if v.host != nil {
		if err := v.host.Close(); err != nil {
			v.log.Warn().Err(err).Msg("host close failed")
		}
		v.host = nil
	}
	v.state = StateDetached
	v.log.Debug().Msg("view closed")
}

// detachPanel removes every panel subscription and drops the panel
// reference. Idempotent: zero subscriptions is valid.
func (v *View) detachPanel() {
	v.loop.Stop()
	for _, unsub := range v.subs {
		unsub()
	}
	v.subs = nil
	if v.panel != nil {
		v.panel = nil
		v.state = StateDetached
	}
}

// tryInitializeHost constructs the host once, guarded: a live host or a
// missing panel makes it a no-op. Failure is non-fatal and leaves the
// view panel-bound; nothing here may escape to the UI framework.
func (v *View) tryInitializeHost() {
	if v.host != nil || v.panel == nil {
		return
	}

	width, height := v.panelSize()
	scale := v.panelScale()

	attacher := NewAttacher(v.panel, v.log)
	host, err := v.opts.Factory(attacher, width, height, scale, v.opts.InitialContent)
	if err != nil {
		v.log.Warn().Err(err).
			Uint32("width", width).
			Uint32("height", height).
			Msg("host construction failed")
		return
	}

	v.attacher = attacher
	v.host = host
	v.fetch = netfetch.New(v.opts.Dispatcher, func() blitz.Host { return v.host }, v.log, v.opts.Fetch)
	if requester, ok := host.(blitz.FetchRequester); ok {
		requester.BindFetcher(v.fetch)
	}

	v.loop.Start()
	v.state = StateActive
	v.log.Info().
		Uint32("width", width).
		Uint32("height", height).
		Float32("scale", scale).
		Msg("host initialized")
}

func (v *View) subscribe() {
	p := v.panel
	v.subs = append(v.subs,
		p.OnLoaded(v.onLoaded),
		p.OnSizeChanged(v.onSizeChanged),
		p.OnPointerMoved(v.onPointerMoved),
		p.OnPointerPressed(v.onPointerPressed),
		p.OnPointerReleased(v.onPointerReleased),
		p.OnWheelChanged(v.onWheel),
	)
	if keys, ok := p.(compositor.KeySource); ok {
		v.subs = append(v.subs,
			keys.OnKeyPressed(v.onKeyPressed),
			keys.OnKeyReleased(v.onKeyReleased),
			keys.OnCharTyped(v.onCharTyped),
		)
	}
}

// panelSize reads the panel's actual size clamped to at least 1 in each
// dimension; panels report 0x0 before layout and a degenerate surface
// must never be created from that.
func (v *View) panelSize() (uint32, uint32) {
	return clampDimension(v.panel.ActualWidth()), clampDimension(v.panel.ActualHeight())
}

func clampDimension(d float64) uint32 {
	if d < 1 {
		return 1
	}
	return uint32(d)
}

// panelScale reads the rasterization scale of the panel's display root,
// defaulting to 1.0 when the panel has no root yet.
func (v *View) panelScale() float32 {
	root := v.panel.Root()
	if root == nil {
		return 1.0
	}
	scale := root.RasterizationScale()
	if scale <= 0 {
		return 1.0
	}
	return float32(scale)
}

func (v *View) onLoaded() {
	v.tryInitializeHost()
}

func (v *View) onSizeChanged() {
	if v.host == nil || v.panel == nil {
		return
	}
	width, height := v.panelSize()
	if err := v.host.Resize(width, height, v.panelScale()); err != nil {
		v.log.Debug().Err(err).Msg("resize forwarding failed")
	}
}

func (v *View) onPointerMoved(p compositor.PointerInfo) {
	if v.host == nil || v.panel == nil {
		return
	}
	ev := NormalizePointer(EventMove, p)
	if err := v.host.PointerMove(float32(ev.X), float32(ev.Y), ev.Buttons, ev.Modifiers); err != nil {
		v.log.Debug().Err(err).Msg("pointer move forwarding failed")
	}
}

func (v *View) onPointerPressed(p compositor.PointerInfo) {
	if v.host == nil || v.panel == nil {
		return
	}
	ev := NormalizePointer(EventDown, p)
	if err := v.host.PointerDown(float32(ev.X), float32(ev.Y), ev.Button, ev.Buttons, ev.Modifiers); err != nil {
		v.log.Debug().Err(err).Msg("pointer down forwarding failed")
	}
}

func (v *View) onPointerReleased(p compositor.PointerInfo) {
	if v.host == nil || v.panel == nil {
		return
	}
	ev := NormalizePointer(EventUp, p)
	if err := v.host.PointerUp(float32(ev.X), float32(ev.Y), ev.Button, ev.Buttons, ev.Modifiers); err != nil {
		v.log.Debug().Err(err).Msg("pointer up forwarding failed")
	}
}

// onWheel forwards the normalized scroll and reports the event consumed
// so the toolkit stops propagating it.
func (v *View) onWheel(w compositor.WheelInfo) bool {
	if v.host == nil || v.panel == nil {
		return false
	}
	ev := NormalizeWheel(w)
	if err := v.host.WheelScroll(ev.WheelDX, ev.WheelDY); err != nil {
		v.log.Debug().Err(err).Msg("wheel forwarding failed")
	}
	return true
}

func (v *View) onKeyPressed(k compositor.KeyInfo) {
	recv, ok := v.keyboardReceiver()
	if !ok {
		return
	}
	if err := recv.KeyDown(k.Key, k.Code, uint32(k.Modifiers), k.Repeat); err != nil {
		v.log.Debug().Err(err).Msg("key down forwarding failed")
	}
}

func (v *View) onKeyReleased(k compositor.KeyInfo) {
	recv, ok := v.keyboardReceiver()
	if !ok {
		return
	}
	if err := recv.KeyUp(k.Key, k.Code, uint32(k.Modifiers)); err != nil {
		v.log.Debug().Err(err).Msg("key up forwarding failed")
	}
}

func (v *View) onCharTyped(k compositor.KeyInfo) {
	recv, ok := v.keyboardReceiver()
	if !ok {
		return
	}
	if err := recv.CharInput(k.Rune, uint32(k.Modifiers)); err != nil {
		v.log.Debug().Err(err).Msg("char input forwarding failed")
	}
}

func (v *View) keyboardReceiver() (blitz.KeyboardReceiver, bool) {
	if v.host == nil || v.panel == nil {
		return nil, false
	}
	recv, ok := v.host.(blitz.KeyboardReceiver)
	return recv, ok
}
