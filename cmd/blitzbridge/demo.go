package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bnema/blitzbridge/pkg/blitz"
	"github.com/bnema/blitzbridge/pkg/bridge"
	"github.com/bnema/blitzbridge/pkg/compositor"
)

// demoPanel is a software composition panel: it reports a fixed size,
// accepts a swap chain handle (logging it instead of presenting) and
// lets the harness raise events by hand.
type demoPanel struct {
	width, height float64
	scale         float64
	log           zerolog.Logger

	nextID   uint64
	loaded   map[uint64]func()
	resized  map[uint64]func()
	moved    map[uint64]func(compositor.PointerInfo)
	pressed  map[uint64]func(compositor.PointerInfo)
	released map[uint64]func(compositor.PointerInfo)
	wheel    map[uint64]func(compositor.WheelInfo) bool
}

// newDemoPanel expects a logger already tagged with its component field.
func newDemoPanel(width, height, scale float64, log zerolog.Logger) *demoPanel {
	return &demoPanel{
		width:    width,
		height:   height,
		scale:    scale,
		log:      log,
		loaded:   map[uint64]func(){},
		resized:  map[uint64]func(){},
		moved:    map[uint64]func(compositor.PointerInfo){},
		pressed:  map[uint64]func(compositor.PointerInfo){},
		released: map[uint64]func(compositor.PointerInfo){},
		wheel:    map[uint64]func(compositor.WheelInfo) bool{},
	}
}

func (p *demoPanel) ActualWidth() float64  { return p.width }
func (p *demoPanel) ActualHeight() float64 { return p.height }

func (p *demoPanel) Root() compositor.DisplayRoot { return scaleRoot(p.scale) }

type scaleRoot float64

func (s scaleRoot) RasterizationScale() float64 { return float64(s) }

// SetSwapChain makes demoPanel a compositor.SurfaceTarget.
func (p *demoPanel) SetSwapChain(handle uint64) error {
	p.log.Info().Str("handle", fmt.Sprintf("0x%x", handle)).Msg("swap chain attached")
	return nil
}

func (p *demoPanel) OnLoaded(fn func()) compositor.Unsubscribe {
	return subscribe(p, p.loaded, fn)
}

func (p *demoPanel) OnSizeChanged(fn func()) compositor.Unsubscribe {
	return subscribe(p, p.resized, fn)
}

func (p *demoPanel) OnPointerMoved(fn func(compositor.PointerInfo)) compositor.Unsubscribe {
	return subscribe(p, p.moved, fn)
}

func (p *demoPanel) OnPointerPressed(fn func(compositor.PointerInfo)) compositor.Unsubscribe {
	return subscribe(p, p.pressed, fn)
}

func (p *demoPanel) OnPointerReleased(fn func(compositor.PointerInfo)) compositor.Unsubscribe {
	return subscribe(p, p.released, fn)
}

func (p *demoPanel) OnWheelChanged(fn func(compositor.WheelInfo) bool) compositor.Unsubscribe {
	return subscribe(p, p.wheel, fn)
}

func subscribe[T any](p *demoPanel, m map[uint64]T, fn T) compositor.Unsubscribe {
	p.nextID++
	id := p.nextID
	m[id] = fn
	return func() { delete(m, id) }
}

func (p *demoPanel) fireLoaded() {
	for _, fn := range p.loaded {
		fn()
	}
}

func (p *demoPanel) resize(width, height float64) {
	p.width, p.height = width, height
	for _, fn := range p.resized {
		fn()
	}
}

func (p *demoPanel) firePointerMoved(info compositor.PointerInfo) {
	for _, fn := range p.moved {
		fn(info)
	}
}

func (p *demoPanel) fireWheel(info compositor.WheelInfo) {
	for _, fn := range p.wheel {
		fn(info)
	}
}

// consoleHost is a stand-in engine: it logs what a real renderer would
// do. On construction it probes the attacher the way the real engine
// does, test handle first.
type consoleHost struct {
	log      zerolog.Logger
	attacher blitz.SurfaceAttacher
	fetcher  blitz.Fetcher
	frames   uint64
}

func newConsoleHost(log zerolog.Logger) blitz.Factory {
	return func(attacher blitz.SurfaceAttacher, width, height uint32, scale float32, initialContent string) (blitz.Host, error) {
		h := &consoleHost{
			log:      log,
			attacher: attacher,
		}
		h.log.Info().
			Uint32("width", width).
			Uint32("height", height).
			Float32("scale", scale).
			Int("content_len", len(initialContent)).
			Bool("attacher_alive", attacher.TestConnection()).
			Msg("host created")
		// Probe with the reserved handle: absorbed, never forwarded.
		attacher.Attach(bridge.TestSurfaceHandle)
		return h, nil
	}
}

func (h *consoleHost) BindFetcher(f blitz.Fetcher) { h.fetcher = f }

func (h *consoleHost) RenderOnce() error {
	h.frames++
	if h.frames%60 == 0 {
		h.log.Debug().Uint64("frames", h.frames).Msg("rendering")
	}
	return nil
}

func (h *consoleHost) Resize(width, height uint32, scale float32) error {
	h.log.Info().Uint32("width", width).Uint32("height", height).Float32("scale", scale).Msg("resize")
	return nil
}

func (h *consoleHost) PointerMove(x, y float32, buttons, modifiers uint32) error {
	h.log.Debug().Float32("x", x).Float32("y", y).Uint32("buttons", buttons).Msg("pointer move")
	return nil
}

func (h *consoleHost) PointerDown(x, y float32, button uint8, buttons, modifiers uint32) error {
	h.log.Debug().Float32("x", x).Float32("y", y).Uint8("button", button).Msg("pointer down")
	return nil
}

func (h *consoleHost) PointerUp(x, y float32, button uint8, buttons, modifiers uint32) error {
	h.log.Debug().Float32("x", x).Float32("y", y).Uint8("button", button).Msg("pointer up")
	return nil
}

func (h *consoleHost) WheelScroll(dx, dy float64) error {
	h.log.Debug().Float64("dx", dx).Float64("dy", dy).Msg("wheel scroll")
	return nil
}

func (h *consoleHost) CompleteFetch(requestID, docID uint32, success bool, body []byte, errMsg string) error {
	ev := h.log.Info().
		Uint32("request_id", requestID).
		Uint32("doc_id", docID).
		Bool("success", success)
	if success {
		ev.Int("bytes", len(body)).Msg("fetch completed")
	} else {
		ev.Str("error", errMsg).Msg("fetch failed")
	}
	return nil
}

func (h *consoleHost) Close() error {
	h.log.Info().Uint64("frames", h.frames).Msg("host closed")
	return nil
}
