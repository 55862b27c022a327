package bridge

import (
	"errors"

	"github.com/bnema/blitzbridge/pkg/compositor"
)

// fakePanel implements compositor.Panel plus, optionally, the surface
// and keyboard capabilities. Tests raise events by calling the fire*
// helpers.
type fakePanel struct {
	width, height float64
	root          compositor.DisplayRoot

	nextID   uint64
	loaded   map[uint64]func()
	resized  map[uint64]func()
	moved    map[uint64]func(compositor.PointerInfo)
	pressed  map[uint64]func(compositor.PointerInfo)
	released map[uint64]func(compositor.PointerInfo)
	wheel    map[uint64]func(compositor.WheelInfo) bool
}

func newFakePanel(width, height float64) *fakePanel {
	return &fakePanel{
		width:    width,
		height:   height,
		loaded:   map[uint64]func(){},
		resized:  map[uint64]func(){},
		moved:    map[uint64]func(compositor.PointerInfo){},
		pressed:  map[uint64]func(compositor.PointerInfo){},
		released: map[uint64]func(compositor.PointerInfo){},
		wheel:    map[uint64]func(compositor.WheelInfo) bool{},
	}
}

func (p *fakePanel) ActualWidth() float64          { return p.width }
func (p *fakePanel) ActualHeight() float64         { return p.height }
func (p *fakePanel) Root() compositor.DisplayRoot  { return p.root }

func (p *fakePanel) OnLoaded(fn func()) compositor.Unsubscribe {
	p.nextID++
	id := p.nextID
	p.loaded[id] = fn
	return func() { delete(p.loaded, id) }
}

func (p *fakePanel) OnSizeChanged(fn func()) compositor.Unsubscribe {
	p.nextID++
	id := p.nextID
	p.resized[id] = fn
	return func() { delete(p.resized, id) }
}

func (p *fakePanel) OnPointerMoved(fn func(compositor.PointerInfo)) compositor.Unsubscribe {
	p.nextID++
	id := p.nextID
	p.moved[id] = fn
	return func() { delete(p.moved, id) }
}

func (p *fakePanel) OnPointerPressed(fn func(compositor.PointerInfo)) compositor.Unsubscribe {
	p.nextID++
	id := p.nextID
	p.pressed[id] = fn
	return func() { delete(p.pressed, id) }
}

func (p *fakePanel) OnPointerReleased(fn func(compositor.PointerInfo)) compositor.Unsubscribe {
	p.nextID++
	id := p.nextID
	p.released[id] = fn
	return func() { delete(p.released, id) }
}

func (p *fakePanel) OnWheelChanged(fn func(compositor.WheelInfo) bool) compositor.Unsubscribe {
	p.nextID++
	id := p.nextID
	p.wheel[id] = fn
	return func() { delete(p.wheel, id) }
}

func (p *fakePanel) fireLoaded() {
	for _, fn := range p.loaded {
		fn()
	}
}

func (p *fakePanel) fireSizeChanged() {
	for _, fn := range p.resized {
		fn()
	}
}

func (p *fakePanel) firePointerMoved(info compositor.PointerInfo) {
	for _, fn := range p.moved {
		fn(info)
	}
}

func (p *fakePanel) firePointerPressed(info compositor.PointerInfo) {
	for _, fn := range p.pressed {
		fn(info)
	}
}

func (p *fakePanel) firePointerReleased(info compositor.PointerInfo) {
	for _, fn := range p.released {
		fn(info)
	}
}

func (p *fakePanel) fireWheel(info compositor.WheelInfo) []bool {
	var consumed []bool
	for _, fn := range p.wheel {
		consumed = append(consumed, fn(info))
	}
	return consumed
}

func (p *fakePanel) subscriptionCount() int {
	return len(p.loaded) + len(p.resized) + len(p.moved) +
		len(p.pressed) + len(p.released) + len(p.wheel)
}

// surfacePanel is a fakePanel that also carries the surface-attach
// capability.
type surfacePanel struct {
	*fakePanel
	attached  []uint64
	attachErr error
}

func newSurfacePanel(width, height float64) *surfacePanel {
	return &surfacePanel{fakePanel: newFakePanel(width, height)}
}

func (p *surfacePanel) SetSwapChain(handle uint64) error {
	if p.attachErr != nil {
		return p.attachErr
	}
	p.attached = append(p.attached, handle)
	return nil
}

type fixedRoot float64

func (r fixedRoot) RasterizationScale() float64 { return float64(r) }

// fakeClock counts active frame subscriptions and lets tests tick by
// hand.
type fakeClock struct {
	nextID uint64
	subs   map[uint64]func()
}

func newFakeClock() *fakeClock {
	return &fakeClock{subs: map[uint64]func(){}}
}

func (c *fakeClock) OnFrame(fn func()) compositor.Unsubscribe {
	c.nextID++
	id := c.nextID
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *fakeClock) tick() {
	for _, fn := range c.subs {
		fn()
	}
}

func (c *fakeClock) active() int { return len(c.subs) }

// syncDispatcher runs everything inline; the tests are single-threaded.
type syncDispatcher struct{}

func (syncDispatcher) Invoke(fn func()) { fn() }

// pointerCall records one forwarded pointer event.
type pointerCall struct {
	kind      EventKind
	x, y      float32
	button    uint8
	buttons   uint32
	modifiers uint32
}

type resizeCall struct {
	width, height uint32
	scale         float32
}

// fakeHost records every forwarded call.
type fakeHost struct {
	renders    int
	renderErr  error
	forwardErr error

	resizes  []resizeCall
	pointers []pointerCall
	wheels   [][2]float64
	closed   bool
}

func (h *fakeHost) RenderOnce() error {
	h.renders++
	return h.renderErr
}

func (h *fakeHost) Resize(width, height uint32, scale float32) error {
	h.resizes = append(h.resizes, resizeCall{width, height, scale})
	return h.forwardErr
}

func (h *fakeHost) PointerMove(x, y float32, buttons, modifiers uint32) error {
	h.pointers = append(h.pointers, pointerCall{kind: EventMove, x: x, y: y, buttons: buttons, modifiers: modifiers})
	return h.forwardErr
}

func (h *fakeHost) PointerDown(x, y float32, button uint8, buttons, modifiers uint32) error {
	h.pointers = append(h.pointers, pointerCall{kind: EventDown, x: x, y: y, button: button, buttons: buttons, modifiers: modifiers})
	return h.forwardErr
}

func (h *fakeHost) PointerUp(x, y float32, button uint8, buttons, modifiers uint32) error {
	h.pointers = append(h.pointers, pointerCall{kind: EventUp, x: x, y: y, button: button, buttons: buttons, modifiers: modifiers})
	return h.forwardErr
}

func (h *fakeHost) WheelScroll(dx, dy float64) error {
	h.wheels = append(h.wheels, [2]float64{dx, dy})
	return h.forwardErr
}

func (h *fakeHost) CompleteFetch(requestID, docID uint32, success bool, body []byte, errMsg string) error {
	return nil
}

func (h *fakeHost) Close() error {
	h.closed = true
	return nil
}

var errBoom = errors.New("boom")
