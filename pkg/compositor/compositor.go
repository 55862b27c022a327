// Package compositor defines the contracts the bridge expects from the
// UI side of the embedding: the composition panel the foreign surface is
// attached to, the frame clock that paces rendering, and the dispatcher
// that marshals work back onto the UI-affine thread.
//
// The bridge never owns any of these. Panels and clocks are supplied by
// the embedding toolkit; Loop is a self-contained implementation for
// embedders (and tests) that have no native equivalent.
package compositor

// Unsubscribe removes a previously registered callback. Calling it more
// than once is harmless.
type Unsubscribe func()

// Modifier is a bitmask of active keyboard modifiers, using the same bit
// values the native layer reports (VirtualKeyModifiers encoding).
type Modifier uint32

const (
	ModControl Modifier = 1 << 0
	ModAlt     Modifier = 1 << 1
	ModShift   Modifier = 1 << 2
	ModSuper   Modifier = 1 << 3
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

// PointerInfo describes one raw pointer event as reported by the panel.
// Pressed-state flags reflect the state at event time, independent of
// which button (if any) triggered the event.
type PointerInfo struct {
	X, Y float64

	Left   bool
	Right  bool
	Middle bool
	X1     bool
	X2     bool

	Modifiers Modifier
}

// WheelInfo describes one raw wheel event. RawDelta is in hardware units,
// multiples of 120 per notch.
type WheelInfo struct {
	X, Y      float64
	RawDelta  int
	Modifiers Modifier
}

// KeyInfo describes one raw keyboard event.
type KeyInfo struct {
	// Key is the logical key value ("a", "Enter", "ArrowLeft").
	Key string
	// Code is the physical key code ("KeyA", "Digit0").
	Code string
	// Rune is the character produced, if any (character input events).
	Rune rune

	Modifiers Modifier
	Repeat    bool
}

// Panel is the composition panel the bridge binds to. The bridge holds a
// back-reference only: it queries capabilities and subscribes callbacks,
// it never manages the panel's lifecycle.
//
// Wheel handlers return true to mark the event consumed so the embedding
// toolkit stops propagating it up its own tree.
type Panel interface {
	ActualWidth() float64
	ActualHeight() float64

	// Root returns the display root bearing the rasterization scale, or
	// nil when the panel is not yet part of a visual tree.
	Root() DisplayRoot

	OnLoaded(fn func()) Unsubscribe
	OnSizeChanged(fn func()) Unsubscribe
	OnPointerMoved(fn func(PointerInfo)) Unsubscribe
	OnPointerPressed(fn func(PointerInfo)) Unsubscribe
	OnPointerReleased(fn func(PointerInfo)) Unsubscribe
	OnWheelChanged(fn func(WheelInfo) bool) Unsubscribe
}

// DisplayRoot exposes the display scale of the visual tree a panel
// belongs to.
type DisplayRoot interface {
	RasterizationScale() float64
}

// SurfaceTarget is the surface-attachment capability of a panel. It is
// deliberately not part of Panel: the bridge discovers it with a fallible
// type assertion, the Go analogue of a QueryInterface, and treats absence
// as a non-fatal condition.
type SurfaceTarget interface {
	// SetSwapChain binds a renderer-owned surface handle to the panel.
	// The handle is only valid for the duration of the call.
	SetSwapChain(handle uint64) error
}

// KeySource is the optional keyboard capability of a panel. Panels that
// cannot raise key events simply do not implement it.
type KeySource interface {
	OnKeyPressed(fn func(KeyInfo)) Unsubscribe
	OnKeyReleased(fn func(KeyInfo)) Unsubscribe
	OnCharTyped(fn func(KeyInfo)) Unsubscribe
}

// Dispatcher marshals a function onto the UI-affine call path. The
// embedded host is not assumed thread-safe, so every re-entry from a
// background context must go through a Dispatcher.
type Dispatcher interface {
	Invoke(fn func())
}

// FrameClock delivers per-frame ticks. Subscribing twice yields two
// independent subscriptions; the render loop guarantees it holds at most
// one.
type FrameClock interface {
	OnFrame(fn func()) Unsubscribe
}
