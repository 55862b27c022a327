package bridge

import "github.com/bnema/blitzbridge/pkg/compositor"

// EventKind classifies a normalized input event.
type EventKind uint8

const (
	EventMove EventKind = iota
	EventDown
	EventUp
	EventWheel
)

// Button mask bits. Each pressed button contributes its bit regardless
// of which button triggered the event.
const (
	ButtonMaskLeft   uint32 = 1 << 0
	ButtonMaskRight  uint32 = 1 << 1
	ButtonMaskMiddle uint32 = 1 << 2
	ButtonMaskX1     uint32 = 1 << 3
	ButtonMaskX2     uint32 = 1 << 4
)

// Pressed-button codes for Down/Up events.
const (
	ButtonLeft   uint8 = 0
	ButtonMiddle uint8 = 1
	ButtonRight  uint8 = 2
)

// Wheel normalization constants: hardware deltas come in multiples of
// 120 per notch; one notch scrolls one line of 48 distance units.
const (
	wheelNotchDelta    = 120.0
	wheelLinesPerNotch = 1.0
	wheelLineHeight    = 48.0
)

// InputEvent is the canonical record produced from one native panel
// event. It is immutable and consumed exactly once.
type InputEvent struct {
	Kind EventKind

	X, Y float64

	// Buttons is the additive pressed-state mask at event time.
	Buttons uint32
	// Button identifies the triggering button for Down/Up events.
	Button uint8

	Modifiers uint32

	WheelDX, WheelDY float64
}

// buttonMask folds the panel-reported pressed states into the canonical
// mask. Order-independent by construction.
func buttonMask(p compositor.PointerInfo) uint32 {
	var mask uint32
	if p.Left {
		mask |= ButtonMaskLeft
	}
	if p.Right {
		mask |= ButtonMaskRight
	}
	if p.Middle {
		mask |= ButtonMaskMiddle
	}
	if p.X1 {
		mask |= ButtonMaskX1
	}
	if p.X2 {
		mask |= ButtonMaskX2
	}
	return mask
}

// triggerButton picks the pressed-button code for a Down/Up event.
// Right wins over middle, anything else maps to left, matching the
// host's 0=left/1=middle/2=right vocabulary.
func triggerButton(p compositor.PointerInfo) uint8 {
	switch {
	case p.Right:
		return ButtonRight
	case p.Middle:
		return ButtonMiddle
	default:
		return ButtonLeft
	}
}

// NormalizePointer converts one raw pointer event of the given kind.
func NormalizePointer(kind EventKind, p compositor.PointerInfo) InputEvent {
	return InputEvent{
		Kind:      kind,
		X:         p.X,
		Y:         p.Y,
		Buttons:   buttonMask(p),
		Button:    triggerButton(p),
		Modifiers: uint32(p.Modifiers),
	}
}

// NormalizeWheel converts one raw wheel event. Vertical scroll is
// rawDelta/120 notches x 1 line x 48 units; with Shift held the
// magnitude moves to the horizontal axis and vertical is zeroed.
func NormalizeWheel(w compositor.WheelInfo) InputEvent {
	dy := float64(w.RawDelta) / wheelNotchDelta * wheelLinesPerNotch * wheelLineHeight
	dx := 0.0
	if w.Modifiers.Has(compositor.ModShift) {
		dx, dy = dy, 0.0
	}
	return InputEvent{
		Kind:      EventWheel,
		X:         w.X,
		Y:         w.Y,
		Modifiers: uint32(w.Modifiers),
		WheelDX:   dx,
		WheelDY:   dy,
	}
}
