package bridge

// State is the lifecycle position of a View.
type State int

const (
	// StateUninitialized means no panel is bound.
	StateUninitialized State = iota
	// StatePanelBound means the panel is captured but the host does not
	// exist yet (not loaded, zero size, or a failed construction).
	StatePanelBound
	// StateActive means the host exists and the render loop is attached.
	StateActive
	// StateDetached means the panel was dropped after the view had been
	// bound: a template re-application or a teardown in progress.
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePanelBound:
		return "panel-bound"
	case StateActive:
		return "active"
	case StateDetached:
		return "detached"
	default:
		return "unknown"
	}
}
