// Package blitz declares the contract of the embedded rendering engine
// the bridge drives. The engine owns layout, painting and its GPU swap
// chain; the bridge owns nothing on this side of the boundary except the
// Host handle itself.
package blitz

// Host is one live instance of the embedded engine. It is created once
// the panel's size and scale are known and destroyed when the bridge is
// torn down. Host is not assumed thread-safe: every call must happen on
// the UI-affine call path.
type Host interface {
	// RenderOnce paints a single frame if the engine has pending work.
	RenderOnce() error

	// Resize updates the layout viewport. Width and height are in
	// physical units and always >= 1.
	Resize(width, height uint32, scale float32) error

	PointerMove(x, y float32, buttons, modifiers uint32) error
	PointerDown(x, y float32, button uint8, buttons, modifiers uint32) error
	PointerUp(x, y float32, button uint8, buttons, modifiers uint32) error
	WheelScroll(dx, dy float64) error

	// CompleteFetch delivers the outcome of a network request the host
	// asked for. requestID and docID echo the issuing request verbatim.
	// body is empty on failure; errMsg is empty on success.
	CompleteFetch(requestID, docID uint32, success bool, body []byte, errMsg string) error

	// Close releases the engine instance. The Host must not be used
	// afterwards.
	Close() error
}

// SurfaceAttacher is what the engine calls back into when it has a swap
// chain to present: the bridge-owned attacher that binds the handle to
// the composition panel.
type SurfaceAttacher interface {
	// Attach forwards a surface handle to the panel. A zero handle and
	// the reserved test handle are absorbed without effect.
	Attach(handle uint64)

	// TestConnection is a liveness probe across the engine boundary.
	// It always reports true; the value of the call is that it returned.
	TestConnection() bool
}

// Factory constructs a Host bound to the given attacher, sized to the
// initial viewport, with initialContent as the first document.
type Factory func(attacher SurfaceAttacher, width, height uint32, scale float32, initialContent string) (Host, error)

// Fetcher issues network requests on behalf of the host. Only GET is
// implemented; other methods are accepted and coerced. The call never
// blocks: the result arrives later through Host.CompleteFetch.
type Fetcher interface {
	Fetch(requestID, docID uint32, url, method string)
}

// FetchRequester is the optional capability of a Host that drives its
// own network loads. When implemented, the bridge hands it a Fetcher
// right after construction.
type FetchRequester interface {
	BindFetcher(f Fetcher)
}

// KeyboardReceiver is the optional keyboard capability of a Host. Hosts
// that do not implement it never see key events; the bridge drops them
// silently.
type KeyboardReceiver interface {
	KeyDown(key, code string, modifiers uint32, repeat bool) error
	KeyUp(key, code string, modifiers uint32) error
	CharInput(r rune, modifiers uint32) error
}
