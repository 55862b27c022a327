package bridge

import (
	"github.com/rs/zerolog"

	"github.com/bnema/blitzbridge/pkg/compositor"
)

// TestSurfaceHandle is the reserved connectivity-test handle. It is
// absorbed by Attach without ever reaching the panel, so integration
// probes cannot corrupt a real session.
const TestSurfaceHandle uint64 = 0xFEEDFACECAFEBEEF

// Attacher binds renderer-owned surface handles to a composition panel.
// It owns no graphics resources: handles pass through, valid only for
// the duration of the Attach call.
//
// Construction never fails. A missing panel or a panel without the
// surface capability leaves the attacher in a "panel not set" state;
// every subsequent Attach is then a logged no-op. This mirrors the
// boundary it serves: the producer may legitimately have no surface yet,
// and the consumer may legitimately have no panel yet.
type Attacher struct {
	panel      compositor.Panel
	log        zerolog.Logger
	lastHandle uint64
}

// NewAttacher captures the panel if the given reference is one. Any
// other value, including nil, is treated as absence rather than an
// error; the failure is observable at Attach time through the log only.
func NewAttacher(panelRef any, log zerolog.Logger) *Attacher {
	a := &Attacher{log: log.With().Str("component", "attacher").Logger()}
	if panelRef == nil {
		a.log.Debug().Msg("nil panel provided")
		return a
	}
	if panel, ok := panelRef.(compositor.Panel); ok {
		a.panel = panel
		a.log.Debug().Msg("captured composition panel")
	} else {
		a.log.Debug().Msg("reference is not a composition panel")
	}
	return a
}

// Attach forwards a surface handle to the panel's surface target.
// Zero handles, the reserved test handle, a missing panel and a panel
// without the attach capability are all absorbed; a failing platform
// call is logged and otherwise ignored.
func (a *Attacher) Attach(handle uint64) {
	a.lastHandle = handle

	if handle == 0 {
		a.log.Debug().Msg("attach: null handle, ignoring")
		return
	}
	if handle == TestSurfaceHandle {
		a.log.Debug().Msg("attach: test handle, ignoring")
		return
	}
	if a.panel == nil {
		a.log.Debug().Msg("attach: panel not set")
		return
	}

	target, ok := a.panel.(compositor.SurfaceTarget)
	if !ok {
		a.log.Debug().Msg("attach: panel has no surface target capability")
		return
	}

	if err := target.SetSwapChain(handle); err != nil {
		a.log.Warn().Err(err).Uint64("handle", handle).Msg("attach: SetSwapChain failed")
		return
	}
	a.log.Debug().Uint64("handle", handle).Msg("attach: success")
}

// TestConnection is a liveness probe: it reports true unconditionally.
// Callers use it to confirm the attacher object is reachable across the
// engine boundary before handing it real handles.
func (a *Attacher) TestConnection() bool {
	return true
}

// LastHandle returns the most recent handle passed to Attach, including
// absorbed sentinels. Diagnostic only.
func (a *Attacher) LastHandle() uint64 {
	return a.lastHandle
}
