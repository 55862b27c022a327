package compositor

import (
	"runtime"
	"sync"
	"time"
)

// Loop is a serial UI-affine event loop: a Dispatcher whose callbacks all
// execute on the goroutine running Run, and a FrameClock ticking at a
// fixed interval on that same goroutine. It stands in for a toolkit main
// loop when the embedder does not provide one.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	quit    chan struct{}
	stopped bool

	frameMu  sync.Mutex
	frames   map[uint64]func()
	nextSub  uint64
	interval time.Duration
}

// DefaultFrameInterval approximates a 60Hz compositor clock.
const DefaultFrameInterval = time.Second / 60

// NewLoop creates a loop ticking frames at the given interval.
// A non-positive interval falls back to DefaultFrameInterval.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		frames:   make(map[uint64]func()),
		interval: interval,
	}
}

// Invoke queues fn for execution on the loop goroutine. Safe to call from
// any goroutine, including from inside a callback already running on the
// loop. Functions run in submission order.
func (l *Loop) Invoke(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// OnFrame subscribes fn to frame ticks.
func (l *Loop) OnFrame(fn func()) Unsubscribe {
	l.frameMu.Lock()
	l.nextSub++
	id := l.nextSub
	l.frames[id] = fn
	l.frameMu.Unlock()
	return func() {
		l.frameMu.Lock()
		delete(l.frames, id)
		l.frameMu.Unlock()
	}
}

// Run drives the loop until Quit is called. It locks the calling
// goroutine to its OS thread for the duration, the same discipline a
// toolkit main loop imposes.
func (l *Loop) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.quit:
			l.drain()
			return
		case <-l.wake:
			l.drain()
		case <-ticker.C:
			l.tick()
		}
	}
}

// Quit stops Run after draining already-queued work. Idempotent.
func (l *Loop) Quit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.quit)
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.pending) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()
		for _, fn := range batch {
			fn()
		}
	}
}

func (l *Loop) tick() {
	l.frameMu.Lock()
	subs := make([]func(), 0, len(l.frames))
	for _, fn := range l.frames {
		subs = append(subs, fn)
	}
	l.frameMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
