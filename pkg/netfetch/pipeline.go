// Package netfetch runs the asynchronous network side of the bridge: one
// GET per request, one result delivered back into the embedded host,
// never on the caller's stack and never on a background thread.
package netfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/bnema/blitzbridge/pkg/blitz"
	"github.com/bnema/blitzbridge/pkg/compositor"
)

// HostProvider resolves the currently live host, or nil when it has been
// torn down. Queried at delivery time, not at issue time: a fetch may
// outlive the host it was issued for.
type HostProvider func() blitz.Host

// Options tunes the pipeline. The zero value reproduces the original
// behavior: default client, no timeout, unbounded concurrency and body
// size.
type Options struct {
	// Client is the HTTP client to use. Defaults to a client without a
	// timeout; in-flight fetches then run to completion or failure.
	Client *http.Client

	// MaxConcurrent bounds how many fetches run at once. 0 means
	// unbounded. Excess fetches wait on a detached goroutine, never on
	// the issuing call path.
	MaxConcurrent int64

	// MaxBodyBytes caps the buffered response body. 0 means no cap.
	MaxBodyBytes int64

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// Pipeline issues fetches keyed by (requestId, docId) and marshals each
// completion through the UI dispatcher before touching the host. The
// in-flight registry keeps every pending request reachable for the whole
// asynchronous gap, independent of the caller's references.
type Pipeline struct {
	client    *http.Client
	dispatch  compositor.Dispatcher
	host      HostProvider
	log       zerolog.Logger
	sem       *semaphore.Weighted
	maxBody   int64
	userAgent string

	mu       sync.Mutex
	inflight map[uint32]string
	wg       sync.WaitGroup
}

// New creates a pipeline delivering into hosts resolved by host, via
// dispatch. dispatch and host must be non-nil.
func New(dispatch compositor.Dispatcher, host HostProvider, log zerolog.Logger, opts Options) *Pipeline {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	var sem *semaphore.Weighted
	if opts.MaxConcurrent > 0 {
		sem = semaphore.NewWeighted(opts.MaxConcurrent)
	}
	return &Pipeline{
		client:    client,
		dispatch:  dispatch,
		host:      host,
		log:       log.With().Str("component", "netfetch").Logger(),
		sem:       sem,
		maxBody:   opts.MaxBodyBytes,
		userAgent: opts.UserAgent,
		inflight:  make(map[uint32]string),
	}
}

// Fetch issues one request. The method is accepted for protocol
// compatibility but only GET is implemented; anything else is coerced.
// Fetch returns immediately; the result reaches the host later through
// CompleteFetch, exactly once, in no particular order relative to other
// fetches.
func (p *Pipeline) Fetch(requestID, docID uint32, url, method string) {
	if method != "" && !strings.EqualFold(method, http.MethodGet) {
		p.log.Debug().
			Uint32("request_id", requestID).
			Str("method", method).
			Msg("unsupported method, coercing to GET")
	}

	p.mu.Lock()
	p.inflight[requestID] = url
	p.mu.Unlock()

	p.log.Debug().
		Uint32("request_id", requestID).
		Uint32("doc_id", docID).
		Str("url", url).
		Msg("fetch dispatched")

	p.wg.Add(1)
	go p.run(requestID, docID, url)
}

// InFlight reports how many fetches have been issued but not yet
// completed their network work.
func (p *Pipeline) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}

// Wait blocks until every issued fetch has finished its network work and
// enqueued its delivery. Used on shutdown and in tests; note deliveries
// still need the dispatcher to drain.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

func (p *Pipeline) run(requestID, docID uint32, url string) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		delete(p.inflight, requestID)
		p.mu.Unlock()
	}()

	if p.sem != nil {
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			p.deliver(requestID, docID, false, nil, err.Error())
			return
		}
		defer p.sem.Release(1)
	}

	body, err := p.get(url)
	if err != nil {
		p.log.Debug().Err(err).Uint32("request_id", requestID).Msg("fetch failed")
		p.deliver(requestID, docID, false, nil, err.Error())
		return
	}
	p.deliver(requestID, docID, true, body, "")
}

func (p *Pipeline) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if p.maxBody > 0 {
		reader = io.LimitReader(resp.Body, p.maxBody)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// deliver re-enters the UI-affine call path before touching the host.
// If the host has been torn down in the interim the result is dropped
// without raising.
func (p *Pipeline) deliver(requestID, docID uint32, success bool, body []byte, errMsg string) {
	p.dispatch.Invoke(func() {
		h := p.host()
		if h == nil {
			p.log.Debug().
				Uint32("request_id", requestID).
				Msg("host gone, dropping fetch result")
			return
		}
		if err := h.CompleteFetch(requestID, docID, success, body, errMsg); err != nil {
			p.log.Warn().Err(err).
				Uint32("request_id", requestID).
				Msg("CompleteFetch failed")
		}
	})
}
