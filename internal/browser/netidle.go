// internal/browser/netidle.go
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// quietPeriod is how long the wire must stay silent before the page counts
// as idle. Matches the half-second window headless drivers conventionally
// use for "networkidle".
const quietPeriod = 500 * time.Millisecond

// networkTracker follows CDP network events to answer two questions: how
// many requests are currently in flight, and what status the main document
// came back with.
type networkTracker struct {
	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	lastDone time.Time
	status   int
	logger   *zap.Logger
}

func newNetworkTracker(browserCtx context.Context, logger *zap.Logger) *networkTracker {
	t := &networkTracker{
		inflight: make(map[network.RequestID]struct{}),
		lastDone: time.Now(),
		logger:   logger,
	}

	chromedp.ListenTarget(browserCtx, func(ev any) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			t.mu.Lock()
			t.inflight[e.RequestID] = struct{}{}
			t.mu.Unlock()
		case *network.EventResponseReceived:
			if e.Type == network.ResourceTypeDocument {
				t.mu.Lock()
				if t.status == 0 {
					t.status = int(e.Response.Status)
				}
				t.mu.Unlock()
			}
		case *network.EventLoadingFinished:
			t.finish(e.RequestID)
		case *network.EventLoadingFailed:
			t.finish(e.RequestID)
		}
	})
	return t
}

func (t *networkTracker) finish(id network.RequestID) {
	t.mu.Lock()
	delete(t.inflight, id)
	t.lastDone = time.Now()
	t.mu.Unlock()
}

// reset clears state before a new navigation.
func (t *networkTracker) reset() {
	t.mu.Lock()
	t.inflight = make(map[network.RequestID]struct{})
	t.lastDone = time.Now()
	t.status = 0
	t.mu.Unlock()
}

// mainStatus returns the main document's HTTP status, or zero if no
// document response was seen.
func (t *networkTracker) mainStatus() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// waitIdle blocks until no request has been in flight for quietPeriod, or
// the context expires. Expiry returns nil: pages that stream forever are
// common and not an error.
func (t *networkTracker) waitIdle(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("Network idle wait ended by context; continuing.")
			return nil
		case <-ticker.C:
			t.mu.Lock()
			idle := len(t.inflight) == 0 && time.Since(t.lastDone) >= quietPeriod
			t.mu.Unlock()
			if idle {
				return nil
			}
		}
	}
}
