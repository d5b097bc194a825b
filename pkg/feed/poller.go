package feed

import (
	"context"
	"log"
	"sync"
	"time"
)

// Poller owns the periodic fetch lifecycle. It has two states, stopped and
// running, and both transitions are idempotent: enabling a running poller
// or disabling a stopped one is a no-op.
//
// Each tick is independent. The fetch runs in its own goroutine so a slow
// or failed fetch never blocks or skips the next scheduled tick; if a fetch
// outlasts the interval the next one may overlap it, which is tolerated
// because the registry merge path is safe under concurrent dispatch.
type Poller struct {
	client   *Client
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// sinkMu guards sinks separately: the run loop reads them on every
	// tick, and must never contend with stopLocked waiting on done.
	sinkMu sync.Mutex
	sinks  []Sink
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval overrides the fixed polling interval. Used by tests; the
// production interval is PollingInterval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// NewPoller creates a stopped poller around client.
func NewPoller(client *Client, opts ...PollerOption) *Poller {
	p := &Poller{
		client:   client,
		interval: PollingInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attach registers a consumer sink. Until at least one sink is attached, a
// scheduled tick skips the fetch entirely rather than doing network I/O
// nobody will see.
func (p *Poller) Attach(sink Sink) {
	p.sinkMu.Lock()
	defer p.sinkMu.Unlock()
	p.sinks = append(p.sinks, sink)
}

// SetEnabled starts or stops periodic fetching. Enabling runs a fetch
// immediately and then every interval; disabling stops scheduling new
// fetches but does not abort one already in flight (its result is merged
// or discarded harmlessly).
func (p *Poller) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if enabled {
		if p.cancel != nil {
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.done = make(chan struct{})
		go p.run(ctx, p.done)
	} else {
		p.stopLocked()
	}
}

// Enabled reports whether the poller is currently running.
func (p *Poller) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Close forces the poller into the stopped state. Safe to call repeatedly
// and regardless of current state.
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// stopLocked cancels the run loop and waits for it to exit. Callers hold
// p.mu; the run loop only ever takes sinkMu, so this cannot deadlock.
func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

// run is the poll loop: one tick at start, then one per interval.
func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick launches one fetch, unless no consumer is attached.
func (p *Poller) tick(ctx context.Context) {
	p.sinkMu.Lock()
	sinks := make([]Sink, len(p.sinks))
	copy(sinks, p.sinks)
	p.sinkMu.Unlock()

	if len(sinks) == 0 {
		return
	}

	go func() {
		err := p.client.FetchAndDispatch(ctx, func(objectID string, rec *RawRecord) error {
			for _, sink := range sinks {
				if err := sink(objectID, rec); err != nil {
					log.Printf("feed: sink error for %s: %v", objectID, err)
				}
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("feed: poll failed: %v", err)
		}
	}()
}

// RegistrySink returns a sink that routes records into reg: get or create
// the aircraft, translate the record, merge. This is the standard
// consumption path described in the package documentation.
func RegistrySink(reg *Registry) Sink {
	return func(objectID string, rec *RawRecord) error {
		upd, info, ts := Translate(rec)
		reg.GetOrCreate(objectID).Merge(upd, info, ts)
		return nil
	}
}
