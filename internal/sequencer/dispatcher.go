package sequencer

import (
	"context"
	"sync"
)

// QueuePolicy selects how the dispatcher treats a navigation request that
// arrives while another is in flight.
type QueuePolicy int

const (
	// PolicySupersede cancels the in-flight navigation and replaces any
	// pending one: user-driven navigation is the most recent user intent.
	// This is the default.
	PolicySupersede QueuePolicy = iota + 1

	// PolicyFIFO queues requests behind the in-flight one in arrival
	// order.
	PolicyFIFO
)

// Result is the completion of one dispatched navigation.
type Result struct {
	Outcome Outcome
	Err     error
}

type navTicket struct {
	req  Request
	done chan Result // buffered, written exactly once
}

// Dispatcher serializes navigation requests into a single-writer loop.
// One logical navigation runs to completion before the next is accepted;
// the sequencer and the node tree are only ever touched from Run's
// goroutine.
//
// Thread-safety model:
//   - Navigate(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type Dispatcher struct {
	seq    *Sequencer
	policy QueuePolicy

	mu       sync.Mutex
	pending  []*navTicket
	closed   bool
	inflight context.CancelFunc // non-nil while an attempt runs
	signal   chan struct{}      // buffered size 1, coalesces wakeups
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithQueuePolicy selects the in-flight arrival policy.
func WithQueuePolicy(p QueuePolicy) DispatcherOption {
	return func(d *Dispatcher) {
		d.policy = p
	}
}

// NewDispatcher creates a dispatcher over the given sequencer.
func NewDispatcher(seq *Sequencer, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		seq:    seq,
		policy: PolicySupersede,
		signal: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Navigate submits a navigation request. The returned channel receives
// exactly one Result; a superseded request completes with ErrSuperseded.
// Returns ok=false if the dispatcher has been stopped.
//
// Thread-safe: may be called from any goroutine.
func (d *Dispatcher) Navigate(req Request) (<-chan Result, bool) {
	done := make(chan Result, 1)
	ticket := &navTicket{req: req, done: done}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, false
	}

	if d.policy == PolicySupersede {
		// Newest wins: fail every pending ticket and cancel the
		// in-flight attempt through its context.
		for _, t := range d.pending {
			t.done <- Result{Outcome: Outcome{Kind: OutcomeCancelled}, Err: ErrSuperseded}
		}
		d.pending = d.pending[:0]
		if d.inflight != nil {
			d.inflight()
		}
	}
	d.pending = append(d.pending, ticket)

	select {
	case d.signal <- struct{}{}:
	default:
	}
	d.mu.Unlock()

	return done, true
}

// Len returns the number of pending (not yet started) navigations.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop shuts the dispatcher down. Pending navigations complete with
// ErrSuperseded; Run returns after draining.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, t := range d.pending {
		t.done <- Result{Outcome: Outcome{Kind: OutcomeCancelled}, Err: ErrSuperseded}
	}
	d.pending = nil
	if d.inflight != nil {
		d.inflight()
	}
	close(d.signal)
}

// Run starts the single-writer navigation loop. Blocks until the context
// is cancelled or Stop is called.
//
// Must be called from exactly ONE goroutine: all tree mutation happens
// here.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		ticket, ok := d.take(ctx)
		if ok {
			attemptCtx, cancel := context.WithCancel(ctx)

			d.mu.Lock()
			d.inflight = cancel
			d.mu.Unlock()

			out, err := d.seq.Attempt(attemptCtx, ticket.req)

			d.mu.Lock()
			d.inflight = nil
			d.mu.Unlock()
			cancel()

			if attemptCtx.Err() != nil && ctx.Err() == nil {
				// Cancelled by a superseding request, not by shutdown.
				err = ErrSuperseded
			}
			ticket.done <- Result{Outcome: out, Err: err}
			continue
		}

		select {
		case <-ctx.Done():
			d.Stop()
			return ctx.Err()
		case <-d.signal:
			d.mu.Lock()
			drained := d.closed && len(d.pending) == 0
			d.mu.Unlock()
			if drained {
				return nil
			}
		}
	}
}

// take pops the next pending ticket without blocking.
func (d *Dispatcher) take(ctx context.Context) (*navTicket, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return nil, false
	}
	t := d.pending[0]
	d.pending[0] = nil // allow GC of the ticket's request
	d.pending = d.pending[1:]
	return t, true
}
