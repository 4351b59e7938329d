// Package dispatcher fans many Sessions' Requests in to one Engine and
// fans the Engine's Events back out to every registered Session
// (spec.md §4.4), the way ejyy-femto_go's StartInputDistributor/
// StartOutputDistributor pump a single engine from one side to the
// other, generalised here to a many-producer, many-consumer registry.
package dispatcher

import (
	"sync"
	"sync/atomic"

	"github.com/tembolo1284/go-matching-engine/domain"
	"github.com/tembolo1284/go-matching-engine/logging"
	"github.com/tembolo1284/go-matching-engine/matching"
	"github.com/tembolo1284/go-matching-engine/queue"
)

var logger = logging.Component("dispatcher")

// sessionHandle is the minimal surface Dispatcher needs from a Session,
// kept narrow so dispatcher_test.go can exercise it without a real
// net.Conn.
type sessionHandle interface {
	Enqueue(ev domain.Event)
}

// Dispatcher owns the single inbound Request queue the Engine drains
// and the registry of Sessions every outbound Event is broadcast to.
type Dispatcher struct {
	inbound *queue.Unbounded[domain.Request]

	mu       sync.Mutex
	sessions map[uint64]sessionHandle

	requestsReceived atomic.Uint64
	eventsGenerated  atomic.Uint64
}

// New returns an empty Dispatcher ready to accept registrations and
// Submit calls.
func New() *Dispatcher {
	return &Dispatcher{
		inbound:  queue.NewUnbounded[domain.Request](),
		sessions: make(map[uint64]sessionHandle),
	}
}

// Register adds a session to the broadcast set. Serialised with
// Broadcast under the same lock so an Event produced concurrently with
// a Register either reaches the new session or is emitted before it
// registers, never half-delivered (spec.md §4.4).
func (d *Dispatcher) Register(id uint64, s sessionHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[id] = s
}

// Deregister removes a session from the broadcast set. Once this
// returns, no future Broadcast will enqueue into that session.
func (d *Dispatcher) Deregister(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, id)
}

// SessionCount reports how many sessions are currently registered, for
// the metrics gauge (spec.md §4.5).
func (d *Dispatcher) SessionCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

// Submit enqueues req for the Engine without blocking the calling
// Session's ReadLoop (spec.md §5).
func (d *Dispatcher) Submit(req domain.Request) {
	d.inbound.Push(req)
}

// Broadcast enqueues ev into every currently registered session's
// outbound queue, under the same lock used by Register/Deregister.
func (d *Dispatcher) Broadcast(ev domain.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sessions {
		s.Enqueue(ev)
	}
}

// RequestsReceived and EventsGenerated back the counters spec.md §4.5
// requires the service to expose.
func (d *Dispatcher) RequestsReceived() uint64 { return d.requestsReceived.Load() }
func (d *Dispatcher) EventsGenerated() uint64  { return d.eventsGenerated.Load() }

// Run drains the inbound queue and feeds engine, broadcasting every
// Event each Request produces before moving to the next one, preserving
// the per-Request contiguity spec.md §4 requires. Run returns once the
// Dispatcher is closed and the queue is drained.
func (d *Dispatcher) Run(engine *matching.Engine) {
	for {
		req, ok := d.inbound.Pop()
		if !ok {
			logger.Info().Msg("dispatcher run loop exiting, inbound queue closed")
			return
		}
		d.requestsReceived.Add(1)
		events := engine.Process(req)
		d.eventsGenerated.Add(uint64(len(events)))
		for _, ev := range events {
			d.Broadcast(ev)
		}
	}
}

// Close stops Run once the inbound queue drains, used during graceful
// shutdown.
func (d *Dispatcher) Close() {
	d.inbound.Close()
}
