package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/appo-sh/hostbridge/internal/id"
)

// DefaultTimeout bounds how long Call waits for a host response when no
// per-call timeout is given.
const DefaultTimeout = 30 * time.Second

// Option configures a Bridge at construction time.
type Option func(*Bridge)

// WithObserver installs a diagnostic observer (see SetObserver).
func WithObserver(fn Observer) Option {
	return func(b *Bridge) { b.observer.set(fn) }
}

// WithStats installs a metrics collector.
func WithStats(s Stats) Option {
	return func(b *Bridge) {
		if s != nil {
			b.stats = s
		}
	}
}

// WithDefaultTimeout overrides the default per-request timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// CallOption configures a single Call.
type CallOption func(*callConfig)

type callConfig struct {
	timeout time.Duration
}

// WithTimeout bounds one Call's wait for a host response.
func WithTimeout(d time.Duration) CallOption {
	return func(c *callConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Bridge multiplexes concurrent requests, notifications, and event broadcasts
// over one attachable transport. The correlation table and event hub are the
// only mutable shared state, and both are encapsulated here.
type Bridge struct {
	ids      *id.Generator
	table    *table
	hub      *hub
	observer *observerSlot
	stats    Stats
	timeout  time.Duration

	mu        sync.RWMutex
	transport Transport
	closed    bool
}

// New creates a Bridge with no transport attached. Subscriptions work
// immediately; Call and Notify require an attached, reachable transport.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		ids:      id.NewGenerator(),
		table:    newTable(),
		observer: &observerSlot{},
		stats:    nopStats{},
		timeout:  DefaultTimeout,
	}
	b.hub = newHub(b.observer)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach connects a transport. Replacing an existing transport is allowed;
// in-flight requests keep their pending entries and settle normally if the
// old transport still delivers responses into Ingest.
func (b *Bridge) Attach(t Transport) {
	b.mu.Lock()
	b.transport = t
	b.mu.Unlock()
	b.observer.emit(LevelInfo, "transport attached", nil)
}

// Detach disconnects the current transport, if any.
func (b *Bridge) Detach() {
	b.mu.Lock()
	b.transport = nil
	b.mu.Unlock()
	b.observer.emit(LevelInfo, "transport detached", nil)
}

// Reachable reports whether a host can currently receive frames. Evaluated
// fresh on every call; availability may change between calls.
func (b *Bridge) Reachable() bool {
	t := b.currentTransport()
	return t != nil && t.Reachable()
}

// SetObserver replaces the diagnostic observer. Pass nil to unset. The
// observer has no behavioral effect and its panics never propagate.
func (b *Bridge) SetObserver(fn Observer) {
	b.observer.set(fn)
}

// Call sends a request on the given channel and waits for the host's
// response. It fails immediately with KindUnreachable when no host is
// reachable, with KindTimeout when the response window elapses, and with
// KindHostReported when the host answers success=false. Responses to
// concurrent calls may arrive in any order; each settles its own caller.
func (b *Bridge) Call(ctx context.Context, channel string, payload any, opts ...CallOption) (any, error) {
	cfg := callConfig{timeout: b.timeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := b.currentTransport()
	if t == nil || !t.Reachable() {
		return nil, unreachableError(channel)
	}

	reqID := b.ids.MessageID()
	frame, err := encodeFrame(Request{ID: reqID, Type: channel, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode request %s: %w", channel, err)
	}

	// Register before sending so a response can never beat its entry.
	p := b.table.register(reqID, channel, cfg.timeout, func(p *pending) {
		b.stats.RequestSettled(p.channel, OutcomeTimeout)
		b.observer.emit(LevelWarn, "request timed out", map[string]any{
			"type": p.channel,
			"id":   p.id,
		})
	})

	b.stats.RequestSent(channel)
	b.observer.emit(LevelDebug, "request sent", map[string]any{
		"type": channel,
		"id":   reqID,
	})

	if err := t.Send(frame); err != nil {
		b.table.forget(reqID)
		return nil, &Error{
			Kind:    KindUnreachable,
			Channel: channel,
			Message: fmt.Sprintf("transport send: %v", err),
		}
	}

	select {
	case s := <-p.done:
		return s.data, s.err
	case <-ctx.Done():
		b.table.forget(reqID)
		return nil, ctx.Err()
	}
}

// Notify sends a fire-and-forget request: a fresh id goes on the wire but no
// pending entry is registered, so any response the host produces for it is
// dropped as unrecognized noise. When no host is reachable it is a no-op.
func (b *Bridge) Notify(channel string, payload any) error {
	t := b.currentTransport()
	if t == nil || !t.Reachable() {
		return nil
	}

	reqID := b.ids.MessageID()
	frame, err := encodeFrame(Request{ID: reqID, Type: channel, Payload: payload})
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", channel, err)
	}

	b.stats.NotifySent(channel)
	b.observer.emit(LevelDebug, "notification sent", map[string]any{
		"type": channel,
		"id":   reqID,
	})

	return t.Send(frame)
}

// Subscribe registers a callback for a named event channel. Listeners may be
// registered before any host attaches. The returned handle's Cancel is
// idempotent.
func (b *Bridge) Subscribe(channel string, fn EventFunc) *Subscription {
	return b.hub.subscribe(channel, fn)
}

// Ingest feeds one unit of incoming wire data into the bridge: responses
// settle their pending caller, events fan out to subscribers, and anything
// else is logged and dropped. It never panics on malformed input.
func (b *Bridge) Ingest(data any) {
	d := decodeFrame(data)
	switch d.kind {
	case frameResponse:
		channel, ok := b.table.settle(d.response)
		if !ok {
			b.stats.FrameDropped()
			b.observer.emit(LevelDebug, "response without pending request dropped", map[string]any{
				"id": d.response.ID,
			})
			return
		}
		outcome := OutcomeResolved
		if !d.response.Success {
			outcome = OutcomeRejected
		}
		b.stats.RequestSettled(channel, outcome)

	case frameEvent:
		n := b.hub.publish(d.event.Event, d.event.Data)
		b.stats.EventDelivered(d.event.Event, n)

	default:
		b.stats.FrameDropped()
		b.observer.emit(LevelWarn, "malformed frame dropped", nil)
	}
}

// InFlight reports the number of unsettled requests.
func (b *Bridge) InFlight() int {
	return b.table.size()
}

// Close detaches the transport and rejects every in-flight request. Further
// calls fail with KindUnreachable; subscriptions stay registered but receive
// nothing until a transport is attached again.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.transport = nil
	b.closed = true
	b.mu.Unlock()

	b.table.abandon()
	b.observer.emit(LevelInfo, "bridge closed", nil)
}

func (b *Bridge) currentTransport() Transport {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	return b.transport
}
