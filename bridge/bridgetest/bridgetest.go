// Package bridgetest provides an in-process host for exercising bridges in
// tests: scripted per-channel handlers, recorded outgoing requests, and
// manual event emission, with no real transport involved.
package bridgetest

import (
	"errors"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/appo-sh/hostbridge/bridge"
)

// Handler answers one request payload. Returning an error produces a
// success=false response carrying the error's message.
type Handler func(payload any) (any, error)

// Host is a fake embedding application. It implements bridge.Transport and
// answers requests synchronously from registered handlers. Channels with no
// handler receive no response, which lets timeout paths run naturally.
type Host struct {
	b *bridge.Bridge

	mu        sync.Mutex
	reachable bool
	handlers  map[string]Handler
	requests  []bridge.Request
}

// NewHost creates a Host with a fresh bridge attached to it.
func NewHost(opts ...bridge.Option) *Host {
	h := &Host{
		reachable: true,
		handlers:  make(map[string]Handler),
	}
	h.b = bridge.New(opts...)
	h.b.Attach(h)
	return h
}

// Bridge returns the bridge wired to this host.
func (h *Host) Bridge() *bridge.Bridge { return h.b }

// Handle registers the handler answering requests on channel.
func (h *Host) Handle(channel string, fn Handler) {
	h.mu.Lock()
	h.handlers[channel] = fn
	h.mu.Unlock()
}

// SetReachable toggles the transport's reachability.
func (h *Host) SetReachable(v bool) {
	h.mu.Lock()
	h.reachable = v
	h.mu.Unlock()
}

// Emit broadcasts an event to the bridge, as a real host would.
func (h *Host) Emit(event string, data any) {
	h.b.Ingest(map[string]any{"event": event, "data": data})
}

// Requests returns a copy of every request received so far.
func (h *Host) Requests() []bridge.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]bridge.Request(nil), h.requests...)
}

// Send implements bridge.Transport.
func (h *Host) Send(frame []byte) error {
	var req bridge.Request
	if err := sonic.Unmarshal(frame, &req); err != nil {
		return errors.New("bridgetest: malformed outgoing frame: " + err.Error())
	}

	h.mu.Lock()
	h.requests = append(h.requests, req)
	fn := h.handlers[req.Type]
	h.mu.Unlock()

	if fn == nil {
		return nil
	}

	data, err := fn(req.Payload)
	resp := map[string]any{"id": req.ID, "success": err == nil}
	if err != nil {
		resp["error"] = err.Error()
	} else if data != nil {
		resp["data"] = data
	}
	h.b.Ingest(resp)
	return nil
}

// Reachable implements bridge.Transport.
func (h *Host) Reachable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reachable
}
