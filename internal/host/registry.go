package host

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Handler answers requests for a single feature's channels.
type Handler interface {
	// Feature returns the feature name this handler serves ("storage", "push").
	Feature() string

	// Handle executes one action of the feature. The payload is the decoded
	// request payload, which may be nil for actions that take none.
	Handle(ctx context.Context, action string, payload map[string]any) (any, error)
}

// Registry maps feature names to handlers and dispatches dot-namespaced
// channel names to them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler. Registering a feature twice replaces the previous
// handler.
func (r *Registry) Register(h Handler) error {
	feature := h.Feature()
	if feature == "" {
		return fmt.Errorf("handler has empty feature name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[feature] = h
	return nil
}

// Get returns the handler for a feature.
func (r *Registry) Get(feature string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[feature]
	return h, ok
}

// Dispatch routes a channel name like "storage.get" to the storage handler's
// "get" action.
func (r *Registry) Dispatch(ctx context.Context, channel string, payload map[string]any) (any, error) {
	feature, action, ok := strings.Cut(channel, ".")
	if !ok || feature == "" || action == "" {
		return nil, fmt.Errorf("malformed channel %q: expected feature.action", channel)
	}
	h, found := r.Get(feature)
	if !found {
		return nil, fmt.Errorf("no handler for feature %q", feature)
	}
	return h.Handle(ctx, action, payload)
}

// Features returns the registered feature names.
func (r *Registry) Features() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
