package bridge

import (
	"sync"

	"github.com/google/uuid"
)

// EventFunc receives event payloads for a subscribed channel.
type EventFunc func(data any)

// Subscription is the handle returned by Subscribe. Cancel is idempotent:
// second and later calls are no-ops.
type Subscription struct {
	id      uuid.UUID
	channel string
	hub     *hub
}

// Channel returns the channel name this subscription listens on.
func (s *Subscription) Channel() string { return s.channel }

// Cancel removes exactly this callback from exactly this channel.
func (s *Subscription) Cancel() {
	s.hub.unsubscribe(s.channel, s.id)
}

type subscriber struct {
	id uuid.UUID
	fn EventFunc
}

// hub maps channel names to subscriber lists, preserving registration order.
// Removing the last subscriber for a channel removes the channel entry.
type hub struct {
	mu       sync.RWMutex
	channels map[string][]subscriber
	observer *observerSlot
}

func newHub(observer *observerSlot) *hub {
	return &hub{
		channels: make(map[string][]subscriber),
		observer: observer,
	}
}

func (h *hub) subscribe(channel string, fn EventFunc) *Subscription {
	sub := &Subscription{id: uuid.New(), channel: channel, hub: h}

	h.mu.Lock()
	h.channels[channel] = append(h.channels[channel], subscriber{id: sub.id, fn: fn})
	h.mu.Unlock()

	return sub
}

func (h *hub) unsubscribe(channel string, id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.channels[channel]
	for i, s := range subs {
		if s.id == id {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(h.channels, channel)
	} else {
		h.channels[channel] = subs
	}
}

// publish fans data out to every subscriber of channel, synchronously and in
// registration order. A panicking callback is isolated so the remaining
// subscribers still receive the event. A channel with no subscribers is a
// silent no-op.
func (h *hub) publish(channel string, data any) int {
	h.mu.RLock()
	subs := make([]subscriber, len(h.channels[channel]))
	copy(subs, h.channels[channel])
	h.mu.RUnlock()

	for _, s := range subs {
		h.deliver(channel, s, data)
	}
	return len(subs)
}

func (h *hub) deliver(channel string, s subscriber, data any) {
	defer func() {
		if r := recover(); r != nil {
			h.observer.emit(LevelError, "event subscriber panicked", map[string]any{
				"channel": channel,
				"panic":   r,
			})
		}
	}()
	s.fn(data)
}

// subscriberCount reports the number of subscribers on a channel.
func (h *hub) subscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
