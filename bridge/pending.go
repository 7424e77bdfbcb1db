package bridge

import (
	"sync"
	"time"
)

// settlement is the single-assignment outcome of a pending request.
type settlement struct {
	data any
	err  error
}

// pending tracks one in-flight request. Its done channel is buffered so the
// settling side never blocks on a caller that already gave up.
type pending struct {
	id      string
	channel string
	done    chan settlement
	timer   *time.Timer
}

// table is the correlation table: id -> pending entry. Exactly-once
// settlement is enforced by removing the entry under the mutex before
// delivering; whichever path removes it owns delivery.
type table struct {
	mu      sync.Mutex
	entries map[string]*pending
}

func newTable() *table {
	return &table{entries: make(map[string]*pending)}
}

// register inserts a Pending entry and arms its timeout. onTimeout runs only
// if the timer wins the race for the entry.
func (t *table) register(id, channel string, timeout time.Duration, onTimeout func(p *pending)) *pending {
	p := &pending{
		id:      id,
		channel: channel,
		done:    make(chan settlement, 1),
	}

	t.mu.Lock()
	t.entries[id] = p
	t.mu.Unlock()

	p.timer = time.AfterFunc(timeout, func() {
		if t.take(id) != p {
			return // already settled; entry gone
		}
		p.done <- settlement{err: timeoutError(channel)}
		if onTimeout != nil {
			onTimeout(p)
		}
	})

	return p
}

// settle resolves or rejects the entry matching resp.ID. Unknown or already
// settled ids are a no-op: late and duplicate responses must never throw or
// double-resolve. It reports whether a caller was actually settled.
func (t *table) settle(resp Response) (channel string, ok bool) {
	p := t.take(resp.ID)
	if p == nil {
		return "", false
	}
	p.timer.Stop()

	if resp.Success {
		p.done <- settlement{data: resp.Data}
	} else {
		p.done <- settlement{err: hostError(p.channel, resp.Error)}
	}
	return p.channel, true
}

// forget drops an entry without delivering anything. Used when the caller's
// context is cancelled; a later response for the id becomes unrecognized noise.
func (t *table) forget(id string) {
	if p := t.take(id); p != nil {
		p.timer.Stop()
	}
}

// abandon rejects every remaining entry. Used at bridge teardown.
func (t *table) abandon() {
	t.mu.Lock()
	entries := t.entries
	t.entries = make(map[string]*pending)
	t.mu.Unlock()

	for _, p := range entries {
		p.timer.Stop()
		p.done <- settlement{err: &Error{
			Kind:    KindUnreachable,
			Channel: p.channel,
			Message: "bridge closed",
		}}
	}
}

// take removes and returns the entry for id, or nil if it is not pending.
func (t *table) take(id string) *pending {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.entries[id]
	if p != nil {
		delete(t.entries, id)
	}
	return p
}

// size reports the number of in-flight requests.
func (t *table) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
