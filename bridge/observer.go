package bridge

import "sync"

// Level grades observer notifications.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Observer receives diagnostic notifications at bridge lifecycle points. It
// has no behavioral effect on the bridge; fields never include payloads.
type Observer func(level Level, msg string, fields map[string]any)

// observerSlot holds at most one observer. Reads happen at every logging
// point; when empty, logging is a no-op.
type observerSlot struct {
	mu sync.RWMutex
	fn Observer
}

func (s *observerSlot) set(fn Observer) {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
}

// emit invokes the current observer if set. Panics raised by the observer are
// swallowed: diagnostics must never propagate into bridge logic.
func (s *observerSlot) emit(level Level, msg string, fields map[string]any) {
	s.mu.RLock()
	fn := s.fn
	s.mu.RUnlock()
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(level, msg, fields)
}
