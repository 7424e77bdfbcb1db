package bridge

import (
	"errors"
	"fmt"
)

// Kind classifies caller-facing bridge failures.
type Kind string

const (
	// KindUnreachable means no host transport was attached at send time.
	// The request never reached the wire.
	KindUnreachable Kind = "unreachable"
	// KindTimeout means no response arrived within the configured window.
	KindTimeout Kind = "timeout"
	// KindHostReported means the host explicitly answered success=false.
	KindHostReported Kind = "host_reported"
)

// Sentinel errors for errors.Is matching against failure kinds.
var (
	ErrUnreachable  = errors.New("host unreachable")
	ErrTimeout      = errors.New("request timed out")
	ErrHostReported = errors.New("host reported failure")
)

// Error is a bridge failure surfaced to a caller of Call. Channel carries the
// originating request type for context.
type Error struct {
	Kind    Kind
	Channel string
	Message string
}

func (e *Error) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("bridge: %s (%s): %s", e.Kind, e.Channel, e.Message)
	}
	return fmt.Sprintf("bridge: %s: %s", e.Kind, e.Message)
}

// Is matches the sentinel corresponding to the error's kind, so callers can
// write errors.Is(err, bridge.ErrTimeout).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnreachable:
		return e.Kind == KindUnreachable
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrHostReported:
		return e.Kind == KindHostReported
	}
	return false
}

func unreachableError(channel string) *Error {
	return &Error{Kind: KindUnreachable, Channel: channel, Message: "no host transport attached"}
}

func timeoutError(channel string) *Error {
	return &Error{Kind: KindTimeout, Channel: channel, Message: "no response from host"}
}

func hostError(channel, message string) *Error {
	if message == "" {
		message = "host rejected request"
	}
	return &Error{Kind: KindHostReported, Channel: channel, Message: message}
}
