// Package bridge implements the message-correlation and dispatch core of the
// host bridge: a single serialized channel multiplexing request/response pairs,
// fire-and-forget notifications, and host-to-guest event broadcasts.
//
// Components:
//   - Bridge: the facade callers use (Call, Notify, Subscribe, Ingest)
//   - Transport: the host-provided send primitive, attachable at any time
//   - Correlation table: pending-request tracking with timeout liveness
//   - Event hub: per-channel subscriber fan-out with idempotent cancellation
//   - Codec: defensive classification of wire data into Response/Event frames
//
// Invariants:
//   - Every request is settled at most once (response, timeout, or teardown)
//   - Timers never outlive their pending entry
//   - Responses route strictly by id regardless of arrival order
//   - Malformed or unrecognized frames are logged and dropped, never surfaced
//
// Example Usage:
//
//	b := bridge.New(bridge.WithObserver(obs))
//	b.Attach(transport)
//	sub := b.Subscribe("network.change", func(data any) { ... })
//	defer sub.Cancel()
//	status, err := b.Call(ctx, "network.getStatus", nil)
package bridge
