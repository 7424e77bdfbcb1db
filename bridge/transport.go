package bridge

// Transport is the host-provided send primitive. Implementations deliver one
// encoded frame to the host; how responses and events come back is up to the
// embedding, which feeds them into Bridge.Ingest.
type Transport interface {
	// Send delivers a single encoded frame to the host.
	Send(frame []byte) error
	// Reachable reports whether the host can currently receive frames.
	// Availability can change between calls, so it is evaluated fresh on
	// every send and never cached.
	Reachable() bool
}
