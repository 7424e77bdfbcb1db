package bridge

// Request is a guest-to-host envelope. The id is unique for the lifetime of
// the process; the type is a dot-namespaced channel name ("feature.action").
type Request struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Response is a host-to-guest envelope answering a previously sent Request.
// Success=true means Data carries the authoritative result (possibly nil);
// success=false means Error carries a human-readable message.
type Response struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Event is a host-to-guest broadcast, not correlated to any request. The same
// channel may fire unboundedly many times.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}
