// Package host implements the reference host daemon: a development-time
// embedder that speaks the bridge wire protocol over WebSocket so guests can
// run end-to-end without a real application shell.
//
// Components:
//   - Registry: feature handlers keyed by feature name, dispatched by
//     dot-namespaced channel ("storage.get" -> storage handler, "get" action)
//   - Fixtures: YAML-backed canned answers for device, network, permission,
//     camera, location, push, and share channels
//   - Session: one guest WebSocket connection with its inbound rate limiter
//   - Server: gin router exposing /ws, /health, and /metrics
//
// The daemon answers every request it has a handler for, broadcasts events
// to all connected sessions, and can synthesize periodic network.change
// events for exercising guest subscriptions.
package host
