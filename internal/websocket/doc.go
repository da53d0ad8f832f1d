// Package websocket pushes dataset events to open dashboards.
//
// A Hub owns the set of connected clients. Each Client runs a read pump
// that only watches for disconnects and a write pump that forwards hub
// messages and keepalive pings. Every message is an events.WebSocketMessage
// envelope; after a reload clients receive dataset:reloaded with the new
// fingerprint and refetch their current view.
package websocket
