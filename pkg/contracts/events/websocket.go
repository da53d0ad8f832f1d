// Package events contains the WebSocket message contracts pushed to open
// dashboards.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeDatasetReloaded    MessageType = "dataset:reloaded"
	MessageTypeDatasetReloadError MessageType = "dataset:reload_failed"

	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// DatasetSnapshot describes a published dataset. Clients compare the
// fingerprint with the ETag of their last view to decide whether to refresh.
type DatasetSnapshot struct {
	Fingerprint string    `json:"fingerprint"`
	Records     int       `json:"records"`
	Sources     int       `json:"sources"`
	BuiltAt     time.Time `json:"built_at"`
	Previous    string    `json:"previous,omitempty"`
	Error       string    `json:"error,omitempty"`
}
