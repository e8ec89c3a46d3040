// Package adapter defines the notification boundary for bridge operations.
//
// Adapters publish operation completion notifications to downstream systems
// (alerting, audit consumers). The console owns adapter lifecycle; users
// provide configuration only.
package adapter

import "context"

// OperationEvent is the payload published when a mutating bridge
// operation completes.
type OperationEvent struct {
	EventType string `json:"event_type"` // always "operation_completed"
	SessionID string `json:"session_id"`
	Operation string `json:"operation"`
	Mode      string `json:"mode"` // "real" or "mock"
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"` // ISO 8601
}

// EventTypeOperationCompleted is the only event type currently published.
const EventTypeOperationCompleted = "operation_completed"

// Adapter publishes operation events to a downstream system.
// Implementations must be safe for concurrent use within a session.
type Adapter interface {
	// Publish sends an operation event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *OperationEvent) error

	// Close releases adapter resources.
	Close() error
}
