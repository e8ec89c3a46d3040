package archive

import (
	"context"

	"github.com/harbourline/steward/adapter"
)

// Adapter bridges the notification boundary into the audit archive:
// each published operation event becomes one audit record.
type Adapter struct {
	writer Writer
}

// NewAdapter wraps a Writer as a notification adapter.
func NewAdapter(w Writer) *Adapter {
	return &Adapter{writer: w}
}

// Publish implements adapter.Adapter.
func (a *Adapter) Publish(ctx context.Context, event *adapter.OperationEvent) error {
	return a.writer.WriteRecords(ctx, []AuditRecord{{
		SessionID: event.SessionID,
		Operation: event.Operation,
		Mode:      event.Mode,
		Success:   event.Success,
		ErrorCode: event.ErrorCode,
		Message:   event.Message,
		Ts:        event.Timestamp,
	}})
}

// Close implements adapter.Adapter.
func (a *Adapter) Close() error {
	return a.writer.Close()
}

// Verify Adapter implements the adapter interface.
var _ adapter.Adapter = (*Adapter)(nil)
