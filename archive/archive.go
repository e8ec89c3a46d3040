package archive

import (
	"context"
	"sync"

	"github.com/justapithecus/lode/lode"
)

// Writer abstracts the audit storage client.
// Real implementations write to Lode; stubs are used for testing.
type Writer interface {
	// WriteRecords appends a batch of audit records.
	// Must preserve ordering within the batch.
	WriteRecords(ctx context.Context, records []AuditRecord) error

	// Close releases writer resources.
	Close() error
}

// LodeWriter is a Lode-backed Writer using a Hive layout with partition
// keys: source/day/session_id.
type LodeWriter struct {
	dataset lode.Dataset
	config  Config
}

// NewFSWriter creates a writer with filesystem storage rooted at root.
func NewFSWriter(cfg Config, root string) (*LodeWriter, error) {
	return NewWriterWithFactory(cfg, lode.NewFSFactory(root))
}

// NewWriterWithFactory creates a writer with a custom store factory.
// Use lode.NewMemoryFactory() for testing.
func NewWriterWithFactory(cfg Config, factory lode.StoreFactory) (*LodeWriter, error) {
	if cfg.Dataset == "" {
		cfg.Dataset = "steward-audit"
	}
	ds, err := lode.NewDataset(
		lode.DatasetID(cfg.Dataset),
		factory,
		lode.WithHiveLayout("source", "day", "session_id"),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
	if err != nil {
		return nil, err
	}
	return &LodeWriter{dataset: ds, config: cfg}, nil
}

// WriteRecords appends records to the dataset with the configured
// partition keys stamped onto each record.
func (w *LodeWriter) WriteRecords(ctx context.Context, records []AuditRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]any{
			"source":     w.config.Source,
			"day":        w.config.Day,
			"session_id": w.config.SessionID,
			"operation":  rec.Operation,
			"mode":       rec.Mode,
			"success":    rec.Success,
			"error_code": rec.ErrorCode,
			"message":    rec.Message,
			"ts":         rec.Ts,
		})
	}

	_, err := w.dataset.Write(ctx, rows, lode.Metadata{})
	return err
}

// Close releases writer resources.
func (w *LodeWriter) Close() error {
	// Dataset doesn't require explicit close in current Lode API
	return nil
}

// Verify LodeWriter implements Writer.
var _ Writer = (*LodeWriter)(nil)

// StubWriter records writes in memory for tests.
type StubWriter struct {
	mu      sync.Mutex
	Records []AuditRecord
	Closed  bool
}

// NewStubWriter creates an empty stub writer.
func NewStubWriter() *StubWriter {
	return &StubWriter{}
}

// WriteRecords implements Writer.
func (w *StubWriter) WriteRecords(ctx context.Context, records []AuditRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Records = append(w.Records, records...)
	return nil
}

// Close implements Writer.
func (w *StubWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Closed = true
	return nil
}

// All returns a copy of the recorded writes.
func (w *StubWriter) All() []AuditRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]AuditRecord, len(w.Records))
	copy(out, w.Records)
	return out
}

// Verify StubWriter implements Writer.
var _ Writer = (*StubWriter)(nil)
