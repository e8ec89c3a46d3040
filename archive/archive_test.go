package archive

import (
	"testing"
	"time"

	"github.com/justapithecus/lode/lode"

	"github.com/harbourline/steward/adapter"
)

func testConfig() Config {
	return Config{
		Dataset:   "steward-audit",
		Source:    "test-console",
		Day:       "2026-02-03",
		SessionID: "sess-123",
	}
}

func TestLodeWriter_WriteRecords(t *testing.T) {
	w, err := NewWriterWithFactory(testConfig(), lode.NewMemoryFactory())
	if err != nil {
		t.Fatalf("NewWriterWithFactory failed: %v", err)
	}

	records := []AuditRecord{
		{
			SessionID: "sess-123",
			Operation: "add_client",
			Mode:      "mock",
			Success:   true,
			Message:   "Client added",
			Ts:        "2026-02-03T12:00:00Z",
		},
		{
			SessionID: "sess-123",
			Operation: "stop_server",
			Mode:      "real",
			Success:   false,
			ErrorCode: "REAL_SERVER_ERROR",
			Message:   "connection refused",
			Ts:        "2026-02-03T12:00:01Z",
		},
	}

	if err := w.WriteRecords(t.Context(), records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestLodeWriter_EmptyBatchIsNoOp(t *testing.T) {
	w, err := NewWriterWithFactory(testConfig(), lode.NewMemoryFactory())
	if err != nil {
		t.Fatalf("NewWriterWithFactory failed: %v", err)
	}

	if err := w.WriteRecords(t.Context(), nil); err != nil {
		t.Fatalf("WriteRecords with empty batch failed: %v", err)
	}
}

func TestNewWriterWithFactory_DefaultsDataset(t *testing.T) {
	cfg := testConfig()
	cfg.Dataset = ""

	w, err := NewWriterWithFactory(cfg, lode.NewMemoryFactory())
	if err != nil {
		t.Fatalf("NewWriterWithFactory failed: %v", err)
	}
	if w.config.Dataset != "steward-audit" {
		t.Errorf("Dataset = %q, want %q", w.config.Dataset, "steward-audit")
	}
}

func TestAdapter_PublishWritesOneRecord(t *testing.T) {
	stub := NewStubWriter()
	a := NewAdapter(stub)

	event := &adapter.OperationEvent{
		EventType: adapter.EventTypeOperationCompleted,
		SessionID: "sess-456",
		Operation: "remove_client",
		Mode:      "mock",
		Success:   false,
		ErrorCode: "CLIENT_NOT_FOUND",
		Message:   "Client not found: client-99",
		Timestamp: "2026-02-03T14:30:00Z",
	}
	if err := a.Publish(t.Context(), event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	records := stub.All()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.SessionID != "sess-456" {
		t.Errorf("SessionID = %q, want %q", rec.SessionID, "sess-456")
	}
	if rec.Operation != "remove_client" {
		t.Errorf("Operation = %q, want %q", rec.Operation, "remove_client")
	}
	if rec.Mode != "mock" {
		t.Errorf("Mode = %q, want %q", rec.Mode, "mock")
	}
	if rec.Success {
		t.Error("Success = true, want false")
	}
	if rec.ErrorCode != "CLIENT_NOT_FOUND" {
		t.Errorf("ErrorCode = %q, want %q", rec.ErrorCode, "CLIENT_NOT_FOUND")
	}
	if rec.Ts != "2026-02-03T14:30:00Z" {
		t.Errorf("Ts = %q, want %q", rec.Ts, "2026-02-03T14:30:00Z")
	}
}

func TestAdapter_CloseClosesWriter(t *testing.T) {
	stub := NewStubWriter()
	a := NewAdapter(stub)

	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !stub.Closed {
		t.Error("underlying writer not closed")
	}
}

func TestDeriveDay(t *testing.T) {
	// 23:30 in UTC-2 is already the next day in UTC.
	loc := time.FixedZone("UTC-2", -2*60*60)
	ts := time.Date(2026, 2, 3, 23, 30, 0, 0, loc)

	if day := DeriveDay(ts); day != "2026-02-04" {
		t.Errorf("DeriveDay = %q, want %q", day, "2026-02-04")
	}
}

func TestParseS3Path(t *testing.T) {
	tests := []struct {
		path       string
		wantBucket string
		wantPrefix string
	}{
		{"my-bucket", "my-bucket", ""},
		{"my-bucket/audit", "my-bucket", "audit"},
		{"my-bucket/audit/steward", "my-bucket", "audit/steward"},
	}
	for _, tt := range tests {
		bucket, prefix := ParseS3Path(tt.path)
		if bucket != tt.wantBucket || prefix != tt.wantPrefix {
			t.Errorf("ParseS3Path(%q) = (%q, %q), want (%q, %q)",
				tt.path, bucket, prefix, tt.wantBucket, tt.wantPrefix)
		}
	}
}

func TestS3Config_Validate(t *testing.T) {
	cfg := S3Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing bucket")
	}

	cfg.Bucket = "my-bucket"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
