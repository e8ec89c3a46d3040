// Package archive persists an audit trail of bridge operations to a
// Lode dataset.
//
// Records are partitioned by source, day, and session so downstream
// tooling can query "what did operators do on this console today"
// without scanning everything. Filesystem and S3 backends are supported.
package archive

import "time"

// AuditRecord is one archived operation result.
// Envelope metadata is flattened; operation payloads are not archived.
type AuditRecord struct {
	SessionID string `json:"session_id"`
	Operation string `json:"operation"`
	Mode      string `json:"mode"`
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
	Ts        string `json:"ts"` // ISO 8601 UTC
}

// Config holds archive partition keys.
type Config struct {
	// Dataset is the Lode dataset ID (fixed to "steward-audit").
	Dataset string
	// Source identifies the console host or deployment.
	Source string
	// Day is the partition day (YYYY-MM-DD UTC).
	Day string
	// SessionID is the console session identifier.
	SessionID string
}

// DeriveDay computes the partition day from a session start time.
// Format: YYYY-MM-DD in UTC.
func DeriveDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
