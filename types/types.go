// Package types defines core domain types for the Steward console.
//
//nolint:revive // types is a common Go package naming convention
package types

import "time"

// ClientStatus represents the connection state of a backup client.
type ClientStatus string

// Client status constants.
const (
	ClientOnline    ClientStatus = "online"
	ClientOffline   ClientStatus = "offline"
	ClientBackingUp ClientStatus = "backing_up"
	ClientError     ClientStatus = "error"
)

// IsConnected returns true if the client currently holds a session.
func (s ClientStatus) IsConnected() bool {
	return s == ClientOnline || s == ClientBackingUp
}

// ClientRecord describes a backup client known to the server.
type ClientRecord struct {
	ID           string       `json:"id" msgpack:"id"`
	Hostname     string       `json:"hostname" msgpack:"hostname"`
	Address      string       `json:"address" msgpack:"address"`
	OS           string       `json:"os" msgpack:"os"`
	Status       ClientStatus `json:"status" msgpack:"status"`
	LastSeen     time.Time    `json:"last_seen" msgpack:"last_seen"`
	LastBackupAt *time.Time   `json:"last_backup_at,omitempty" msgpack:"last_backup_at,omitempty"`
	BackupCount  int          `json:"backup_count" msgpack:"backup_count"`
	TotalBytes   int64        `json:"total_bytes" msgpack:"total_bytes"`
}

// BackupFile describes a single file held in the backup store for a client.
type BackupFile struct {
	ID         string    `json:"id" msgpack:"id"`
	ClientID   string    `json:"client_id" msgpack:"client_id"`
	Path       string    `json:"path" msgpack:"path"`
	SizeBytes  int64     `json:"size_bytes" msgpack:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at" msgpack:"modified_at"`
	BackedUpAt time.Time `json:"backed_up_at" msgpack:"backed_up_at"`
	Checksum   string    `json:"checksum" msgpack:"checksum"`
	Compressed bool      `json:"compressed" msgpack:"compressed"`
}

// LogLevel represents log severity for server log entries.
type LogLevel string

// Log level constants.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogEntry is a single server log line.
type LogEntry struct {
	Ts        time.Time `json:"ts" msgpack:"ts"`
	Level     LogLevel  `json:"level" msgpack:"level"`
	Component string    `json:"component" msgpack:"component"`
	Message   string    `json:"message" msgpack:"message"`
}

// ServerState represents the lifecycle state of the backup server.
type ServerState string

// Server state constants.
const (
	ServerRunning  ServerState = "running"
	ServerStopped  ServerState = "stopped"
	ServerStarting ServerState = "starting"
	ServerStopping ServerState = "stopping"
)

// ServerStatus is the top-level server status snapshot shown on the dashboard.
type ServerStatus struct {
	State            ServerState `json:"state" msgpack:"state"`
	Version          string      `json:"version" msgpack:"version"`
	StartedAt        time.Time   `json:"started_at" msgpack:"started_at"`
	UptimeSeconds    int64       `json:"uptime_seconds" msgpack:"uptime_seconds"`
	ConnectedClients int         `json:"connected_clients" msgpack:"connected_clients"`
}

// ServerMetrics is a point-in-time resource metrics sample.
type ServerMetrics struct {
	CPUPercent     float64 `json:"cpu_percent" msgpack:"cpu_percent"`
	MemoryPercent  float64 `json:"memory_percent" msgpack:"memory_percent"`
	DiskPercent    float64 `json:"disk_percent" msgpack:"disk_percent"`
	ActiveSessions int     `json:"active_sessions" msgpack:"active_sessions"`
	QueuedJobs     int     `json:"queued_jobs" msgpack:"queued_jobs"`
	BytesInPerSec  int64   `json:"bytes_in_per_sec" msgpack:"bytes_in_per_sec"`
	BytesOutPerSec int64   `json:"bytes_out_per_sec" msgpack:"bytes_out_per_sec"`
	SampledAt      string  `json:"sampled_at" msgpack:"sampled_at"` // ISO 8601 UTC
}

// StorageInfo describes the backup storage pool.
type StorageInfo struct {
	TotalBytes int64   `json:"total_bytes" msgpack:"total_bytes"`
	UsedBytes  int64   `json:"used_bytes" msgpack:"used_bytes"`
	FreeBytes  int64   `json:"free_bytes" msgpack:"free_bytes"`
	PoolCount  int     `json:"pool_count" msgpack:"pool_count"`
	DedupRatio float64 `json:"dedup_ratio" msgpack:"dedup_ratio"`
}

// TableInfo describes one table in the server database, for the browser view.
type TableInfo struct {
	Name      string `json:"name" msgpack:"name"`
	RowCount  int64  `json:"row_count" msgpack:"row_count"`
	SizeBytes int64  `json:"size_bytes" msgpack:"size_bytes"`
}

// ColumnInfo describes one column of a database table.
type ColumnInfo struct {
	Name     string `json:"name" msgpack:"name"`
	Type     string `json:"type" msgpack:"type"`
	Nullable bool   `json:"nullable" msgpack:"nullable"`
}

// TableRows is a page of rows from a database table.
type TableRows struct {
	Table   string   `json:"table" msgpack:"table"`
	Columns []string `json:"columns" msgpack:"columns"`
	Rows    [][]any  `json:"rows" msgpack:"rows"`
	Offset  int      `json:"offset" msgpack:"offset"`
	Total   int64    `json:"total" msgpack:"total"`
}

// ReportInfo describes an exported status report.
type ReportInfo struct {
	Path        string    `json:"path" msgpack:"path"`
	Format      string    `json:"format" msgpack:"format"`
	SizeBytes   int64     `json:"size_bytes" msgpack:"size_bytes"`
	GeneratedAt time.Time `json:"generated_at" msgpack:"generated_at"`
}
