// Package mockdata provides the substitute data source behind the bridge.
//
// The repository holds a plausible in-memory model of a backup server:
// clients, backed-up files, server logs, and a drifting metrics sample.
// Mutations change the store in place so reads within a session stay
// consistent, and state is snapshotted to disk so repeated sessions look
// consistent too. The repository is injected into the bridge; it never
// constructs one itself.
package mockdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harbourline/steward/bridge"
	"github.com/harbourline/steward/log"
	"github.com/harbourline/steward/settings"
	"github.com/harbourline/steward/types"
)

// Substitute-path error codes.
const (
	CodeClientNotFound    = "CLIENT_NOT_FOUND"
	CodeClientExists      = "CLIENT_EXISTS"
	CodeFileNotFound      = "FILE_NOT_FOUND"
	CodeTableNotFound     = "TABLE_NOT_FOUND"
	CodeServerAlreadyUp   = "SERVER_ALREADY_RUNNING"
	CodeServerNotRunning  = "SERVER_NOT_RUNNING"
	CodeExportFailed      = "MOCK_EXPORT_FAILED"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// Config configures a Repository.
type Config struct {
	// SnapshotPath is where repository state is persisted between sessions.
	// Empty disables persistence.
	SnapshotPath string
	// SettingsPath is the JSON settings document location (required).
	SettingsPath string
	// ExportDir receives exported reports. Defaults to the working directory.
	ExportDir string
	// Seed fixes the data generator. Zero derives a seed from the clock.
	Seed int64
	// SettingsDebounce is the quiet interval before a queued settings write
	// lands on disk. Non-positive uses settings.DefaultDebounce.
	SettingsDebounce time.Duration
	// Logger receives snapshot diagnostics. Defaults to a no-op logger.
	Logger *log.Logger
}

// Repository is the in-memory substitute store.
// All access is mutex-guarded; concurrent console surfaces share one instance.
type Repository struct {
	mu sync.Mutex

	rng     *rand.Rand
	seed    int64
	clients []types.ClientRecord
	files   []types.BackupFile
	logs    []types.LogEntry
	metrics types.ServerMetrics

	state     types.ServerState
	startedAt time.Time

	snapshotPath string
	settingsPath string
	exportDir    string
	saver        *settings.AutoSaver
	logger       *log.Logger
}

// NewRepository creates a repository, restoring a prior snapshot when one
// exists and is readable. A corrupt or missing snapshot regenerates fresh
// data; it is never an error.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.SettingsPath == "" {
		return nil, fmt.Errorf("mockdata: settings path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	r := &Repository{
		snapshotPath: cfg.SnapshotPath,
		settingsPath: cfg.SettingsPath,
		exportDir:    exportDir,
		saver:        settings.NewAutoSaver(cfg.SettingsPath, cfg.SettingsDebounce),
		logger:       logger,
	}

	if cfg.SnapshotPath != "" {
		if snap, err := loadSnapshot(cfg.SnapshotPath); err == nil {
			r.restore(snap)
			return r, nil
		} else if !os.IsNotExist(err) {
			logger.Warn("snapshot unreadable, regenerating", map[string]any{
				"path":  cfg.SnapshotPath,
				"error": err.Error(),
			})
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.generate(seed)
	r.persistLocked()
	return r, nil
}

// Close lands any queued settings write and persists the final
// repository state.
func (r *Repository) Close() error {
	saverErr := r.saver.Close()
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(saverErr, r.saveLocked())
}

// persistLocked saves best effort after a mutation. Callers hold no lock
// assumptions here beyond r.mu; failures are logged, not surfaced, because
// the in-memory store is still authoritative for the session.
func (r *Repository) persistLocked() {
	if err := r.saveLocked(); err != nil {
		r.logger.Warn("snapshot save failed", map[string]any{"error": err.Error()})
	}
}

// --- Status & metrics ---

// ServerStatus implements bridge.Substitute.
func (r *Repository) ServerStatus(ctx context.Context) (*types.ServerStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connected := 0
	for _, c := range r.clients {
		if c.Status.IsConnected() {
			connected++
		}
	}
	uptime := int64(0)
	if r.state == types.ServerRunning {
		uptime = int64(time.Since(r.startedAt).Seconds())
	}
	return &types.ServerStatus{
		State:            r.state,
		Version:          types.Version,
		StartedAt:        r.startedAt,
		UptimeSeconds:    uptime,
		ConnectedClients: connected,
	}, nil
}

// ServerMetrics implements bridge.Substitute. Each call drifts the sample
// within plausible bounds so dashboards animate.
func (r *Repository) ServerMetrics(ctx context.Context) (*types.ServerMetrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics.CPUPercent = drift(r.rng, r.metrics.CPUPercent, 6, 2, 95)
	r.metrics.MemoryPercent = drift(r.rng, r.metrics.MemoryPercent, 3, 10, 92)
	r.metrics.DiskPercent = drift(r.rng, r.metrics.DiskPercent, 0.5, 20, 98)
	r.metrics.BytesInPerSec = int64(drift(r.rng, float64(r.metrics.BytesInPerSec), 2<<20, 0, 200<<20))
	r.metrics.BytesOutPerSec = int64(drift(r.rng, float64(r.metrics.BytesOutPerSec), 1<<20, 0, 100<<20))
	r.metrics.ActiveSessions = countConnected(r.clients)
	r.metrics.QueuedJobs = r.rng.Intn(8)
	r.metrics.SampledAt = time.Now().UTC().Format(time.RFC3339)

	sample := r.metrics
	return &sample, nil
}

// StorageInfo implements bridge.Substitute.
func (r *Repository) StorageInfo(ctx context.Context) (*types.StorageInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var used int64
	for _, f := range r.files {
		used += f.SizeBytes
	}
	total := int64(4) << 40 // 4 TiB pool
	return &types.StorageInfo{
		TotalBytes: total,
		UsedBytes:  used,
		FreeBytes:  total - used,
		PoolCount:  2,
		DedupRatio: 1.0 + float64(len(r.files)%7)/10,
	}, nil
}

// --- Clients ---

// ListClients implements bridge.Substitute.
func (r *Repository) ListClients(ctx context.Context) ([]types.ClientRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.ClientRecord, len(r.clients))
	copy(out, r.clients)
	return out, nil
}

// GetClient implements bridge.Substitute.
func (r *Repository) GetClient(ctx context.Context, id string) (*types.ClientRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.clientIndex(id); i >= 0 {
		c := r.clients[i]
		return &c, nil
	}
	return nil, bridge.NewCodedError(CodeClientNotFound, "no client with id %q", id)
}

// AddClient implements bridge.Substitute. An empty ID is assigned.
func (r *Repository) AddClient(ctx context.Context, rec types.ClientRecord) (*types.ClientRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = randomID(r.rng)
	} else if r.clientIndex(rec.ID) >= 0 {
		return nil, bridge.NewCodedError(CodeClientExists, "client %q already registered", rec.ID)
	}
	if rec.Status == "" {
		rec.Status = types.ClientOffline
	}
	rec.LastSeen = time.Now()
	r.clients = append(r.clients, rec)
	r.appendLog(types.LogLevelInfo, "clients", fmt.Sprintf("client %s (%s) registered", rec.ID, rec.Hostname))
	r.persistLocked()

	added := rec
	return &added, nil
}

// RemoveClient implements bridge.Substitute. The client's backup files
// are removed with it.
func (r *Repository) RemoveClient(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.clientIndex(id)
	if i < 0 {
		return bridge.NewCodedError(CodeClientNotFound, "no client with id %q", id)
	}
	r.clients = append(r.clients[:i], r.clients[i+1:]...)

	kept := r.files[:0]
	for _, f := range r.files {
		if f.ClientID != id {
			kept = append(kept, f)
		}
	}
	r.files = kept
	r.appendLog(types.LogLevelWarn, "clients", fmt.Sprintf("client %s removed", id))
	r.persistLocked()
	return nil
}

// DisconnectClient implements bridge.Substitute. Only a connected client
// can be disconnected; a second disconnect for the same id reports
// CLIENT_NOT_FOUND because the session no longer exists.
func (r *Repository) DisconnectClient(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.clientIndex(id)
	if i < 0 || !r.clients[i].Status.IsConnected() {
		return bridge.NewCodedError(CodeClientNotFound, "no connected client with id %q", id)
	}
	r.clients[i].Status = types.ClientOffline
	r.clients[i].LastSeen = time.Now()
	r.appendLog(types.LogLevelInfo, "sessions", fmt.Sprintf("client %s disconnected by operator", id))
	r.persistLocked()
	return nil
}

// --- Backup files ---

// ListFiles implements bridge.Substitute. filter is a path substring.
func (r *Repository) ListFiles(ctx context.Context, clientID, filter string) ([]types.BackupFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clientIndex(clientID) < 0 {
		return nil, bridge.NewCodedError(CodeClientNotFound, "no client with id %q", clientID)
	}

	out := make([]types.BackupFile, 0)
	for _, f := range r.files {
		if f.ClientID != clientID {
			continue
		}
		if filter != "" && !strings.Contains(f.Path, filter) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// DeleteFile implements bridge.Substitute.
func (r *Repository) DeleteFile(ctx context.Context, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, f := range r.files {
		if f.ID != fileID {
			continue
		}
		r.files = append(r.files[:i], r.files[i+1:]...)
		if ci := r.clientIndex(f.ClientID); ci >= 0 {
			r.clients[ci].BackupCount--
			r.clients[ci].TotalBytes -= f.SizeBytes
		}
		r.appendLog(types.LogLevelInfo, "store", fmt.Sprintf("backup file %s deleted", fileID))
		r.persistLocked()
		return nil
	}
	return bridge.NewCodedError(CodeFileNotFound, "no backup file with id %q", fileID)
}

// RestoreFile implements bridge.Substitute. The substitute does not copy
// bytes anywhere; it reports where a real restore would land.
func (r *Repository) RestoreFile(ctx context.Context, fileID, destination string) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if f.ID != fileID {
			continue
		}
		dest := destination
		if dest == "" {
			dest = f.Path
		}
		r.appendLog(types.LogLevelInfo, "restore", fmt.Sprintf("file %s restored to %s", fileID, dest))
		return map[string]any{
			"restored":   true,
			"file_id":    fileID,
			"path":       dest,
			"size_bytes": f.SizeBytes,
		}, nil
	}
	return nil, bridge.NewCodedError(CodeFileNotFound, "no backup file with id %q", fileID)
}

// VerifyBackup implements bridge.Substitute. Returns an envelope-shaped
// map so the bridge pass-through path is exercised the same way a real
// backend's verification response would be.
func (r *Repository) VerifyBackup(ctx context.Context, clientID string) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clientIndex(clientID) < 0 {
		return nil, bridge.NewCodedError(CodeClientNotFound, "no client with id %q", clientID)
	}
	checked := 0
	for _, f := range r.files {
		if f.ClientID == clientID {
			checked++
		}
	}
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"client_id":     clientID,
			"files_checked": checked,
			"corrupt":       0,
		},
		"message": fmt.Sprintf("%d files verified, no corruption", checked),
	}, nil
}

// --- Logs ---

// GetLogs implements bridge.Substitute. Entries at or above level are
// returned, newest last, at most limit of them.
func (r *Repository) GetLogs(ctx context.Context, level types.LogLevel, limit int) ([]types.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.LogEntry, 0, len(r.logs))
	for _, e := range r.logs {
		if levelAtLeast(e.Level, level) {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// ClearLogs implements bridge.Substitute.
func (r *Repository) ClearLogs(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.logs)
	r.logs = r.logs[:0]
	r.persistLocked()
	return n, nil
}

// --- Database browser ---

// Browsable tables, rendered from the live store.
const (
	tableClients  = "clients"
	tableFiles    = "backup_files"
	tableSessions = "sessions"
)

// ListTables implements bridge.Substitute.
func (r *Repository) ListTables(ctx context.Context) ([]types.TableInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filesBytes int64
	for _, f := range r.files {
		filesBytes += f.SizeBytes
	}
	return []types.TableInfo{
		{Name: tableClients, RowCount: int64(len(r.clients)), SizeBytes: int64(len(r.clients)) * 512},
		{Name: tableFiles, RowCount: int64(len(r.files)), SizeBytes: filesBytes},
		{Name: tableSessions, RowCount: int64(countConnected(r.clients)), SizeBytes: int64(countConnected(r.clients)) * 256},
	}, nil
}

// TableRows implements bridge.Substitute.
func (r *Repository) TableRows(ctx context.Context, table string, offset, limit int) (*types.TableRows, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var columns []string
	var rows [][]any

	switch table {
	case tableClients:
		columns = []string{"id", "hostname", "address", "os", "status", "backup_count", "total_bytes"}
		for _, c := range r.clients {
			rows = append(rows, []any{c.ID, c.Hostname, c.Address, c.OS, string(c.Status), c.BackupCount, c.TotalBytes})
		}
	case tableFiles:
		columns = []string{"id", "client_id", "path", "size_bytes", "backed_up_at", "checksum"}
		for _, f := range r.files {
			rows = append(rows, []any{f.ID, f.ClientID, f.Path, f.SizeBytes, f.BackedUpAt.UTC().Format(time.RFC3339), f.Checksum})
		}
	case tableSessions:
		columns = []string{"client_id", "hostname", "status", "last_seen"}
		for _, c := range r.clients {
			if c.Status.IsConnected() {
				rows = append(rows, []any{c.ID, c.Hostname, string(c.Status), c.LastSeen.UTC().Format(time.RFC3339)})
			}
		}
	default:
		return nil, bridge.NewCodedError(CodeTableNotFound, "no table named %q", table)
	}

	total := int64(len(rows))
	if offset < 0 {
		offset = 0
	}
	if offset > len(rows) {
		offset = len(rows)
	}
	rows = rows[offset:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return &types.TableRows{
		Table:   table,
		Columns: columns,
		Rows:    rows,
		Offset:  offset,
		Total:   total,
	}, nil
}

// TableSchema implements bridge.Substitute.
func (r *Repository) TableSchema(ctx context.Context, table string) ([]types.ColumnInfo, error) {
	switch table {
	case tableClients:
		return []types.ColumnInfo{
			{Name: "id", Type: "TEXT"},
			{Name: "hostname", Type: "TEXT"},
			{Name: "address", Type: "TEXT"},
			{Name: "os", Type: "TEXT"},
			{Name: "status", Type: "TEXT"},
			{Name: "backup_count", Type: "INTEGER"},
			{Name: "total_bytes", Type: "INTEGER"},
		}, nil
	case tableFiles:
		return []types.ColumnInfo{
			{Name: "id", Type: "TEXT"},
			{Name: "client_id", Type: "TEXT"},
			{Name: "path", Type: "TEXT"},
			{Name: "size_bytes", Type: "INTEGER"},
			{Name: "backed_up_at", Type: "TEXT"},
			{Name: "checksum", Type: "TEXT", Nullable: true},
		}, nil
	case tableSessions:
		return []types.ColumnInfo{
			{Name: "client_id", Type: "TEXT"},
			{Name: "hostname", Type: "TEXT"},
			{Name: "status", Type: "TEXT"},
			{Name: "last_seen", Type: "TEXT"},
		}, nil
	default:
		return nil, bridge.NewCodedError(CodeTableNotFound, "no table named %q", table)
	}
}

// RunMaintenance implements bridge.Substitute.
func (r *Repository) RunMaintenance(ctx context.Context) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reclaimed := int64(r.rng.Intn(64)) << 20
	r.appendLog(types.LogLevelInfo, "db", fmt.Sprintf("maintenance complete, %d bytes reclaimed", reclaimed))
	r.persistLocked()
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"tables_vacuumed": 3,
			"bytes_reclaimed": reclaimed,
		},
		"message": "maintenance complete",
	}, nil
}

// --- Settings ---

// LoadSettings implements bridge.Substitute. A queued settings write is
// landed first so reads always see the latest save.
func (r *Repository) LoadSettings(ctx context.Context) (*settings.Document, error) {
	if err := r.saver.Flush(); err != nil {
		return nil, err
	}
	return settings.Load(r.settingsPath)
}

// SaveSettings implements bridge.Substitute. Writes go through the
// debounced auto-saver: rapid saves coalesce into one disk write, landed
// when the quiet interval elapses, on the next read, or on Close.
func (r *Repository) SaveSettings(ctx context.Context, doc *settings.Document) error {
	r.saver.Update(doc)
	return nil
}

// --- Server lifecycle ---

// StartServer implements bridge.Substitute.
func (r *Repository) StartServer(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == types.ServerRunning {
		return bridge.NewCodedError(CodeServerAlreadyUp, "server is already running")
	}
	r.state = types.ServerRunning
	r.startedAt = time.Now()
	r.appendLog(types.LogLevelInfo, "server", "server started")
	r.persistLocked()
	return nil
}

// StopServer implements bridge.Substitute.
func (r *Repository) StopServer(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != types.ServerRunning {
		return bridge.NewCodedError(CodeServerNotRunning, "server is not running")
	}
	r.state = types.ServerStopped
	for i := range r.clients {
		if r.clients[i].Status.IsConnected() {
			r.clients[i].Status = types.ClientOffline
		}
	}
	r.appendLog(types.LogLevelWarn, "server", "server stopped")
	r.persistLocked()
	return nil
}

// --- Export ---

// ExportReport implements bridge.Substitute. Writes a JSON status report
// to the export directory.
func (r *Repository) ExportReport(ctx context.Context, format string) (*types.ReportInfo, error) {
	if format == "" {
		format = "json"
	}
	if format != "json" {
		return nil, bridge.NewCodedError(CodeUnsupportedFormat, "unsupported report format %q", format)
	}

	r.mu.Lock()
	report := map[string]any{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"state":        string(r.state),
		"clients":      len(r.clients),
		"files":        len(r.files),
		"log_entries":  len(r.logs),
	}
	r.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, bridge.NewCodedError(CodeExportFailed, "marshal report: %v", err)
	}

	if err := os.MkdirAll(r.exportDir, 0o755); err != nil {
		return nil, bridge.NewCodedError(CodeExportFailed, "create export dir: %v", err)
	}
	path := filepath.Join(r.exportDir, fmt.Sprintf("steward-report-%d.json", time.Now().Unix()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, bridge.NewCodedError(CodeExportFailed, "write report: %v", err)
	}

	return &types.ReportInfo{
		Path:        path,
		Format:      format,
		SizeBytes:   int64(len(data)),
		GeneratedAt: time.Now(),
	}, nil
}

// --- internals ---

// clientIndex returns the index of the client with the given id, or -1.
// Caller must hold r.mu.
func (r *Repository) clientIndex(id string) int {
	for i, c := range r.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// appendLog records a server log entry. Caller must hold r.mu.
func (r *Repository) appendLog(level types.LogLevel, component, message string) {
	r.logs = append(r.logs, types.LogEntry{
		Ts:        time.Now(),
		Level:     level,
		Component: component,
		Message:   message,
	})
}

func countConnected(clients []types.ClientRecord) int {
	n := 0
	for _, c := range clients {
		if c.Status.IsConnected() {
			n++
		}
	}
	return n
}

// levelAtLeast reports whether have is at or above the want threshold.
// An empty or unknown threshold admits everything.
func levelAtLeast(have, want types.LogLevel) bool {
	rank := map[types.LogLevel]int{
		types.LogLevelDebug: 0,
		types.LogLevelInfo:  1,
		types.LogLevelWarn:  2,
		types.LogLevelError: 3,
	}
	w, ok := rank[want]
	if !ok {
		return true
	}
	return rank[have] >= w
}

// sortFilesByPath orders files deterministically for generation and tests.
func sortFilesByPath(files []types.BackupFile) {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
}

// Verify Repository implements the substitute boundary.
var _ bridge.Substitute = (*Repository)(nil)
