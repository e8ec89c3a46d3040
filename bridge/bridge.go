package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harbourline/steward/adapter"
	"github.com/harbourline/steward/log"
	"github.com/harbourline/steward/metrics"
	"github.com/harbourline/steward/settings"
	"github.com/harbourline/steward/types"
)

// notifyTimeout bounds best-effort event publishing so a slow downstream
// never stalls an operation.
const notifyTimeout = 3 * time.Second

// Options configures a Bridge.
type Options struct {
	// Capabilities declares what the real backend supports.
	// The zero value means no backend: every operation is served mock.
	Capabilities Capabilities
	// Substitute is the fallback data source (required).
	Substitute Substitute
	// Logger receives dispatch diagnostics. Defaults to a no-op logger.
	Logger *log.Logger
	// Metrics receives per-operation counters. Optional.
	Metrics *metrics.Collector
	// Publisher receives operation events for mutating operations. Optional.
	Publisher adapter.Adapter
	// SessionID tags published events.
	SessionID string
}

// Bridge dispatches console operations to the real backend when a
// capability is present, degrading to the substitute per operation kind.
// All methods return a Result envelope and never return an error or panic.
type Bridge struct {
	caps      Capabilities
	sub       Substitute
	logger    *log.Logger
	metrics   *metrics.Collector
	publisher adapter.Adapter
	sessionID string
}

// New creates a Bridge. Returns an error if no substitute is configured.
func New(opts Options) (*Bridge, error) {
	if opts.Substitute == nil {
		return nil, errors.New("bridge requires a substitute data source")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Bridge{
		caps:      opts.Capabilities,
		sub:       opts.Substitute,
		logger:    logger,
		metrics:   opts.Metrics,
		publisher: opts.Publisher,
		sessionID: opts.SessionID,
	}, nil
}

// HasBackend reports whether any real capability is configured.
func (b *Bridge) HasBackend() bool {
	c := b.caps
	return c.ServerStatus != nil || c.ServerMetrics != nil || c.StorageInfo != nil ||
		c.ListClients != nil || c.GetClient != nil || c.AddClient != nil ||
		c.RemoveClient != nil || c.DisconnectClient != nil || c.ListFiles != nil ||
		c.DeleteFile != nil || c.RestoreFile != nil || c.VerifyBackup != nil ||
		c.GetLogs != nil || c.ClearLogs != nil || c.ListTables != nil ||
		c.TableRows != nil || c.TableSchema != nil || c.RunMaintenance != nil ||
		c.LoadSettings != nil || c.SaveSettings != nil || c.StartServer != nil ||
		c.StopServer != nil || c.ExportReport != nil
}

// panicError marks a recovered panic from a backend or substitute callback.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// safeCall invokes fn, converting a panic into an error so nothing
// propagates across the bridge boundary.
func safeCall[T any](ctx context.Context, fn func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return fn(ctx)
}

// mockFailCode resolves the envelope error code for a substitute failure.
// Domain errors carry their own code; panics and untyped errors get
// generic MOCK_ codes.
func mockFailCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	var pe *panicError
	if errors.As(err, &pe) {
		return CodeMockPanic
	}
	return CodeMockFailure
}

// adopt normalizes a successful call result into an envelope. A value that
// is already envelope-shaped (a Result, or a map with a bool "success") is
// passed through with Mode overwritten and Timestamp refreshed; anything
// else becomes the Data payload of a fresh success envelope.
func adopt(v any, mode Mode) Result {
	switch r := v.(type) {
	case Result:
		return restamp(r, mode)
	case *Result:
		if r != nil {
			return restamp(*r, mode)
		}
	case map[string]any:
		if success, ok := r["success"].(bool); ok {
			res := Result{
				Success:   success,
				Mode:      mode,
				Timestamp: stamp(time.Now()),
			}
			res.Data = r["data"]
			res.Message, _ = r["message"].(string)
			res.Error, _ = r["error"].(string)
			res.ErrorCode, _ = r["error_code"].(string)
			if !res.Success && res.Error == "" {
				// Preserve the envelope invariant even for sloppy backends.
				res.Error = "operation reported failure"
			}
			return res
		}
	}
	return Ok(mode, v, "")
}

func restamp(r Result, mode Mode) Result {
	r.Mode = mode
	r.Timestamp = stamp(time.Now())
	if !r.Success && r.Error == "" {
		r.Error = "operation reported failure"
	}
	return r
}

// dispatchRead runs a read operation: real first when a capability exists,
// degrading to the substitute on absence or failure. Real failures are
// logged, counted, and swallowed; they are not an error from the caller's
// point of view because the substitute still answers.
func dispatchRead[T any](ctx context.Context, b *Bridge, op string, real, sub func(context.Context) (T, error)) Result {
	if real != nil {
		b.metrics.IncRealCall(op)
		v, err := safeCall(ctx, real)
		if err == nil {
			return adopt(v, ModeReal)
		}
		b.metrics.IncRealFailure(op)
		b.metrics.IncFallback(op)
		b.logger.Warn("real backend call failed, serving substitute", map[string]any{
			"operation": op,
			"error":     err.Error(),
		})
	}

	b.metrics.IncMockCall(op)
	v, err := safeCall(ctx, sub)
	if err != nil {
		b.metrics.IncMockFailure(op)
		b.logger.Error("substitute path failed", map[string]any{
			"operation": op,
			"error":     err.Error(),
		})
		return Fail(ModeMock, mockFailCode(err), err.Error())
	}
	return adopt(v, ModeMock)
}

// dispatchWrite runs a mutating operation. When a real capability exists,
// a failure is surfaced as REAL_SERVER_ERROR instead of degrading: mock
// success for a write the real system rejected would misreport what was
// persisted. Without a capability the substitute store is mutated so the
// session stays internally consistent.
func dispatchWrite[T any](ctx context.Context, b *Bridge, op string, real, sub func(context.Context) (T, error)) Result {
	if real != nil {
		b.metrics.IncRealCall(op)
		v, err := safeCall(ctx, real)
		if err != nil {
			b.metrics.IncRealFailure(op)
			b.logger.Error("real backend write failed", map[string]any{
				"operation": op,
				"error":     err.Error(),
			})
			return Fail(ModeReal, CodeRealServerError, err.Error())
		}
		return adopt(v, ModeReal)
	}

	b.metrics.IncMockCall(op)
	v, err := safeCall(ctx, sub)
	if err != nil {
		b.metrics.IncMockFailure(op)
		return Fail(ModeMock, mockFailCode(err), err.Error())
	}
	return adopt(v, ModeMock)
}

// notify publishes an operation event for a mutating operation.
// Best effort: publish failures are logged, never surfaced to the caller.
func (b *Bridge) notify(ctx context.Context, op string, res Result) {
	if b.publisher == nil {
		return
	}
	event := &adapter.OperationEvent{
		EventType: adapter.EventTypeOperationCompleted,
		SessionID: b.sessionID,
		Operation: op,
		Mode:      string(res.Mode),
		Success:   res.Success,
		ErrorCode: res.ErrorCode,
		Message:   res.Message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := b.publisher.Publish(publishCtx, event); err != nil {
		b.logger.Warn("operation event publish failed", map[string]any{
			"operation": op,
			"error":     err.Error(),
		})
	}
}

// --- Status & metrics reads ---

// ServerStatus returns the server status snapshot.
func (b *Bridge) ServerStatus(ctx context.Context) Result {
	return dispatchRead(ctx, b, OpServerStatus, b.caps.ServerStatus, b.sub.ServerStatus)
}

// ServerMetrics returns a resource metrics sample.
func (b *Bridge) ServerMetrics(ctx context.Context) Result {
	return dispatchRead(ctx, b, OpServerMetrics, b.caps.ServerMetrics, b.sub.ServerMetrics)
}

// StorageInfo returns storage pool usage.
func (b *Bridge) StorageInfo(ctx context.Context) Result {
	return dispatchRead(ctx, b, OpStorageInfo, b.caps.StorageInfo, b.sub.StorageInfo)
}

// --- Clients ---

// ListClients returns all known backup clients.
func (b *Bridge) ListClients(ctx context.Context) Result {
	return dispatchRead(ctx, b, OpListClients, b.caps.ListClients, b.sub.ListClients)
}

// GetClient returns one client by ID.
func (b *Bridge) GetClient(ctx context.Context, id string) Result {
	var real func(context.Context) (*types.ClientRecord, error)
	if b.caps.GetClient != nil {
		real = func(ctx context.Context) (*types.ClientRecord, error) {
			return b.caps.GetClient(ctx, id)
		}
	}
	return dispatchRead(ctx, b, OpGetClient, real, func(ctx context.Context) (*types.ClientRecord, error) {
		return b.sub.GetClient(ctx, id)
	})
}

// AddClient registers a new backup client.
func (b *Bridge) AddClient(ctx context.Context, rec types.ClientRecord) Result {
	var real func(context.Context) (*types.ClientRecord, error)
	if b.caps.AddClient != nil {
		real = func(ctx context.Context) (*types.ClientRecord, error) {
			return b.caps.AddClient(ctx, rec)
		}
	}
	res := dispatchWrite(ctx, b, OpAddClient, real, func(ctx context.Context) (*types.ClientRecord, error) {
		return b.sub.AddClient(ctx, rec)
	})
	b.notify(ctx, OpAddClient, res)
	return res
}

// RemoveClient deletes a client and its backup records.
func (b *Bridge) RemoveClient(ctx context.Context, id string) Result {
	var real func(context.Context) (map[string]any, error)
	if b.caps.RemoveClient != nil {
		real = func(ctx context.Context) (map[string]any, error) {
			if err := b.caps.RemoveClient(ctx, id); err != nil {
				return nil, err
			}
			return map[string]any{"removed": true, "client_id": id}, nil
		}
	}
	res := dispatchWrite(ctx, b, OpRemoveClient, real, func(ctx context.Context) (map[string]any, error) {
		if err := b.sub.RemoveClient(ctx, id); err != nil {
			return nil, err
		}
		return map[string]any{"removed": true, "client_id": id}, nil
	})
	b.notify(ctx, OpRemoveClient, res)
	return res
}

// DisconnectClient terminates a client's active session.
func (b *Bridge) DisconnectClient(ctx context.Context, id string) Result {
	var real func(context.Context) (map[string]any, error)
	if b.caps.DisconnectClient != nil {
		real = func(ctx context.Context) (map[string]any, error) {
			if err := b.caps.DisconnectClient(ctx, id); err != nil {
				return nil, err
			}
			return map[string]any{"disconnected": true}, nil
		}
	}
	res := dispatchWrite(ctx, b, OpDisconnectClient, real, func(ctx context.Context) (map[string]any, error) {
		if err := b.sub.DisconnectClient(ctx, id); err != nil {
			return nil, err
		}
		return map[string]any{"disconnected": true}, nil
	})
	b.notify(ctx, OpDisconnectClient, res)
	return res
}

// --- Backup files ---

// ListFiles returns a client's backup files, optionally filtered by a
// path substring.
func (b *Bridge) ListFiles(ctx context.Context, clientID, filter string) Result {
	var real func(context.Context) ([]types.BackupFile, error)
	if b.caps.ListFiles != nil {
		real = func(ctx context.Context) ([]types.BackupFile, error) {
			return b.caps.ListFiles(ctx, clientID, filter)
		}
	}
	return dispatchRead(ctx, b, OpListFiles, real, func(ctx context.Context) ([]types.BackupFile, error) {
		return b.sub.ListFiles(ctx, clientID, filter)
	})
}

// DeleteFile removes a file from the backup store.
func (b *Bridge) DeleteFile(ctx context.Context, fileID string) Result {
	var real func(context.Context) (map[string]any, error)
	if b.caps.DeleteFile != nil {
		real = func(ctx context.Context) (map[string]any, error) {
			if err := b.caps.DeleteFile(ctx, fileID); err != nil {
				return nil, err
			}
			return map[string]any{"deleted": true, "file_id": fileID}, nil
		}
	}
	res := dispatchWrite(ctx, b, OpDeleteFile, real, func(ctx context.Context) (map[string]any, error) {
		if err := b.sub.DeleteFile(ctx, fileID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": true, "file_id": fileID}, nil
	})
	b.notify(ctx, OpDeleteFile, res)
	return res
}

// RestoreFile restores a backed-up file to a destination path.
func (b *Bridge) RestoreFile(ctx context.Context, fileID, destination string) Result {
	var real func(context.Context) (map[string]any, error)
	if b.caps.RestoreFile != nil {
		real = func(ctx context.Context) (map[string]any, error) {
			return b.caps.RestoreFile(ctx, fileID, destination)
		}
	}
	res := dispatchWrite(ctx, b, OpRestoreFile, real, func(ctx context.Context) (map[string]any, error) {
		return b.sub.RestoreFile(ctx, fileID, destination)
	})
	b.notify(ctx, OpRestoreFile, res)
	return res
}

// VerifyBackup checks backup integrity for a client.
func (b *Bridge) VerifyBackup(ctx context.Context, clientID string) Result {
	var real func(context.Context) (map[string]any, error)
	if b.caps.VerifyBackup != nil {
		real = func(ctx context.Context) (map[string]any, error) {
			return b.caps.VerifyBackup(ctx, clientID)
		}
	}
	return dispatchRead(ctx, b, OpVerifyBackup, real, func(ctx context.Context) (map[string]any, error) {
		return b.sub.VerifyBackup(ctx, clientID)
	})
}

// --- Logs ---

// GetLogs returns recent server log entries at or above the given level.
func (b *Bridge) GetLogs(ctx context.Context, level types.LogLevel, limit int) Result {
	var real func(context.Context) ([]types.LogEntry, error)
	if b.caps.GetLogs != nil {
		real = func(ctx context.Context) ([]types.LogEntry, error) {
			return b.caps.GetLogs(ctx, level, limit)
		}
	}
	return dispatchRead(ctx, b, OpGetLogs, real, func(ctx context.Context) ([]types.LogEntry, error) {
		return b.sub.GetLogs(ctx, level, limit)
	})
}

// ClearLogs truncates the server log buffer, returning the number of
// entries removed.
func (b *Bridge) ClearLogs(ctx context.Context) Result {
	var real func(context.Context) (map[string]any, error)
	if b.caps.ClearLogs != nil {
		real = func(ctx context.Context) (map[string]any, error) {
			n, err := b.caps.ClearLogs(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"cleared": n}, nil
		}
	}
	res := dispatchWrite(ctx, b, OpClearLogs, real, func(ctx context.Context) (map[string]any, error) {
		n, err := b.sub.ClearLogs(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"cleared": n}, nil
	})
	b.notify(ctx, OpClearLogs, res)
	return res
}

// --- Database browser ---

// ListTables returns the server database tables.
func (b *Bridge) ListTables(ctx context.Context) Result {
	return dispatchRead(ctx, b, OpListTables, b.caps.ListTables, b.sub.ListTables)
}

// TableRows returns a page of rows from a table.
func (b *Bridge) TableRows(ctx context.Context, table string, offset, limit int) Result {
	var real func(context.Context) (*types.TableRows, error)
	if b.caps.TableRows != nil {
		real = func(ctx context.Context) (*types.TableRows, error) {
			return b.caps.TableRows(ctx, table, offset, limit)
		}
	}
	return dispatchRead(ctx, b, OpTableRows, real, func(ctx context.Context) (*types.TableRows, error) {
		return b.sub.TableRows(ctx, table, offset, limit)
	})
}

// TableSchema returns column definitions for a table.
func (b *Bridge) TableSchema(ctx context.Context, table string) Result {
	var real func(context.Context) ([]types.ColumnInfo, error)
	if b.caps.TableSchema != nil {
		real = func(ctx context.Context) ([]types.ColumnInfo, error) {
			return b.caps.TableSchema(ctx, table)
		}
	}
	return dispatchRead(ctx, b, OpTableSchema, real, func(ctx context.Context) ([]types.ColumnInfo, error) {
		return b.sub.TableSchema(ctx, table)
	})
}

// RunMaintenance runs database maintenance (vacuum, reindex).
func (b *Bridge) RunMaintenance(ctx context.Context) Result {
	res := dispatchWrite(ctx, b, OpRunMaintenance, b.caps.RunMaintenance, b.sub.RunMaintenance)
	b.notify(ctx, OpRunMaintenance, res)
	return res
}

// --- Settings ---

// LoadSettings returns the current settings document.
func (b *Bridge) LoadSettings(ctx context.Context) Result {
	return dispatchRead(ctx, b, OpLoadSettings, b.caps.LoadSettings, b.sub.LoadSettings)
}

// SaveSettings persists a settings document (whole-document replace).
func (b *Bridge) SaveSettings(ctx context.Context, doc *settings.Document) Result {
	var real func(context.Context) (map[string]any, error)
	if b.caps.SaveSettings != nil {
		real = func(ctx context.Context) (map[string]any, error) {
			if err := b.caps.SaveSettings(ctx, doc); err != nil {
				return nil, err
			}
			return map[string]any{"saved": true}, nil
		}
	}
	res := dispatchWrite(ctx, b, OpSaveSettings, real, func(ctx context.Context) (map[string]any, error) {
		if err := b.sub.SaveSettings(ctx, doc); err != nil {
			return nil, err
		}
		return map[string]any{"saved": true}, nil
	})
	b.notify(ctx, OpSaveSettings, res)
	return res
}

// --- Server lifecycle ---

// StartServer starts the backup server.
func (b *Bridge) StartServer(ctx context.Context) Result {
	res := dispatchWrite(ctx, b, OpStartServer, lifecycleReal(b.caps.StartServer, "started"), lifecycleSub(b.sub.StartServer, "started"))
	b.notify(ctx, OpStartServer, res)
	return res
}

// StopServer stops the backup server.
func (b *Bridge) StopServer(ctx context.Context) Result {
	res := dispatchWrite(ctx, b, OpStopServer, lifecycleReal(b.caps.StopServer, "stopped"), lifecycleSub(b.sub.StopServer, "stopped"))
	b.notify(ctx, OpStopServer, res)
	return res
}

// lifecycleReal wraps an error-only capability into a map-returning call,
// preserving nil when the capability is absent.
func lifecycleReal(fn func(context.Context) error, state string) func(context.Context) (map[string]any, error) {
	if fn == nil {
		return nil
	}
	return lifecycleSub(fn, state)
}

func lifecycleSub(fn func(context.Context) error, state string) func(context.Context) (map[string]any, error) {
	return func(ctx context.Context) (map[string]any, error) {
		if err := fn(ctx); err != nil {
			return nil, err
		}
		return map[string]any{"state": state}, nil
	}
}

// --- Export ---

// ExportReport writes a status report and returns its location.
// Reports render whatever data source is active, so this read-style
// operation may fall back to the substitute.
func (b *Bridge) ExportReport(ctx context.Context, format string) Result {
	var real func(context.Context) (*types.ReportInfo, error)
	if b.caps.ExportReport != nil {
		real = func(ctx context.Context) (*types.ReportInfo, error) {
			return b.caps.ExportReport(ctx, format)
		}
	}
	return dispatchRead(ctx, b, OpExportReport, real, func(ctx context.Context) (*types.ReportInfo, error) {
		return b.sub.ExportReport(ctx, format)
	})
}
