package bridge

import (
	"context"

	"github.com/harbourline/steward/settings"
	"github.com/harbourline/steward/types"
)

// Operation names. These identify operations in logs, metrics,
// state-store keys, and published notification events.
const (
	OpServerStatus     = "get_server_status"
	OpServerMetrics    = "get_server_metrics"
	OpStorageInfo      = "get_storage_info"
	OpListClients      = "get_clients"
	OpGetClient        = "get_client"
	OpAddClient        = "add_client"
	OpRemoveClient     = "remove_client"
	OpDisconnectClient = "disconnect_client"
	OpListFiles        = "get_backup_files"
	OpDeleteFile       = "delete_backup_file"
	OpRestoreFile      = "restore_file"
	OpVerifyBackup     = "verify_backup"
	OpGetLogs          = "get_logs"
	OpClearLogs        = "clear_logs"
	OpListTables       = "get_tables"
	OpTableRows        = "get_table_data"
	OpTableSchema      = "get_table_schema"
	OpRunMaintenance   = "run_maintenance"
	OpLoadSettings     = "load_settings"
	OpSaveSettings     = "save_settings"
	OpStartServer      = "start_server"
	OpStopServer       = "stop_server"
	OpExportReport     = "export_report"
)

// Capabilities declares the optional operations a real backend supports.
// A nil field means the backend does not implement that operation and the
// bridge routes it to the substitute. Capabilities are resolved once at
// construction, never probed per call.
//
// All callbacks must respect context cancellation and deadlines. Long or
// blocking backend calls are expected to be offloaded by the caller so
// interactive surfaces are not blocked.
type Capabilities struct {
	ServerStatus     func(ctx context.Context) (*types.ServerStatus, error)
	ServerMetrics    func(ctx context.Context) (*types.ServerMetrics, error)
	StorageInfo      func(ctx context.Context) (*types.StorageInfo, error)
	ListClients      func(ctx context.Context) ([]types.ClientRecord, error)
	GetClient        func(ctx context.Context, id string) (*types.ClientRecord, error)
	AddClient        func(ctx context.Context, rec types.ClientRecord) (*types.ClientRecord, error)
	RemoveClient     func(ctx context.Context, id string) error
	DisconnectClient func(ctx context.Context, id string) error
	ListFiles        func(ctx context.Context, clientID, filter string) ([]types.BackupFile, error)
	DeleteFile       func(ctx context.Context, fileID string) error
	RestoreFile      func(ctx context.Context, fileID, destination string) (map[string]any, error)
	VerifyBackup     func(ctx context.Context, clientID string) (map[string]any, error)
	GetLogs          func(ctx context.Context, level types.LogLevel, limit int) ([]types.LogEntry, error)
	ClearLogs        func(ctx context.Context) (int, error)
	ListTables       func(ctx context.Context) ([]types.TableInfo, error)
	TableRows        func(ctx context.Context, table string, offset, limit int) (*types.TableRows, error)
	TableSchema      func(ctx context.Context, table string) ([]types.ColumnInfo, error)
	RunMaintenance   func(ctx context.Context) (map[string]any, error)
	LoadSettings     func(ctx context.Context) (*settings.Document, error)
	SaveSettings     func(ctx context.Context, doc *settings.Document) error
	StartServer      func(ctx context.Context) error
	StopServer       func(ctx context.Context) error
	ExportReport     func(ctx context.Context, format string) (*types.ReportInfo, error)
}

// Substitute is the fallback data source behind the bridge. Unlike
// Capabilities, every method is required: the substitute must always be
// able to answer so the console stays usable without a backend.
//
// Mutating methods change the substitute store in place so subsequent
// reads reflect the change within the same session. Domain failures are
// returned as *CodedError so the bridge can surface a stable error code.
type Substitute interface {
	ServerStatus(ctx context.Context) (*types.ServerStatus, error)
	ServerMetrics(ctx context.Context) (*types.ServerMetrics, error)
	StorageInfo(ctx context.Context) (*types.StorageInfo, error)
	ListClients(ctx context.Context) ([]types.ClientRecord, error)
	GetClient(ctx context.Context, id string) (*types.ClientRecord, error)
	AddClient(ctx context.Context, rec types.ClientRecord) (*types.ClientRecord, error)
	RemoveClient(ctx context.Context, id string) error
	DisconnectClient(ctx context.Context, id string) error
	ListFiles(ctx context.Context, clientID, filter string) ([]types.BackupFile, error)
	DeleteFile(ctx context.Context, fileID string) error
	RestoreFile(ctx context.Context, fileID, destination string) (map[string]any, error)
	VerifyBackup(ctx context.Context, clientID string) (map[string]any, error)
	GetLogs(ctx context.Context, level types.LogLevel, limit int) ([]types.LogEntry, error)
	ClearLogs(ctx context.Context) (int, error)
	ListTables(ctx context.Context) ([]types.TableInfo, error)
	TableRows(ctx context.Context, table string, offset, limit int) (*types.TableRows, error)
	TableSchema(ctx context.Context, table string) ([]types.ColumnInfo, error)
	RunMaintenance(ctx context.Context) (map[string]any, error)
	LoadSettings(ctx context.Context) (*settings.Document, error)
	SaveSettings(ctx context.Context, doc *settings.Document) error
	StartServer(ctx context.Context) error
	StopServer(ctx context.Context) error
	ExportReport(ctx context.Context, format string) (*types.ReportInfo, error)
}
