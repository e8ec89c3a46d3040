package mockdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harbourline/steward/bridge"
	"github.com/harbourline/steward/iox"
	"github.com/harbourline/steward/settings"
	"github.com/harbourline/steward/types"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		SnapshotPath: filepath.Join(dir, "state.msgpack"),
		SettingsPath: filepath.Join(dir, "settings.json"),
		ExportDir:    dir,
		Seed:         1234,
	}
}

func mustRepo(t *testing.T, cfg Config) *Repository {
	t.Helper()
	r, err := NewRepository(cfg)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(iox.CloseFunc(r))
	return r
}

func TestNewRepository_RequiresSettingsPath(t *testing.T) {
	if _, err := NewRepository(Config{}); err == nil {
		t.Fatal("expected error for missing settings path")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := mustRepo(t, Config{SettingsPath: filepath.Join(t.TempDir(), "s.json"), Seed: 7})
	b := mustRepo(t, Config{SettingsPath: filepath.Join(t.TempDir(), "s.json"), Seed: 7})

	ca, _ := a.ListClients(t.Context())
	cb, _ := b.ListClients(t.Context())
	if len(ca) == 0 {
		t.Fatal("no clients generated")
	}
	if len(ca) != len(cb) {
		t.Fatalf("client counts differ: %d vs %d", len(ca), len(cb))
	}
	for i := range ca {
		if ca[i].ID != cb[i].ID || ca[i].Hostname != cb[i].Hostname {
			t.Errorf("client %d differs: %v vs %v", i, ca[i], cb[i])
		}
	}
}

func TestSnapshot_PersistsMutations(t *testing.T) {
	cfg := testConfig(t)
	r := mustRepo(t, cfg)

	added, err := r.AddClient(t.Context(), types.ClientRecord{Hostname: "newbox"})
	if err != nil {
		t.Fatalf("add client: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := mustRepo(t, cfg)
	got, err := reopened.GetClient(t.Context(), added.ID)
	if err != nil {
		t.Fatalf("get client after reopen: %v", err)
	}
	if got.Hostname != "newbox" {
		t.Errorf("Hostname = %q, want newbox", got.Hostname)
	}
}

func TestSnapshot_CorruptRegenerates(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.SnapshotPath, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := mustRepo(t, cfg)
	clients, err := r.ListClients(t.Context())
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(clients) == 0 {
		t.Error("corrupt snapshot should regenerate a dataset")
	}
}

func TestDeleteFile_AdjustsClientCounts(t *testing.T) {
	r := mustRepo(t, testConfig(t))
	clients, _ := r.ListClients(t.Context())
	client := clients[0]

	files, err := r.ListFiles(t.Context(), client.ID, "")
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("client has no files")
	}
	victim := files[0]

	if err := r.DeleteFile(t.Context(), victim.ID); err != nil {
		t.Fatalf("delete file: %v", err)
	}

	after, _ := r.GetClient(t.Context(), client.ID)
	if after.BackupCount != client.BackupCount-1 {
		t.Errorf("BackupCount = %d, want %d", after.BackupCount, client.BackupCount-1)
	}
	if after.TotalBytes != client.TotalBytes-victim.SizeBytes {
		t.Errorf("TotalBytes = %d, want %d", after.TotalBytes, client.TotalBytes-victim.SizeBytes)
	}

	err = r.DeleteFile(t.Context(), victim.ID)
	var coded *bridge.CodedError
	if !errors.As(err, &coded) || coded.Code != CodeFileNotFound {
		t.Errorf("second delete error = %v, want %s", err, CodeFileNotFound)
	}
}

func TestListFiles_Filter(t *testing.T) {
	r := mustRepo(t, testConfig(t))
	clients, _ := r.ListClients(t.Context())
	id := clients[0].ID

	all, err := r.ListFiles(t.Context(), id, "")
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	filtered, err := r.ListFiles(t.Context(), id, all[0].Path)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered) == 0 || len(filtered) > len(all) {
		t.Errorf("filtered = %d of %d", len(filtered), len(all))
	}
	for _, f := range filtered {
		if f.ClientID != id {
			t.Errorf("file %s belongs to %s", f.ID, f.ClientID)
		}
	}

	if _, err := r.ListFiles(t.Context(), "absent", ""); err == nil {
		t.Error("expected error for unknown client")
	}
}

func TestGetLogs_LevelAndLimit(t *testing.T) {
	r := mustRepo(t, testConfig(t))

	all, err := r.GetLogs(t.Context(), types.LogLevelDebug, 0)
	if err != nil {
		t.Fatalf("get logs: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("no logs generated")
	}

	warns, err := r.GetLogs(t.Context(), types.LogLevelWarn, 0)
	if err != nil {
		t.Fatalf("get logs: %v", err)
	}
	for _, e := range warns {
		if e.Level != types.LogLevelWarn && e.Level != types.LogLevelError {
			t.Errorf("entry below warn leaked through: %s", e.Level)
		}
	}

	limited, err := r.GetLogs(t.Context(), types.LogLevelDebug, 5)
	if err != nil {
		t.Fatalf("get logs: %v", err)
	}
	if len(limited) != 5 {
		t.Errorf("limited = %d entries, want 5", len(limited))
	}
	// Newest entries win under a limit.
	if limited[len(limited)-1] != all[len(all)-1] {
		t.Error("limit did not keep the newest entries")
	}

	n, err := r.ClearLogs(t.Context())
	if err != nil {
		t.Fatalf("clear logs: %v", err)
	}
	if n != len(all) {
		t.Errorf("cleared = %d, want %d", n, len(all))
	}
	empty, _ := r.GetLogs(t.Context(), types.LogLevelDebug, 0)
	if len(empty) != 0 {
		t.Errorf("logs remain after clear: %d", len(empty))
	}
}

func TestTableRows_PagingAndUnknownTable(t *testing.T) {
	r := mustRepo(t, testConfig(t))

	page, err := r.TableRows(t.Context(), "clients", 1, 2)
	if err != nil {
		t.Fatalf("table rows: %v", err)
	}
	if page.Offset != 1 {
		t.Errorf("Offset = %d, want 1", page.Offset)
	}
	if len(page.Rows) > 2 {
		t.Errorf("page size = %d, want <= 2", len(page.Rows))
	}
	if page.Total < int64(len(page.Rows)) {
		t.Errorf("Total = %d < page", page.Total)
	}
	if len(page.Columns) == 0 {
		t.Error("no columns")
	}

	_, err = r.TableRows(t.Context(), "nope", 0, 10)
	var coded *bridge.CodedError
	if !errors.As(err, &coded) || coded.Code != CodeTableNotFound {
		t.Errorf("error = %v, want %s", err, CodeTableNotFound)
	}
}

func TestTableSchema_MatchesRowColumns(t *testing.T) {
	r := mustRepo(t, testConfig(t))
	for _, table := range []string{"clients", "backup_files", "sessions"} {
		schema, err := r.TableSchema(t.Context(), table)
		if err != nil {
			t.Fatalf("schema %s: %v", table, err)
		}
		rows, err := r.TableRows(t.Context(), table, 0, 1)
		if err != nil {
			t.Fatalf("rows %s: %v", table, err)
		}
		if len(schema) != len(rows.Columns) {
			t.Errorf("%s: schema has %d columns, rows have %d", table, len(schema), len(rows.Columns))
		}
		for i := range schema {
			if schema[i].Name != rows.Columns[i] {
				t.Errorf("%s column %d: schema %q vs rows %q", table, i, schema[i].Name, rows.Columns[i])
			}
		}
	}
}

func TestExportReport(t *testing.T) {
	cfg := testConfig(t)
	r := mustRepo(t, cfg)

	info, err := r.ExportReport(t.Context(), "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if info.Format != "json" {
		t.Errorf("Format = %q, want json", info.Format)
	}
	data, err := os.ReadFile(info.Path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if int64(len(data)) != info.SizeBytes {
		t.Errorf("SizeBytes = %d, file is %d", info.SizeBytes, len(data))
	}

	_, err = r.ExportReport(t.Context(), "xml")
	var coded *bridge.CodedError
	if !errors.As(err, &coded) || coded.Code != CodeUnsupportedFormat {
		t.Errorf("error = %v, want %s", err, CodeUnsupportedFormat)
	}
}

func TestExportReport_CreatesExportDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExportDir = filepath.Join(t.TempDir(), "reports")
	r := mustRepo(t, cfg)

	info, err := r.ExportReport(t.Context(), "json")
	if err != nil {
		t.Fatalf("export into missing dir: %v", err)
	}
	if _, err := os.Stat(info.Path); err != nil {
		t.Errorf("report file not written: %v", err)
	}
}

func TestStopServer_DisconnectsClients(t *testing.T) {
	r := mustRepo(t, testConfig(t))

	if err := r.StopServer(t.Context()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	clients, _ := r.ListClients(t.Context())
	for _, c := range clients {
		if c.Status.IsConnected() {
			t.Errorf("client %s still connected after stop", c.ID)
		}
	}

	status, _ := r.ServerStatus(t.Context())
	if status.State != types.ServerStopped {
		t.Errorf("State = %q, want stopped", status.State)
	}
	if status.UptimeSeconds != 0 {
		t.Errorf("UptimeSeconds = %d while stopped, want 0", status.UptimeSeconds)
	}

	if err := r.StopServer(t.Context()); err == nil {
		t.Error("second stop should fail")
	}
}

func TestServerMetrics_StaysInBounds(t *testing.T) {
	r := mustRepo(t, testConfig(t))
	for i := 0; i < 50; i++ {
		m, err := r.ServerMetrics(t.Context())
		if err != nil {
			t.Fatalf("metrics: %v", err)
		}
		if m.CPUPercent < 2 || m.CPUPercent > 95 {
			t.Fatalf("CPUPercent = %f out of bounds", m.CPUPercent)
		}
		if m.MemoryPercent < 10 || m.MemoryPercent > 92 {
			t.Fatalf("MemoryPercent = %f out of bounds", m.MemoryPercent)
		}
		if m.SampledAt == "" {
			t.Fatal("SampledAt not set")
		}
	}
}

func TestSettings_RoundTripThroughRepository(t *testing.T) {
	r := mustRepo(t, testConfig(t))

	doc, err := r.LoadSettings(t.Context())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if err := doc.Set("logging.level", "debug"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := r.SaveSettings(t.Context(), doc); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	again, err := r.LoadSettings(t.Context())
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if v, _ := again.Get("logging.level"); v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
}

func TestSettings_SaveDebouncedUntilRead(t *testing.T) {
	cfg := testConfig(t)
	cfg.SettingsDebounce = time.Hour
	r := mustRepo(t, cfg)

	doc, err := r.LoadSettings(t.Context())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if err := doc.Set("server.port", float64(9200)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := r.SaveSettings(t.Context(), doc); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	// The quiet interval has not elapsed, so the write is still queued.
	onDisk, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		t.Fatalf("load from disk: %v", err)
	}
	if v, _ := onDisk.Get("server.port"); v == float64(9200) {
		t.Fatal("write landed before the quiet interval")
	}

	// A read lands the queued write first.
	reloaded, err := r.LoadSettings(t.Context())
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if v, _ := reloaded.Get("server.port"); v != float64(9200) {
		t.Errorf("server.port after read = %v, want 9200", v)
	}
	onDisk, err = settings.Load(cfg.SettingsPath)
	if err != nil {
		t.Fatalf("load from disk: %v", err)
	}
	if v, _ := onDisk.Get("server.port"); v != float64(9200) {
		t.Errorf("server.port on disk = %v, want 9200", v)
	}
}

func TestSettings_CloseLandsQueuedWrite(t *testing.T) {
	cfg := testConfig(t)
	cfg.SettingsDebounce = time.Hour
	r := mustRepo(t, cfg)

	doc, err := r.LoadSettings(t.Context())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if err := doc.Set("gui.theme", "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := r.SaveSettings(t.Context(), doc); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	onDisk, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		t.Fatalf("load from disk: %v", err)
	}
	if v, _ := onDisk.Get("gui.theme"); v != "light" {
		t.Errorf("gui.theme on disk = %v, want light", v)
	}
}
