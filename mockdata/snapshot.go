package mockdata

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/harbourline/steward/types"
)

// snapshot is the on-disk form of the repository, serialized with msgpack.
// The whole file is replaced on every save; there is no incremental format.
type snapshot struct {
	Seed      int64                 `msgpack:"seed"`
	State     types.ServerState     `msgpack:"state"`
	StartedAt time.Time             `msgpack:"started_at"`
	Clients   []types.ClientRecord  `msgpack:"clients"`
	Files     []types.BackupFile    `msgpack:"files"`
	Logs      []types.LogEntry      `msgpack:"logs"`
	Metrics   types.ServerMetrics   `msgpack:"metrics"`
	SavedAt   time.Time             `msgpack:"saved_at"`
}

// loadSnapshot reads and decodes a snapshot file.
func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// saveLocked serializes the current state. Caller must hold r.mu.
// Persistence disabled (empty path) is a no-op.
func (r *Repository) saveLocked() error {
	if r.snapshotPath == "" {
		return nil
	}

	snap := snapshot{
		Seed:      r.seed,
		State:     r.state,
		StartedAt: r.startedAt,
		Clients:   r.clients,
		Files:     r.files,
		Logs:      r.logs,
		Metrics:   r.metrics,
		SavedAt:   time.Now(),
	}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	// Atomic replace so a crash mid-write never corrupts the snapshot.
	tmp := r.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.snapshotPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
