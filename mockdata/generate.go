package mockdata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/harbourline/steward/types"
)

// Generation vocabulary. Picked to look like a small office fleet.
var (
	genHostnames = []string{
		"athena", "boreas", "calliope", "daphne", "echo",
		"helios", "iris", "janus", "kronos", "leto",
	}
	genOSes = []string{
		"linux/amd64", "linux/arm64", "windows/amd64", "darwin/arm64",
	}
	genComponents = []string{
		"server", "sessions", "store", "scheduler", "db",
	}
	genPathPrefixes = []string{
		"/home/ops/documents", "/var/lib/app", "/etc", "/srv/shares", "C:/Users/ops",
	}
	genFileNames = []string{
		"report.pdf", "ledger.xlsx", "config.yaml", "notes.md", "archive.tar.gz",
		"photos.zip", "db-dump.sql", "inventory.csv", "minutes.docx", "keys.backup",
	}
)

// generate populates the repository with a fresh seeded dataset.
// Caller guarantees exclusive access (constructor only).
func (r *Repository) generate(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	r.rng = rng
	r.seed = seed
	r.state = types.ServerRunning
	r.startedAt = time.Now().Add(-time.Duration(6+rng.Intn(72)) * time.Hour)

	clientCount := 5 + rng.Intn(4)
	r.clients = make([]types.ClientRecord, 0, clientCount)
	r.files = r.files[:0]

	for i := 0; i < clientCount; i++ {
		c := types.ClientRecord{
			ID:       randomID(rng),
			Hostname: genHostnames[i%len(genHostnames)],
			Address:  fmt.Sprintf("10.40.%d.%d", 1+rng.Intn(4), 10+rng.Intn(240)),
			OS:       genOSes[rng.Intn(len(genOSes))],
			Status:   types.ClientOffline,
			LastSeen: time.Now().Add(-time.Duration(rng.Intn(240)) * time.Minute),
		}
		// Most of the fleet is online at any given time
		if rng.Float64() < 0.7 {
			c.Status = types.ClientOnline
			c.LastSeen = time.Now().Add(-time.Duration(rng.Intn(90)) * time.Second)
		}

		fileCount := 4 + rng.Intn(12)
		for j := 0; j < fileCount; j++ {
			f := genFile(rng, c.ID)
			c.BackupCount++
			c.TotalBytes += f.SizeBytes
			r.files = append(r.files, f)
		}
		last := r.files[len(r.files)-1].BackedUpAt
		c.LastBackupAt = &last

		r.clients = append(r.clients, c)
	}
	sortFilesByPath(r.files)

	r.logs = genLogs(rng, 40+rng.Intn(40))
	r.metrics = types.ServerMetrics{
		CPUPercent:     10 + rng.Float64()*40,
		MemoryPercent:  25 + rng.Float64()*35,
		DiskPercent:    30 + rng.Float64()*40,
		ActiveSessions: countConnected(r.clients),
		BytesInPerSec:  int64(rng.Intn(40)) << 20,
		BytesOutPerSec: int64(rng.Intn(20)) << 20,
		SampledAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// restore rebuilds repository state from a snapshot.
func (r *Repository) restore(snap *snapshot) {
	r.rng = rand.New(rand.NewSource(snap.Seed))
	r.seed = snap.Seed
	r.clients = snap.Clients
	r.files = snap.Files
	r.logs = snap.Logs
	r.metrics = snap.Metrics
	r.state = snap.State
	r.startedAt = snap.StartedAt
	if r.state == "" {
		r.state = types.ServerRunning
	}
}

func genFile(rng *rand.Rand, clientID string) types.BackupFile {
	backedUp := time.Now().Add(-time.Duration(rng.Intn(96)) * time.Hour)
	return types.BackupFile{
		ID:         randomID(rng),
		ClientID:   clientID,
		Path: fmt.Sprintf("%s/%s",
			genPathPrefixes[rng.Intn(len(genPathPrefixes))],
			genFileNames[rng.Intn(len(genFileNames))]),
		SizeBytes:  int64(1+rng.Intn(512)) << 10 << uint(rng.Intn(8)),
		ModifiedAt: backedUp.Add(-time.Duration(1+rng.Intn(48)) * time.Hour),
		BackedUpAt: backedUp,
		Checksum:   randomHex(rng, 16),
		Compressed: rng.Float64() < 0.8,
	}
}

func genLogs(rng *rand.Rand, n int) []types.LogEntry {
	levels := []types.LogLevel{
		types.LogLevelDebug, types.LogLevelInfo, types.LogLevelInfo,
		types.LogLevelInfo, types.LogLevelWarn, types.LogLevelError,
	}
	messages := []string{
		"backup session completed",
		"incremental scan finished",
		"client heartbeat received",
		"retention sweep removed expired chunks",
		"checksum mismatch retried",
		"session renegotiated",
		"slow storage write",
	}

	out := make([]types.LogEntry, 0, n)
	ts := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		out = append(out, types.LogEntry{
			Ts:        ts.Add(time.Duration(i) * time.Minute),
			Level:     levels[rng.Intn(len(levels))],
			Component: genComponents[rng.Intn(len(genComponents))],
			Message:   messages[rng.Intn(len(messages))],
		})
	}
	return out
}

// randomID returns a short hex identifier like "c1f09a3e".
func randomID(rng *rand.Rand) string {
	return randomHex(rng, 8)
}

func randomHex(rng *rand.Rand, n int) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = hexDigits[rng.Intn(len(hexDigits))]
	}
	return string(b)
}

// drift nudges v by up to ±step, clamped to [lo, hi].
func drift(rng *rand.Rand, v, step, lo, hi float64) float64 {
	v += (rng.Float64()*2 - 1) * step
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
