package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/adapter"
	"github.com/harbourline/steward/adapter/redis"
	"github.com/harbourline/steward/adapter/webhook"
	"github.com/harbourline/steward/archive"
	"github.com/harbourline/steward/bridge"
	"github.com/harbourline/steward/cli/config"
	"github.com/harbourline/steward/iox"
	"github.com/harbourline/steward/log"
	"github.com/harbourline/steward/metrics"
	"github.com/harbourline/steward/mockdata"
)

// appEnv holds the wired-up console environment for one command
// invocation: config, repository, bridge, and attached adapters.
type appEnv struct {
	cfg       *config.Config
	logger    *log.Logger
	repo      *mockdata.Repository
	bridge    *bridge.Bridge
	collector *metrics.Collector
	sessionID string

	publisher adapter.Adapter
}

// setup loads config and builds the repository, notification adapters,
// audit archive, and bridge. Callers must Close the returned env.
func setup(c *cli.Context) (*appEnv, error) {
	cfg, err := config.LoadOrDefault(c.String("config"))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data dir %q: %w", cfg.Data.Dir, err)
	}

	sessionID := newSessionID()
	logger := log.Nop()
	if c.Bool("verbose") {
		logger = log.NewLogger("steward", sessionID)
	}

	repo, err := mockdata.NewRepository(mockdata.Config{
		SnapshotPath: cfg.Data.SnapshotPath,
		SettingsPath: cfg.Data.SettingsPath,
		ExportDir:    cfg.Data.ExportDir,
		Seed:         cfg.Data.Seed,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	publisher, err := buildPublisher(cfg, sessionID)
	if err != nil {
		iox.DiscardClose(repo)
		return nil, err
	}

	collector := metrics.NewCollector(sessionID, "substitute")

	br, err := bridge.New(bridge.Options{
		Substitute: repo,
		Logger:     logger,
		Metrics:    collector,
		Publisher:  publisher,
		SessionID:  sessionID,
	})
	if err != nil {
		if publisher != nil {
			iox.DiscardClose(publisher)
		}
		iox.DiscardClose(repo)
		return nil, err
	}

	return &appEnv{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		bridge:    br,
		collector: collector,
		sessionID: sessionID,
		publisher: publisher,
	}, nil
}

// Close persists repository state and releases adapter connections.
// Safe on a partially built env.
func (e *appEnv) Close() error {
	var errs []error
	if e.repo != nil {
		errs = append(errs, e.repo.Close())
	}
	if e.publisher != nil {
		errs = append(errs, e.publisher.Close())
	}
	return errors.Join(errs...)
}

// buildPublisher assembles the notification fanout from config: an
// optional redis or webhook adapter plus an optional audit archive.
// Returns nil when nothing is configured.
func buildPublisher(cfg *config.Config, sessionID string) (adapter.Adapter, error) {
	var adapters []adapter.Adapter

	switch cfg.Adapter.Type {
	case "":
		// no notification adapter
	case "redis":
		retries := redis.DefaultRetries
		if cfg.Adapter.Retries != nil {
			retries = *cfg.Adapter.Retries
		}
		a, err := redis.New(redis.Config{
			URL:     cfg.Adapter.URL,
			Channel: cfg.Adapter.Channel,
			Timeout: cfg.Adapter.Timeout.Duration,
			Retries: retries,
		})
		if err != nil {
			return nil, fmt.Errorf("redis adapter: %w", err)
		}
		adapters = append(adapters, a)
	case "webhook":
		retries := webhook.DefaultRetries
		if cfg.Adapter.Retries != nil {
			retries = *cfg.Adapter.Retries
		}
		a, err := webhook.New(webhook.Config{
			URL:     cfg.Adapter.URL,
			Headers: cfg.Adapter.Headers,
			Timeout: cfg.Adapter.Timeout.Duration,
			Retries: retries,
		})
		if err != nil {
			return nil, fmt.Errorf("webhook adapter: %w", err)
		}
		adapters = append(adapters, a)
	default:
		return nil, fmt.Errorf("unknown adapter type: %q", cfg.Adapter.Type)
	}

	if cfg.Archive.Enabled {
		w, err := buildArchiveWriter(cfg, sessionID)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, archive.NewAdapter(w))
	}

	multi := adapter.NewMulti(adapters...)
	if multi.Empty() {
		return nil, nil
	}
	return multi, nil
}

func buildArchiveWriter(cfg *config.Config, sessionID string) (archive.Writer, error) {
	acfg := archive.Config{
		Dataset:   cfg.Archive.Dataset,
		Source:    cfg.Archive.Source,
		Day:       archive.DeriveDay(time.Now().UTC()),
		SessionID: sessionID,
	}
	if acfg.Source == "" {
		if host, err := os.Hostname(); err == nil {
			acfg.Source = host
		} else {
			acfg.Source = "steward"
		}
	}

	switch cfg.Archive.Backend {
	case "", "fs":
		root := cfg.Archive.Path
		if root == "" {
			root = cfg.Data.Dir
		}
		return archive.NewFSWriter(acfg, root)
	case "s3":
		bucket, prefix := archive.ParseS3Path(cfg.Archive.Path)
		return archive.NewS3Writer(acfg, archive.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       cfg.Archive.Region,
			Endpoint:     cfg.Archive.Endpoint,
			UsePathStyle: cfg.Archive.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive backend: %q", cfg.Archive.Backend)
	}
}

func newSessionID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "session-unknown"
	}
	return hex.EncodeToString(buf)
}
