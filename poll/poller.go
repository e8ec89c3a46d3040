// Package poll drives periodic bridge reads into the state store.
//
// Each target runs in its own goroutine on its own interval. Cancellation
// is cooperative via the context passed to Start, checked at every tick;
// a call already in flight finishes before the loop exits.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/harbourline/steward/bridge"
	"github.com/harbourline/steward/log"
	"github.com/harbourline/steward/state"
)

// DefaultInterval is used for targets that do not set one.
const DefaultInterval = 5 * time.Second

// Target is one polling loop: a bridge read landing under a state key.
type Target struct {
	// Key is the state-store key results land under (required).
	Key string
	// Interval between calls. Non-positive uses DefaultInterval.
	Interval time.Duration
	// Fetch performs the read (required). It must not panic through the
	// bridge, which already guarantees that.
	Fetch func(ctx context.Context) bridge.Result
}

// Poller runs a set of targets until its context is canceled.
type Poller struct {
	store   *state.Store
	logger  *log.Logger
	targets []Target

	mu      sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
}

// New creates a poller over the given store and targets.
func New(store *state.Store, logger *log.Logger, targets ...Target) *Poller {
	if logger == nil {
		logger = log.Nop()
	}
	return &Poller{
		store:   store,
		logger:  logger,
		targets: targets,
	}
}

// Start launches one loop per target. Each target fetches immediately,
// then on its interval. Start is idempotent.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for _, t := range p.targets {
		target := t
		if target.Interval <= 0 {
			target.Interval = DefaultInterval
		}
		p.wg.Add(1)
		go p.run(runCtx, target)
	}
}

// Stop cancels all loops and waits for in-flight fetches to finish.
// Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context, t Target) {
	defer p.wg.Done()

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	p.fetchOnce(ctx, t)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchOnce(ctx, t)
		}
	}
}

func (p *Poller) fetchOnce(ctx context.Context, t Target) {
	if ctx.Err() != nil {
		return
	}
	p.store.SetLoading(t.Key, true)
	res := t.Fetch(ctx)
	p.store.Apply(t.Key, res)
	if !res.Success {
		p.logger.Debug("poll fetch reported failure", map[string]any{
			"key":        t.Key,
			"error_code": res.ErrorCode,
		})
	}
}
