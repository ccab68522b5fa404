package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is the refresh period when none is configured.
const DefaultPollInterval = 10 * time.Second

// Poller calls refresh right away and then on every tick until stopped.
// Each call runs in its own goroutine, so a slow refresh never delays the
// next tick; the stores discard results that a newer call overtook.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context) error
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	loop    sync.WaitGroup
	calls   sync.WaitGroup
	started bool
}

// NewPoller builds a stopped poller.
func NewPoller(interval time.Duration, refresh func(context.Context) error, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{interval: interval, refresh: refresh, logger: logger.With("component", "poller")}
}

// Start begins polling. It is a no-op on a poller that was already started.
// Polling ends when ctx is done or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.loop.Add(1)
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer p.loop.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	p.calls.Add(1)
	go func() {
		defer p.calls.Done()
		if err := p.refresh(ctx); err != nil && ctx.Err() == nil {
			p.logger.Debug("poll_refresh_failed", "error", err)
		}
	}()
}

// Stop cancels the timer and every refresh still in flight, then waits for
// them to return. Calling it again, or before Start, is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	p.loop.Wait()
	p.calls.Wait()
	p.logger.Debug("poll_stopped")
}
