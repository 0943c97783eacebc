package cashiermonitor

import (
	"context"
	"sync"
	"time"
)

// Sounder plays the two audio cues of the cashier dashboard.
type Sounder interface {
	PlayOrderCue()
	PlayQuickActionCue()
}

// PendingState is the alert loop's view of the world at one evaluation.
type PendingState struct {
	Orders       bool
	QuickActions bool
}

// PendingFunc re-evaluates the current pending items on every loop tick.
type PendingFunc func() PendingState

// AlertScheduler drives the repeating audio-alert sequence while pending
// items exist. Start and Stop are idempotent and safe to call repeatedly.
type AlertScheduler struct {
	sounder      Sounder
	interval     time.Duration
	initialDelay time.Duration
	cueOffset    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewAlertScheduler(sounder Sounder, interval, initialDelay, cueOffset time.Duration) *AlertScheduler {
	return &AlertScheduler{
		sounder:      sounder,
		interval:     interval,
		initialDelay: initialDelay,
		cueOffset:    cueOffset,
	}
}

func (a *AlertScheduler) Start(pending PendingFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.run(ctx, pending)
}

func (a *AlertScheduler) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel == nil {
		return
	}
	a.cancel()
	a.cancel = nil
}

func (a *AlertScheduler) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

func (a *AlertScheduler) run(ctx context.Context, pending PendingFunc) {
	// The initial announcement fires after a short delay, independent of
	// the first interval tick, so a newly-pending item is heard promptly.
	initial := time.NewTimer(a.initialDelay)
	defer initial.Stop()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-initial.C:
			a.playSequence(ctx, pending())
		case <-ticker.C:
			a.playSequence(ctx, pending())
		}
	}
}

// playSequence plays the order cue, then the quick-action cue one fixed
// offset later. The two cues are never simultaneous.
func (a *AlertScheduler) playSequence(ctx context.Context, p PendingState) {
	if p.Orders {
		a.sounder.PlayOrderCue()
	}
	if p.QuickActions {
		offset := time.NewTimer(a.cueOffset)
		defer offset.Stop()
		select {
		case <-ctx.Done():
			return
		case <-offset.C:
		}
		a.sounder.PlayQuickActionCue()
	}
}
