package cashiermonitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store is the slice of the persistence gateway the cashier dashboard
// consumes.
type Store interface {
	GetOrders(ctx context.Context, status *string, hoursLimit *int) ([]models.Order, error)
	GetQuickActionRequests(ctx context.Context) ([]models.QuickActionRequest, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error
	UpdateQuickActionRequestStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Feed delivers change notifications until the context is cancelled.
type Feed interface {
	Subscribe(ctx context.Context, handler func(models.ChangeEvent)) error
}

// Stats are today's aggregates, independent of the dashboard's trailing
// order window.
type Stats struct {
	TotalOrders     int     `json:"total_orders"`
	CompletedOrders int     `json:"completed_orders"`
	PendingOrders   int     `json:"pending_orders"`
	Revenue         float64 `json:"revenue"`
}

// Snapshot is the derived view state of one reload cycle. A failed reload
// leaves the previous snapshot in place.
type Snapshot struct {
	Orders              []models.Order              `json:"orders"`
	QuickActionRequests []models.QuickActionRequest `json:"quick_action_requests"`
	PendingOrders       int                         `json:"pending_orders"`
	PendingQuickActions int                         `json:"pending_quick_actions"`
	OccupiedTables      map[string]bool             `json:"occupied_tables"`
	Stats               Stats                       `json:"stats"`
	LoadedAt            time.Time                   `json:"loaded_at"`
}

// Monitor maintains the cashier dashboard's live state: a trailing window
// of orders plus all quick-action requests, reloaded every fixed period and
// immediately on any change notification, with an audio-alert loop while
// unresolved items exist.
type Monitor struct {
	store   Store
	feed    Feed
	alerts  *AlertScheduler
	sounder Sounder
	logger  *logger.Logger
	cfg     *config.App

	mu           sync.Mutex
	snap         Snapshot
	soundEnabled bool
	stopped      bool
	cancel       context.CancelFunc

	reloadCh chan struct{}
}

func NewMonitor(store Store, feed Feed, sounder Sounder, cfg *config.App, log *logger.Logger) *Monitor {
	return &Monitor{
		store:        store,
		feed:         feed,
		sounder:      sounder,
		logger:       log,
		cfg:          cfg,
		soundEnabled: true,
		alerts:       NewAlertScheduler(sounder, cfg.AlertInterval(), cfg.AlertInitialDelay(), cfg.CueOffset()),
		reloadCh:     make(chan struct{}, 1),
	}
}

// Start runs the reload loop and the change-notification subscription until
// ctx is cancelled or Stop is called. Blocking.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return xerrors.ErrMonitorStopped
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return m.reloadLoop(ctx)
	})
	g.Go(func() error {
		return m.feed.Subscribe(ctx, m.handleChange)
	})

	err := g.Wait()
	m.alerts.Stop()
	return err
}

// Stop cancels the poll ticker, the changefeed subscription and the alert
// loop. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.alerts.Stop()
}

func (m *Monitor) reloadLoop(ctx context.Context) error {
	m.reload(ctx)

	ticker := time.NewTicker(m.cfg.ReloadInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.reload(ctx)
		case <-m.reloadCh:
			m.reload(ctx)
		}
	}
}

// requestReload asks for a reload as soon as the loop is free. Concurrent
// triggers coalesce: the buffered channel holds at most one pending
// request, so overlapping notifications produce a single follow-up reload.
func (m *Monitor) requestReload() {
	select {
	case m.reloadCh <- struct{}{}:
	default:
	}
}

// handleChange reacts to a change notification: any event on a watched
// table triggers a full reload; an insert additionally plays an immediate
// one-shot cue, ahead of whatever the loop evaluation decides.
func (m *Monitor) handleChange(ev models.ChangeEvent) {
	switch ev.Table {
	case models.TableOrders, models.TableOrderItems, models.TableQuickActionRequests:
	default:
		return
	}

	if ev.Type == models.ChangeInsert && m.SoundEnabled() {
		switch ev.Table {
		case models.TableOrders:
			m.sounder.PlayOrderCue()
		case models.TableQuickActionRequests:
			m.sounder.PlayQuickActionCue()
		}
	}

	m.logger.Debug("", "change_received",
		fmt.Sprintf("%s %s on %s", ev.Type, ev.RowID, ev.Table))
	m.requestReload()
}

// reload fetches the trailing order window and all quick-action requests,
// derives the dashboard state and re-evaluates the alert condition. On
// failure the previously-rendered snapshot stays in place.
func (m *Monitor) reload(ctx context.Context) {
	hours := m.cfg.OrderWindowHours
	orders, err := m.store.GetOrders(ctx, nil, &hours)
	if err != nil {
		m.logger.Warn("", "reload_failed", fmt.Sprintf("Failed to load orders: %v", err))
		return
	}

	requests, err := m.store.GetQuickActionRequests(ctx)
	if err != nil {
		m.logger.Warn("", "reload_failed", fmt.Sprintf("Failed to load quick action requests: %v", err))
		return
	}

	snap := buildSnapshot(orders, requests, m.cfg.CombinedRate(), time.Now())

	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()

	m.evaluateAlerts()
}

func (m *Monitor) evaluateAlerts() {
	m.mu.Lock()
	hasPending := m.snap.PendingOrders > 0 || m.snap.PendingQuickActions > 0
	sound := m.soundEnabled
	m.mu.Unlock()

	switch {
	case hasPending && sound && !m.alerts.Active():
		m.alerts.Start(m.pendingState)
	case !hasPending && m.alerts.Active():
		m.alerts.Stop()
	}
}

// pendingState is the live evaluation the alert loop performs on every
// tick.
func (m *Monitor) pendingState() PendingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return PendingState{
		Orders:       m.snap.PendingOrders > 0,
		QuickActions: m.snap.PendingQuickActions > 0,
	}
}

// Snapshot returns the current derived state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// FilteredOrders returns the window's orders filtered by status; "all" or
// empty returns everything.
func (m *Monitor) FilteredOrders(status string) []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	if status == "" || status == "all" {
		out := make([]models.Order, len(m.snap.Orders))
		copy(out, m.snap.Orders)
		return out
	}

	out := []models.Order{}
	for _, o := range m.snap.Orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// SoundEnabled reports the sound toggle.
func (m *Monitor) SoundEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.soundEnabled
}

// SetSoundEnabled toggles alerts: disabling stops the loop immediately,
// enabling restarts it at once if pending items exist.
func (m *Monitor) SetSoundEnabled(enabled bool) {
	m.mu.Lock()
	m.soundEnabled = enabled
	m.mu.Unlock()

	if !enabled {
		m.alerts.Stop()
		return
	}
	m.evaluateAlerts()
}

// UpdateOrderStatus applies a cashier status transition and refreshes the
// dashboard.
func (m *Monitor) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	valid := false
	for _, s := range models.ClientOrderStatuses {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		return xerrors.ErrInvalidStatus
	}

	if err := m.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	m.requestReload()
	return nil
}

// CompleteQuickAction marks a quick-action request completed and refreshes
// the dashboard.
func (m *Monitor) CompleteQuickAction(ctx context.Context, id uuid.UUID) error {
	if err := m.store.UpdateQuickActionRequestStatus(ctx, id, models.QuickActionStatusCompleted); err != nil {
		return err
	}
	m.requestReload()
	return nil
}

func buildSnapshot(orders []models.Order, requests []models.QuickActionRequest, rate float64, now time.Time) Snapshot {
	snap := Snapshot{
		Orders:              orders,
		QuickActionRequests: requests,
		OccupiedTables:      map[string]bool{},
		LoadedAt:            now,
	}

	for i := range orders {
		if orders[i].Status == models.OrderStatusPending {
			snap.PendingOrders++
		}
		if orders[i].IsActive() {
			snap.OccupiedTables[orders[i].TableNumber] = true
		}
	}

	for i := range requests {
		if requests[i].Status == models.QuickActionStatusPending {
			snap.PendingQuickActions++
		}
	}

	y, mo, d := now.Date()
	for i := range orders {
		oy, omo, od := orders[i].OrderTime.Local().Date()
		if oy != y || omo != mo || od != d {
			continue
		}
		snap.Stats.TotalOrders++
		switch orders[i].Status {
		case models.OrderStatusCompleted:
			snap.Stats.CompletedOrders++
		case models.OrderStatusPending:
			snap.Stats.PendingOrders++
		}
		snap.Stats.Revenue += orders[i].EffectiveTotal(rate)
	}

	return snap
}
