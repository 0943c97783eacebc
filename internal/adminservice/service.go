package adminservice

import (
	"context"
	"fmt"
	"time"

	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/models"

	"github.com/google/uuid"
)

// Store is the slice of the persistence gateway the back-office consumes.
type Store interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetQuickActions(ctx context.Context) ([]models.QuickAction, error)
	GetOrders(ctx context.Context, status *string, hoursLimit *int) ([]models.Order, error)
	GetOrderWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error)

	CreateCategory(ctx context.Context, c *models.Category) (uuid.UUID, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateMenuItem(ctx context.Context, m *models.MenuItem) (uuid.UUID, error)
	UpdateMenuItem(ctx context.Context, m *models.MenuItem) error
	SetMenuItemAvailability(ctx context.Context, id uuid.UUID, available bool) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error

	CreateItemPrice(ctx context.Context, p *models.ItemPrice) (uuid.UUID, error)
	DeleteItemPrice(ctx context.Context, id uuid.UUID) error

	CreateQuickAction(ctx context.Context, a *models.QuickAction) (uuid.UUID, error)
	UpdateQuickAction(ctx context.Context, a *models.QuickAction) error
	DeleteQuickAction(ctx context.Context, id uuid.UUID) error

	DeleteOrder(ctx context.Context, id uuid.UUID) error
	DeleteAllOrders(ctx context.Context) error
}

type Service struct {
	store  Store
	cfg    *config.App
	logger *logger.Logger
}

func NewService(store Store, cfg *config.App, log *logger.Logger) *Service {
	return &Service{store: store, cfg: cfg, logger: log}
}

func (s *Service) Store() Store {
	return s.store
}

// Summary aggregates the non-cancelled orders of a date range.
type Summary struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// OrdersSummary computes the analytics summary for a date range, skipping
// cancelled orders. Revenue uses the shared totals fallback.
func (s *Service) OrdersSummary(ctx context.Context, start, end time.Time) (*Summary, error) {
	orders, err := s.store.GetOrders(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	for i := range orders {
		if orders[i].Status == models.OrderStatusCancelled {
			continue
		}
		if !inDateRange(orders[i].OrderTime, start, end) {
			continue
		}
		sum.Orders++
		sum.Revenue += orders[i].EffectiveTotal(s.cfg.CombinedRate())
	}
	return sum, nil
}

// DeleteOrder removes one order. The confirmation gate lives at the HTTP
// boundary.
func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.logger.Info("", "order_deleted", fmt.Sprintf("Order %s deleted", id))
	return nil
}

// DeleteAllOrders removes every order.
func (s *Service) DeleteAllOrders(ctx context.Context) error {
	if err := s.store.DeleteAllOrders(ctx); err != nil {
		return err
	}
	s.logger.Info("", "orders_cleared", "All orders deleted")
	return nil
}

// inDateRange compares calendar dates, inclusive on both ends.
func inDateRange(t, start, end time.Time) bool {
	day := t.Local().Format("2006-01-02")
	return day >= start.Format("2006-01-02") && day <= end.Format("2006-01-02")
}
