package menuservice

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"uno-qr-menu/internal/cart"
	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
)

// Store is the slice of the persistence gateway the menu client consumes.
type Store interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetQuickActions(ctx context.Context) ([]models.QuickAction, error)
	CreateOrder(ctx context.Context, o *models.Order) (uuid.UUID, error)
	CreateOrderItem(ctx context.Context, it *models.OrderItem) error
	CreateQuickActionRequest(ctx context.Context, r *models.QuickActionRequest) (uuid.UUID, error)
}

// Service owns one cart session per table and runs the order submission
// pipeline.
type Service struct {
	store  Store
	cfg    *config.App
	logger *logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	cart   *cart.Builder
	diners int
}

func NewService(store Store, cfg *config.App, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		cfg:      cfg,
		logger:   log,
		sessions: make(map[string]*session),
	}
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.store.GetCategories(ctx)
}

func (s *Service) MenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.GetMenuItems(ctx)
}

func (s *Service) QuickActions(ctx context.Context) ([]models.QuickAction, error) {
	return s.store.GetQuickActions(ctx)
}

// tableSession returns the cart session for a table, creating it on first
// use. The cart is owned exclusively by that table and never shared.
func (s *Service) tableSession(table string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[table]
	if !ok {
		sess = &session{cart: cart.NewBuilder(s.cfg.CombinedRate())}
		s.sessions[table] = sess
	}
	return sess
}

func (s *Service) lookupSession(table string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[table]
	if !ok {
		return nil, xerrors.ErrSessionNotFound
	}
	return sess, nil
}

// AddToCart resolves the menu item, enforces variant selection for priced
// items and appends a cart line.
func (s *Service) AddToCart(ctx context.Context, table string, itemID uuid.UUID, priceID *uuid.UUID, quantity int, notes string) (*cart.Line, error) {
	items, err := s.store.GetMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	var item *models.MenuItem
	for i := range items {
		if items[i].ID == itemID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return nil, xerrors.ErrNotFound
	}

	if len(item.Prices) > 0 && priceID == nil {
		return nil, xerrors.ErrVariantRequired
	}
	if priceID != nil && item.PriceByID(*priceID) == nil {
		return nil, xerrors.ErrNotFound
	}

	line := s.tableSession(table).cart.AddLine(*item, priceID, quantity, notes, false)
	return &line, nil
}

// ConfirmDiners records the table's diner count and performs the one-shot
// complimentary water auto-add.
func (s *Service) ConfirmDiners(ctx context.Context, table string, count int) (*cart.Line, error) {
	if count < 1 {
		count = 1
	}

	items, err := s.store.GetMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	sess := s.tableSession(table)
	sess.diners = count

	return sess.cart.ConfirmDiners(count, findWaterItem(items)), nil
}

// findWaterItem locates the designated complimentary water catalog item by
// name, in either language.
func findWaterItem(items []models.MenuItem) *models.MenuItem {
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].NameEN), "water") ||
			strings.Contains(items[i].NameAR, "ماء") {
			return &items[i]
		}
	}
	return nil
}

// CartView is the rendered state of a table's cart.
type CartView struct {
	Lines  []cart.Line   `json:"lines"`
	Totals models.Totals `json:"totals"`
}

func (s *Service) Cart(table string) CartView {
	sess := s.tableSession(table)
	return CartView{
		Lines:  sess.cart.Lines(),
		Totals: sess.cart.Totals(),
	}
}

func (s *Service) AdjustQuantity(table string, lineID uuid.UUID, delta int) error {
	sess, err := s.lookupSession(table)
	if err != nil {
		return err
	}
	return sess.cart.AdjustQuantity(lineID, delta)
}

func (s *Service) SetQuantity(table string, lineID uuid.UUID, value string) error {
	sess, err := s.lookupSession(table)
	if err != nil {
		return err
	}
	return sess.cart.SetQuantity(lineID, value)
}

func (s *Service) RemoveLine(table string, lineID uuid.UUID) error {
	sess, err := s.lookupSession(table)
	if err != nil {
		return err
	}
	return sess.cart.RemoveLine(lineID)
}

// SubmitResult references the newly created order.
type SubmitResult struct {
	OrderID uuid.UUID     `json:"order_id"`
	Totals  models.Totals `json:"totals"`
}

// SubmitOrder converts the table's cart into a persisted order plus its
// line items. An empty cart is rejected locally, before any gateway call.
// The order row is created first; item rows follow as sequential writes,
// each awaited before the next. There is no rollback of a partial state: a
// failed item write surfaces the error and leaves earlier writes persisted.
// The cart is cleared only on full success.
func (s *Service) SubmitOrder(ctx context.Context, table, requestID string) (*SubmitResult, error) {
	sess := s.tableSession(table)

	lines := sess.cart.Lines()
	if len(lines) == 0 {
		return nil, xerrors.ErrEmptyCart
	}

	totals := sess.cart.Totals()

	order := &models.Order{
		TableNumber: table,
		Status:      models.OrderStatusPending,
		Subtotal:    &totals.Subtotal,
		Tax:         &totals.Tax,
		Total:       &totals.Total,
	}
	if sess.diners > 0 {
		diners := sess.diners
		order.NumberOfPeople = &diners
	}

	orderID, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error(requestID, "order_creation_failed", "Failed to create order row", err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Debug(requestID, "order_created", fmt.Sprintf("Order created with ID %s", orderID))

	for i := range lines {
		item := &models.OrderItem{
			OrderID:     orderID,
			ItemID:      lines[i].Item.ID,
			ItemPriceID: lines[i].PriceID,
			Quantity:    lines[i].Quantity,
			Notes:       lines[i].Notes,
		}
		if err := s.store.CreateOrderItem(ctx, item); err != nil {
			s.logger.Error(requestID, "order_items_creation_failed",
				fmt.Sprintf("Failed to create item %d of order %s", i+1, orderID), err)
			return nil, fmt.Errorf("failed to create order items: %w", err)
		}
	}

	sess.cart.Clear()
	s.logger.Info(requestID, "order_submitted",
		fmt.Sprintf("Order %s submitted for table %s", orderID, table))

	return &SubmitResult{OrderID: orderID, Totals: totals}, nil
}

// RaiseQuickAction creates a pending quick-action request for the table.
func (s *Service) RaiseQuickAction(ctx context.Context, table string, actionID uuid.UUID) (uuid.UUID, error) {
	req := &models.QuickActionRequest{
		TableNumber: table,
		ActionID:    actionID,
		Status:      models.QuickActionStatusPending,
	}
	return s.store.CreateQuickActionRequest(ctx, req)
}
