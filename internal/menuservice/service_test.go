package menuservice

import (
	"context"
	"errors"
	"testing"

	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	items   []models.MenuItem
	actions []models.QuickAction

	createdOrders   []models.Order
	createdItems    []models.OrderItem
	createdRequests []models.QuickActionRequest

	orderErr     error
	itemErr      error
	itemErrAfter int // fail the write at this zero-based index
}

func (f *fakeStore) GetCategories(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

func (f *fakeStore) GetMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return f.items, nil
}

func (f *fakeStore) GetQuickActions(ctx context.Context) ([]models.QuickAction, error) {
	return f.actions, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, o *models.Order) (uuid.UUID, error) {
	if f.orderErr != nil {
		return uuid.Nil, f.orderErr
	}
	f.createdOrders = append(f.createdOrders, *o)
	return uuid.New(), nil
}

func (f *fakeStore) CreateOrderItem(ctx context.Context, it *models.OrderItem) error {
	if f.itemErr != nil && len(f.createdItems) == f.itemErrAfter {
		return f.itemErr
	}
	f.createdItems = append(f.createdItems, *it)
	return nil
}

func (f *fakeStore) CreateQuickActionRequest(ctx context.Context, r *models.QuickActionRequest) (uuid.UUID, error) {
	f.createdRequests = append(f.createdRequests, *r)
	return uuid.New(), nil
}

func newTestService(store *fakeStore) *Service {
	cfg := &config.Default().App
	return NewService(store, cfg, logger.NewLogger("menu-service-test"))
}

func catalogItem(nameEN string, prices ...float64) models.MenuItem {
	item := models.MenuItem{ID: uuid.New(), NameEN: nameEN, IsAvailable: true}
	for i, p := range prices {
		item.Prices = append(item.Prices, models.ItemPrice{
			ID:           uuid.New(),
			ItemID:       item.ID,
			Price:        p,
			DisplayOrder: i,
		})
	}
	return item
}

func TestAddToCart(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	svc := newTestService(store)

	line, err := svc.AddToCart(context.Background(), "5", pizza.ID, &pizza.Prices[0].ID, 2, "extra cheese")
	require.NoError(t, err)
	require.Equal(t, 2, line.Quantity)
	require.Equal(t, "extra cheese", line.Notes)

	view := svc.Cart("5")
	require.Len(t, view.Lines, 1)
	require.InDelta(t, 22.00, view.Totals.Total, 1e-9)
}

func TestAddToCart_VariantRequired(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00, 14.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	svc := newTestService(store)

	_, err := svc.AddToCart(context.Background(), "5", pizza.ID, nil, 1, "")
	require.ErrorIs(t, err, xerrors.ErrVariantRequired)
	require.Empty(t, svc.Cart("5").Lines)
}

func TestAddToCart_UnknownItem(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	_, err := svc.AddToCart(context.Background(), "5", uuid.New(), nil, 1, "")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestAddToCart_DanglingVariant(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	svc := newTestService(store)

	bogus := uuid.New()
	_, err := svc.AddToCart(context.Background(), "5", pizza.ID, &bogus, 1, "")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestConfirmDiners_AutoAddsWaterLine(t *testing.T) {
	water := catalogItem("Mineral Water", 0.50)
	store := &fakeStore{items: []models.MenuItem{water}}
	svc := newTestService(store)

	line, err := svc.ConfirmDiners(context.Background(), "3", 4)
	require.NoError(t, err)
	require.NotNil(t, line)
	require.Equal(t, 4, line.Quantity)
	require.True(t, line.AutoAdded)
}

func TestConfirmDiners_ArabicName(t *testing.T) {
	water := catalogItem("Still", 0.50)
	water.NameAR = "ماء معدني"
	store := &fakeStore{items: []models.MenuItem{water}}
	svc := newTestService(store)

	line, err := svc.ConfirmDiners(context.Background(), "3", 2)
	require.NoError(t, err)
	require.NotNil(t, line)
}

func TestConfirmDiners_NoWaterInCatalog(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	svc := newTestService(store)

	line, err := svc.ConfirmDiners(context.Background(), "3", 2)
	require.NoError(t, err)
	require.Nil(t, line)
	require.Empty(t, svc.Cart("3").Lines)
}

func TestSubmitOrder_EmptyCart(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	_, err := svc.SubmitOrder(context.Background(), "5", "req-1")
	require.ErrorIs(t, err, xerrors.ErrEmptyCart)
	// rejected locally: no gateway writes at all
	require.Empty(t, store.createdOrders)
	require.Empty(t, store.createdItems)
}

func TestSubmitOrder_Success(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	cola := catalogItem("Cola", 1.50)
	store := &fakeStore{items: []models.MenuItem{pizza, cola}}
	svc := newTestService(store)

	ctx := context.Background()
	_, err := svc.AddToCart(ctx, "5", pizza.ID, &pizza.Prices[0].ID, 2, "")
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "5", cola.ID, &cola.Prices[0].ID, 1, "no ice")
	require.NoError(t, err)
	_, err = svc.ConfirmDiners(ctx, "5", 3)
	require.NoError(t, err)

	res, err := svc.SubmitOrder(ctx, "5", "req-1")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, res.OrderID)
	require.InDelta(t, 21.50, res.Totals.Subtotal, 1e-9)
	require.InDelta(t, 23.65, res.Totals.Total, 1e-9)

	// the order row is written before any item rows
	require.Len(t, store.createdOrders, 1)
	order := store.createdOrders[0]
	require.Equal(t, "5", order.TableNumber)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.NotNil(t, order.NumberOfPeople)
	require.Equal(t, 3, *order.NumberOfPeople)
	require.InDelta(t, 21.50, *order.Subtotal, 1e-9)
	require.InDelta(t, 23.65, *order.Total, 1e-9)

	require.Len(t, store.createdItems, 2)
	require.Equal(t, pizza.ID, store.createdItems[0].ItemID)
	require.Equal(t, cola.ID, store.createdItems[1].ItemID)

	// success clears the cart
	require.Empty(t, svc.Cart("5").Lines)
}

func TestSubmitOrder_OrderWriteFails(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	store := &fakeStore{
		items:    []models.MenuItem{pizza},
		orderErr: errors.New("db down"),
	}
	svc := newTestService(store)

	ctx := context.Background()
	_, err := svc.AddToCart(ctx, "5", pizza.ID, &pizza.Prices[0].ID, 1, "")
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, "5", "req-1")
	require.Error(t, err)
	require.Empty(t, store.createdItems)

	// the cart survives a failed submission for retry
	require.Len(t, svc.Cart("5").Lines, 1)
}

func TestSubmitOrder_PartialItemFailure(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	cola := catalogItem("Cola", 1.50)
	store := &fakeStore{
		items:        []models.MenuItem{pizza, cola},
		itemErr:      errors.New("db down"),
		itemErrAfter: 1,
	}
	svc := newTestService(store)

	ctx := context.Background()
	_, err := svc.AddToCart(ctx, "5", pizza.ID, &pizza.Prices[0].ID, 1, "")
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "5", cola.ID, &cola.Prices[0].ID, 1, "")
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, "5", "req-1")
	require.Error(t, err)

	// no rollback: the order row and the first item remain persisted
	require.Len(t, store.createdOrders, 1)
	require.Len(t, store.createdItems, 1)
	require.Len(t, svc.Cart("5").Lines, 2)
}

func TestSubmitOrder_NoDinersOmitsCount(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	svc := newTestService(store)

	ctx := context.Background()
	_, err := svc.AddToCart(ctx, "5", pizza.ID, &pizza.Prices[0].ID, 1, "")
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, "5", "req-1")
	require.NoError(t, err)
	require.Nil(t, store.createdOrders[0].NumberOfPeople)
}

func TestAdjustQuantity_UnknownSession(t *testing.T) {
	svc := newTestService(&fakeStore{})
	err := svc.AdjustQuantity("99", uuid.New(), 1)
	require.ErrorIs(t, err, xerrors.ErrSessionNotFound)
}

func TestRaiseQuickAction(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	actionID := uuid.New()
	id, err := svc.RaiseQuickAction(context.Background(), "7", actionID)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	require.Len(t, store.createdRequests, 1)
	require.Equal(t, "7", store.createdRequests[0].TableNumber)
	require.Equal(t, actionID, store.createdRequests[0].ActionID)
	require.Equal(t, models.QuickActionStatusPending, store.createdRequests[0].Status)
}
