package adminservice

import (
	"context"
	"testing"
	"time"

	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeAdminStore embeds the interface so only the methods a test exercises
// need real implementations.
type fakeAdminStore struct {
	Store
	orders []models.Order

	deletedOrders []uuid.UUID
	clearedAll    bool
}

func (f *fakeAdminStore) GetOrders(ctx context.Context, status *string, hoursLimit *int) ([]models.Order, error) {
	return f.orders, nil
}

func (f *fakeAdminStore) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	f.deletedOrders = append(f.deletedOrders, id)
	return nil
}

func (f *fakeAdminStore) DeleteAllOrders(ctx context.Context) error {
	f.clearedAll = true
	return nil
}

func newTestAdminService(store Store) *Service {
	return NewService(store, &config.Default().App, logger.NewLogger("admin-service-test"))
}

func summaryOrder(status string, total float64, when time.Time) models.Order {
	t := total
	return models.Order{
		ID:        uuid.New(),
		Status:    status,
		OrderTime: when,
		Total:     &t,
	}
}

func TestOrdersSummary(t *testing.T) {
	when := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	store := &fakeAdminStore{orders: []models.Order{
		summaryOrder("completed", 22.00, when),
		summaryOrder("pending", 11.00, when),
		summaryOrder("cancelled", 99.00, when),
		summaryOrder("completed", 5.50, when.AddDate(0, 1, 0)), // outside the range
	}}
	svc := newTestAdminService(store)

	sum, err := svc.OrdersSummary(context.Background(),
		when.AddDate(0, 0, -1), when.AddDate(0, 0, 1))
	require.NoError(t, err)

	require.Equal(t, 2, sum.Orders)
	require.InDelta(t, 33.00, sum.Revenue, 1e-9)
}

func TestDeleteOrder(t *testing.T) {
	store := &fakeAdminStore{}
	svc := newTestAdminService(store)

	id := uuid.New()
	require.NoError(t, svc.DeleteOrder(context.Background(), id))
	require.Equal(t, []uuid.UUID{id}, store.deletedOrders)
}

func TestDeleteAllOrders(t *testing.T) {
	store := &fakeAdminStore{}
	svc := newTestAdminService(store)

	require.NoError(t, svc.DeleteAllOrders(context.Background()))
	require.True(t, store.clearedAll)
}
