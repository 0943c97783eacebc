package cashiermonitor

import (
	"context"
	"testing"
	"time"

	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestReceipt(t *testing.T) {
	order := models.Order{
		ID:          uuid.New(),
		TableNumber: "7",
		Status:      models.OrderStatusPending,
		OrderTime:   time.Now(),
		Items: []models.OrderItem{
			{
				Quantity:  2,
				Notes:     "no onions",
				MenuItem:  &models.MenuItem{NameEN: "Margherita"},
				ItemPrice: &models.ItemPrice{SizeEN: "Large", Price: 10.00},
			},
			{
				Quantity: 1, // dangling references
			},
		},
	}
	store := &fakeMonitorStore{orders: []models.Order{order}}
	m := newTestMonitor(store, &recordingSounder{})
	defer m.alerts.Stop()
	m.reload(context.Background())

	rec, err := m.Receipt(order.ID)
	require.NoError(t, err)

	require.Equal(t, order.ShortID(), rec.OrderID)
	require.Equal(t, "7", rec.TableNumber)
	require.Len(t, rec.Lines, 2)

	require.Equal(t, "Margherita", rec.Lines[0].Name)
	require.Equal(t, "Large", rec.Lines[0].Size)
	require.Equal(t, 2, rec.Lines[0].Quantity)
	require.InDelta(t, 10.00, rec.Lines[0].UnitPrice, 1e-9)
	require.InDelta(t, 20.00, rec.Lines[0].LineTotal, 1e-9)
	require.Equal(t, "no onions", rec.Lines[0].Notes)

	require.Equal(t, "Unknown Item", rec.Lines[1].Name)
	require.Equal(t, "N/A", rec.Lines[1].Size)
	require.Zero(t, rec.Lines[1].UnitPrice)

	// no persisted total: the breakdown is computed from the items
	require.InDelta(t, 20.00, rec.Totals.Subtotal, 1e-9)
	require.InDelta(t, 22.00, rec.Totals.Total, 1e-9)
	require.Equal(t, "22.00 JOD", rec.Display)
}

func TestReceipt_PersistedTotals(t *testing.T) {
	subtotal, tax, total := 20.00, 2.00, 22.00
	order := models.Order{
		ID:          uuid.New(),
		TableNumber: "7",
		Status:      models.OrderStatusCompleted,
		OrderTime:   time.Now(),
		Subtotal:    &subtotal,
		Tax:         &tax,
		Total:       &total,
	}
	store := &fakeMonitorStore{orders: []models.Order{order}}
	m := newTestMonitor(store, &recordingSounder{})
	defer m.alerts.Stop()
	m.reload(context.Background())

	rec, err := m.Receipt(order.ID)
	require.NoError(t, err)
	require.Equal(t, models.Totals{Subtotal: 20.00, Tax: 2.00, Total: 22.00}, rec.Totals)
}

func TestReceipt_UnknownOrder(t *testing.T) {
	m := newTestMonitor(&fakeMonitorStore{}, &recordingSounder{})
	defer m.alerts.Stop()
	m.reload(context.Background())

	_, err := m.Receipt(uuid.New())
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}
