package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	lines := []TotalLine{
		{UnitPrice: 10.00, Quantity: 2},
	}

	totals := ComputeTotals(lines, 0.10)
	require.InDelta(t, 20.00, totals.Subtotal, 1e-9)
	require.InDelta(t, 2.00, totals.Tax, 1e-9)
	require.InDelta(t, 22.00, totals.Total, 1e-9)
}

func TestComputeTotals_ZeroRate(t *testing.T) {
	lines := []TotalLine{
		{UnitPrice: 3.50, Quantity: 1},
		{UnitPrice: 1.25, Quantity: 4},
	}

	totals := ComputeTotals(lines, 0)
	require.InDelta(t, 8.50, totals.Subtotal, 1e-9)
	require.Zero(t, totals.Tax)
	require.InDelta(t, 8.50, totals.Total, 1e-9)
}

func TestComputeTotals_EmptyLines(t *testing.T) {
	totals := ComputeTotals(nil, 0.10)
	require.Zero(t, totals.Subtotal)
	require.Zero(t, totals.Tax)
	require.Zero(t, totals.Total)
}

func TestOrderItem_UnitPrice_MissingReference(t *testing.T) {
	it := OrderItem{Quantity: 2}
	require.Zero(t, it.UnitPrice())

	it.ItemPrice = &ItemPrice{Price: 4.75}
	require.InDelta(t, 4.75, it.UnitPrice(), 1e-9)
}

func TestOrderItem_ItemName_MissingReference(t *testing.T) {
	it := OrderItem{}
	require.Equal(t, "Unknown Item", it.ItemName())

	it.MenuItem = &MenuItem{NameEN: "Margherita"}
	require.Equal(t, "Margherita", it.ItemName())
}

func TestOrder_EffectiveTotal_PersistedWins(t *testing.T) {
	total := 99.90
	o := Order{
		Total: &total,
		Items: []OrderItem{
			{Quantity: 1, ItemPrice: &ItemPrice{Price: 5.00}},
		},
	}

	require.InDelta(t, 99.90, o.EffectiveTotal(0.10), 1e-9)
}

func TestOrder_EffectiveTotal_Fallback(t *testing.T) {
	o := Order{
		Items: []OrderItem{
			{Quantity: 2, ItemPrice: &ItemPrice{Price: 5.00}},
			{Quantity: 1}, // dangling price reference contributes 0
		},
	}

	require.InDelta(t, 11.00, o.EffectiveTotal(0.10), 1e-9)
}

func TestOrder_EffectiveTotals_PersistedBreakdown(t *testing.T) {
	subtotal, tax, total := 20.00, 2.00, 22.00
	o := Order{Subtotal: &subtotal, Tax: &tax, Total: &total}

	got := o.EffectiveTotals(0.10)
	require.Equal(t, Totals{Subtotal: 20.00, Tax: 2.00, Total: 22.00}, got)
}

func TestOrder_ShortID(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	o := Order{ID: id}
	require.Equal(t, "a1b2c3d4", o.ShortID())
}

func TestOrder_IsActive(t *testing.T) {
	require.True(t, (&Order{Status: OrderStatusPending}).IsActive())
	require.True(t, (&Order{Status: OrderStatusPreparing}).IsActive())
	require.False(t, (&Order{Status: OrderStatusCompleted}).IsActive())
	require.False(t, (&Order{Status: OrderStatusCancelled}).IsActive())
}

func TestRound2(t *testing.T) {
	require.Equal(t, 1.01, Round2(1.005000001))
	require.Equal(t, 2.67, Round2(2.666666))
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "22.00", FormatAmount(22))
	require.Equal(t, "3.46", FormatAmount(3.456))
}
