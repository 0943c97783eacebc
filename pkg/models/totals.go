package models

import (
	"fmt"
	"math"
)

// TotalLine is the minimal shape the totals arithmetic needs: one priced
// line of an order or cart.
type TotalLine struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the uniform money breakdown used by every view: dashboard,
// order list, receipt, analytics and CSV export.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Subtotal accumulates unit price times quantity at full floating
// precision. Rounding happens only at display or export time.
func Subtotal(lines []TotalLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// ComputeTotals derives the shared subtotal/tax/total breakdown with the
// single configured rate. Every consumer must call this rather than
// re-deriving the arithmetic.
func ComputeTotals(lines []TotalLine, rate float64) Totals {
	subtotal := Subtotal(lines)
	tax := subtotal * rate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// TotalLines maps the order's items into the totals shape. Unresolvable
// price references contribute 0.
func (o *Order) TotalLines() []TotalLine {
	lines := make([]TotalLine, 0, len(o.Items))
	for i := range o.Items {
		lines = append(lines, TotalLine{
			UnitPrice: o.Items[i].UnitPrice(),
			Quantity:  o.Items[i].Quantity,
		})
	}
	return lines
}

// EffectiveTotal returns the persisted total when present; otherwise it
// falls back to the shared computation over the order's items.
func (o *Order) EffectiveTotal(rate float64) float64 {
	if o.Total != nil {
		return *o.Total
	}
	return ComputeTotals(o.TotalLines(), rate).Total
}

// EffectiveTotals mirrors EffectiveTotal but returns the full breakdown.
// A persisted total wins; subtotal and tax accompany it when also persisted.
func (o *Order) EffectiveTotals(rate float64) Totals {
	if o.Total != nil {
		t := Totals{Total: *o.Total}
		if o.Subtotal != nil {
			t.Subtotal = *o.Subtotal
		}
		if o.Tax != nil {
			t.Tax = *o.Tax
		}
		return t
	}
	return ComputeTotals(o.TotalLines(), rate)
}

// Round2 rounds a money value to 2 decimal places for display or export.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders a money value with 2 decimal places.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
