package cashiermonitor

import (
	"time"

	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
)

type ReceiptLine struct {
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Notes     string  `json:"notes,omitempty"`
}

// Receipt is the printable view of one order, built from the same shared
// totals arithmetic as every other consumer.
type Receipt struct {
	OrderID     string        `json:"order_id"`
	TableNumber string        `json:"table_number"`
	OrderTime   time.Time     `json:"order_time"`
	Status      string        `json:"status"`
	Lines       []ReceiptLine `json:"lines"`
	Totals      models.Totals `json:"totals"`
	Display     string        `json:"display_total"`
}

// Receipt assembles the receipt for an order in the current window.
// Dangling menu-item or price references render as placeholders instead of
// failing.
func (m *Monitor) Receipt(orderID uuid.UUID) (*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.snap.Orders {
		o := &m.snap.Orders[i]
		if o.ID != orderID {
			continue
		}

		rec := &Receipt{
			OrderID:     o.ShortID(),
			TableNumber: o.TableNumber,
			OrderTime:   o.OrderTime,
			Status:      o.Status,
			Totals:      o.EffectiveTotals(m.cfg.CombinedRate()),
		}
		rec.Display = m.cfg.Currency.Format(rec.Totals.Total)

		for j := range o.Items {
			it := &o.Items[j]
			size := "N/A"
			if it.ItemPrice != nil {
				size = it.ItemPrice.SizeEN
			}
			price := it.UnitPrice()
			rec.Lines = append(rec.Lines, ReceiptLine{
				Name:      it.ItemName(),
				Size:      size,
				Quantity:  it.Quantity,
				UnitPrice: models.Round2(price),
				LineTotal: models.Round2(price * float64(it.Quantity)),
				Notes:     it.Notes,
			})
		}

		return rec, nil
	}

	return nil, xerrors.ErrNotFound
}
