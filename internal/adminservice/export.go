package adminservice

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"uno-qr-menu/pkg/models"
)

// csvHeader is the fixed analytics export column order.
var csvHeader = []string{
	"Order ID", "Table", "Date", "Time", "Item",
	"Quantity", "Price", "Subtotal", "Tax", "Total", "Status",
}

// ExportAnalyticsCSV writes the analytics export for a date range: one data
// row per order item, or one placeholder row for an item-less order. Money
// values are rounded to 2 decimal places at this boundary only.
func (s *Service) ExportAnalyticsCSV(ctx context.Context, w io.Writer, start, end time.Time) error {
	orders, err := s.store.GetOrders(ctx, nil, nil)
	if err != nil {
		return err
	}
	return WriteAnalyticsCSV(w, orders, start, end, s.cfg.CombinedRate())
}

func WriteAnalyticsCSV(w io.Writer, orders []models.Order, start, end time.Time, rate float64) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := range orders {
		o := &orders[i]
		if !inDateRange(o.OrderTime, start, end) {
			continue
		}

		date := o.OrderTime.Local().Format("2006-01-02")
		clock := o.OrderTime.Local().Format("15:04:05")

		if len(o.Items) == 0 {
			row := []string{
				o.ShortID(), o.TableNumber, date, clock,
				"No items", "0", "0", "0", "0", "0", o.Status,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
			continue
		}

		for j := range o.Items {
			it := &o.Items[j]
			line := models.ComputeTotals([]models.TotalLine{{
				UnitPrice: it.UnitPrice(),
				Quantity:  it.Quantity,
			}}, rate)

			row := []string{
				o.ShortID(),
				o.TableNumber,
				date,
				clock,
				it.ItemName(),
				strconv.Itoa(it.Quantity),
				models.FormatAmount(it.UnitPrice()),
				models.FormatAmount(line.Subtotal),
				models.FormatAmount(line.Tax),
				models.FormatAmount(line.Total),
				o.Status,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
