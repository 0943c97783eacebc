package gateway

import (
	"context"
	"fmt"
	"time"

	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetOrders returns orders with nested items, chosen price variants and menu
// items, optionally filtered by status and/or bounded to a trailing time
// window in hours. Newest first.
func (g *Gateway) GetOrders(ctx context.Context, status *string, hoursLimit *int) ([]models.Order, error) {
	var orders []models.Order

	err := g.withRetry(ctx, "getOrders", func(ctx context.Context) error {
		query := `
        SELECT id, table_number, status, order_time, number_of_people, subtotal, tax, total
        FROM orders`
		args := []any{}
		where := ""

		if status != nil {
			args = append(args, *status)
			where = fmt.Sprintf(" WHERE status = $%d", len(args))
		}
		if hoursLimit != nil {
			cutoff := time.Now().UTC().Add(-time.Duration(*hoursLimit) * time.Hour)
			args = append(args, cutoff)
			if where == "" {
				where = fmt.Sprintf(" WHERE order_time >= $%d", len(args))
			} else {
				where += fmt.Sprintf(" AND order_time >= $%d", len(args))
			}
		}
		query += where + " ORDER BY order_time DESC"

		rows, err := g.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		loaded := []models.Order{}
		for rows.Next() {
			var o models.Order
			if err := rows.Scan(&o.ID, &o.TableNumber, &o.Status, &o.OrderTime,
				&o.NumberOfPeople, &o.Subtotal, &o.Tax, &o.Total); err != nil {
				return err
			}
			loaded = append(loaded, o)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if err := g.attachOrderItems(ctx, loaded); err != nil {
			return err
		}

		orders = loaded
		return nil
	})

	return orders, err
}

// GetOrderWithItems loads a single order and its nested items.
func (g *Gateway) GetOrderWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := g.withRetry(ctx, "getOrderWithItems", func(ctx context.Context) error {
		var o models.Order
		err := g.pool.QueryRow(ctx, `
        SELECT id, table_number, status, order_time, number_of_people, subtotal, tax, total
        FROM orders WHERE id = $1
    `, id).Scan(&o.ID, &o.TableNumber, &o.Status, &o.OrderTime,
			&o.NumberOfPeople, &o.Subtotal, &o.Tax, &o.Total)
		if err == pgx.ErrNoRows {
			return xerrors.ErrNotFound
		}
		if err != nil {
			return err
		}

		batch := []models.Order{o}
		if err := g.attachOrderItems(ctx, batch); err != nil {
			return err
		}
		order = &batch[0]
		return nil
	})

	return order, err
}

// attachOrderItems loads the items of the given orders in one query and
// stitches them in place. Menu item and price references are LEFT JOINed so
// a dangling reference yields a nil nested record, not a failure.
func (g *Gateway) attachOrderItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	rows, err := g.pool.Query(ctx, `
        SELECT oi.id, oi.order_id, oi.item_id, oi.item_price_id, oi.quantity, oi.notes,
               mi.id, mi.name_en, mi.name_ar, mi.category_id,
               ip.id, ip.size_en, ip.size_ar, ip.price
        FROM order_items oi
        LEFT JOIN menu_items mi ON mi.id = oi.item_id
        LEFT JOIN item_prices ip ON ip.id = oi.item_price_id
        WHERE oi.order_id = ANY($1)
        ORDER BY oi.id
    `, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		var miID *uuid.UUID
		var miNameEN, miNameAR *string
		var miCategoryID *uuid.UUID
		var ipID *uuid.UUID
		var ipSizeEN, ipSizeAR *string
		var ipPrice *float64

		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.ItemPriceID,
			&it.Quantity, &it.Notes,
			&miID, &miNameEN, &miNameAR, &miCategoryID,
			&ipID, &ipSizeEN, &ipSizeAR, &ipPrice); err != nil {
			return err
		}

		if miID != nil {
			it.MenuItem = &models.MenuItem{
				ID:         *miID,
				NameEN:     *miNameEN,
				NameAR:     *miNameAR,
				CategoryID: *miCategoryID,
			}
		}
		if ipID != nil {
			it.ItemPrice = &models.ItemPrice{
				ID:     *ipID,
				SizeEN: *ipSizeEN,
				SizeAR: *ipSizeAR,
				Price:  *ipPrice,
			}
		}

		if pos, ok := index[it.OrderID]; ok {
			orders[pos].Items = append(orders[pos].Items, it)
		}
	}

	return rows.Err()
}

// CreateOrder persists the order row and returns its server-assigned id.
func (g *Gateway) CreateOrder(ctx context.Context, o *models.Order) (uuid.UUID, error) {
	var id uuid.UUID

	err := g.withRetry(ctx, "createOrder", func(ctx context.Context) error {
		return g.pool.QueryRow(ctx, `
        INSERT INTO orders (table_number, status, number_of_people, subtotal, tax, total)
        VALUES ($1, 'pending', $2, $3, $4, $5)
        RETURNING id
    `, o.TableNumber, o.NumberOfPeople, o.Subtotal, o.Tax, o.Total).Scan(&id)
	})
	if err != nil {
		return uuid.Nil, err
	}

	g.publishChange(models.TableOrders, models.ChangeInsert, id)
	return id, nil
}

// CreateOrderItem persists one order line. Items of an order are written
// sequentially by the submission pipeline, each awaited before the next.
func (g *Gateway) CreateOrderItem(ctx context.Context, it *models.OrderItem) error {
	var id uuid.UUID

	err := g.withRetry(ctx, "createOrderItem", func(ctx context.Context) error {
		return g.pool.QueryRow(ctx, `
        INSERT INTO order_items (order_id, item_id, item_price_id, quantity, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, it.OrderID, it.ItemID, it.ItemPriceID, it.Quantity, it.Notes).Scan(&id)
	})
	if err != nil {
		return err
	}

	it.ID = id
	g.publishChange(models.TableOrderItems, models.ChangeInsert, id)
	return nil
}

// UpdateOrderStatus transitions an order. Cashier/admin action only.
func (g *Gateway) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	err := g.withRetry(ctx, "updateOrderStatus", func(ctx context.Context) error {
		tag, err := g.pool.Exec(ctx, `
        UPDATE orders SET status = $2 WHERE id = $1
    `, orderID, status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.publishChange(models.TableOrders, models.ChangeUpdate, orderID)
	return nil
}

// DeleteOrder removes an order and, via cascade, its items.
func (g *Gateway) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	err := g.withRetry(ctx, "deleteOrder", func(ctx context.Context) error {
		tag, err := g.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.publishChange(models.TableOrders, models.ChangeDelete, orderID)
	return nil
}

// DeleteAllOrders removes every order. Irreversible; callers gate this
// behind an explicit confirmation.
func (g *Gateway) DeleteAllOrders(ctx context.Context) error {
	err := g.withRetry(ctx, "deleteAllOrders", func(ctx context.Context) error {
		_, err := g.pool.Exec(ctx, `DELETE FROM orders`)
		return err
	})
	if err != nil {
		return err
	}

	g.publishChange(models.TableOrders, models.ChangeDelete, uuid.Nil)
	return nil
}
