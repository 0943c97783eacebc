package gateway

import (
	"context"

	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
)

// GetCategories returns the active categories in display order.
func (g *Gateway) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category

	err := g.withRetry(ctx, "getCategories", func(ctx context.Context) error {
		rows, err := g.pool.Query(ctx, `
        SELECT id, name_en, name_ar, display_order, is_active, created_at
        FROM categories
        WHERE is_active = true
        ORDER BY display_order
    `)
		if err != nil {
			return err
		}
		defer rows.Close()

		loaded := []models.Category{}
		for rows.Next() {
			var c models.Category
			if err := rows.Scan(&c.ID, &c.NameEN, &c.NameAR, &c.DisplayOrder,
				&c.IsActive, &c.CreatedAt); err != nil {
				return err
			}
			loaded = append(loaded, c)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		categories = loaded
		return nil
	})

	return categories, err
}

// GetMenuItems returns the available menu items with their price variants
// nested in display order.
func (g *Gateway) GetMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem

	err := g.withRetry(ctx, "getMenuItems", func(ctx context.Context) error {
		rows, err := g.pool.Query(ctx, `
        SELECT id, category_id, name_en, name_ar, description_en, description_ar,
               image_url, is_available, prep_time_minutes, display_order, created_at
        FROM menu_items
        WHERE is_available = true
        ORDER BY display_order
    `)
		if err != nil {
			return err
		}
		defer rows.Close()

		loaded := []models.MenuItem{}
		index := map[uuid.UUID]int{}
		for rows.Next() {
			var m models.MenuItem
			if err := rows.Scan(&m.ID, &m.CategoryID, &m.NameEN, &m.NameAR,
				&m.DescriptionEN, &m.DescriptionAR, &m.ImageURL, &m.IsAvailable,
				&m.PrepTimeMinutes, &m.DisplayOrder, &m.CreatedAt); err != nil {
				return err
			}
			m.Prices = []models.ItemPrice{}
			index[m.ID] = len(loaded)
			loaded = append(loaded, m)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		priceRows, err := g.pool.Query(ctx, `
        SELECT id, item_id, size_en, size_ar, price, display_order
        FROM item_prices
        ORDER BY display_order
    `)
		if err != nil {
			return err
		}
		defer priceRows.Close()

		for priceRows.Next() {
			var p models.ItemPrice
			if err := priceRows.Scan(&p.ID, &p.ItemID, &p.SizeEN, &p.SizeAR,
				&p.Price, &p.DisplayOrder); err != nil {
				return err
			}
			if pos, ok := index[p.ItemID]; ok {
				loaded[pos].Prices = append(loaded[pos].Prices, p)
			}
		}
		if err := priceRows.Err(); err != nil {
			return err
		}

		items = loaded
		return nil
	})

	return items, err
}

func (g *Gateway) CreateCategory(ctx context.Context, c *models.Category) (uuid.UUID, error) {
	var id uuid.UUID
	err := g.withRetry(ctx, "createCategory", func(ctx context.Context) error {
		return g.pool.QueryRow(ctx, `
        INSERT INTO categories (name_en, name_ar, display_order, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, c.NameEN, c.NameAR, c.DisplayOrder, c.IsActive).Scan(&id)
	})
	return id, err
}

func (g *Gateway) UpdateCategory(ctx context.Context, c *models.Category) error {
	return g.withRetry(ctx, "updateCategory", func(ctx context.Context) error {
		tag, err := g.pool.Exec(ctx, `
        UPDATE categories SET name_en = $2, name_ar = $3, display_order = $4, is_active = $5
        WHERE id = $1
    `, c.ID, c.NameEN, c.NameAR, c.DisplayOrder, c.IsActive)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}

func (g *Gateway) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return g.withRetry(ctx, "deleteCategory", func(ctx context.Context) error {
		_, err := g.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		return err
	})
}

func (g *Gateway) CreateMenuItem(ctx context.Context, m *models.MenuItem) (uuid.UUID, error) {
	var id uuid.UUID
	err := g.withRetry(ctx, "createMenuItem", func(ctx context.Context) error {
		return g.pool.QueryRow(ctx, `
        INSERT INTO menu_items (category_id, name_en, name_ar, description_en, description_ar,
                                image_url, is_available, prep_time_minutes, display_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `, m.CategoryID, m.NameEN, m.NameAR, m.DescriptionEN, m.DescriptionAR,
			m.ImageURL, m.IsAvailable, m.PrepTimeMinutes, m.DisplayOrder).Scan(&id)
	})
	return id, err
}

func (g *Gateway) UpdateMenuItem(ctx context.Context, m *models.MenuItem) error {
	return g.withRetry(ctx, "updateMenuItem", func(ctx context.Context) error {
		tag, err := g.pool.Exec(ctx, `
        UPDATE menu_items
        SET category_id = $2, name_en = $3, name_ar = $4, description_en = $5,
            description_ar = $6, image_url = $7, is_available = $8,
            prep_time_minutes = $9, display_order = $10
        WHERE id = $1
    `, m.ID, m.CategoryID, m.NameEN, m.NameAR, m.DescriptionEN, m.DescriptionAR,
			m.ImageURL, m.IsAvailable, m.PrepTimeMinutes, m.DisplayOrder)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}

// SetMenuItemAvailability flips the availability flag without touching the
// rest of the row.
func (g *Gateway) SetMenuItemAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return g.withRetry(ctx, "setMenuItemAvailability", func(ctx context.Context) error {
		tag, err := g.pool.Exec(ctx, `
        UPDATE menu_items SET is_available = $2 WHERE id = $1
    `, id, available)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}

func (g *Gateway) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return g.withRetry(ctx, "deleteMenuItem", func(ctx context.Context) error {
		_, err := g.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
		return err
	})
}

func (g *Gateway) CreateItemPrice(ctx context.Context, p *models.ItemPrice) (uuid.UUID, error) {
	var id uuid.UUID
	err := g.withRetry(ctx, "createItemPrice", func(ctx context.Context) error {
		return g.pool.QueryRow(ctx, `
        INSERT INTO item_prices (item_id, size_en, size_ar, price, display_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, p.ItemID, p.SizeEN, p.SizeAR, p.Price, p.DisplayOrder).Scan(&id)
	})
	return id, err
}

func (g *Gateway) DeleteItemPrice(ctx context.Context, id uuid.UUID) error {
	return g.withRetry(ctx, "deleteItemPrice", func(ctx context.Context) error {
		_, err := g.pool.Exec(ctx, `DELETE FROM item_prices WHERE id = $1`, id)
		return err
	})
}
