package gateway

import (
	"context"

	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
)

// GetQuickActions returns the active predefined quick actions in display
// order.
func (g *Gateway) GetQuickActions(ctx context.Context) ([]models.QuickAction, error) {
	var actions []models.QuickAction

	err := g.withRetry(ctx, "getQuickActions", func(ctx context.Context) error {
		rows, err := g.pool.Query(ctx, `
        SELECT id, action_en, action_ar, icon, display_order, is_active
        FROM quick_actions
        WHERE is_active = true
        ORDER BY display_order
    `)
		if err != nil {
			return err
		}
		defer rows.Close()

		loaded := []models.QuickAction{}
		for rows.Next() {
			var a models.QuickAction
			if err := rows.Scan(&a.ID, &a.ActionEN, &a.ActionAR, &a.Icon,
				&a.DisplayOrder, &a.IsActive); err != nil {
				return err
			}
			loaded = append(loaded, a)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		actions = loaded
		return nil
	})

	return actions, err
}

// GetQuickActionRequests returns all requests with the referenced action
// nested, newest first. A dangling action reference yields a nil nested
// record.
func (g *Gateway) GetQuickActionRequests(ctx context.Context) ([]models.QuickActionRequest, error) {
	var requests []models.QuickActionRequest

	err := g.withRetry(ctx, "getQuickActionRequests", func(ctx context.Context) error {
		rows, err := g.pool.Query(ctx, `
        SELECT r.id, r.table_number, r.action_id, r.status, r.request_time,
               a.id, a.action_en, a.action_ar, a.icon
        FROM quick_action_requests r
        LEFT JOIN quick_actions a ON a.id = r.action_id
        ORDER BY r.request_time DESC
    `)
		if err != nil {
			return err
		}
		defer rows.Close()

		loaded := []models.QuickActionRequest{}
		for rows.Next() {
			var r models.QuickActionRequest
			var aID *uuid.UUID
			var actionEN, actionAR, icon *string

			if err := rows.Scan(&r.ID, &r.TableNumber, &r.ActionID, &r.Status,
				&r.RequestTime, &aID, &actionEN, &actionAR, &icon); err != nil {
				return err
			}

			if aID != nil {
				r.QuickAction = &models.QuickAction{
					ID:       *aID,
					ActionEN: *actionEN,
					ActionAR: *actionAR,
					Icon:     *icon,
				}
			}
			loaded = append(loaded, r)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		requests = loaded
		return nil
	})

	return requests, err
}

// CreateQuickActionRequest persists a new request raised by a table. The
// menu client never mutates it afterwards.
func (g *Gateway) CreateQuickActionRequest(ctx context.Context, r *models.QuickActionRequest) (uuid.UUID, error) {
	var id uuid.UUID

	err := g.withRetry(ctx, "createQuickActionRequest", func(ctx context.Context) error {
		return g.pool.QueryRow(ctx, `
        INSERT INTO quick_action_requests (table_number, action_id, status)
        VALUES ($1, $2, 'pending')
        RETURNING id
    `, r.TableNumber, r.ActionID).Scan(&id)
	})
	if err != nil {
		return uuid.Nil, err
	}

	g.publishChange(models.TableQuickActionRequests, models.ChangeInsert, id)
	return id, nil
}

// UpdateQuickActionRequestStatus transitions a request. Cashier action only.
func (g *Gateway) UpdateQuickActionRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	err := g.withRetry(ctx, "updateQuickActionRequestStatus", func(ctx context.Context) error {
		tag, err := g.pool.Exec(ctx, `
        UPDATE quick_action_requests SET status = $2 WHERE id = $1
    `, id, status)
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

	g.publishChange(models.TableQuickActionRequests, models.ChangeUpdate, id)
	return nil
}

func (g *Gateway) CreateQuickAction(ctx context.Context, a *models.QuickAction) (uuid.UUID, error) {
	var id uuid.UUID
	err := g.withRetry(ctx, "createQuickAction", func(ctx context.Context) error {
		return g.pool.QueryRow(ctx, `
        INSERT INTO quick_actions (action_en, action_ar, icon, display_order, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, a.ActionEN, a.ActionAR, a.Icon, a.DisplayOrder, a.IsActive).Scan(&id)
	})
	return id, err
}

func (g *Gateway) UpdateQuickAction(ctx context.Context, a *models.QuickAction) error {
	return g.withRetry(ctx, "updateQuickAction", func(ctx context.Context) error {
		tag, err := g.pool.Exec(ctx, `
        UPDATE quick_actions
        SET action_en = $2, action_ar = $3, icon = $4, display_order = $5, is_active = $6
        WHERE id = $1
    `, a.ID, a.ActionEN, a.ActionAR, a.Icon, a.DisplayOrder, a.IsActive)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}

func (g *Gateway) DeleteQuickAction(ctx context.Context, id uuid.UUID) error {
	return g.withRetry(ctx, "deleteQuickAction", func(ctx context.Context) error {
		_, err := g.pool.Exec(ctx, `DELETE FROM quick_actions WHERE id = $1`, id)
		return err
	})
}
