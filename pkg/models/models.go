package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses wired through the menu and cashier clients.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses is the full configured vocabulary. The clients only
// transition through the four statuses above; the rest exist for
// finer-grained kitchen workflows.
var OrderStatuses = []string{
	"pending", "confirmed", "preparing", "ready", "served", "cancelled",
}

// ClientOrderStatuses are the transitions the cashier dashboard offers.
var ClientOrderStatuses = []string{
	OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted, OrderStatusCancelled,
}

const (
	QuickActionStatusPending      = "pending"
	QuickActionStatusAcknowledged = "acknowledged"
	QuickActionStatusCompleted    = "completed"
	QuickActionStatusCancelled    = "cancelled"
)

// Watched table names for the change-notification channel.
const (
	TableOrders              = "orders"
	TableOrderItems          = "order_items"
	TableQuickActionRequests = "quick_action_requests"
)

// Change event types.
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

type Category struct {
	ID           uuid.UUID `json:"id"`
	NameEN       string    `json:"name_en"`
	NameAR       string    `json:"name_ar"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type MenuItem struct {
	ID              uuid.UUID   `json:"id"`
	CategoryID      uuid.UUID   `json:"category_id"`
	NameEN          string      `json:"name_en"`
	NameAR          string      `json:"name_ar"`
	DescriptionEN   string      `json:"description_en"`
	DescriptionAR   string      `json:"description_ar"`
	ImageURL        *string     `json:"image_url,omitempty"`
	IsAvailable     bool        `json:"is_available"`
	PrepTimeMinutes int         `json:"prep_time_minutes"`
	DisplayOrder    int         `json:"display_order"`
	Prices          []ItemPrice `json:"prices"`
	CreatedAt       time.Time   `json:"created_at"`
}

// FirstPrice returns the item's default price variant, or nil for an
// unpriced item.
func (m *MenuItem) FirstPrice() *ItemPrice {
	if len(m.Prices) == 0 {
		return nil
	}
	return &m.Prices[0]
}

// PriceByID resolves one of the item's variants, or nil when the reference
// does not match.
func (m *MenuItem) PriceByID(id uuid.UUID) *ItemPrice {
	for i := range m.Prices {
		if m.Prices[i].ID == id {
			return &m.Prices[i]
		}
	}
	return nil
}

type ItemPrice struct {
	ID           uuid.UUID `json:"id"`
	ItemID       uuid.UUID `json:"item_id"`
	SizeEN       string    `json:"size_en"`
	SizeAR       string    `json:"size_ar"`
	Price        float64   `json:"price"`
	DisplayOrder int       `json:"display_order"`
}

type Order struct {
	ID             uuid.UUID   `json:"id"`
	TableNumber    string      `json:"table_number"`
	Status         string      `json:"status"`
	OrderTime      time.Time   `json:"order_time"`
	NumberOfPeople *int        `json:"number_of_people,omitempty"`
	Subtotal       *float64    `json:"subtotal,omitempty"`
	Tax            *float64    `json:"tax,omitempty"`
	Total          *float64    `json:"total,omitempty"`
	Items          []OrderItem `json:"order_items"`
}

// ShortID is the 8-character id prefix shown on receipts and exports.
func (o *Order) ShortID() string {
	s := o.ID.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// IsActive reports whether the order still occupies its table.
func (o *Order) IsActive() bool {
	return o.Status != OrderStatusCompleted && o.Status != OrderStatusCancelled
}

type OrderItem struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     uuid.UUID  `json:"order_id"`
	ItemID      uuid.UUID  `json:"item_id"`
	ItemPriceID *uuid.UUID `json:"item_price_id,omitempty"`
	Quantity    int        `json:"quantity"`
	Notes       string     `json:"notes"`
	MenuItem    *MenuItem  `json:"menu_item,omitempty"`
	ItemPrice   *ItemPrice `json:"item_price,omitempty"`
}

// UnitPrice resolves the item's price variant. A dangling or missing price
// reference contributes 0 rather than failing the computation.
func (it *OrderItem) UnitPrice() float64 {
	if it.ItemPrice == nil {
		return 0
	}
	return it.ItemPrice.Price
}

// ItemName returns the display name, substituting a placeholder when the
// menu item reference is unresolvable.
func (it *OrderItem) ItemName() string {
	if it.MenuItem == nil {
		return "Unknown Item"
	}
	return it.MenuItem.NameEN
}

type QuickAction struct {
	ID           uuid.UUID `json:"id"`
	ActionEN     string    `json:"action_en"`
	ActionAR     string    `json:"action_ar"`
	Icon         string    `json:"icon"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
}

type QuickActionRequest struct {
	ID          uuid.UUID    `json:"id"`
	TableNumber string       `json:"table_number"`
	ActionID    uuid.UUID    `json:"action_id"`
	Status      string       `json:"status"`
	RequestTime time.Time    `json:"request_time"`
	QuickAction *QuickAction `json:"quick_action,omitempty"`
}

// ChangeEvent describes a row insert/update/delete on a watched table,
// pushed to every subscriber through the changefeed exchange.
type ChangeEvent struct {
	Table      string    `json:"table"`
	Type       string    `json:"type"`
	RowID      uuid.UUID `json:"row_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
