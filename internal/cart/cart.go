// Package cart maintains the ordered, client-local sequence of lines for
// one table session. Nothing here is persisted until submission.
package cart

import (
	"strconv"
	"sync"

	"uno-qr-menu/pkg/models"
	"uno-qr-menu/pkg/xerrors"

	"github.com/google/uuid"
)

// Line is one (item, variant, quantity, note) tuple in an unsubmitted cart.
type Line struct {
	ID        uuid.UUID       `json:"id"`
	Item      models.MenuItem `json:"item"`
	PriceID   *uuid.UUID      `json:"price_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes"`
	AutoAdded bool            `json:"auto_added"`
}

// UnitPrice resolves the chosen variant's price. An unpriced line
// contributes 0.
func (l *Line) UnitPrice() float64 {
	if l.PriceID == nil {
		return 0
	}
	if p := l.Item.PriceByID(*l.PriceID); p != nil {
		return p.Price
	}
	return 0
}

// Builder owns the cart of one table session. Safe for concurrent use by
// the HTTP handlers of that session.
type Builder struct {
	mu    sync.Mutex
	lines []Line
	rate  float64
}

func NewBuilder(rate float64) *Builder {
	return &Builder{rate: rate}
}

// AddLine appends a line. Quantity is clamped to at least 1. Variant
// selection for priced items is enforced by the presenting surface, not
// here.
func (b *Builder) AddLine(item models.MenuItem, priceID *uuid.UUID, quantity int, notes string, autoAdded bool) Line {
	if quantity < 1 {
		quantity = 1
	}

	line := Line{
		ID:        uuid.New(),
		Item:      item,
		PriceID:   priceID,
		Quantity:  quantity,
		Notes:     notes,
		AutoAdded: autoAdded,
	}

	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()

	return line
}

// AdjustQuantity applies a +/- delta, clamped to 1. Reaching zero never
// removes the line.
func (b *Builder) AdjustQuantity(lineID uuid.UUID, delta int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.lines {
		if b.lines[i].ID == lineID {
			q := b.lines[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			b.lines[i].Quantity = q
			return nil
		}
	}
	return xerrors.ErrLineNotFound
}

// SetQuantity parses and clamps a direct quantity input, defaulting to 1 on
// anything invalid.
func (b *Builder) SetQuantity(lineID uuid.UUID, value string) error {
	q, err := strconv.Atoi(value)
	if err != nil || q < 1 {
		q = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.lines {
		if b.lines[i].ID == lineID {
			b.lines[i].Quantity = q
			return nil
		}
	}
	return xerrors.ErrLineNotFound
}

// RemoveLine removes unconditionally.
func (b *Builder) RemoveLine(lineID uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.lines {
		if b.lines[i].ID == lineID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			return nil
		}
	}
	return xerrors.ErrLineNotFound
}

// Clear empties the cart. Called only after a confirmed successful
// submission.
func (b *Builder) Clear() {
	b.mu.Lock()
	b.lines = nil
	b.mu.Unlock()
}

// Lines returns a copy of the current lines in insertion order.
func (b *Builder) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Builder) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines) == 0
}

// Totals computes the shared subtotal/tax/total breakdown over the current
// lines.
func (b *Builder) Totals() models.Totals {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := make([]models.TotalLine, 0, len(b.lines))
	for i := range b.lines {
		lines = append(lines, models.TotalLine{
			UnitPrice: b.lines[i].UnitPrice(),
			Quantity:  b.lines[i].Quantity,
		})
	}
	return models.ComputeTotals(lines, b.rate)
}

// ConfirmDiners performs the one-shot water auto-add for a confirmed diner
// count: one line for the water item with quantity equal to the count,
// priced at the item's first variant (or unpriced if it has none). Each
// confirmation adds its own line; confirming twice adds two.
func (b *Builder) ConfirmDiners(count int, water *models.MenuItem) *Line {
	if count < 1 {
		count = 1
	}
	if water == nil {
		return nil
	}

	var priceID *uuid.UUID
	if p := water.FirstPrice(); p != nil {
		id := p.ID
		priceID = &id
	}

	line := b.AddLine(*water, priceID, count, "Auto-added water", true)
	return &line
}
