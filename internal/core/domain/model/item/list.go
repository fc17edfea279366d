package item

import (
	"fmt"
	"slices"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// List is the ordered set of committed items. Insertion order is display order.
type List struct {
	items []*Draft
}

// Add appends a draft. Ids are unique within the list.
func (l *List) Add(d *Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if l.indexOf(d.ID()) >= 0 {
		return errs.NewValueIsInvalidErrorWithCause("itemId", fmt.Errorf("item %s is already in the order", d.ID()))
	}

	l.items = append(l.items, d)
	return nil
}

// InsertAt puts a draft at position i, clamped to the list bounds.
func (l *List) InsertAt(i int, d *Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if l.indexOf(d.ID()) >= 0 {
		return errs.NewValueIsInvalidErrorWithCause("itemId", fmt.Errorf("item %s is already in the order", d.ID()))
	}

	i = max(0, min(i, len(l.items)))
	l.items = slices.Insert(l.items, i, d)
	return nil
}

// IndexOf returns the position of the item or -1.
func (l *List) IndexOf(id kernel.UUID) int {
	return l.indexOf(id)
}

// Remove takes the item out of the list and returns it.
func (l *List) Remove(id kernel.UUID) (*Draft, error) {
	i := l.indexOf(id)
	if i < 0 {
		return nil, errs.NewObjectNotFoundError("itemId", id.String())
	}

	d := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return d, nil
}

// Get returns a copy of the item; the list stays the only owner of its drafts.
func (l *List) Get(id kernel.UUID) (*Draft, error) {
	i := l.indexOf(id)
	if i < 0 {
		return nil, errs.NewObjectNotFoundError("itemId", id.String())
	}
	return l.items[i].Copy(), nil
}

// Items returns copies of all items in display order.
func (l *List) Items() []*Draft {
	out := make([]*Draft, len(l.items))
	for i, d := range l.items {
		out[i] = d.Copy()
	}
	return out
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) IsEmpty() bool {
	return len(l.items) == 0
}

// TotalAmount sums the final prices of all items.
func (l *List) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, d := range l.items {
		total = total.Add(d.Total())
	}
	return total
}

// IsSubmittable reports whether the list is non-empty and every item is submittable.
func (l *List) IsSubmittable() bool {
	if len(l.items) == 0 {
		return false
	}
	for _, d := range l.items {
		if !d.IsSubmittable() {
			return false
		}
	}
	return true
}

// Clear drops every item.
func (l *List) Clear() {
	l.items = nil
}

func (l *List) indexOf(id kernel.UUID) int {
	for i, d := range l.items {
		if d.ID().IsEqual(id) {
			return i
		}
	}
	return -1
}
