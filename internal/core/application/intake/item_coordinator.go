package intake

import (
	"fmt"

	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/domain/validation"

	"github.com/shopspring/decimal"
)

type editSlot struct {
	original *item.Draft
	index    int
}

// ItemCoordinator composes the five item substeps into one item builder. It owns
// the open draft and the committed item list; nothing else mutates either.
type ItemCoordinator struct {
	list    item.List
	draft   *item.Draft
	editing *editSlot

	clock     kernel.Clock
	validator *validation.Engine
}

func newItemCoordinator(clock kernel.Clock, validator *validation.Engine) *ItemCoordinator {
	return &ItemCoordinator{clock: clock, validator: validator}
}

// StartNewItem opens an empty draft.
func (c *ItemCoordinator) StartNewItem() (kernel.UUID, error) {
	if c.draft != nil {
		return kernel.UUID{}, ErrItemAlreadyOpen
	}

	d, err := item.NewDraft(kernel.NewUUID(), c.clock.Now())
	if err != nil {
		return kernel.UUID{}, err
	}
	c.draft = d
	return d.ID(), nil
}

// OpenDraft returns a copy of the open draft.
func (c *ItemCoordinator) OpenDraft() (*item.Draft, bool) {
	if c.draft == nil {
		return nil, false
	}
	return c.draft.Copy(), true
}

// HasOpenDraft reports whether an item is being authored or edited.
func (c *ItemCoordinator) HasOpenDraft() bool {
	return c.draft != nil
}

func (c *ItemCoordinator) IsEditing() bool {
	return c.editing != nil
}

// CommitItem adds the open draft to the list and closes it. An edited item goes
// back to the position it was taken from.
func (c *ItemCoordinator) CommitItem() (*item.Draft, error) {
	d, err := c.open()
	if err != nil {
		return nil, err
	}
	if err = d.CanCommit(); err != nil {
		return nil, err
	}
	info, _ := d.BasicInfo()
	if r := c.validator.BasicInfo(info); !r.IsValid {
		return nil, r.Err()
	}

	if c.editing != nil {
		err = c.list.InsertAt(c.editing.index, d)
	} else {
		err = c.list.Add(d)
	}
	if err != nil {
		return nil, err
	}

	c.draft = nil
	c.editing = nil
	return d.Copy(), nil
}

// CancelItem discards the open draft. An item opened for editing is restored unchanged.
func (c *ItemCoordinator) CancelItem() error {
	if c.draft == nil {
		return ErrNoOpenItem
	}
	if c.editing != nil {
		if err := c.list.InsertAt(c.editing.index, c.editing.original); err != nil {
			return err
		}
	}
	c.draft = nil
	c.editing = nil
	return nil
}

// EditItem takes an item out of the list and opens it as the draft.
func (c *ItemCoordinator) EditItem(id kernel.UUID) error {
	if c.draft != nil {
		return ErrItemAlreadyOpen
	}

	index := c.list.IndexOf(id)
	d, err := c.list.Remove(id)
	if err != nil {
		return err
	}

	c.draft = d
	c.editing = &editSlot{original: d.Copy(), index: index}
	return nil
}

// DuplicateItem appends a deep copy of a committed item under a new id.
func (c *ItemCoordinator) DuplicateItem(id kernel.UUID) (*item.Draft, error) {
	src, err := c.list.Get(id)
	if err != nil {
		return nil, err
	}

	dup, err := src.Duplicate(kernel.NewUUID(), c.clock.Now())
	if err != nil {
		return nil, err
	}
	if err = c.list.Add(dup); err != nil {
		return nil, err
	}
	return dup.Copy(), nil
}

func (c *ItemCoordinator) RemoveItem(id kernel.UUID) error {
	_, err := c.list.Remove(id)
	return err
}

// Reset drops the open draft and every committed item.
func (c *ItemCoordinator) Reset() {
	c.list.Clear()
	c.draft = nil
	c.editing = nil
}

func (c *ItemCoordinator) SetBasicInfo(info item.BasicInfo) (validation.Result, error) {
	d, err := c.open()
	if err != nil {
		return validation.Result{}, err
	}
	r := c.validator.BasicInfo(info)
	if !r.IsValid {
		return r, r.Err()
	}
	d.SetBasicInfo(info, c.clock.Now())
	return r, nil
}

func (c *ItemCoordinator) SetCharacteristics(ch item.Characteristics) (validation.Result, error) {
	d, err := c.open()
	if err != nil {
		return validation.Result{}, err
	}
	r := c.validator.Characteristics(ch)
	if !r.IsValid {
		return r, r.Err()
	}
	d.SetCharacteristics(ch, c.clock.Now())
	return r, nil
}

func (c *ItemCoordinator) SetDefectsStains(ds item.DefectsStains) (validation.Result, error) {
	d, err := c.open()
	if err != nil {
		return validation.Result{}, err
	}
	r := c.validator.DefectsStains(ds)
	if !r.IsValid {
		return r, r.Err()
	}
	d.SetDefectsStains(ds, c.clock.Now())
	return r, nil
}

// pricingInput returns what the pricing calculator needs for the open draft.
func (c *ItemCoordinator) pricingInput(modifiers []item.Modifier) (kernel.UUID, item.BasicInfo, error) {
	d, err := c.open()
	if err != nil {
		return kernel.UUID{}, item.BasicInfo{}, err
	}
	info, ok := d.BasicInfo()
	if !ok || !info.IsComplete() {
		return kernel.UUID{}, item.BasicInfo{}, fmt.Errorf("%w: basic info must be filled before pricing", ErrStageIncomplete)
	}
	if r := c.validator.Pricing(modifiers); !r.IsValid {
		return kernel.UUID{}, item.BasicInfo{}, r.Err()
	}
	return d.ID(), info, nil
}

// applyPricing stores a price for the draft it was computed for. The price is dropped
// when the draft was closed or its basic info changed meanwhile.
func (c *ItemCoordinator) applyPricing(draftID kernel.UUID, basis item.BasicInfo, p item.Pricing) error {
	if c.draft == nil || !c.draft.ID().IsEqual(draftID) {
		return ErrStaleResponse
	}
	info, _ := c.draft.BasicInfo()
	if !info.PriceListItemID.IsEqual(basis.PriceListItemID) ||
		!info.Quantity.Equal(basis.Quantity) ||
		!info.UnitPrice.Equal(basis.UnitPrice) {
		return ErrStaleResponse
	}
	return c.draft.SetPricing(p, c.clock.Now())
}

func (c *ItemCoordinator) AddPhoto(p item.Photo) (validation.Result, error) {
	d, err := c.open()
	if err != nil {
		return validation.Result{}, err
	}
	if p.ID.IsZero() {
		p.ID = kernel.NewUUID()
	}
	if p.AddedAt.IsZero() {
		p.AddedAt = c.clock.Now()
	}

	r := c.validator.Photo(p, d.Photos().Count())
	if !r.IsValid {
		return r, r.Err()
	}
	return r, d.AddPhoto(p, c.clock.Now())
}

func (c *ItemCoordinator) MarkPhotoUploaded(id kernel.UUID, url string) error {
	d, err := c.open()
	if err != nil {
		return err
	}
	return d.MarkPhotoUploaded(id, url, c.clock.Now())
}

func (c *ItemCoordinator) RemovePhoto(id kernel.UUID) error {
	d, err := c.open()
	if err != nil {
		return err
	}
	return d.RemovePhoto(id, c.clock.Now())
}

// CanLeave reports whether the open draft has what the substep requires before moving on.
func (c *ItemCoordinator) CanLeave(s wzd.Substep) error {
	d, err := c.open()
	if err != nil {
		return err
	}

	switch s {
	case wzd.BasicInfo:
		if info, ok := d.BasicInfo(); !ok || !info.IsComplete() {
			return fmt.Errorf("%w: basic info", ErrStageIncomplete)
		}
	case wzd.Characteristics:
		if _, ok := d.Characteristics(); !ok {
			return fmt.Errorf("%w: characteristics", ErrStageIncomplete)
		}
	case wzd.Pricing:
		if p, ok := d.Pricing(); !ok || !p.IsComplete() {
			return fmt.Errorf("%w: pricing", ErrStageIncomplete)
		}
	}
	return nil
}

// Items returns copies of the committed items in display order.
func (c *ItemCoordinator) Items() []*item.Draft {
	return c.list.Items()
}

func (c *ItemCoordinator) Len() int {
	return c.list.Len()
}

func (c *ItemCoordinator) TotalAmount() decimal.Decimal {
	return c.list.TotalAmount()
}

// IsSubmittable reports a non-empty list of fully priced items.
func (c *ItemCoordinator) IsSubmittable() bool {
	return c.list.IsSubmittable()
}

// Check is the completeness check of the items stage.
func (c *ItemCoordinator) Check() validation.Result {
	r := validation.Result{IsValid: true}
	if c.draft != nil {
		r.AddFieldError("currentItem", "finish or cancel the open item")
	}
	if c.list.IsEmpty() {
		r.AddFieldError("items", "add at least one item")
		return r
	}
	for i, d := range c.list.Items() {
		if !d.IsSubmittable() {
			r.AddFieldError(fmt.Sprintf("items[%d]", i),
				"needs a category, a price-list entry, a positive quantity and a positive price")
		}
	}
	return r
}

func (c *ItemCoordinator) open() (*item.Draft, error) {
	if c.draft == nil {
		return nil, ErrNoOpenItem
	}
	return c.draft, nil
}
