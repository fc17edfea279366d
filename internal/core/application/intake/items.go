package intake

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"orderwizard/internal/core/domain/model/catalog"
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/domain/services"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/core/ports"
	"orderwizard/internal/pkg/errs"
)

// Categories, PriceListItems, Materials and Colors read reference data through the wizard cache.
func (w *Wizard) Categories(ctx context.Context) ([]catalog.Category, error) {
	return w.catalog.GetCategories(ctx, true)
}

func (w *Wizard) PriceListItems(ctx context.Context, categoryID kernel.UUID) ([]catalog.PriceListItem, error) {
	return w.catalog.GetItemsByCategory(ctx, categoryID)
}

func (w *Wizard) Materials(ctx context.Context, categoryCode string) ([]catalog.Material, error) {
	return w.catalog.Materials(ctx, categoryCode)
}

func (w *Wizard) Colors(ctx context.Context) ([]catalog.Color, error) {
	return w.catalog.Colors(ctx)
}

// withItems runs fn under the lock on the items stage.
func (w *Wizard) withItems(op string, fn func() error) error {
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()

	if stage := w.navigator.Stage(); stage != wzd.Items {
		return wrongStage(op, stage)
	}
	return fn()
}

// StartNewItem opens an empty item on the basic info substep.
func (w *Wizard) StartNewItem() (kernel.UUID, error) {
	var id kernel.UUID
	err := w.withItems("start item", func() error {
		var err error
		if id, err = w.items.StartNewItem(); err != nil {
			return err
		}
		return w.navigator.setSubstep(wzd.BasicInfo, w.clock.Now())
	})
	return id, err
}

// CommitItem adds the open item to the order.
func (w *Wizard) CommitItem() (*item.Draft, error) {
	var committed *item.Draft
	err := w.withItems("commit item", func() error {
		var err error
		if committed, err = w.items.CommitItem(); err != nil {
			return err
		}
		w.recalculate()
		return w.navigator.setSubstep(wzd.NoSubstep, w.clock.Now())
	})
	return committed, err
}

// CancelItem closes the open item without committing it.
func (w *Wizard) CancelItem() error {
	return w.withItems("cancel item", func() error {
		if err := w.items.CancelItem(); err != nil {
			return err
		}
		w.recalculate()
		return w.navigator.setSubstep(wzd.NoSubstep, w.clock.Now())
	})
}

// EditItem reopens a committed item. It leaves the list until committed or cancelled.
func (w *Wizard) EditItem(id kernel.UUID) error {
	return w.withItems("edit item", func() error {
		if err := w.items.EditItem(id); err != nil {
			return err
		}
		w.recalculate()
		return w.navigator.setSubstep(wzd.BasicInfo, w.clock.Now())
	})
}

func (w *Wizard) DuplicateItem(id kernel.UUID) (*item.Draft, error) {
	var dup *item.Draft
	err := w.withItems("duplicate item", func() error {
		var err error
		if dup, err = w.items.DuplicateItem(id); err != nil {
			return err
		}
		w.recalculate()
		return nil
	})
	return dup, err
}

func (w *Wizard) RemoveItem(id kernel.UUID) error {
	return w.withItems("remove item", func() error {
		if err := w.items.RemoveItem(id); err != nil {
			return err
		}
		w.recalculate()
		return nil
	})
}

// SetBasicInfo records the first substep. Category and price-list fields are
// taken from the catalog; the caller only picks the ids, quantity and service.
func (w *Wizard) SetBasicInfo(ctx context.Context, info item.BasicInfo) (validation.Result, error) {
	info, r, err := w.resolveBasicInfo(ctx, info)
	if err != nil {
		return r, err
	}

	err = w.withItems("set basic info", func() error {
		var err error
		r, err = w.items.SetBasicInfo(info)
		return err
	})
	return r, err
}

// resolveBasicInfo overwrites the descriptive fields of info with the catalog
// entries its ids point to. Missing ids are left for the validator to report.
func (w *Wizard) resolveBasicInfo(ctx context.Context, info item.BasicInfo) (item.BasicInfo, validation.Result, error) {
	r := validation.Result{IsValid: true}
	if info.CategoryID.IsZero() || info.PriceListItemID.IsZero() {
		return info, r, nil
	}

	entry, err := w.catalog.GetItem(ctx, info.PriceListItemID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			r.AddFieldError("priceListItemId", "is not in the price list")
			return info, r, errs.NewValueIsInvalidErrorWithCause("priceListItemId", err)
		}
		return info, r, w.remoteFailure(ctx, "price_list.item", err)
	}
	if !entry.CategoryID.IsEqual(info.CategoryID) {
		r.AddFieldError("priceListItemId", "does not belong to the selected category")
		return info, r, errs.NewValueIsInvalidErrorWithCause("priceListItemId",
			fmt.Errorf("%s belongs to category %s", entry.ID, entry.CategoryID))
	}

	categories, err := w.catalog.GetCategories(ctx, false)
	if err != nil {
		return info, r, w.remoteFailure(ctx, "price_list.categories", err)
	}
	idx := slices.IndexFunc(categories, func(c catalog.Category) bool { return c.ID.IsEqual(info.CategoryID) })
	if idx < 0 {
		r.AddFieldError("categoryId", "is not a known category")
		return info, r, errs.NewValueIsInvalidErrorWithCause("categoryId",
			errs.NewObjectNotFoundError("category", info.CategoryID.String()))
	}

	info.CategoryCode = categories[idx].Code
	info.CategoryName = categories[idx].Name
	info.ItemName = entry.Name
	info.UnitPrice = entry.BasePrice
	if entry.UnitOfMeasure != "" {
		info.UnitOfMeasure = entry.UnitOfMeasure
	}
	return info, r, nil
}

func (w *Wizard) SetCharacteristics(c item.Characteristics) (validation.Result, error) {
	var r validation.Result
	err := w.withItems("set characteristics", func() error {
		var err error
		r, err = w.items.SetCharacteristics(c)
		return err
	})
	return r, err
}

func (w *Wizard) SetDefectsStains(ds item.DefectsStains) (validation.Result, error) {
	var r validation.Result
	err := w.withItems("set defects and stains", func() error {
		var err error
		r, err = w.items.SetDefectsStains(ds)
		return err
	})
	return r, err
}

func (w *Wizard) AddPhoto(p item.Photo) (validation.Result, error) {
	var r validation.Result
	err := w.withItems("add photo", func() error {
		var err error
		r, err = w.items.AddPhoto(p)
		return err
	})
	return r, err
}

func (w *Wizard) MarkPhotoUploaded(id kernel.UUID, url string) error {
	return w.withItems("mark photo uploaded", func() error {
		return w.items.MarkPhotoUploaded(id, url)
	})
}

func (w *Wizard) RemovePhoto(id kernel.UUID) error {
	return w.withItems("remove photo", func() error {
		return w.items.RemovePhoto(id)
	})
}

// NextSubstep moves the open item forward once the current substep has what it needs.
func (w *Wizard) NextSubstep() (wzd.Substep, error) {
	var next wzd.Substep
	err := w.withItems("next substep", func() error {
		cur := w.navigator.Substep()
		if err := w.items.CanLeave(cur); err != nil {
			return err
		}
		var err error
		if next, err = cur.Next(); err != nil {
			return err
		}
		return w.navigator.setSubstep(next, w.clock.Now())
	})
	return next, err
}

// PreviousSubstep moves the open item back. Entered data is kept.
func (w *Wizard) PreviousSubstep() (wzd.Substep, error) {
	var prev wzd.Substep
	err := w.withItems("previous substep", func() error {
		if _, ok := w.items.OpenDraft(); !ok {
			return ErrNoOpenItem
		}
		var err error
		if prev, err = w.navigator.Substep().Previous(); err != nil {
			return err
		}
		return w.navigator.setSubstep(prev, w.clock.Now())
	})
	return prev, err
}

// CalculatePricing prices the open item with the given modifiers. The pricing
// calculator is asked first; when it is unreachable the local calculator is used
// and the price is flagged as estimated. The call blocks until a final price exists.
func (w *Wizard) CalculatePricing(ctx context.Context, modifiers []item.Modifier) (item.Pricing, error) {
	done, err := w.inflight.begin(opCalculatePrice)
	if err != nil {
		return item.Pricing{}, err
	}
	defer done()

	var (
		draftID kernel.UUID
		basis   item.BasicInfo
		ticket  wzd.Ticket
	)
	err = w.withItems("calculate pricing", func() error {
		var err error
		draftID, basis, err = w.items.pricingInput(modifiers)
		ticket = w.session.Ticket()
		return err
	})
	if err != nil {
		return item.Pricing{}, err
	}

	pricing, err := w.remotePricing(ctx, basis, modifiers)
	if errors.Is(err, errs.ErrRemoteUnavailable) {
		w.logger.WarnContext(ctx, "Pricing calculator unavailable, using local estimate", "error", err)
		pricing = services.NewLocalPriceCalculator().Calculate(basis, modifiers)
		err = nil
	}
	if err != nil {
		return item.Pricing{}, w.remoteFailure(ctx, "calculate price", err)
	}

	err = w.applyIn(ticket, func() error {
		return w.items.applyPricing(draftID, basis, pricing)
	})
	return pricing, err
}

func (w *Wizard) remotePricing(ctx context.Context, basis item.BasicInfo, modifiers []item.Modifier) (item.Pricing, error) {
	base, err := w.gw.Pricing.CalculateBasePrice(ctx, basis.PriceListItemID, basis.Quantity)
	if err != nil {
		return item.Pricing{}, err
	}
	quote, err := w.gw.Pricing.CalculateFinalPrice(ctx, []ports.PriceLine{{
		PriceListItemID: basis.PriceListItemID,
		Quantity:        basis.Quantity,
		Modifiers:       modifiers,
	}})
	if err != nil {
		return item.Pricing{}, err
	}
	if quote.Base.IsPositive() {
		base = quote.Base
	}
	return item.Pricing{
		Modifiers:  append([]item.Modifier(nil), modifiers...),
		BasePrice:  base.Round(2),
		FinalPrice: quote.Final.Round(2),
	}, nil
}
