package item

import (
	"errors"
	"fmt"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MaxPhotos is the number of photos one item may carry.
const MaxPhotos = 5

var (
	// ErrDraftIsNotConstructed is returned for a Draft not built by NewDraft.
	ErrDraftIsNotConstructed = errors.New("Draft must be created via NewDraft constructor")

	// ErrTooManyPhotos is returned when an item already carries MaxPhotos photos.
	ErrTooManyPhotos = errors.New("too many photos")
)

// Draft is an order item being authored or already committed to the order.
// Sub-records are absent until their substep has been filled in.
type Draft struct {
	id        kernel.UUID
	createdAt time.Time
	updatedAt time.Time

	basic           *BasicInfo
	characteristics *Characteristics
	defects         *DefectsStains
	pricing         *Pricing
	photos          Photos

	isConstructed bool
}

// NewDraft creates an empty item draft.
func NewDraft(id kernel.UUID, now time.Time) (*Draft, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Draft{
		id:            id,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

func (d *Draft) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDraftIsNotConstructed
	}
	return nil
}

func (d *Draft) ID() kernel.UUID {
	return d.id
}

func (d *Draft) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Draft) UpdatedAt() time.Time {
	return d.updatedAt
}

func (d *Draft) BasicInfo() (BasicInfo, bool) {
	if d.basic == nil {
		return BasicInfo{}, false
	}
	return *d.basic, true
}

func (d *Draft) Characteristics() (Characteristics, bool) {
	if d.characteristics == nil {
		return Characteristics{}, false
	}
	return *d.characteristics, true
}

func (d *Draft) DefectsStains() (DefectsStains, bool) {
	if d.defects == nil {
		return DefectsStains{}, false
	}
	return d.defects.clone(), true
}

func (d *Draft) Pricing() (Pricing, bool) {
	if d.pricing == nil {
		return Pricing{}, false
	}
	return d.pricing.clone(), true
}

func (d *Draft) Photos() Photos {
	return d.photos.clone()
}

// SetBasicInfo stores the first substep. A change to the price-list entry, unit price or
// quantity drops the pricing record, which has to be recalculated.
func (d *Draft) SetBasicInfo(info BasicInfo, now time.Time) {
	if d.basic != nil && d.pricing != nil && d.basic.affectsPrice(info) {
		d.pricing = nil
	}
	d.basic = &info
	d.touch(now)
}

func (d *Draft) SetCharacteristics(c Characteristics, now time.Time) {
	d.characteristics = &c
	d.touch(now)
}

func (d *Draft) SetDefectsStains(ds DefectsStains, now time.Time) {
	ds = ds.clone()
	d.defects = &ds
	d.touch(now)
}

// SetPricing stores the fourth substep. Basic info must be present.
func (d *Draft) SetPricing(p Pricing, now time.Time) error {
	if d.basic == nil {
		return errs.NewValueIsRequiredError("basicInfo")
	}
	if p.FinalPrice.IsNegative() || p.BasePrice.IsNegative() {
		return errs.NewValueIsOutOfRangeError("finalPrice", p.FinalPrice.String(), "0", "∞")
	}

	p = p.clone()
	d.pricing = &p
	d.touch(now)
	return nil
}

// AddPhoto attaches a photo waiting for upload.
func (d *Draft) AddPhoto(p Photo, now time.Time) error {
	if err := p.ID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("photoId", err)
	}
	if d.photos.Count() >= MaxPhotos {
		return errs.NewValueIsInvalidErrorWithCause("photos", fmt.Errorf("%w: at most %d", ErrTooManyPhotos, MaxPhotos))
	}
	if d.photos.contains(p.ID) {
		return errs.NewValueIsInvalidErrorWithCause("photoId", fmt.Errorf("photo %s already attached", p.ID))
	}

	d.photos.Files = append(d.photos.Files, p)
	d.touch(now)
	return nil
}

// MarkPhotoUploaded moves a pending photo to the uploaded list.
func (d *Draft) MarkPhotoUploaded(id kernel.UUID, url string, now time.Time) error {
	if url == "" {
		return errs.NewValueIsRequiredError("url")
	}
	for i, p := range d.photos.Files {
		if p.ID.IsEqual(id) {
			p.URL = url
			d.photos.Files = append(d.photos.Files[:i], d.photos.Files[i+1:]...)
			d.photos.Uploaded = append(d.photos.Uploaded, p)
			d.touch(now)
			return nil
		}
	}
	return errs.NewObjectNotFoundError("photoId", id.String())
}

// RemovePhoto detaches a pending or uploaded photo.
func (d *Draft) RemovePhoto(id kernel.UUID, now time.Time) error {
	for _, list := range []*[]Photo{&d.photos.Files, &d.photos.Uploaded} {
		for i, p := range *list {
			if p.ID.IsEqual(id) {
				*list = append((*list)[:i], (*list)[i+1:]...)
				d.touch(now)
				return nil
			}
		}
	}
	return errs.NewObjectNotFoundError("photoId", id.String())
}

// CanCommit checks that basic info and pricing are present.
func (d *Draft) CanCommit() error {
	if err := d.Validate(); err != nil {
		return err
	}
	var missing []error
	if d.basic == nil {
		missing = append(missing, errs.NewValueIsRequiredError("basicInfo"))
	}
	if d.pricing == nil {
		missing = append(missing, errs.NewValueIsRequiredError("pricing"))
	}
	return errors.Join(missing...)
}

// IsSubmittable reports whether the item can be part of a submitted order.
func (d *Draft) IsSubmittable() bool {
	return d.basic != nil && d.basic.IsComplete() &&
		d.pricing != nil && d.pricing.IsComplete()
}

// Total is the final price of the item, zero when it has not been priced.
func (d *Draft) Total() decimal.Decimal {
	if d.pricing == nil {
		return decimal.Zero
	}
	return d.pricing.FinalPrice
}

// DisplayName is the item name, falling back to the category name.
func (d *Draft) DisplayName() string {
	if d.basic == nil {
		return d.id.String()
	}
	if d.basic.ItemName != "" {
		return d.basic.ItemName
	}
	return d.basic.CategoryName
}

// CategoryText returns the lowercased category code and name.
func (d *Draft) CategoryText() []string {
	if d.basic == nil {
		return nil
	}
	return matchText(d.basic.CategoryCode, d.basic.CategoryName)
}

// ServiceText returns the lowercased category, item name and service type.
func (d *Draft) ServiceText() []string {
	if d.basic == nil {
		return nil
	}
	return matchText(d.basic.CategoryCode, d.basic.CategoryName, d.basic.ItemName, d.basic.ServiceType)
}

// Copy returns an independent copy with the same identity, used to reopen an item for editing.
func (d *Draft) Copy() *Draft {
	cp := &Draft{
		id:            d.id,
		createdAt:     d.createdAt,
		updatedAt:     d.updatedAt,
		photos:        d.photos.clone(),
		isConstructed: true,
	}
	if b, ok := d.BasicInfo(); ok {
		cp.basic = &b
	}
	if c, ok := d.Characteristics(); ok {
		cp.characteristics = &c
	}
	if ds, ok := d.DefectsStains(); ok {
		cp.defects = &ds
	}
	if p, ok := d.Pricing(); ok {
		cp.pricing = &p
	}
	return cp
}

// Duplicate deep-copies the item under a new id with fresh timestamps.
// Photos reference files of the source item and are copied with new ids.
func (d *Draft) Duplicate(newID kernel.UUID, now time.Time) (*Draft, error) {
	if err := newID.Validate(); err != nil {
		return nil, err
	}
	if newID.IsEqual(d.id) {
		return nil, errs.NewValueIsInvalidErrorWithCause("itemId", errors.New("duplicate must have a new id"))
	}

	cp := d.Copy()
	cp.id = newID
	cp.createdAt = now
	cp.updatedAt = now
	for i := range cp.photos.Files {
		cp.photos.Files[i].ID = kernel.NewUUID()
	}
	for i := range cp.photos.Uploaded {
		cp.photos.Uploaded[i].ID = kernel.NewUUID()
	}
	return cp, nil
}

func (d *Draft) touch(now time.Time) {
	if now.After(d.updatedAt) {
		d.updatedAt = now
	}
}
