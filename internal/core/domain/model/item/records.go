package item

import (
	"slices"
	"strings"
	"time"

	"orderwizard/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// UnitOfMeasure is how the quantity of an item is counted.
type UnitOfMeasure string

const (
	UnitPiece       UnitOfMeasure = "PIECE"
	UnitKilogram    UnitOfMeasure = "KG"
	UnitSquareMeter UnitOfMeasure = "SQ_M"
	UnitPair        UnitOfMeasure = "PAIR"
)

// BasicInfo is the first substep: what is being cleaned and how much of it.
type BasicInfo struct {
	CategoryID      kernel.UUID     `json:"categoryId"`
	CategoryCode    string          `json:"categoryCode" validate:"required,max=50"`
	CategoryName    string          `json:"categoryName" validate:"required,max=100"`
	PriceListItemID kernel.UUID     `json:"priceListItemId"`
	ItemName        string          `json:"itemName" validate:"required,max=200"`
	ServiceType     string          `json:"serviceType,omitempty" validate:"max=50"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitOfMeasure   UnitOfMeasure   `json:"unitOfMeasure" validate:"required,oneof=PIECE KG SQ_M PAIR"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
}

// IsComplete reports whether the record names a category, a price-list entry and a positive quantity.
func (b BasicInfo) IsComplete() bool {
	return !b.CategoryID.IsZero() && !b.PriceListItemID.IsZero() && b.Quantity.IsPositive()
}

func (b BasicInfo) affectsPrice(other BasicInfo) bool {
	return !b.PriceListItemID.IsEqual(other.PriceListItemID) ||
		!b.Quantity.Equal(other.Quantity) ||
		!b.UnitPrice.Equal(other.UnitPrice)
}

// Characteristics is the second substep.
type Characteristics struct {
	Material       string `json:"material" validate:"required,max=100"`
	Color          string `json:"color" validate:"required,max=50"`
	IsCustomColor  bool   `json:"isCustomColor"`
	Filler         string `json:"filler,omitempty" validate:"max=100"`
	FillerDamaged  bool   `json:"fillerDamaged"`
	WearPercentage int    `json:"wearPercentage" validate:"min=0,max=100"`
}

// DefectsStains is the third substep.
type DefectsStains struct {
	Stains            []string `json:"stains,omitempty" validate:"max=20,dive,required,max=100"`
	Defects           []string `json:"defects,omitempty" validate:"max=20,dive,required,max=100"`
	Notes             string   `json:"notes,omitempty" validate:"max=1000"`
	HasNoGuarantee    bool     `json:"hasNoGuarantee"`
	NoGuaranteeReason string   `json:"noGuaranteeReason,omitempty" validate:"required_if=HasNoGuarantee true,max=500"`
}

func (d DefectsStains) clone() DefectsStains {
	d.Stains = slices.Clone(d.Stains)
	d.Defects = slices.Clone(d.Defects)
	return d
}

// ModifierType tells how a price modifier changes the base price.
type ModifierType string

const (
	ModifierPercentage ModifierType = "PERCENTAGE"
	ModifierFixed      ModifierType = "FIXED"
)

// Modifier is a surcharge or reduction picked on the pricing substep.
type Modifier struct {
	Code  string          `json:"code" validate:"required,max=50"`
	Name  string          `json:"name" validate:"max=100"`
	Type  ModifierType    `json:"type" validate:"required,oneof=PERCENTAGE FIXED"`
	Value decimal.Decimal `json:"value"`
}

// Pricing is the fourth substep. Estimated marks a price computed locally because the
// pricing calculator was unreachable.
type Pricing struct {
	Modifiers  []Modifier      `json:"modifiers,omitempty"`
	BasePrice  decimal.Decimal `json:"basePrice"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Estimated  bool            `json:"estimated"`
}

func (p Pricing) IsComplete() bool {
	return p.FinalPrice.IsPositive()
}

func (p Pricing) clone() Pricing {
	p.Modifiers = slices.Clone(p.Modifiers)
	return p
}

// Photo is an image attached to the item. URL is empty until the file is uploaded.
type Photo struct {
	ID          kernel.UUID `json:"id"`
	FileName    string      `json:"fileName"`
	ContentType string      `json:"contentType"`
	Size        int64       `json:"size"`
	URL         string      `json:"url,omitempty"`
	AddedAt     time.Time   `json:"addedAt"`
}

// Photos is the fifth substep: files waiting for upload and the uploaded ones.
type Photos struct {
	Files    []Photo `json:"files,omitempty"`
	Uploaded []Photo `json:"uploaded,omitempty"`
}

// Count is the number of photos attached, pending or uploaded.
func (p Photos) Count() int {
	return len(p.Files) + len(p.Uploaded)
}

func (p Photos) clone() Photos {
	return Photos{Files: slices.Clone(p.Files), Uploaded: slices.Clone(p.Uploaded)}
}

func (p Photos) contains(id kernel.UUID) bool {
	for _, ph := range append(slices.Clone(p.Files), p.Uploaded...) {
		if ph.ID.IsEqual(id) {
			return true
		}
	}
	return false
}

// matchText lowercases the non-empty fields keyword heuristics look at.
func matchText(fields ...string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
