package order

import (
	"errors"
	"fmt"
	"slices"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DiscountType is the kind of discount applied to the order.
type DiscountType string

const (
	DiscountNone        DiscountType = "none"
	DiscountEvercard    DiscountType = "evercard"
	DiscountSocialMedia DiscountType = "social_media"
	DiscountMilitary    DiscountType = "military"
	DiscountCustom      DiscountType = "custom"
)

var hundred = decimal.NewFromInt(100)

func getStandardPercents() map[DiscountType]decimal.Decimal {
	return map[DiscountType]decimal.Decimal{
		DiscountNone:        decimal.Zero,
		DiscountEvercard:    decimal.NewFromInt(10),
		DiscountSocialMedia: decimal.NewFromInt(5),
		DiscountMilitary:    decimal.NewFromInt(10),
	}
}

func (t DiscountType) Validate() error {
	if t == DiscountCustom {
		return nil
	}
	if _, ok := getStandardPercents()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("discountType", fmt.Errorf("%q is not a valid discount type", string(t)))
	}
	return nil
}

// ParseDiscountType converts a wire value. An empty value means no discount.
func ParseDiscountType(s string) (DiscountType, error) {
	if s == "" {
		return DiscountNone, nil
	}
	t := DiscountType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Discount is the order discount. Custom discounts carry either a percent or an amount,
// never both. Exclusions lists the items the discount does not apply to and is filled
// by the eligibility engine from the current item list.
type Discount struct {
	discountType  DiscountType
	customPercent *decimal.Decimal
	customAmount  *decimal.Decimal
	exclusions    []kernel.UUID
}

// NoDiscount is the initial discount of every order.
func NoDiscount() Discount {
	return Discount{discountType: DiscountNone}
}

// NewDiscount builds a discount of a standard type.
func NewDiscount(t DiscountType) (Discount, error) {
	if err := t.Validate(); err != nil {
		return Discount{}, err
	}
	if t == DiscountCustom {
		return Discount{}, errs.NewValueIsRequiredErrorWithCause("customPercent",
			errors.New("custom discount needs a percent or an amount"))
	}
	return Discount{discountType: t}, nil
}

// NewCustomPercentDiscount builds a custom discount of percent in (0, 100].
func NewCustomPercentDiscount(percent decimal.Decimal) (Discount, error) {
	if !percent.IsPositive() || percent.GreaterThan(hundred) {
		return Discount{}, errs.NewValueIsOutOfRangeError("customPercent", percent.String(), "0", "100")
	}
	p := percent
	return Discount{discountType: DiscountCustom, customPercent: &p}, nil
}

// NewCustomAmountDiscount builds a custom discount of a fixed positive amount.
func NewCustomAmountDiscount(amount decimal.Decimal) (Discount, error) {
	if !amount.IsPositive() {
		return Discount{}, errs.NewValueIsOutOfRangeError("customAmount", amount.String(), "0", "∞")
	}
	a := amount.Round(2)
	return Discount{discountType: DiscountCustom, customAmount: &a}, nil
}

func (d Discount) Type() DiscountType {
	if d.discountType == "" {
		return DiscountNone
	}
	return d.discountType
}

func (d Discount) CustomPercent() (decimal.Decimal, bool) {
	if d.customPercent == nil {
		return decimal.Zero, false
	}
	return *d.customPercent, true
}

func (d Discount) CustomAmount() (decimal.Decimal, bool) {
	if d.customAmount == nil {
		return decimal.Zero, false
	}
	return *d.customAmount, true
}

// Percent is the percentage applied to eligible items. Fixed-amount discounts report zero.
func (d Discount) Percent() decimal.Decimal {
	if p, ok := d.CustomPercent(); ok {
		return p
	}
	return getStandardPercents()[d.Type()]
}

func (d Discount) Exclusions() []kernel.UUID {
	return slices.Clone(d.exclusions)
}

func (d Discount) IsExcluded(id kernel.UUID) bool {
	return slices.ContainsFunc(d.exclusions, id.IsEqual)
}

// WithExclusions returns a copy carrying the derived exclusions.
func (d Discount) WithExclusions(ids []kernel.UUID) Discount {
	d.exclusions = slices.Clone(ids)
	return d
}

// Amount computes the discount over the eligible subtotal.
// Fixed amounts never exceed the subtotal.
func (d Discount) Amount(eligibleSubtotal decimal.Decimal) decimal.Decimal {
	if !eligibleSubtotal.IsPositive() {
		return decimal.Zero
	}
	if a, ok := d.CustomAmount(); ok {
		return decimal.Min(a, eligibleSubtotal)
	}
	return eligibleSubtotal.Mul(d.Percent()).Div(hundred).Round(2)
}
