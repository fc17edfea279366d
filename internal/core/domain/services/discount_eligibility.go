package services

import (
	"fmt"
	"strings"

	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Eligibility is the outcome of a discount check over the item list.
type Eligibility struct {
	CanApply        bool
	ApplicableCount int
	RestrictedCount int
	// RestrictedIDs are the items the discount will not touch, in list order.
	RestrictedIDs []kernel.UUID
	// Warning is set when the discount applies to only part of the order.
	Warning string
	// Reason is set when the discount cannot be applied at all.
	Reason string
}

// HasWarning reports a partial application.
func (e Eligibility) HasWarning() bool {
	return e.Warning != ""
}

// DiscountEligibility decides which items a discount applies to.
//
// Ironing, washing and textile dyeing services are never discounted. An item is
// restricted when its category code, category name, item name or service type
// contains one of the restricted keywords, case-insensitively.
//
// Example usage:
//
//	engine := NewDiscountEligibility()
//	result := engine.Evaluate(order.DiscountEvercard, items)
//	if !result.CanApply {
//	    // show result.Reason next to the discount selector
//	}
type DiscountEligibility struct{}

func NewDiscountEligibility() DiscountEligibility {
	return DiscountEligibility{}
}

// IsRestricted reports whether no discount may apply to the item.
func (DiscountEligibility) IsRestricted(d *item.Draft) bool {
	return matchesAny(d.ServiceText(), restrictedKeywords)
}

// Evaluate partitions the items and reports whether the discount type can be applied.
func (e DiscountEligibility) Evaluate(discountType order.DiscountType, items []*item.Draft) Eligibility {
	if discountType == order.DiscountNone || discountType == "" {
		return Eligibility{CanApply: true, ApplicableCount: len(items)}
	}

	var (
		result          Eligibility
		restrictedNames []string
	)
	for _, d := range items {
		if e.IsRestricted(d) {
			result.RestrictedCount++
			result.RestrictedIDs = append(result.RestrictedIDs, d.ID())
			restrictedNames = append(restrictedNames, d.DisplayName())
			continue
		}
		result.ApplicableCount++
	}

	switch {
	case result.ApplicableCount == 0 && result.RestrictedCount > 0:
		result.Reason = "discount does not apply to ironing, washing and textile dyeing services"
	case result.RestrictedCount > 0:
		result.CanApply = true
		result.Warning = fmt.Sprintf("discount will not apply to: %s", strings.Join(restrictedNames, ", "))
	default:
		result.CanApply = true
	}
	return result
}

// Apply derives the discount exclusions and the discount amount for the item list.
// When the discount cannot be applied the amount is zero and every item is excluded.
func (e DiscountEligibility) Apply(discount order.Discount, items []*item.Draft) (order.Discount, decimal.Decimal, Eligibility) {
	result := e.Evaluate(discount.Type(), items)
	discount = discount.WithExclusions(result.RestrictedIDs)
	if !result.CanApply || discount.Type() == order.DiscountNone {
		return discount, decimal.Zero, result
	}

	subtotal := decimal.Zero
	for _, d := range items {
		if !discount.IsExcluded(d.ID()) {
			subtotal = subtotal.Add(d.Total())
		}
	}
	return discount, discount.Amount(subtotal), result
}
