package services

import (
	"orderwizard/internal/core/domain/model/item"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LocalPriceCalculator prices an item without the pricing service: unit price times
// quantity, then percentage modifiers over the base, then fixed modifiers. The result
// never goes below zero and is flagged as estimated.
type LocalPriceCalculator struct{}

func NewLocalPriceCalculator() LocalPriceCalculator {
	return LocalPriceCalculator{}
}

func (LocalPriceCalculator) Calculate(info item.BasicInfo, modifiers []item.Modifier) item.Pricing {
	base := info.UnitPrice.Mul(info.Quantity).Round(2)

	percent := decimal.Zero
	fixed := decimal.Zero
	for _, m := range modifiers {
		switch m.Type {
		case item.ModifierPercentage:
			percent = percent.Add(m.Value)
		case item.ModifierFixed:
			fixed = fixed.Add(m.Value)
		}
	}

	final := base.Add(base.Mul(percent).Div(hundred)).Add(fixed)
	final = decimal.Max(decimal.Zero, final).Round(2)

	return item.Pricing{
		Modifiers:  append([]item.Modifier(nil), modifiers...),
		BasePrice:  base,
		FinalPrice: final,
		Estimated:  true,
	}
}
