// Package catalog holds the reference data the item substeps pick from.
package catalog

import (
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Category is a service category of the price list.
type Category struct {
	ID          kernel.UUID `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Active      bool        `json:"active"`
}

// PriceListItem is one priced entry of a category.
type PriceListItem struct {
	ID            kernel.UUID        `json:"id"`
	CategoryID    kernel.UUID        `json:"categoryId"`
	CatalogNumber int                `json:"catalogNumber"`
	Name          string             `json:"name"`
	UnitOfMeasure item.UnitOfMeasure `json:"unitOfMeasure"`
	BasePrice     decimal.Decimal    `json:"basePrice"`
	Active        bool               `json:"active"`
}

type Material struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Color struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// BasicInfo fills the first item substep from a category and a price-list entry.
func BasicInfo(c Category, p PriceListItem, quantity decimal.Decimal) item.BasicInfo {
	return item.BasicInfo{
		CategoryID:      c.ID,
		CategoryCode:    c.Code,
		CategoryName:    c.Name,
		PriceListItemID: p.ID,
		ItemName:        p.Name,
		Quantity:        quantity,
		UnitOfMeasure:   p.UnitOfMeasure,
		UnitPrice:       p.BasePrice,
	}
}
