// Package item models an order item as it is authored in the item sub-wizard.
//
// The package includes:
//   - BasicInfo, Characteristics, DefectsStains, Pricing, Photos: the five sub-records
//   - Draft: the item aggregate, identified by a locally generated id
//   - List: the ordered, committed items of an order
//
// Key business rules:
//   - A draft is committable once basic info and pricing are present
//   - A draft is submittable once it has a category, a price-list entry, quantity > 0 and final price > 0
//   - Changing the price-list entry, unit price or quantity invalidates the computed pricing
//   - List keeps insertion order and rejects duplicate ids; count and total are derived on read
package item
