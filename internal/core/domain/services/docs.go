// Package services provides the business rule engines of the order wizard. They are
// pure calculations over domain records and never perform I/O; remote confirmation
// of their results is the concern of the application layer.
//
// The package includes:
//   - DiscountEligibility: splits the item list into discountable and restricted items
//   - CompletionDateCalculator: computes the earliest allowed completion instant
//   - PaymentBalance: keeps prepayment and remaining amount consistent with the total
//   - LocalPriceCalculator: the fallback price calculation used when the pricing service is down
//
// Expected edge cases such as an empty item list or a restricted discount are reported
// as structured results, not errors.
package services
