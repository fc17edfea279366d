// Package order provides the order-level records of the intake wizard: execution
// parameters, discount, payment and additional information, plus the Submission
// snapshot handed to the order submission service.
//
// The package includes:
//   - Urgency: the expedite level chosen for the order
//   - ExecutionParameters: urgency and the requested completion date
//   - Discount: the discount type with its optional custom value and derived exclusions
//   - Payment: the payment method and the balance of total, prepayment and remaining
//   - AdditionalInfo: free-text notes and client requirements
//   - Submission: the immutable snapshot of a finished order draft
//
// Key business rules:
//   - A discount carries at most one custom value, and only the custom type carries one
//   - Discount exclusions are derived from the item list and never authored by the user
//   - Payment balance satisfies 0 <= prepayment <= total and remaining = total - prepayment
//   - Notes are at most 1000 characters and client requirements at most 500
package order
