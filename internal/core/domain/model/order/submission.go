package order

import (
	"errors"

	"orderwizard/internal/core/domain/model/branch"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Submission is the snapshot of a finished order draft sent to the order submission service.
type Submission struct {
	SessionID      kernel.UUID
	Client         client.Summary
	Branch         branch.Branch
	ReceiptNumber  string
	UniqueLabel    string
	Items          []*item.Draft
	Execution      ExecutionParameters
	Discount       Discount
	DiscountAmount decimal.Decimal
	Payment        Payment
	Info           AdditionalInfo
	Signature      string
	TermsAccepted  bool
}

// Validate checks what the collaborator will reject anyway, so the user sees it inline.
func (s Submission) Validate() error {
	var problems []error
	if err := s.SessionID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("sessionId", err))
	}
	if s.Client.ID.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("clientId"))
	}
	if s.Branch.ID.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("branchId"))
	}
	if len(s.Items) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("items"))
	}
	if !s.TermsAccepted {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("termsAccepted",
			errors.New("client must accept the terms of service")))
	}
	return errors.Join(problems...)
}

// Total is the sum of item prices minus the discount.
func (s Submission) Total() decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range s.Items {
		subtotal = subtotal.Add(it.Total())
	}
	return subtotal.Sub(s.DiscountAmount)
}
