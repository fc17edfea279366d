package order

import (
	"fmt"

	"orderwizard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the client pays.
type PaymentMethod string

const (
	PaymentTerminal     PaymentMethod = "terminal"
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentTerminal, PaymentCash, PaymentBankTransfer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a valid payment method", string(m)))
	}
}

// Payment is a snapshot of the order payment balance.
type Payment struct {
	Method           PaymentMethod   `json:"paymentMethod"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	PrepaymentAmount decimal.Decimal `json:"prepaymentAmount"`
	RemainingAmount  decimal.Decimal `json:"remainingAmount"`
}
