package services

import (
	"errors"

	"orderwizard/internal/core/domain/model/order"
	"orderwizard/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrPrepaymentExceedsTotal is the cause reported when the prepayment is larger than the total.
var ErrPrepaymentExceedsTotal = errors.New("prepayment exceeds order total")

// Remaining is max(0, total - prepayment), rounded to cents.
func Remaining(total, prepayment decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, total.Sub(prepayment)).Round(2)
}

// PaymentBalance owns the payment state of one order draft. Every mutator keeps
// remaining = total - prepayment or, when the state became invalid, reports it and
// leaves the last consistent remaining amount in place.
type PaymentBalance struct {
	method     order.PaymentMethod
	total      decimal.Decimal
	prepayment decimal.Decimal
	remaining  decimal.Decimal
	invalid    error
}

func NewPaymentBalance() *PaymentBalance {
	return &PaymentBalance{method: order.PaymentTerminal}
}

// SetMethod changes the payment method.
func (p *PaymentBalance) SetMethod(m order.PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	p.method = m
	return nil
}

// SetPrepayment stores a prepayment in [0, total]. An out-of-range amount is
// rejected and the state is left untouched.
func (p *PaymentBalance) SetPrepayment(amount decimal.Decimal) error {
	if err := p.check(p.total, amount); err != nil {
		return err
	}

	p.prepayment = amount.Round(2)
	p.remaining = Remaining(p.total, p.prepayment)
	p.invalid = nil
	return nil
}

// UpdateTotal stores the new total and re-validates the prepayment against it.
// When the prepayment no longer fits, the error is returned, the previous remaining
// amount is kept and the balance stays invalid until the prepayment or total is fixed.
func (p *PaymentBalance) UpdateTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return errs.NewValueIsOutOfRangeError("totalAmount", total.String(), "0", "∞")
	}

	p.total = total.Round(2)
	if err := p.check(p.total, p.prepayment); err != nil {
		p.invalid = err
		return err
	}

	p.remaining = Remaining(p.total, p.prepayment)
	p.invalid = nil
	return nil
}

// Err returns the pending inconsistency, if any.
func (p *PaymentBalance) Err() error {
	return p.invalid
}

func (p *PaymentBalance) IsValid() bool {
	return p.invalid == nil
}

func (p *PaymentBalance) Snapshot() order.Payment {
	return order.Payment{
		Method:           p.method,
		TotalAmount:      p.total,
		PrepaymentAmount: p.prepayment,
		RemainingAmount:  p.remaining,
	}
}

func (p *PaymentBalance) check(total, prepayment decimal.Decimal) error {
	if prepayment.IsNegative() {
		return errs.NewValueIsOutOfRangeError("prepaymentAmount", prepayment.String(), "0", total.String())
	}
	if prepayment.GreaterThan(total) {
		return errs.NewValueIsOutOfRangeErrorWithCause("prepaymentAmount",
			prepayment.String(), "0", total.String(), ErrPrepaymentExceedsTotal)
	}
	return nil
}
