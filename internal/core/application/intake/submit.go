package intake

import (
	"context"
	"errors"
	"fmt"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/pkg/errs"
)

// SubmitRequest carries the confirmation data of the last step.
type SubmitRequest struct {
	UniqueLabel   string
	Signature     string
	TermsAccepted bool
}

// Submit finalizes the order. From OrderParameters it first completes the stage,
// then hands the snapshot to the order submission service.
//
// Outcomes:
//   - accepted: the wizard is Completed and the branch selection is locked
//   - transport failure or rejected fields: back on OrderParameters with all data kept
//   - conflict or unknown session: Failed
func (w *Wizard) Submit(ctx context.Context, req SubmitRequest) (kernel.UUID, error) {
	done, err := w.inflight.begin(opSubmit)
	if err != nil {
		return kernel.UUID{}, err
	}
	defer done()

	if err = w.lock(); err != nil {
		return kernel.UUID{}, err
	}
	stage := w.navigator.Stage()
	if stage != wzd.OrderParameters && stage != wzd.Submitting {
		w.mu.Unlock()
		return kernel.UUID{}, wrongStage("submit", stage)
	}
	if err = w.submission(req).Validate(); err != nil {
		w.mu.Unlock()
		return kernel.UUID{}, err
	}
	w.mu.Unlock()

	if stage == wzd.OrderParameters {
		if err = w.CompleteStage(ctx); err != nil {
			return kernel.UUID{}, err
		}
	}

	if err = w.lock(); err != nil {
		return kernel.UUID{}, err
	}
	if stage = w.navigator.Stage(); stage != wzd.Submitting {
		w.mu.Unlock()
		return kernel.UUID{}, wrongStage("submit", stage)
	}
	sub := w.submission(req)
	ticket := w.session.Ticket()
	w.mu.Unlock()

	orderID, createErr := w.gw.Orders.Create(ctx, sub)

	if err = w.lock(); err != nil {
		return kernel.UUID{}, err
	}
	defer w.mu.Unlock()

	if !w.session.Accepts(ticket, true) {
		return kernel.UUID{}, ErrStaleResponse
	}

	if createErr != nil {
		return kernel.UUID{}, w.submissionFailed(ctx, createErr)
	}

	if err = w.navigator.applyAdvance(ticket, w.clock.Now()); err != nil {
		return kernel.UUID{}, err
	}
	w.branchSel.Lock()
	w.orderID = orderID
	w.logger.InfoContext(ctx, "Order submitted", "order_id", orderID.String(), "total", sub.Total().String())
	w.afterTransition(ctx)
	return orderID, nil
}

// submissionFailed routes a rejected submission. Callers hold the lock.
func (w *Wizard) submissionFailed(ctx context.Context, cause error) error {
	now := w.clock.Now()
	switch {
	case errors.Is(cause, errs.ErrRemoteUnavailable), errs.IsValidation(cause):
		w.logger.WarnContext(ctx, "Order submission failed, returning to order parameters", "error", cause)
		if err := w.navigator.reopen(now); err != nil {
			return errors.Join(cause, err)
		}
	default:
		w.logger.ErrorContext(ctx, "Order submission rejected", "error", cause)
		if err := w.navigator.fail(now); err != nil {
			return errors.Join(cause, err)
		}
		if errors.Is(cause, errs.ErrFatalSession) {
			w.closed = true
			w.bgCancel()
		}
	}
	w.afterTransition(ctx)
	return fmt.Errorf("submit order: %w", cause)
}

// submission snapshots the order draft. Callers hold the lock.
func (w *Wizard) submission(req SubmitRequest) order.Submission {
	p := w.params
	sub := order.Submission{
		SessionID:      w.session.ID(),
		ReceiptNumber:  w.branchSel.ReceiptNumber(),
		UniqueLabel:    req.UniqueLabel,
		Items:          w.items.Items(),
		Execution:      w.execution(),
		Discount:       p.discount,
		DiscountAmount: p.discountAmount,
		Payment:        p.payment.Snapshot(),
		Info:           p.info,
		Signature:      req.Signature,
		TermsAccepted:  req.TermsAccepted,
	}
	if c, ok := w.clientSel.Existing(); ok {
		sub.Client = c
	}
	if b, ok := w.branchSel.Branch(); ok {
		sub.Branch = b
	}
	return sub
}

// OrderID is the id assigned by the backend once the order was accepted.
func (w *Wizard) OrderID() (kernel.UUID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.orderID, !w.orderID.IsZero()
}
