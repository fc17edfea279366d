package intake

import (
	"context"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/domain/services"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Refinements are advisory values returned by the remote calculators. The local
// values stay authoritative for gating.
type Refinements struct {
	CompletionDate time.Time
	Payment        *order.Payment
	Discount       *ports.DiscountQuote
}

// orderParams is the state of the order parameters stage.
type orderParams struct {
	urgency        order.Urgency
	completionDate time.Time
	floor          services.Floor

	discount       order.Discount
	eligibility    services.Eligibility
	discountAmount decimal.Decimal

	payment *services.PaymentBalance
	info    order.AdditionalInfo

	refined Refinements
	// seq counts requests per refinement so only the latest response is applied.
	seq map[string]uint64

	recalculations int
}

func newOrderParams() *orderParams {
	return &orderParams{
		urgency:  order.UrgencyNormal,
		discount: order.NoDiscount(),
		payment:  services.NewPaymentBalance(),
		seq:      make(map[string]uint64),
	}
}

// recalculate re-derives the completion floor, discount eligibility, discount amount
// and payment total from the committed items. Every mutator that changes the item list,
// the urgency or the discount calls it exactly once. Callers hold the lock.
func (w *Wizard) recalculate() {
	p := w.params
	items := w.items.Items()
	now := w.clock.Now()

	p.floor = services.NewCompletionDateCalculator().Floor(items, p.urgency, now)
	p.discount, p.discountAmount, p.eligibility = services.NewDiscountEligibility().Apply(p.discount, items)

	total := w.items.TotalAmount().Sub(p.discountAmount)
	// An inconsistent prepayment stays recorded in the balance until the user fixes it.
	_ = p.payment.UpdateTotal(total)

	p.recalculations++
}

// Recalculations reports how many times derived values were recomputed.
func (w *Wizard) Recalculations() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.params.recalculations
}

// withParams runs fn under the lock on the order parameters stage.
func (w *Wizard) withParams(op string, fn func() error) error {
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()

	if stage := w.navigator.Stage(); stage != wzd.OrderParameters {
		return wrongStage(op, stage)
	}
	return fn()
}

// SetUrgency changes the urgency and recomputes the completion floor.
func (w *Wizard) SetUrgency(u order.Urgency) error {
	return w.withParams("set urgency", func() error {
		if err := u.Validate(); err != nil {
			return err
		}
		w.params.urgency = u
		w.recalculate()
		w.refineCompletionDate()
		return nil
	})
}

// SetCompletionDate stores a requested date. It must be in the future and not
// before the floor; the error names the violated minimum.
func (w *Wizard) SetCompletionDate(date time.Time) error {
	return w.withParams("set completion date", func() error {
		if date.IsZero() {
			w.params.completionDate = time.Time{}
			return nil
		}
		calc := services.NewCompletionDateCalculator()
		if err := calc.ValidateDate(date, w.params.floor, w.clock.Now()); err != nil {
			return err
		}
		w.params.completionDate = date
		return nil
	})
}

// SetDiscount replaces the discount and re-evaluates eligibility. A discount that can
// not be applied to any item is rejected and the previous one is kept.
func (w *Wizard) SetDiscount(d order.Discount) (services.Eligibility, error) {
	var result services.Eligibility
	err := w.withParams("set discount", func() error {
		result = services.NewDiscountEligibility().Evaluate(d.Type(), w.items.Items())
		if r := w.validator.Discount(d, result); !r.IsValid {
			return r.Err()
		}
		w.params.discount = d
		w.recalculate()
		result = w.params.eligibility
		w.refineDiscount()
		return nil
	})
	return result, err
}

func (w *Wizard) SetPaymentMethod(m order.PaymentMethod) error {
	return w.withParams("set payment method", func() error {
		if err := w.params.payment.SetMethod(m); err != nil {
			return err
		}
		w.refinePayment()
		return nil
	})
}

// SetPrepayment stores the prepayment. Out-of-range amounts leave the state unchanged.
func (w *Wizard) SetPrepayment(amount decimal.Decimal) (order.Payment, error) {
	var snap order.Payment
	err := w.withParams("set prepayment", func() error {
		if err := w.params.payment.SetPrepayment(amount); err != nil {
			return err
		}
		snap = w.params.payment.Snapshot()
		w.refinePayment()
		return nil
	})
	return snap, err
}

func (w *Wizard) SetAdditionalInfo(info order.AdditionalInfo) (validation.Result, error) {
	var r validation.Result
	err := w.withParams("set additional info", func() error {
		r = w.validator.AdditionalInfo(info)
		if !r.IsValid {
			return r.Err()
		}
		w.params.info = info
		return nil
	})
	return r, err
}

func (w *Wizard) checkOrderParameters() validation.Result {
	p := w.params
	return w.validator.OrderParameters(validation.OrderParameters{
		Execution:    w.execution(),
		Floor:        p.floor,
		Now:          w.clock.Now(),
		Discount:     p.discount,
		Eligibility:  p.eligibility,
		Payment:      p.payment.Snapshot(),
		PaymentError: p.payment.Err(),
		Info:         p.info,
	})
}

func (w *Wizard) execution() order.ExecutionParameters {
	return order.ExecutionParameters{
		Urgency:        w.params.urgency,
		CompletionDate: w.params.completionDate,
		Floor:          w.params.floor.At,
	}
}

// refineAll schedules every remote refinement. Callers hold the lock.
func (w *Wizard) refineAll() {
	w.refineCompletionDate()
	w.refineDiscount()
	w.refinePayment()
}

func (w *Wizard) refineCompletionDate() {
	if w.gw.CompletionDate == nil {
		return
	}
	items := w.items.Items()
	categoryIDs := make([]kernel.UUID, 0, len(items))
	for _, d := range items {
		if info, ok := d.BasicInfo(); ok {
			categoryIDs = append(categoryIDs, info.CategoryID)
		}
	}
	urgency := w.params.urgency

	refine(w, "completion_date",
		func(ctx context.Context) (time.Time, error) {
			return w.gw.CompletionDate.Calculate(ctx, categoryIDs, urgency)
		},
		func(date time.Time) (ports.EventType, any) {
			w.params.refined.CompletionDate = date
			return ports.EventCompletionDateRefined, map[string]any{
				"remoteDate": date,
				"floor":      w.params.floor.At,
			}
		})
}

func (w *Wizard) refineDiscount() {
	if w.gw.Discounts == nil || w.params.discount.Type() == order.DiscountNone {
		return
	}
	d := w.params.discount
	req := ports.DiscountRequest{SessionID: w.session.ID(), Type: d.Type(), Percent: d.Percent()}
	if a, ok := d.CustomAmount(); ok {
		req.Amount = a
	}
	for _, it := range w.items.Items() {
		req.Items = append(req.Items, ports.DiscountLine{ItemID: it.ID(), Amount: it.Total()})
	}

	refine(w, "discount",
		func(ctx context.Context) (ports.DiscountQuote, error) {
			return w.gw.Discounts.Apply(ctx, req)
		},
		func(q ports.DiscountQuote) (ports.EventType, any) {
			w.params.refined.Discount = &q
			if !q.Amount.Equal(w.params.discountAmount) {
				w.logger.Warn("Remote discount differs from local calculation",
					"remote", q.Amount.String(), "local", w.params.discountAmount.String())
			}
			return ports.EventDiscountRefined, q
		})
}

func (w *Wizard) refinePayment() {
	if w.gw.Payments == nil {
		return
	}
	snap := w.params.payment.Snapshot()
	id := w.session.ID()

	refine(w, "payment",
		func(ctx context.Context) (order.Payment, error) {
			return w.gw.Payments.Calculate(ctx, id, snap.Method, snap.PrepaymentAmount)
		},
		func(p order.Payment) (ports.EventType, any) {
			w.params.refined.Payment = &p
			return ports.EventPaymentRefined, p
		})
}

// refine runs a best-effort remote call in the background. Its result is applied
// under the lock only when the session is still on the stage that issued it and no
// newer request of the same kind was made. Failures are logged and announced as
// warnings; they never change local state. Callers hold the lock.
func refine[T any](
	w *Wizard,
	name string,
	call func(ctx context.Context) (T, error),
	apply func(T) (ports.EventType, any),
) {
	w.params.seq[name]++
	seq := w.params.seq[name]
	ticket := w.session.Ticket()
	ctx := w.bgCtx
	params := w.params

	w.bg.Add(1)
	go func() {
		defer w.bg.Done()

		res, err := call(ctx)

		w.mu.Lock()
		defer w.mu.Unlock()

		if ctx.Err() != nil || w.closed {
			return
		}
		if err != nil {
			w.logger.WarnContext(ctx, "Remote refinement failed, keeping local value", "refinement", name, "error", err)
			w.publish(ctx, ports.EventRemoteWarning, map[string]string{"refinement": name, "error": err.Error()})
			return
		}
		if w.params != params || params.seq[name] != seq || !w.session.Accepts(ticket, false) {
			w.logger.DebugContext(ctx, "Discarding stale refinement", "refinement", name)
			return
		}

		eventType, payload := apply(res)
		w.publish(ctx, eventType, payload)
	}()
}

// OrderParameters is a read model of the order parameters stage.
type OrderParameters struct {
	Execution      order.ExecutionParameters
	FloorReason    services.FloorReason
	Discount       order.Discount
	DiscountAmount decimal.Decimal
	Eligibility    services.Eligibility
	Payment        order.Payment
	PaymentError   error
	Info           order.AdditionalInfo
	Refinements    Refinements
}

func (w *Wizard) orderParameters() OrderParameters {
	p := w.params
	return OrderParameters{
		Execution:      w.execution(),
		FloorReason:    p.floor.Reason,
		Discount:       p.discount,
		DiscountAmount: p.discountAmount,
		Eligibility:    p.eligibility,
		Payment:        p.payment.Snapshot(),
		PaymentError:   p.payment.Err(),
		Info:           p.info,
		Refinements:    p.refined,
	}
}
