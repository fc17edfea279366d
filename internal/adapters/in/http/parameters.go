package http

import (
	"time"

	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/domain/model/order"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) SetUrgency(ctx echo.Context) error {
	var req urgencyRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	u, err := order.ParseUrgency(req.UrgencyLevel)
	if err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.SetUrgency(u)
	})
}

func (s *Server) SetCompletionDate(ctx echo.Context) error {
	var req completionDateRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	var date time.Time
	if req.CompletionDate != nil {
		date = *req.CompletionDate
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.SetCompletionDate(date)
	})
}

// SetDiscount handles PUT /api/v1/wizard/sessions/:id/parameters/discount. A custom
// discount carries either customPercent or customAmount.
func (s *Server) SetDiscount(ctx echo.Context) error {
	var req discountRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	d, err := req.discount()
	if err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		_, err := w.SetDiscount(d)
		return err
	})
}

func (r discountRequest) discount() (order.Discount, error) {
	t, err := order.ParseDiscountType(r.DiscountType)
	if err != nil {
		return order.Discount{}, err
	}
	if t != order.DiscountCustom {
		return order.NewDiscount(t)
	}
	switch {
	case r.CustomPercent != nil && r.CustomAmount != nil:
		return order.Discount{}, errs.NewValueIsInvalidError("customAmount")
	case r.CustomPercent != nil:
		return order.NewCustomPercentDiscount(*r.CustomPercent)
	case r.CustomAmount != nil:
		return order.NewCustomAmountDiscount(*r.CustomAmount)
	}
	return order.NewDiscount(t)
}

func (s *Server) SetPaymentMethod(ctx echo.Context) error {
	var req paymentMethodRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.SetPaymentMethod(order.PaymentMethod(req.PaymentMethod))
	})
}

func (s *Server) SetPrepayment(ctx echo.Context) error {
	var req prepaymentRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		_, err := w.SetPrepayment(req.PrepaymentAmount)
		return err
	})
}

func (s *Server) SetAdditionalInfo(ctx echo.Context) error {
	var info order.AdditionalInfo
	return s.step(ctx, &info, func(w *intake.Wizard) (validation.Result, error) {
		return w.SetAdditionalInfo(info)
	})
}
