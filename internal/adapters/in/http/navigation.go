package http

import (
	"net/http"

	"orderwizard/internal/core/application/intake"
	wzd "orderwizard/internal/core/domain/model/wizard"

	"github.com/labstack/echo/v4"
)

// CompleteStage handles POST /api/v1/wizard/sessions/:id/complete.
func (s *Server) CompleteStage(ctx echo.Context) error {
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.CompleteStage(ctx.Request().Context())
	})
}

// GoBack handles POST /api/v1/wizard/sessions/:id/back.
func (s *Server) GoBack(ctx echo.Context) error {
	var req goBackRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	stage, err := wzd.ParseStage(req.Stage)
	if err != nil {
		return writeError(ctx, err)
	}
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.GoBack(ctx.Request().Context(), stage)
	})
}

func (s *Server) Reset(ctx echo.Context) error {
	return s.withWizard(ctx, func(w *intake.Wizard) error {
		return w.Reset(ctx.Request().Context())
	})
}

// Submit handles POST /api/v1/wizard/sessions/:id/submit.
func (s *Server) Submit(ctx echo.Context) error {
	var req submitRequest
	if err := bind(ctx, &req); err != nil {
		return writeError(ctx, err)
	}
	w, err := s.wizard(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := w.Submit(ctx.Request().Context(), intake.SubmitRequest{
		UniqueLabel:   req.UniqueLabel,
		Signature:     req.Signature,
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, submitResponse{OrderID: orderID, Snapshot: w.Snapshot()})
}
