package http

import (
	"errors"
	"net/http"

	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx answer.
type Error struct {
	Code    int                `json:"code"`
	Message string             `json:"message"`
	Field   string             `json:"field,omitempty"`
	Result  *validation.Result `json:"result,omitempty"`
}

// statusOf maps the wizard's error classes to HTTP statuses.
func statusOf(err error) int {
	var incomplete *intake.StageIncompleteError
	switch {
	case errors.As(err, &incomplete), errs.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrFatalSession):
		return http.StatusGone
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, intake.ErrOperationInFlight),
		errors.Is(err, intake.ErrWrongStage),
		errors.Is(err, intake.ErrStaleResponse),
		errors.Is(err, intake.ErrNoOpenItem),
		errors.Is(err, intake.ErrItemAlreadyOpen):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(ctx echo.Context, err error) error {
	code := statusOf(err)
	body := Error{Code: code, Message: err.Error()}
	if code == http.StatusInternalServerError {
		ctx.Logger().Errorf("wizard request %s %s failed: %v", ctx.Request().Method, ctx.Path(), err)
		body.Message = "Internal error"
	}
	if field, ok := errs.FieldOf(err); ok {
		body.Field = field
	}
	var incomplete *intake.StageIncompleteError
	if errors.As(err, &incomplete) {
		body.Result = &incomplete.Result
	}
	return ctx.JSON(code, body)
}

// writeResult answers a step update: the validation result travels with the error
// when the data was rejected, with the snapshot otherwise.
func writeResult(ctx echo.Context, w *intake.Wizard, r validation.Result, err error) error {
	if err == nil {
		return ctx.JSON(http.StatusOK, stepResponse{Result: r, Snapshot: w.Snapshot()})
	}
	if !r.IsValid && errs.IsValidation(err) {
		code := http.StatusUnprocessableEntity
		body := Error{Code: code, Message: err.Error(), Result: &r}
		if field, ok := errs.FieldOf(err); ok {
			body.Field = field
		}
		return ctx.JSON(code, body)
	}
	return writeError(ctx, err)
}
