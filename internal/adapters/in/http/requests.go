package http

import (
	"reflect"
	"strings"
	"time"

	"orderwizard/internal/core/application/intake"
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// RequestValidator checks request bodies against their validate tags.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator. The first failing field is reported.
func (r *RequestValidator) Validate(i any) error {
	err := r.v.Struct(i)
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		return errs.NewValueIsInvalidErrorWithCause(ve[0].Field(), err)
	}
	return errs.NewValueIsInvalidErrorWithCause("request", err)
}

// bind decodes and validates a request body.
func bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request", err)
	}
	if ctx.Echo().Validator == nil {
		return nil
	}
	return ctx.Validate(req)
}

type stepResponse struct {
	Result   validation.Result `json:"result"`
	Snapshot intake.Snapshot   `json:"snapshot"`
}

type goBackRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type selectClientRequest struct {
	ClientID kernel.UUID `json:"clientId"`
}

type selectBranchRequest struct {
	BranchID kernel.UUID `json:"branchId"`
}

type pricingRequest struct {
	Modifiers []item.Modifier `json:"modifiers" validate:"max=20"`
}

type photoRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	Size        int64  `json:"size" validate:"gt=0"`
}

type photoUploadedRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type urgencyRequest struct {
	UrgencyLevel string `json:"urgencyLevel" validate:"required"`
}

type completionDateRequest struct {
	// A null or absent date clears the requested date.
	CompletionDate *time.Time `json:"completionDate"`
}

type discountRequest struct {
	DiscountType  string           `json:"discountType"`
	CustomPercent *decimal.Decimal `json:"customPercent"`
	CustomAmount  *decimal.Decimal `json:"customAmount"`
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

type prepaymentRequest struct {
	PrepaymentAmount decimal.Decimal `json:"prepaymentAmount"`
}

type submitRequest struct {
	UniqueLabel   string `json:"uniqueLabel" validate:"max=50"`
	Signature     string `json:"signature"`
	TermsAccepted bool   `json:"termsAccepted"`
}

type createdItemResponse struct {
	ItemID   kernel.UUID     `json:"itemId"`
	Snapshot intake.Snapshot `json:"snapshot"`
}

type submitResponse struct {
	OrderID  kernel.UUID     `json:"orderId"`
	Snapshot intake.Snapshot `json:"snapshot"`
}
