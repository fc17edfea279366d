package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/order"
	"orderwizard/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

// Photo limits.
const (
	MaxPhotoSize = 5 << 20
)

var (
	allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/webp", "image/heic"}
	maxQuantity       = decimal.NewFromInt(9999)
)

// Client validates a client draft before it is sent to the directory.
func (e *Engine) Client(d client.Draft) Result {
	r := e.structResult(d.Normalized())

	if len(d.CommunicationChannels) == 0 {
		r.AddWarning("no communication channel selected, the client will not be notified")
	}
	if slices.Contains(d.CommunicationChannels, client.ChannelEmail) && strings.TrimSpace(d.Email) == "" {
		r.AddFieldError("email", "is required for the EMAIL channel")
	}
	return r
}

// BasicInfo validates the first item substep.
func (e *Engine) BasicInfo(b item.BasicInfo) Result {
	r := e.structResult(b)

	if b.CategoryID.IsZero() {
		r.AddFieldError("categoryId", "is required")
	}
	if b.PriceListItemID.IsZero() {
		r.AddFieldError("priceListItemId", "is required")
	}
	switch {
	case !b.Quantity.IsPositive():
		r.AddFieldError("quantity", "must be greater than 0")
	case b.Quantity.GreaterThan(maxQuantity):
		r.AddFieldError("quantity", "must be at most "+maxQuantity.String())
	case b.UnitOfMeasure == item.UnitPiece || b.UnitOfMeasure == item.UnitPair:
		if !b.Quantity.IsInteger() {
			r.AddFieldError("quantity", "must be a whole number for "+string(b.UnitOfMeasure))
		}
	}
	if b.UnitPrice.IsNegative() {
		r.AddFieldError("unitPrice", "must not be negative")
	}
	return r
}

// Characteristics validates the second item substep.
func (e *Engine) Characteristics(c item.Characteristics) Result {
	r := e.structResult(c)

	if c.FillerDamaged && strings.TrimSpace(c.Filler) == "" {
		r.AddFieldError("filler", "is required when the filler is damaged")
	}
	if c.WearPercentage >= 75 {
		r.AddWarning(fmt.Sprintf("wear is %d%%, the result of cleaning is not guaranteed", c.WearPercentage))
	}
	return r
}

// DefectsStains validates the third item substep.
func (e *Engine) DefectsStains(d item.DefectsStains) Result {
	r := e.structResult(d)

	if d.HasNoGuarantee {
		r.AddWarning("the item is accepted without guarantee")
	}
	return r
}

// Pricing validates the modifiers picked on the pricing substep.
func (e *Engine) Pricing(modifiers []item.Modifier) Result {
	r := newResult()

	seen := make(map[string]bool, len(modifiers))
	for i, m := range modifiers {
		r.Merge(prefixed(fmt.Sprintf("modifiers[%d]", i), e.structResult(m)))
		if seen[m.Code] {
			r.AddFieldError(fmt.Sprintf("modifiers[%d].code", i), "is used twice")
		}
		seen[m.Code] = true
		if m.Type == item.ModifierPercentage && m.Value.Abs().GreaterThan(decimal.NewFromInt(100)) {
			r.AddFieldError(fmt.Sprintf("modifiers[%d].value", i), "must be within ±100 percent")
		}
	}
	return r
}

// Photo checks the size and type of a photo before it is attached.
func (e *Engine) Photo(p item.Photo, alreadyAttached int) Result {
	r := newResult()

	if strings.TrimSpace(p.FileName) == "" {
		r.AddFieldError("fileName", "is required")
	}
	if p.Size <= 0 {
		r.AddFieldError("size", "file is empty")
	} else if p.Size > MaxPhotoSize {
		r.AddFieldError("size", "must be at most 5 MB")
	}
	if !slices.Contains(allowedPhotoTypes, strings.ToLower(p.ContentType)) {
		r.AddFieldError("contentType", "must be one of "+strings.Join(allowedPhotoTypes, ", "))
	}
	if alreadyAttached >= item.MaxPhotos {
		r.AddFieldError("photos", fmt.Sprintf("at most %d photos per item", item.MaxPhotos))
	}
	return r
}

// Discount reports an inapplicable discount as a field error and a partial one as a warning.
func (e *Engine) Discount(d order.Discount, eligibility services.Eligibility) Result {
	r := newResult()

	if err := d.Type().Validate(); err != nil {
		r.AddFieldError("discountType", "is not a valid discount type")
		return r
	}
	if !eligibility.CanApply {
		r.AddFieldError("discountType", eligibility.Reason)
	}
	if eligibility.HasWarning() {
		r.AddWarning(eligibility.Warning)
	}
	return r
}

// AdditionalInfo checks the free-text limits.
func (e *Engine) AdditionalInfo(a order.AdditionalInfo) Result {
	return e.structResult(a)
}

// OrderParameters is what the order parameters stage gates on.
type OrderParameters struct {
	Execution    order.ExecutionParameters
	Floor        services.Floor
	Now          time.Time
	Discount     order.Discount
	Eligibility  services.Eligibility
	Payment      order.Payment
	PaymentError error
	Info         order.AdditionalInfo
}

// OrderParameters validates the third stage as a whole.
func (e *Engine) OrderParameters(p OrderParameters) Result {
	r := newResult()

	if err := p.Execution.Urgency.Validate(); err != nil {
		r.AddFieldError("urgencyLevel", "is not a valid urgency level")
	}
	if !p.Execution.CompletionDate.IsZero() {
		err := services.NewCompletionDateCalculator().ValidateDate(p.Execution.CompletionDate, p.Floor, p.Now)
		if cause := services.CompletionDateCause(err); cause != nil {
			r.AddFieldError("completionDate", cause.Error())
		}
	}

	r.Merge(e.Discount(p.Discount, p.Eligibility))

	if err := p.Payment.Method.Validate(); err != nil {
		r.AddFieldError("paymentMethod", "is not a valid payment method")
	}
	if p.PaymentError != nil {
		r.AddFieldError("prepaymentAmount", "must be between 0 and the order total")
	}
	if p.Payment.PrepaymentAmount.IsZero() && p.Payment.TotalAmount.IsPositive() {
		r.AddWarning("no prepayment taken")
	}

	r.Merge(e.AdditionalInfo(p.Info))
	return r
}

func prefixed(prefix string, r Result) Result {
	out := newResult()
	for field, msgs := range r.FieldErrors {
		for _, msg := range msgs {
			out.AddFieldError(prefix+"."+field, msg)
		}
	}
	out.Warnings = r.Warnings
	return out
}
