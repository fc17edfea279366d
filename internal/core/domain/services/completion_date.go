package services

import (
	"errors"
	"time"

	"orderwizard/internal/core/domain/model/item"
	"orderwizard/internal/core/domain/model/order"
	"orderwizard/internal/pkg/errs"
)

const (
	StandardProcessing = 48 * time.Hour
	LeatherProcessing  = 14 * 24 * time.Hour
)

// FloorReason tells which rule produced a completion floor.
type FloorReason string

const (
	FloorStandard  FloorReason = "standard_48h"
	FloorLeather   FloorReason = "leather_14d"
	FloorUrgent48h FloorReason = "urgent_48h"
	FloorUrgent24h FloorReason = "urgent_24h"
)

var (
	ErrCompletionDateNotInFuture = errors.New("completion date must be in the future")
	ErrLeatherMinimum            = errors.New("leather, fur and suede items need at least 14 days")
	ErrStandardMinimum           = errors.New("completion date must be at least 48 hours from now")
	ErrUrgentMinimum             = errors.New("urgent completion date must be at least 24 hours from now")
)

var urgentFloorReasons = map[order.Urgency]FloorReason{
	order.UrgencyUrgent48h: FloorUrgent48h,
	order.UrgencyUrgent24h: FloorUrgent24h,
}

// Floor is the earliest completion instant allowed for an order.
type Floor struct {
	At     time.Time
	Reason FloorReason
}

func (f Floor) violation() error {
	switch f.Reason {
	case FloorLeather:
		return ErrLeatherMinimum
	case FloorUrgent24h:
		return ErrUrgentMinimum
	default:
		return ErrStandardMinimum
	}
}

// CompletionDateCalculator computes completion floors.
//
// The floor is 48 hours from now, raised to 14 days when any item is leather, fur
// or suede. Urgent levels replace the category floor with their own duration, so an
// urgent leather order may be promised in 24 hours.
type CompletionDateCalculator struct{}

func NewCompletionDateCalculator() CompletionDateCalculator {
	return CompletionDateCalculator{}
}

// NeedsLongProcessing reports whether the item falls under the leather rule.
// Only the category code and name are considered.
func (CompletionDateCalculator) NeedsLongProcessing(d *item.Draft) bool {
	return matchesAny(d.CategoryText(), leatherKeywords)
}

// Floor returns the earliest completion instant for the items at the given urgency.
func (c CompletionDateCalculator) Floor(items []*item.Draft, urgency order.Urgency, now time.Time) Floor {
	if urgency.IsUrgent() {
		d, _ := urgency.Floor()
		return Floor{At: now.Add(d), Reason: urgentFloorReasons[urgency]}
	}

	for _, d := range items {
		if c.NeedsLongProcessing(d) {
			return Floor{At: now.Add(LeatherProcessing), Reason: FloorLeather}
		}
	}
	return Floor{At: now.Add(StandardProcessing), Reason: FloorStandard}
}

// ValidateDate rejects a requested date that is not strictly after now or precedes the floor.
// The cause of the returned error names the violated minimum.
func (CompletionDateCalculator) ValidateDate(requested time.Time, floor Floor, now time.Time) error {
	if !requested.After(now) {
		return errs.NewValueIsInvalidErrorWithCause("completionDate", ErrCompletionDateNotInFuture)
	}
	if requested.Before(floor.At) {
		return errs.NewValueIsInvalidErrorWithCause("completionDate", floor.violation())
	}
	return nil
}

// CompletionDateCause returns the rule a completion date error violated, or nil.
func CompletionDateCause(err error) error {
	var invalid *errs.ValueIsInvalidError
	if errors.As(err, &invalid) && invalid.ParamName == "completionDate" {
		return invalid.Cause
	}
	return nil
}
