package order

import (
	"fmt"
	"time"

	"orderwizard/internal/pkg/errs"
)

// Urgency is the expedite level of an order.
//
// Urgent levels shorten the completion floor below the standard 48 hours or the
// 14 days required for leather, fur and suede.
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent48h Urgency = "urgent_48h"
	UrgencyUrgent24h Urgency = "urgent_24h"
)

func getUrgencyFloors() map[Urgency]time.Duration {
	return map[Urgency]time.Duration{
		UrgencyNormal:    0,
		UrgencyUrgent48h: 48 * time.Hour,
		UrgencyUrgent24h: 24 * time.Hour,
	}
}

// Validate checks that the urgency is one of the known levels.
func (u Urgency) Validate() error {
	if _, ok := getUrgencyFloors()[u]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("urgencyLevel", fmt.Errorf("%q is not a valid urgency", string(u)))
	}
	return nil
}

// IsUrgent reports whether the level overrides the category-based floor.
func (u Urgency) IsUrgent() bool {
	return u == UrgencyUrgent48h || u == UrgencyUrgent24h
}

// Floor returns the fixed floor of an urgent level. ok is false for UrgencyNormal,
// whose floor depends on the items.
func (u Urgency) Floor() (time.Duration, bool) {
	d := getUrgencyFloors()[u]
	return d, d > 0
}

// ParseUrgency converts a wire value into an Urgency. An empty value means normal.
func ParseUrgency(s string) (Urgency, error) {
	if s == "" {
		return UrgencyNormal, nil
	}
	u := Urgency(s)
	if err := u.Validate(); err != nil {
		return "", err
	}
	return u, nil
}

// ExecutionParameters holds the urgency and the completion date the client was promised.
// A zero CompletionDate means the computed floor is used.
type ExecutionParameters struct {
	Urgency        Urgency   `json:"urgencyLevel"`
	CompletionDate time.Time `json:"completionDate"`
	Floor          time.Time `json:"completionFloor"`
}

// EffectiveDate is the completion date, falling back to the floor.
func (p ExecutionParameters) EffectiveDate() time.Time {
	if p.CompletionDate.IsZero() {
		return p.Floor
	}
	return p.CompletionDate
}
