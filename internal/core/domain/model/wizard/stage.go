package wizard

import (
	"fmt"

	"orderwizard/internal/pkg/errs"
)

// Stage represents the top-level phase of the order wizard.
//
// State transitions:
//
//	ClientAndBranch ──> Items ──> OrderParameters ──> Submitting ──┬──> Completed
//	       ^              │  ^            │               │        │
//	       └──────────────┘  └────────────┘<──────────────┘        └──> Failed
//	          (back)            (back)       (transport failure)
//
// Completed and Failed are terminal.
type Stage int

const (
	// StageUnknown catches uninitialized values.
	StageUnknown Stage = iota

	// ClientAndBranch is stage 1: the client is found or created and a branch is chosen.
	ClientAndBranch

	// Items is stage 2: order items are authored through the item sub-wizard.
	Items

	// OrderParameters is stage 3: urgency, completion date, discount and payment.
	OrderParameters

	// Submitting is entered when the order is handed to the order submission service.
	Submitting

	// Completed means the backend accepted the order.
	Completed

	// Failed means submission was rejected for a non-retryable reason.
	Failed
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:    "Unknown",
		ClientAndBranch: "ClientAndBranch",
		Items:           "Items",
		OrderParameters: "OrderParameters",
		Submitting:      "Submitting",
		Completed:       "Completed",
		Failed:          "Failed",
	}
}

// Validate rejects StageUnknown and values outside the enum.
func (s Stage) Validate() error {
	if s <= StageUnknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ParseStage is the inverse of String for valid stages.
func ParseStage(s string) (Stage, error) {
	for stage, str := range getStageStrings() {
		if str == s && stage != StageUnknown {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a valid stage", s))
}

// IsTerminal reports whether no transition leaves s.
func (s Stage) IsTerminal() bool {
	return s == Completed || s == Failed
}

// IsEditable reports whether the user authors data in s.
func (s Stage) IsEditable() bool {
	return s == ClientAndBranch || s == Items || s == OrderParameters
}

// Next returns the stage that completing s leads to.
//
// Valid transitions:
//   - ClientAndBranch -> Items
//   - Items -> OrderParameters
//   - OrderParameters -> Submitting
//   - Submitting -> Completed
func (s Stage) Next() (Stage, error) {
	switch s {
	case ClientAndBranch:
		return Items, nil
	case Items:
		return OrderParameters, nil
	case OrderParameters:
		return Submitting, nil
	case Submitting:
		return Completed, nil
	default:
		return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("%s has no next stage", s),
		)
	}
}

// BackTo validates a backward move from s to target.
//
// Backward moves are allowed only between editable stages. Leaving Submitting
// goes through Reopen or Fail.
func (s Stage) BackTo(target Stage) (Stage, error) {
	if !target.IsEditable() {
		return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("%s is not a valid target to go back to", target),
		)
	}

	if !s.IsEditable() || target >= s {
		return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("cannot go back from %s to %s", s, target),
		)
	}

	return target, nil
}

// Reopen returns a submission that was not accepted to OrderParameters.
func (s Stage) Reopen() (Stage, error) {
	if s != Submitting {
		return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("cannot reopen %s", s),
		)
	}
	return OrderParameters, nil
}

// Fail moves Submitting to Failed.
func (s Stage) Fail() (Stage, error) {
	if s != Submitting {
		return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("%s is not a valid stage to fail", s),
		)
	}
	return Failed, nil
}

// EditableStages lists the stages in display order.
func EditableStages() []Stage {
	return []Stage{ClientAndBranch, Items, OrderParameters}
}
