package wizard

import (
	"fmt"

	"orderwizard/internal/pkg/errs"
)

// Substep is the phase of the item sub-wizard. NoSubstep means no item is open.
type Substep int

const (
	NoSubstep Substep = iota
	BasicInfo
	Characteristics
	DefectsStains
	Pricing
	Photos
)

func getSubstepStrings() map[Substep]string {
	return map[Substep]string{
		NoSubstep:       "None",
		BasicInfo:       "BasicInfo",
		Characteristics: "Characteristics",
		DefectsStains:   "DefectsStains",
		Pricing:         "Pricing",
		Photos:          "Photos",
	}
}

func (s Substep) String() string {
	if str, ok := getSubstepStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

func (s Substep) Validate() error {
	if s < NoSubstep || s > Photos {
		return errs.NewValueIsInvalidErrorWithCause("substep", fmt.Errorf("%d is not a valid substep", s))
	}
	return nil
}

// ParseSubstep is the inverse of String.
func ParseSubstep(s string) (Substep, error) {
	for substep, str := range getSubstepStrings() {
		if str == s {
			return substep, nil
		}
	}
	return NoSubstep, errs.NewValueIsInvalidErrorWithCause("substep", fmt.Errorf("%q is not a valid substep", s))
}

// Next returns the following substep; Photos is the last one.
func (s Substep) Next() (Substep, error) {
	if s == NoSubstep || s >= Photos {
		return NoSubstep, errs.NewValueIsInvalidErrorWithCause("substep", fmt.Errorf("%s has no next substep", s))
	}
	return s + 1, nil
}

// Previous returns the preceding substep; BasicInfo is the first one.
func (s Substep) Previous() (Substep, error) {
	if s <= BasicInfo || s > Photos {
		return NoSubstep, errs.NewValueIsInvalidErrorWithCause("substep", fmt.Errorf("%s has no previous substep", s))
	}
	return s - 1, nil
}
