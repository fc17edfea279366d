// Package branch models the reception point an order is taken at.
package branch

import (
	"errors"
	"strings"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/errs"
)

// ErrSelectionIsLocked is returned when the branch of a submitted order is changed.
var ErrSelectionIsLocked = errors.New("branch selection is locked after submission")

// Branch is a reception point as listed by the branch directory.
type Branch struct {
	ID      kernel.UUID `json:"id"`
	Code    string      `json:"code"`
	Name    string      `json:"name"`
	Address string      `json:"address"`
	Phone   string      `json:"phone"`
	Active  bool        `json:"active"`
}

// Selection is the chosen branch with the display fields copied for confirmation
// screens, plus the receipt number generated for it.
type Selection struct {
	branch        Branch
	receiptNumber string
	selected      bool
	locked        bool
}

// Select replaces the chosen branch. The receipt number belongs to the old branch and is dropped.
func (s *Selection) Select(b Branch) error {
	if s.locked {
		return ErrSelectionIsLocked
	}
	if err := b.ID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("branchId", err)
	}
	if !b.Active {
		return errs.NewValueIsInvalidErrorWithCause("branchId", errors.New("branch is not active"))
	}

	s.branch = b
	s.receiptNumber = ""
	s.selected = true
	return nil
}

// SetReceiptNumber stores the number generated for the selected branch.
func (s *Selection) SetReceiptNumber(number string) error {
	if s.locked {
		return ErrSelectionIsLocked
	}
	if !s.selected {
		return errs.NewValueIsRequiredError("branchId")
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("receiptNumber")
	}

	s.receiptNumber = number
	return nil
}

// Lock freezes the selection once the order is submitted.
func (s *Selection) Lock() {
	s.locked = true
}

func (s *Selection) Branch() (Branch, bool) {
	return s.branch, s.selected
}

func (s *Selection) ReceiptNumber() string {
	return s.receiptNumber
}

func (s *Selection) IsLocked() bool {
	return s.locked
}

// IsComplete reports whether a branch is chosen and its receipt number is known.
func (s *Selection) IsComplete() bool {
	return s.selected && s.receiptNumber != ""
}
