package commands

import (
	"errors"
	"time"

	"orderwizard/internal/pkg/errs"
	"orderwizard/internal/pkg/guard"
)

// ExpireSessionsCommand removes wizard sessions idle for at least idleTTL.
//
// Example:
//
//	cmd, err := NewExpireSessionsCommand(30*time.Minute, time.Now())
//	if err != nil {
//	    return err
//	}
//	expired, err := handler.Handle(ctx, cmd)
type ExpireSessionsCommand struct {
	idleTTL time.Duration
	now     time.Time

	guard guard.ConstructorGuard
}

var (
	ErrExpireSessionsCommandIsNotConstructed = errors.New(
		"ExpireSessionsCommand must be created via NewExpireSessionsCommand constructor",
	)
)

func NewExpireSessionsCommand(idleTTL time.Duration, now time.Time) (ExpireSessionsCommand, error) {
	if idleTTL <= 0 {
		return ExpireSessionsCommand{}, errs.NewValueIsInvalidErrorWithCause("idleTTL", errors.New("must be positive"))
	}
	if now.IsZero() {
		return ExpireSessionsCommand{}, errs.NewValueIsRequiredError("now")
	}

	return ExpireSessionsCommand{
		idleTTL: idleTTL,
		now:     now,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireSessionsCommand) Validate() error {
	return c.guard.Validate(ErrExpireSessionsCommandIsNotConstructed)
}

func (c ExpireSessionsCommand) IdleTTL() time.Duration {
	return c.idleTTL
}

func (c ExpireSessionsCommand) Now() time.Time {
	return c.now
}

// Cutoff is the last-activity instant before which a session counts as idle.
func (c ExpireSessionsCommand) Cutoff() time.Time {
	return c.now.Add(-c.idleTTL)
}
