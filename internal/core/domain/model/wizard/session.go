package wizard

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/errs"
)

var (
	// ErrSessionIsNotConstructed is returned for a Session not built by NewSession or RestoreSession.
	ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")

	// ErrSubstepOutsideItems is returned when a substep is set while the wizard is not on the Items stage.
	ErrSubstepOutsideItems = errors.New("substeps exist only on the Items stage")
)

// Session is the wizard session aggregate. It is the only holder of the current stage and
// substep; the stage navigator is its single writer.
//
// Session follows these invariants:
//   - id is a valid UUID
//   - stage is a valid Stage, substep is NoSubstep outside Items
//   - epoch strictly increases on every stage or substep change
//   - completed stages are those whose completion was confirmed
type Session struct {
	id             kernel.UUID
	stage          Stage
	substep        Substep
	epoch          uint64
	createdAt      time.Time
	lastActivityAt time.Time
	completed      []Stage

	isConstructed bool
}

// Ticket captures the session identity at the moment a background call was issued.
// A response is applied only when the ticket still matches the session.
type Ticket struct {
	SessionID kernel.UUID
	Epoch     uint64
	Stage     Stage
}

// NewSession starts a session on the ClientAndBranch stage.
func NewSession(id kernel.UUID, now time.Time) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}

	return &Session{
		id:             id,
		stage:          ClientAndBranch,
		substep:        NoSubstep,
		epoch:          1,
		createdAt:      now,
		lastActivityAt: now,
		isConstructed:  true,
	}, nil
}

// RestoreSession rebuilds a persisted session.
func RestoreSession(
	id kernel.UUID,
	stage Stage,
	substep Substep,
	epoch uint64,
	createdAt, lastActivityAt time.Time,
	completed []Stage,
) (*Session, error) {
	s := &Session{
		id:             id,
		epoch:          epoch,
		createdAt:      createdAt,
		lastActivityAt: lastActivityAt,
		isConstructed:  true,
	}

	if err := errors.Join(
		id.Validate(),
		stage.Validate(),
		substep.Validate(),
	); err != nil {
		return nil, err
	}
	if substep != NoSubstep && stage != Items {
		return nil, ErrSubstepOutsideItems
	}
	for _, c := range completed {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	s.stage = stage
	s.substep = substep
	s.completed = slices.Clone(completed)
	return s, nil
}

func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

func (s *Session) ID() kernel.UUID {
	return s.id
}

func (s *Session) Stage() Stage {
	return s.stage
}

func (s *Session) Substep() Substep {
	return s.substep
}

// Epoch changes every time the stage or substep changes.
func (s *Session) Epoch() uint64 {
	return s.epoch
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) LastActivityAt() time.Time {
	return s.lastActivityAt
}

// CompletedStages returns the confirmed stages in completion order.
func (s *Session) CompletedStages() []Stage {
	return slices.Clone(s.completed)
}

func (s *Session) IsStageCompleted(stage Stage) bool {
	return slices.Contains(s.completed, stage)
}

// Advance moves to the next stage and records the current one as completed.
func (s *Session) Advance(now time.Time) error {
	next, err := s.stage.Next()
	if err != nil {
		return err
	}

	if s.stage.IsEditable() && !s.IsStageCompleted(s.stage) {
		s.completed = append(s.completed, s.stage)
	}
	s.moveTo(next, now)
	return nil
}

// GoBack re-enters an earlier stage without touching any entered data.
func (s *Session) GoBack(target Stage, now time.Time) error {
	next, err := s.stage.BackTo(target)
	if err != nil {
		return err
	}

	s.moveTo(next, now)
	return nil
}

// Reopen moves a submitting session back to OrderParameters after a rejected
// or undelivered submission.
func (s *Session) Reopen(now time.Time) error {
	next, err := s.stage.Reopen()
	if err != nil {
		return err
	}

	s.moveTo(next, now)
	return nil
}

// Fail moves a submitting session to the terminal Failed stage.
func (s *Session) Fail(now time.Time) error {
	next, err := s.stage.Fail()
	if err != nil {
		return err
	}

	s.moveTo(next, now)
	return nil
}

// SetSubstep changes the item substep. Only valid on the Items stage.
func (s *Session) SetSubstep(substep Substep, now time.Time) error {
	if err := substep.Validate(); err != nil {
		return err
	}
	if s.stage != Items {
		return fmt.Errorf("%w: current stage is %s", ErrSubstepOutsideItems, s.stage)
	}
	if s.substep == substep {
		s.lastActivityAt = now
		return nil
	}

	s.substep = substep
	s.epoch++
	s.lastActivityAt = now
	return nil
}

// Touch records user activity without changing state.
func (s *Session) Touch(now time.Time) {
	if now.After(s.lastActivityAt) {
		s.lastActivityAt = now
	}
}

// IsExpired reports whether the session has been idle for at least ttl.
func (s *Session) IsExpired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.lastActivityAt) >= ttl
}

// Ticket snapshots the identity used by the stale-response guard.
func (s *Session) Ticket() Ticket {
	return Ticket{SessionID: s.id, Epoch: s.epoch, Stage: s.stage}
}

// Accepts reports whether a response issued under t may still be applied.
// Stage-scoped responses only need the same session and stage; epoch-scoped ones need the exact epoch.
func (s *Session) Accepts(t Ticket, exactEpoch bool) bool {
	if !s.id.IsEqual(t.SessionID) || s.stage != t.Stage {
		return false
	}
	return !exactEpoch || s.epoch == t.Epoch
}

func (s *Session) moveTo(stage Stage, now time.Time) {
	if stage != Items {
		s.substep = NoSubstep
	}
	s.stage = stage
	s.epoch++
	s.lastActivityAt = now
}
