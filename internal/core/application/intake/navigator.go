package intake

import (
	"time"

	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/domain/validation"
)

// stageCheck reports whether the data of one stage is complete.
type stageCheck func() validation.Result

// Navigator drives the stage state machine of one session. It is the only writer of
// the session stage and substep; callers hold the wizard lock.
type Navigator struct {
	session *wzd.Session
	checks  map[wzd.Stage]stageCheck
}

func newNavigator(session *wzd.Session, checks map[wzd.Stage]stageCheck) *Navigator {
	return &Navigator{session: session, checks: checks}
}

func (n *Navigator) Stage() wzd.Stage {
	return n.session.Stage()
}

func (n *Navigator) Substep() wzd.Substep {
	return n.session.Substep()
}

// Check runs the completeness check of an editable stage.
func (n *Navigator) Check(stage wzd.Stage) validation.Result {
	check, ok := n.checks[stage]
	if !ok {
		return validation.Result{IsValid: false, Errors: []string{stage.String() + " has no completeness check"}}
	}
	return check()
}

func (n *Navigator) IsValid(stage wzd.Stage) bool {
	return n.Check(stage).IsValid
}

// CanAdvance reports whether the current stage is editable and complete.
func (n *Navigator) CanAdvance() bool {
	cur := n.session.Stage()
	return cur.IsEditable() && n.IsValid(cur)
}

// CanGoBack reports whether an earlier editable stage exists.
func (n *Navigator) CanGoBack() bool {
	cur := n.session.Stage()
	return cur.IsEditable() && cur != wzd.ClientAndBranch
}

// IsAvailable reports whether every stage before target is complete.
// Terminal stages are available only once reached.
func (n *Navigator) IsAvailable(target wzd.Stage) bool {
	if target.IsTerminal() {
		return n.session.Stage() == target
	}
	for _, s := range wzd.EditableStages() {
		if s >= target {
			break
		}
		if !n.IsValid(s) {
			return false
		}
	}
	return true
}

// prepareAdvance validates the current stage and snapshots the ticket the
// remote confirmation must still match.
func (n *Navigator) prepareAdvance() (wzd.Ticket, error) {
	cur := n.session.Stage()
	if !cur.IsEditable() {
		return wzd.Ticket{}, wrongStage("complete stage", cur)
	}
	if r := n.Check(cur); !r.IsValid {
		return wzd.Ticket{}, &StageIncompleteError{Stage: cur, Result: r}
	}
	return n.session.Ticket(), nil
}

// applyAdvance performs the transition once the remote side confirmed it.
func (n *Navigator) applyAdvance(t wzd.Ticket, now time.Time) error {
	if !n.session.Accepts(t, true) {
		return ErrStaleResponse
	}
	return n.session.Advance(now)
}

// GoBack re-enters an earlier editable stage. Entered data is kept.
func (n *Navigator) GoBack(target wzd.Stage, now time.Time) error {
	return n.session.GoBack(target, now)
}

func (n *Navigator) setSubstep(s wzd.Substep, now time.Time) error {
	return n.session.SetSubstep(s, now)
}

func (n *Navigator) reopen(now time.Time) error {
	return n.session.Reopen(now)
}

func (n *Navigator) fail(now time.Time) error {
	return n.session.Fail(now)
}
