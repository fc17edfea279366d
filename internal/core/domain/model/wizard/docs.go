// Package wizard provides the state machine of the order intake wizard.
//
// The package includes:
//   - Stage: the top-level phase of the wizard with its allowed transitions
//   - Substep: the phase inside item authoring
//   - Session: the aggregate holding the current stage, substep and stale-response epoch
//
// Key business rules:
//   - Stages advance one step at a time: ClientAndBranch -> Items -> OrderParameters -> Submitting -> Completed
//   - Failed is terminal and reachable only from Submitting
//   - Backward navigation moves between editable stages only and never clears entered data
//   - Submitting returns to OrderParameters only through Reopen, after a submission was not accepted
//   - Every stage or substep change bumps the session epoch so late remote responses can be discarded
package wizard
