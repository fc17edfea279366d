package intake

import (
	"context"
	"fmt"

	"orderwizard/internal/core/domain/model/branch"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/kernel"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/pkg/errs"
)

// SearchClients queries the client directory. Nothing is cached.
func (w *Wizard) SearchClients(ctx context.Context, term string, page, size int) ([]client.Summary, error) {
	if err := w.requireStage("search clients", wzd.ClientAndBranch); err != nil {
		return nil, err
	}
	res, err := w.gw.Clients.Search(ctx, term, page, size)
	if err != nil {
		return nil, w.remoteFailure(ctx, "search clients", err)
	}
	return res, nil
}

// SelectClient picks an existing client and registers it with the backend session.
func (w *Wizard) SelectClient(ctx context.Context, clientID kernel.UUID) error {
	done, err := w.inflight.begin(opSelectClient)
	if err != nil {
		return err
	}
	defer done()

	ticket, err := w.stageTicket("select client", wzd.ClientAndBranch)
	if err != nil {
		return err
	}

	summary, err := w.gw.Clients.GetByID(ctx, clientID)
	if err != nil {
		return w.remoteFailure(ctx, "get client", err)
	}
	if err = w.gw.Sessions.SelectClient(ctx, ticket.SessionID, summary.ID); err != nil {
		return w.remoteFailure(ctx, "select client", err)
	}

	return w.applyIn(ticket, func() error {
		w.clientSel.SelectExisting(summary)
		return nil
	})
}

// SetClientDraft stores a client to be created. A valid draft replaces any
// selected client; an invalid one leaves the selection untouched.
func (w *Wizard) SetClientDraft(draft client.Draft) (validation.Result, error) {
	if err := w.lock(); err != nil {
		return validation.Result{}, err
	}
	defer w.mu.Unlock()

	if stage := w.navigator.Stage(); stage != wzd.ClientAndBranch {
		return validation.Result{}, wrongStage("set client draft", stage)
	}

	draft = draft.Normalized()
	r := w.validator.Client(draft)
	if !r.IsValid {
		return r, r.Err()
	}
	w.clientSel.StartDraft(draft)
	return r, nil
}

// CreateClient creates the pending client draft in the directory and selects it.
// A second call while the first is outstanding fails instead of creating a duplicate.
func (w *Wizard) CreateClient(ctx context.Context) (client.Summary, error) {
	done, err := w.inflight.begin(opCreateClient)
	if err != nil {
		return client.Summary{}, err
	}
	defer done()

	if err = w.lock(); err != nil {
		return client.Summary{}, err
	}
	stage := w.navigator.Stage()
	draft, ok := w.clientSel.Draft()
	ticket := w.session.Ticket()
	w.mu.Unlock()

	if stage != wzd.ClientAndBranch {
		return client.Summary{}, wrongStage("create client", stage)
	}
	if !ok {
		return client.Summary{}, errs.NewValueIsRequiredError("client")
	}
	if r := w.validator.Client(draft); !r.IsValid {
		return client.Summary{}, r.Err()
	}

	created, err := w.gw.Clients.Create(ctx, draft)
	if err != nil {
		return client.Summary{}, w.remoteFailure(ctx, "create client", err)
	}
	if err = w.gw.Sessions.SelectClient(ctx, ticket.SessionID, created.ID); err != nil {
		return created, w.remoteFailure(ctx, "select client", err)
	}

	return created, w.applyIn(ticket, func() error {
		w.clientSel.SelectExisting(created)
		return nil
	})
}

// ListBranches returns the branches the backend session may use.
func (w *Wizard) ListBranches(ctx context.Context) ([]branch.Branch, error) {
	res, err := w.gw.Branches.ListForSession(ctx, w.ID())
	if err != nil {
		return nil, w.remoteFailure(ctx, "list branches", err)
	}
	return res, nil
}

// SelectBranch chooses a branch and generates the receipt number for it.
func (w *Wizard) SelectBranch(ctx context.Context, branchID kernel.UUID) error {
	done, err := w.inflight.begin(opSelectBranch)
	if err != nil {
		return err
	}
	defer done()

	ticket, err := w.stageTicket("select branch", wzd.ClientAndBranch)
	if err != nil {
		return err
	}

	branches, err := w.gw.Branches.ListForSession(ctx, ticket.SessionID)
	if err != nil {
		return w.remoteFailure(ctx, "list branches", err)
	}
	var chosen *branch.Branch
	for i := range branches {
		if branches[i].ID.IsEqual(branchID) {
			chosen = &branches[i]
			break
		}
	}
	if chosen == nil {
		return errs.NewObjectNotFoundError("branchId", branchID.String())
	}
	if !chosen.Active {
		return errs.NewValueIsInvalidErrorWithCause("branchId", fmt.Errorf("branch %s is not active", chosen.Code))
	}

	if err = w.gw.Branches.Select(ctx, ticket.SessionID, chosen.ID); err != nil {
		return w.remoteFailure(ctx, "select branch", err)
	}
	receipt, err := w.gw.Branches.GenerateReceiptNumber(ctx, ticket.SessionID, chosen.Code)
	if err != nil {
		return w.remoteFailure(ctx, "generate receipt number", err)
	}

	return w.applyIn(ticket, func() error {
		if err := w.branchSel.Select(*chosen); err != nil {
			return err
		}
		return w.branchSel.SetReceiptNumber(receipt)
	})
}

// requireStage checks the current stage without holding the lock afterwards.
func (w *Wizard) requireStage(op string, stage wzd.Stage) error {
	_, err := w.stageTicket(op, stage)
	return err
}

// stageTicket snapshots the ticket of the current stage, which must be stage.
func (w *Wizard) stageTicket(op string, stage wzd.Stage) (wzd.Ticket, error) {
	if err := w.lock(); err != nil {
		return wzd.Ticket{}, err
	}
	defer w.mu.Unlock()

	if cur := w.navigator.Stage(); cur != stage {
		return wzd.Ticket{}, wrongStage(op, cur)
	}
	return w.session.Ticket(), nil
}

// applyIn runs fn under the lock if the session is still on the ticket's stage.
func (w *Wizard) applyIn(t wzd.Ticket, fn func() error) error {
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()

	if !w.session.Accepts(t, false) {
		w.logger.Debug("Discarding response for a stage the wizard left", "stage", t.Stage.String())
		return ErrStaleResponse
	}
	return fn()
}
