package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"orderwizard/internal/core/application/refcache"
	"orderwizard/internal/core/domain/model/branch"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/kernel"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/domain/validation"
	"orderwizard/internal/core/ports"
	"orderwizard/internal/pkg/errs"
)

// SessionStore persists session metadata after every transition.
type SessionStore interface {
	Save(ctx context.Context, session *wzd.Session) error
}

// Deps are the collaborators of a Wizard.
type Deps struct {
	Gateways  ports.Gateways
	Validator *validation.Engine
	Events    ports.EventPublisher
	Store     SessionStore
	Clock     kernel.Clock
	Logger    *slog.Logger
	CacheTTLs refcache.TTLs
}

// Wizard is the orchestration engine of one in-progress order.
type Wizard struct {
	mu     sync.Mutex
	closed bool

	session   *wzd.Session
	navigator *Navigator
	inflight  inFlight

	clientSel client.Selection
	branchSel branch.Selection
	items     *ItemCoordinator
	params    *orderParams
	orderID   kernel.UUID

	// substep of the open item while the wizard is away from Items
	itemSubstep wzd.Substep

	gw        ports.Gateways
	catalog   *refcache.Catalog
	validator *validation.Engine
	events    ports.EventPublisher
	store     SessionStore
	clock     kernel.Clock
	logger    *slog.Logger

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bg       sync.WaitGroup
}

// NewWizard builds the wizard of a started session.
func NewWizard(session *wzd.Session, deps Deps) (*Wizard, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}
	if deps.Clock == nil {
		deps.Clock = kernel.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Events == nil {
		deps.Events = discardEvents{}
	}
	if deps.CacheTTLs == (refcache.TTLs{}) {
		deps.CacheTTLs = refcache.DefaultTTLs()
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	w := &Wizard{
		session:   session,
		gw:        deps.Gateways,
		catalog:   refcache.NewCatalog(deps.Gateways.PriceList, deps.Gateways.ReferenceData, deps.CacheTTLs, deps.Clock),
		validator: deps.Validator,
		events:    deps.Events,
		store:     deps.Store,
		clock:     deps.Clock,
		logger:    deps.Logger.With("component", "wizard", "session_id", session.ID().String()),
		bgCtx:     bgCtx,
		bgCancel:  cancel,
	}
	w.items = newItemCoordinator(deps.Clock, deps.Validator)
	w.params = newOrderParams()
	w.navigator = newNavigator(session, map[wzd.Stage]stageCheck{
		wzd.ClientAndBranch: w.checkClientAndBranch,
		wzd.Items:           w.items.Check,
		wzd.OrderParameters: w.checkOrderParameters,
	})
	w.recalculate()
	return w, nil
}

func (w *Wizard) ID() kernel.UUID {
	return w.session.ID()
}

// Catalog is the reference-data cache of this wizard.
func (w *Wizard) Catalog() *refcache.Catalog {
	return w.catalog
}

// lock takes the wizard lock and fails when the session is no longer usable.
func (w *Wizard) lock() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errs.NewFatalSessionError(w.session.ID().String(), "session is closed")
	}
	w.session.Touch(w.clock.Now())
	return nil
}

// CanAdvance, CanGoBack and IsAvailable expose the navigation gating.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && w.navigator.CanAdvance()
}

func (w *Wizard) CanGoBack() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && w.navigator.CanGoBack()
}

func (w *Wizard) IsAvailable(stage wzd.Stage) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && w.navigator.IsAvailable(stage)
}

// CompleteStage commits the current stage to the backend order session and
// moves to the next stage once the backend confirmed it.
func (w *Wizard) CompleteStage(ctx context.Context) error {
	done, err := w.inflight.begin(opCompleteStage)
	if err != nil {
		return err
	}
	defer done()

	if err = w.lock(); err != nil {
		return err
	}
	ticket, err := w.navigator.prepareAdvance()
	w.mu.Unlock()
	if err != nil {
		return err
	}

	if err = w.gw.Sessions.CompleteStage(ctx, ticket.SessionID, ticket.Stage); err != nil {
		return w.remoteFailure(ctx, "complete stage", err)
	}

	if err = w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()

	if err = w.navigator.applyAdvance(ticket, w.clock.Now()); err != nil {
		return err
	}
	w.afterTransition(ctx)
	return nil
}

// GoBack re-enters an earlier editable stage without clearing anything. It is
// refused while a submission is outstanding.
func (w *Wizard) GoBack(ctx context.Context, target wzd.Stage) error {
	if w.inflight.busy(opSubmit) {
		return fmt.Errorf("%w: %s", ErrOperationInFlight, opSubmit)
	}
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()

	leaving, substep := w.navigator.Stage(), w.navigator.Substep()
	if err := w.navigator.GoBack(target, w.clock.Now()); err != nil {
		return err
	}
	if leaving == wzd.Items && w.items.HasOpenDraft() {
		w.itemSubstep = substep
	}
	w.afterTransition(ctx)
	return nil
}

// Reset clears every entered value and the reference-data cache and returns to the first stage.
func (w *Wizard) Reset(ctx context.Context) error {
	if err := w.lock(); err != nil {
		return err
	}
	defer w.mu.Unlock()

	stage := w.navigator.Stage()
	if !stage.IsEditable() {
		return wrongStage("reset", stage)
	}
	if w.branchSel.IsLocked() {
		return branch.ErrSelectionIsLocked
	}

	w.clientSel.Clear()
	w.branchSel = branch.Selection{}
	w.items.Reset()
	w.itemSubstep = wzd.NoSubstep
	w.params = newOrderParams()
	w.catalog.InvalidateAll()
	w.recalculate()

	if stage != wzd.ClientAndBranch {
		if err := w.navigator.GoBack(wzd.ClientAndBranch, w.clock.Now()); err != nil {
			return err
		}
		w.afterTransition(ctx)
	}
	return nil
}

// Close cancels background work and marks the wizard unusable. The backend
// session is closed best-effort.
func (w *Wizard) Close(ctx context.Context) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.bgCancel()
	id := w.session.ID()
	w.mu.Unlock()

	w.bg.Wait()

	if err := w.gw.Sessions.Close(ctx, id); err != nil {
		w.logger.WarnContext(ctx, "Failed to close backend order session", "error", err)
	}
	w.publish(ctx, ports.EventSessionClosed, nil)
}

// IsClosed reports whether Close was called.
func (w *Wizard) IsClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Session returns a copy of the session metadata.
func (w *Wizard) Session() *wzd.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionCopy()
}

func (w *Wizard) sessionCopy() *wzd.Session {
	s := w.session
	cp, _ := wzd.RestoreSession(s.ID(), s.Stage(), s.Substep(), s.Epoch(), s.CreatedAt(), s.LastActivityAt(), s.CompletedStages())
	return cp
}

// afterTransition persists the session and announces the new stage. Callers hold the lock.
func (w *Wizard) afterTransition(ctx context.Context) {
	w.resumeItem(ctx)
	w.persist(ctx)
	w.publish(ctx, ports.EventStageChanged, map[string]string{
		"stage":   w.session.Stage().String(),
		"substep": w.session.Substep().String(),
	})
	if w.session.Stage() == wzd.OrderParameters {
		w.recalculate()
		w.refineAll()
	}
}

// resumeItem puts an item that was left open back on its substep when Items is
// entered again.
func (w *Wizard) resumeItem(ctx context.Context) {
	if w.session.Stage() != wzd.Items || w.session.Substep() != wzd.NoSubstep || !w.items.HasOpenDraft() {
		return
	}
	substep := w.itemSubstep
	if substep == wzd.NoSubstep {
		substep = wzd.BasicInfo
	}
	if err := w.navigator.setSubstep(substep, w.clock.Now()); err != nil {
		w.logger.WarnContext(ctx, "Failed to resume open item", "substep", substep.String(), "error", err)
		return
	}
	w.itemSubstep = wzd.NoSubstep
}

func (w *Wizard) persist(ctx context.Context) {
	if w.store == nil {
		return
	}
	if err := w.store.Save(ctx, w.sessionCopy()); err != nil {
		w.logger.ErrorContext(ctx, "Failed to persist wizard session", "error", err)
	}
}

func (w *Wizard) publish(ctx context.Context, t ports.EventType, payload any) {
	w.events.Publish(ctx, ports.Event{
		SessionID: w.session.ID(),
		Type:      t,
		Payload:   payload,
		At:        w.clock.Now(),
	})
}

// remoteFailure logs a failed remote call and closes the wizard when the backend
// no longer knows the session.
func (w *Wizard) remoteFailure(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrFatalSession):
		w.logger.ErrorContext(ctx, "Backend rejected the session", "operation", op, "error", err)
		w.mu.Lock()
		w.closed = true
		w.bgCancel()
		w.mu.Unlock()
	case errors.Is(err, errs.ErrRemoteUnavailable):
		w.logger.WarnContext(ctx, "Remote call failed", "operation", op, "error", err)
	}
	return err
}

func (w *Wizard) checkClientAndBranch() validation.Result {
	r := validation.Result{IsValid: true}
	if _, ok := w.clientSel.Existing(); !ok {
		if _, pending := w.clientSel.Draft(); pending {
			r.AddFieldError("client", "the new client has not been created yet")
		} else {
			r.AddFieldError("client", "select or create a client")
		}
	}
	if _, ok := w.branchSel.Branch(); !ok {
		r.AddFieldError("branchId", "select a branch")
	} else if !w.branchSel.IsComplete() {
		r.AddFieldError("receiptNumber", "receipt number has not been generated")
	}
	return r
}

type discardEvents struct{}

func (discardEvents) Publish(context.Context, ports.Event) {}
