package intake

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/ports"
	"orderwizard/internal/pkg/errs"
)

// SessionManager creates, holds and expires the wizards of in-progress orders.
// Session metadata is persisted through the unit of work so the active-session
// listing and the expiry job survive restarts.
type SessionManager struct {
	mu      sync.RWMutex
	wizards map[kernel.UUID]*Wizard

	uowFactory ports.UnitOfWorkFactory
	deps       Deps
	idleTTL    time.Duration
	logger     *slog.Logger
}

// NewSessionManager builds a manager. deps are shared by every wizard it starts;
// deps.Store is replaced by the manager itself.
func NewSessionManager(uowFactory ports.UnitOfWorkFactory, deps Deps, idleTTL time.Duration) *SessionManager {
	if deps.Clock == nil {
		deps.Clock = kernel.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	m := &SessionManager{
		wizards:    make(map[kernel.UUID]*Wizard),
		uowFactory: uowFactory,
		idleTTL:    idleTTL,
		logger:     deps.Logger.With("component", "session_manager"),
	}
	deps.Store = m
	m.deps = deps
	return m
}

// Start opens a backend order session and a wizard bound to it.
func (m *SessionManager) Start(ctx context.Context) (*Wizard, error) {
	id, err := m.deps.Gateways.Sessions.Start(ctx)
	if err != nil {
		return nil, err
	}

	session, err := wzd.NewSession(id, m.deps.Clock.Now())
	if err != nil {
		return nil, err
	}
	if err = m.add(ctx, session); err != nil {
		if closeErr := m.deps.Gateways.Sessions.Close(ctx, id); closeErr != nil {
			m.logger.WarnContext(ctx, "Failed to close backend order session", "session_id", id.String(), "error", closeErr)
		}
		return nil, err
	}

	w, err := NewWizard(session, m.deps)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.wizards[id] = w
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Wizard session started", "session_id", id.String())
	return w, nil
}

// Get returns the wizard of a live session. Unknown, closed or idle sessions
// are reported as errs.FatalSessionError; an idle one is closed on the way.
func (m *SessionManager) Get(ctx context.Context, id kernel.UUID) (*Wizard, error) {
	m.mu.RLock()
	w, ok := m.wizards[id]
	m.mu.RUnlock()

	if !ok {
		return nil, errs.NewFatalSessionError(id.String(), "unknown session")
	}
	if w.IsClosed() {
		m.forget(ctx, id)
		return nil, errs.NewFatalSessionError(id.String(), "session is closed")
	}
	if w.Session().IsExpired(m.deps.Clock.Now(), m.idleTTL) {
		m.forget(ctx, id)
		return nil, errs.NewFatalSessionError(id.String(), "session expired")
	}
	return w, nil
}

// Lookup returns the in-memory session state of a running wizard.
func (m *SessionManager) Lookup(id kernel.UUID) (*wzd.Session, bool) {
	m.mu.RLock()
	w, ok := m.wizards[id]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return w.Session(), true
}

// Close shuts a wizard down and removes its persisted metadata.
func (m *SessionManager) Close(ctx context.Context, id kernel.UUID) error {
	m.mu.Lock()
	w, ok := m.wizards[id]
	delete(m.wizards, id)
	m.mu.Unlock()

	if ok {
		w.Close(ctx)
	}
	if err := m.delete(ctx, id); err != nil {
		return err
	}
	if ok {
		m.logger.InfoContext(ctx, "Wizard session closed", "session_id", id.String())
	}
	return nil
}

// ExpireIdle closes every in-memory wizard idle for at least the idle TTL and
// returns how many were closed.
func (m *SessionManager) ExpireIdle(ctx context.Context) int {
	now := m.deps.Clock.Now()

	m.mu.RLock()
	var idle []kernel.UUID
	for id, w := range m.wizards {
		if w.IsClosed() || w.Session().IsExpired(now, m.idleTTL) {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range idle {
		if err := m.Close(ctx, id); err != nil {
			m.logger.ErrorContext(ctx, "Failed to expire wizard session", "session_id", id.String(), "error", err)
		}
	}
	return len(idle)
}

// Active lists the sessions of running wizards, oldest first.
func (m *SessionManager) Active() []*wzd.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*wzd.Session, 0, len(m.wizards))
	for _, w := range m.wizards {
		if !w.IsClosed() {
			sessions = append(sessions, w.Session())
		}
	}
	slices.SortFunc(sessions, func(a, b *wzd.Session) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return sessions
}

// PurgeCaches drops expired reference-data entries of every wizard.
func (m *SessionManager) PurgeCaches() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	purged := 0
	for _, w := range m.wizards {
		purged += w.Catalog().Purge()
	}
	return purged
}

// Save implements SessionStore.
func (m *SessionManager) Save(ctx context.Context, session *wzd.Session) error {
	if m.uowFactory == nil {
		return nil
	}
	return m.inTx(ctx, func(repo ports.SessionRepository) error {
		return repo.Update(ctx, session)
	})
}

func (m *SessionManager) add(ctx context.Context, session *wzd.Session) error {
	if m.uowFactory == nil {
		return nil
	}
	return m.inTx(ctx, func(repo ports.SessionRepository) error {
		return repo.Add(ctx, session)
	})
}

func (m *SessionManager) delete(ctx context.Context, id kernel.UUID) error {
	if m.uowFactory == nil {
		return nil
	}
	return m.inTx(ctx, func(repo ports.SessionRepository) error {
		return repo.Delete(ctx, id)
	})
}

func (m *SessionManager) forget(ctx context.Context, id kernel.UUID) {
	if err := m.Close(ctx, id); err != nil {
		m.logger.WarnContext(ctx, "Failed to remove closed wizard session", "session_id", id.String(), "error", err)
	}
}

func (m *SessionManager) inTx(ctx context.Context, fn func(repo ports.SessionRepository) error) error {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := fn(uow.SessionRepository()); err != nil {
		return errors.Join(err, uow.Rollback(ctx))
	}
	return uow.Commit(ctx)
}
