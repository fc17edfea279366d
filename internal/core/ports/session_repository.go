// Package ports defines the contracts between the wizard core and the outside world:
// the session store and the remote collaborators the wizard talks to.
package ports

import (
	"context"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/wizard"
)

// SessionRepository defines the persistence contract for wizard sessions.
// Only session metadata is stored; the order draft lives with the wizard.
type SessionRepository interface {
	// Add persists a new session.
	Add(ctx context.Context, session *wizard.Session) error

	// Update persists the stage, substep, epoch and activity of an existing session.
	Update(ctx context.Context, session *wizard.Session) error

	// Get retrieves a session by id. Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*wizard.Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id kernel.UUID) error

	// GetActive returns sessions not in a terminal stage, oldest first.
	GetActive(ctx context.Context) ([]*wizard.Session, error)

	// GetIdleSince returns sessions of any stage whose last activity is before the instant.
	GetIdleSince(ctx context.Context, before time.Time) ([]*wizard.Session, error)
}
