// Package commands contains the background operations that modify persisted wizard state.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// SessionRepoFactory provides access to the session repository within a transaction.
	SessionRepoFactory interface {
		SessionRepository() ports.SessionRepository
	}

	// SessionUoW manages transactions for session operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.SessionRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	SessionUoW interface {
		TxManager
		SessionRepoFactory
	}

	// SessionUoWFactory creates new session unit of work instances.
	SessionUoWFactory interface {
		Create() SessionUoW
	}

	// LiveSessions exposes the wizards running in this process.
	LiveSessions interface {
		// Lookup returns the in-memory state of a running session.
		Lookup(id kernel.UUID) (*wizard.Session, bool)

		// Close shuts the wizard of a session down.
		Close(ctx context.Context, id kernel.UUID) error
	}
)
