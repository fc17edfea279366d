package commands

import (
	"context"
)

// ExpireSessionsCommandHandler removes idle sessions from the store and shuts down
// the wizards still running for them.
//
// A stored row can lag behind its wizard, because activity inside a stage is not
// persisted. Candidates whose running wizard is still active get their row
// refreshed instead of being expired.
type ExpireSessionsCommandHandler struct {
	uowFactory SessionUoWFactory
	live       LiveSessions
}

func NewExpireSessionsCommandHandler(uowFactory SessionUoWFactory, live LiveSessions) ExpireSessionsCommandHandler {
	return ExpireSessionsCommandHandler{
		uowFactory: uowFactory,
		live:       live,
	}
}

// Handle returns the number of expired sessions. All repository changes occur
// within a single transaction.
func (h *ExpireSessionsCommandHandler) Handle(ctx context.Context, cmd ExpireSessionsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SessionRepository()

	idle, err := repo.GetIdleSince(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, stored := range idle {
		if h.live != nil {
			if session, ok := h.live.Lookup(stored.ID()); ok {
				if !session.IsExpired(cmd.Now(), cmd.IdleTTL()) {
					if err = repo.Update(ctx, session); err != nil {
						return 0, err
					}
					continue
				}
				if err = h.live.Close(ctx, stored.ID()); err != nil {
					return 0, err
				}
			}
		}

		if err = repo.Delete(ctx, stored.ID()); err != nil {
			return 0, err
		}
		expired++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return expired, nil
}
