package queries

import (
	"errors"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/pkg/guard"
)

var (
	ErrGetActiveSessionsQueryIsNotConstructed = errors.New(
		"GetActiveSessionsQuery must be created via NewGetActiveSessionsQuery constructor",
	)
)

// GetActiveSessionsQuery lists wizard sessions that have not reached a terminal stage.
//
// Example:
//
//	query := NewGetActiveSessionsQuery()
//	handler := NewGetActiveSessionsQueryHandler(db)
//
//	sessions, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list sessions: %w", err)
//	}
type GetActiveSessionsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetActiveSessionsQuery() GetActiveSessionsQuery {
	return GetActiveSessionsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveSessionsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveSessionsQueryIsNotConstructed)
}

// GetActiveSessionsQueryResponse is one in-progress session.
type GetActiveSessionsQueryResponse struct {
	ID              kernel.UUID `json:"id"`
	Stage           string      `json:"stage"`
	Substep         string      `json:"substep"`
	CompletedStages []string    `json:"completedStages"`
	CreatedAt       time.Time   `json:"createdAt"`
	LastActivityAt  time.Time   `json:"lastActivityAt"`
}
