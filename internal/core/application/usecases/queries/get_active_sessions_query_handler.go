package queries

import (
	"context"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/wizard"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetActiveSessionsQueryHandler reads in-progress sessions straight from the database.
type GetActiveSessionsQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveSessionsQueryHandler(db *gorm.DB) GetActiveSessionsQueryHandler {
	return GetActiveSessionsQueryHandler{db: db}
}

// Handle returns sessions outside Completed and Failed, oldest first.
func (h GetActiveSessionsQueryHandler) Handle(
	ctx context.Context,
	query GetActiveSessionsQuery,
) ([]GetActiveSessionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sessions := make([]GetActiveSessionsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			stage,
			substep,
			completed_stages,
			created_at,
			last_activity_at
		FROM wizard_sessions
		WHERE stage NOT IN (?, ?)
		ORDER BY created_at, id
	`, wizard.Completed.String(), wizard.Failed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp           GetActiveSessionsQueryResponse
			id             uuid.UUID
			completed      pq.StringArray
			createdAt      time.Time
			lastActivityAt time.Time
		)

		err = rows.Scan(
			&id,
			&resp.Stage,
			&resp.Substep,
			&completed,
			&createdAt,
			&lastActivityAt,
		)
		if err != nil {
			return nil, err
		}

		sessionID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = sessionID
		resp.CompletedStages = []string(completed)
		resp.CreatedAt = createdAt.UTC()
		resp.LastActivityAt = lastActivityAt.UTC()

		sessions = append(sessions, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
