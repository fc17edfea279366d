// Package sessionrepo persists wizard session metadata. Only the stage position and
// activity timestamps are stored; the order draft itself lives with the running wizard.
package sessionrepo

import (
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/wizard"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SessionDTO is the row of the wizard_sessions table.
type SessionDTO struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Stage           string         `gorm:"type:varchar(32);not null;index"`
	Substep         string         `gorm:"type:varchar(32);not null"`
	Epoch           uint64         `gorm:"not null"`
	CompletedStages pq.StringArray `gorm:"type:text[]"`
	CreatedAt       time.Time      `gorm:"not null"`
	LastActivityAt  time.Time      `gorm:"not null;index"`
}

// TableName overrides GORM's default naming convention.
func (SessionDTO) TableName() string {
	return "wizard_sessions"
}

// TerminalStages are the stage values GetActive filters out.
func TerminalStages() []string {
	return []string{wizard.Completed.String(), wizard.Failed.String()}
}

func fromDomain(s *wizard.Session) SessionDTO {
	completed := s.CompletedStages()
	stages := make(pq.StringArray, 0, len(completed))
	for _, c := range completed {
		stages = append(stages, c.String())
	}

	return SessionDTO{
		ID:              s.ID().Bytes(),
		Stage:           s.Stage().String(),
		Substep:         s.Substep().String(),
		Epoch:           s.Epoch(),
		CompletedStages: stages,
		CreatedAt:       s.CreatedAt().UTC(),
		LastActivityAt:  s.LastActivityAt().UTC(),
	}
}

func toDomain(dto SessionDTO) (*wizard.Session, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	stage, err := wizard.ParseStage(dto.Stage)
	if err != nil {
		return nil, err
	}

	substep, err := wizard.ParseSubstep(dto.Substep)
	if err != nil {
		return nil, err
	}

	completed := make([]wizard.Stage, 0, len(dto.CompletedStages))
	for _, raw := range dto.CompletedStages {
		c, parseErr := wizard.ParseStage(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		completed = append(completed, c)
	}

	return wizard.RestoreSession(id, stage, substep, dto.Epoch, dto.CreatedAt, dto.LastActivityAt, completed)
}
