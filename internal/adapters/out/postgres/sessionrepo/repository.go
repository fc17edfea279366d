package sessionrepo

import (
	"context"
	"errors"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSessionRepository implements SessionRepository using GORM.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GORM session repository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Add saves a new session to the database.
func (r *GormSessionRepository) Add(ctx context.Context, aggregate *wizard.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Update saves the position and activity of an existing session.
func (r *GormSessionRepository) Update(ctx context.Context, aggregate *wizard.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&SessionDTO{}).
		Where("id = ?", dto.ID).
		Select("stage", "substep", "epoch", "completed_stages", "last_activity_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("session", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a session by ID.
func (r *GormSessionRepository) Get(ctx context.Context, id kernel.UUID) (*wizard.Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SessionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes a session. A missing row is not an error.
func (r *GormSessionRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&SessionDTO{}, "id = ?", id.Bytes()).Error
}

// GetActive retrieves sessions outside the terminal stages, oldest first.
func (r *GormSessionRepository) GetActive(ctx context.Context) ([]*wizard.Session, error) {
	var dtos []SessionDTO
	err := r.db.WithContext(ctx).
		Where("stage NOT IN ?", TerminalStages()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// GetIdleSince retrieves sessions whose last activity is before the given instant.
func (r *GormSessionRepository) GetIdleSince(ctx context.Context, before time.Time) ([]*wizard.Session, error) {
	var dtos []SessionDTO
	err := r.db.WithContext(ctx).
		Where("last_activity_at < ?", before.UTC()).
		Order("last_activity_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func toDomainList(dtos []SessionDTO) ([]*wizard.Session, error) {
	sessions := make([]*wizard.Session, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
