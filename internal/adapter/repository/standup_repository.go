package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/repositories"
)

// standupRepository implements the standup archive using GORM
type standupRepository struct {
	db *gorm.DB
}

// NewStandupRepository creates a new standup repository
func NewStandupRepository(db *gorm.DB) repositories.StandupRepository {
	return &standupRepository{db: db}
}

// Create stores a finished standup. Storing the same standup again overwrites it.
func (r *standupRepository) Create(ctx context.Context, record *entities.StandupRecord) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create standup record: %w", err)
	}
	return nil
}

// FindByID finds an archived standup
func (r *standupRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.StandupRecord, error) {
	var record entities.StandupRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrStandupNotFound
		}
		return nil, fmt.Errorf("failed to find standup record: %w", err)
	}
	return &record, nil
}

// ListByTeam returns the latest standups of a team
func (r *standupRepository) ListByTeam(ctx context.Context, teamID string, limit int) ([]*entities.StandupRecord, error) {
	var records []*entities.StandupRecord
	err := r.db.WithContext(ctx).
		Omit("export", "report").
		Where("team_id = ?", teamID).
		Order("finished_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list standup records: %w", err)
	}
	return records, nil
}

// UpdateArchiveKey records where the export was uploaded
func (r *standupRepository) UpdateArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.StandupRecord{}).
		Where("id = ?", id).
		Update("archive_key", key)
	if result.Error != nil {
		return fmt.Errorf("failed to update archive key: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrStandupNotFound
	}
	return nil
}
