package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

// StandupRepository defines the archive of finished standups
type StandupRepository interface {
	// Create stores a finished standup
	Create(ctx context.Context, record *entities.StandupRecord) error

	// FindByID finds an archived standup
	FindByID(ctx context.Context, id uuid.UUID) (*entities.StandupRecord, error)

	// ListByTeam returns the latest standups of a team, newest first
	ListByTeam(ctx context.Context, teamID string, limit int) ([]*entities.StandupRecord, error)

	// UpdateArchiveKey records the object storage key of an export
	UpdateArchiveKey(ctx context.Context, id uuid.UUID, key string) error
}
