package repositories

import (
	"context"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

// RosterKeyPrefix is the fixed storage key prefix for team rosters
const RosterKeyPrefix = "standup:roster:"

// RosterRepository defines load/save of team rosters
type RosterRepository interface {
	// Load returns the roster of a team or entities.ErrRosterNotFound
	Load(ctx context.Context, teamID string) (*entities.Roster, error)

	// Save replaces the roster of a team
	Save(ctx context.Context, roster *entities.Roster) error
}
