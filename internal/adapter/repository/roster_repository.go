package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/repositories"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/cache"
)

// rosterRepository keeps rosters as JSON under repositories.RosterKeyPrefix
type rosterRepository struct {
	store cache.Store
}

// NewRosterRepository creates a roster repository on a key-value store (Redis or memory)
func NewRosterRepository(store cache.Store) repositories.RosterRepository {
	return &rosterRepository{store: store}
}

func rosterKey(teamID string) string {
	return repositories.RosterKeyPrefix + teamID
}

// Load returns the roster of a team
func (r *rosterRepository) Load(ctx context.Context, teamID string) (*entities.Roster, error) {
	raw, ok, err := r.store.Get(ctx, rosterKey(teamID))
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	if !ok {
		return nil, entities.ErrRosterNotFound
	}

	var roster entities.Roster
	if err := json.Unmarshal([]byte(raw), &roster); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	roster.TeamID = teamID
	return &roster, nil
}

// Save replaces the roster of a team
func (r *rosterRepository) Save(ctx context.Context, roster *entities.Roster) error {
	data, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := r.store.Set(ctx, rosterKey(roster.TeamID), string(data), 0); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}
