package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

// ActivityChecker tells whether a team has a standup running
type ActivityChecker interface {
	IsActive(teamID string) bool
}

// MemberInput is one roster entry as submitted by an editor
type MemberInput struct {
	Name             string
	TimeLimitSeconds int
}

// Service edits team rosters. Rosters are frozen while a standup runs.
type Service struct {
	repo         repositories.RosterRepository
	active       ActivityChecker
	defaultLimit int
	logger       *zap.Logger
}

// NewService creates a roster service. active may be nil when no standups run in-process.
func NewService(repo repositories.RosterRepository, active ActivityChecker, defaultLimit int, logger *zap.Logger) *Service {
	if defaultLimit <= 0 {
		defaultLimit = entities.DefaultTimeLimitSeconds
	}
	return &Service{
		repo:         repo,
		active:       active,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Get returns a team roster
func (s *Service) Get(ctx context.Context, teamID string) (*entities.Roster, error) {
	r, err := s.repo.Load(ctx, teamID)
	if err != nil {
		if errors.Is(err, entities.ErrRosterNotFound) {
			return nil, usecaseErrors.ErrRosterNotFound
		}
		return nil, fmt.Errorf("%w: load: %v", usecaseErrors.ErrRosterStore, err)
	}
	return r, nil
}

// Put replaces a team roster. Members keep their identifier when their name
// was already on the roster.
func (s *Service) Put(ctx context.Context, teamID string, members []MemberInput) (*entities.Roster, error) {
	if s.active != nil && s.active.IsActive(teamID) {
		return nil, usecaseErrors.ErrRosterFrozen
	}

	known := make(map[string]entities.Member)
	if existing, err := s.repo.Load(ctx, teamID); err == nil {
		for _, m := range existing.Members {
			known[strings.ToLower(m.Name)] = m
		}
	} else if !errors.Is(err, entities.ErrRosterNotFound) {
		return nil, fmt.Errorf("%w: load: %v", usecaseErrors.ErrRosterStore, err)
	}

	r := &entities.Roster{
		TeamID:    teamID,
		Members:   make([]entities.Member, 0, len(members)),
		UpdatedAt: time.Now().UTC(),
	}
	for _, in := range members {
		limit := in.TimeLimitSeconds
		if limit == 0 {
			limit = s.defaultLimit
		}
		name := strings.TrimSpace(in.Name)
		m := entities.Member{Name: name, TimeLimitSeconds: limit}
		if prev, ok := known[strings.ToLower(name)]; ok {
			m.ID = prev.ID
		}
		r.Members = append(r.Members, m)
	}
	r.Normalize()

	if err := r.Validate(); err != nil {
		return nil, mapValidation(err)
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("%w: save: %v", usecaseErrors.ErrRosterStore, err)
	}

	if s.logger != nil {
		s.logger.Info("📋 Roster updated",
			zap.String("team_id", teamID),
			zap.Int("members", len(r.Members)),
		)
	}
	return r, nil
}

// Import stores rosters loaded from a seed file, skipping teams with a running standup.
// It returns how many rosters were saved.
func (s *Service) Import(ctx context.Context, rosters []entities.Roster) (int, error) {
	saved := 0
	for _, r := range rosters {
		inputs := make([]MemberInput, 0, len(r.Members))
		for _, m := range r.Members {
			inputs = append(inputs, MemberInput{Name: m.Name, TimeLimitSeconds: m.TimeLimitSeconds})
		}

		if _, err := s.Put(ctx, r.TeamID, inputs); err != nil {
			if errors.Is(err, usecaseErrors.ErrRosterFrozen) {
				if s.logger != nil {
					s.logger.Warn("⚠️ Skipping roster import for active team", zap.String("team_id", r.TeamID))
				}
				continue
			}
			return saved, fmt.Errorf("team %s: %w", r.TeamID, err)
		}
		saved++
	}
	return saved, nil
}

func mapValidation(err error) error {
	switch {
	case errors.Is(err, entities.ErrEmptyRoster):
		return usecaseErrors.ErrEmptyRoster
	case errors.Is(err, entities.ErrDuplicateName):
		return fmt.Errorf("%w: %v", usecaseErrors.ErrDuplicateMember, err)
	case errors.Is(err, entities.ErrInvalidTimeLimit):
		return fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidLimit, err)
	}
	return fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
}
