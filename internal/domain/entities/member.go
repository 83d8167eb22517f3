package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeLimitSeconds applies when a roster entry has no limit
const DefaultTimeLimitSeconds = 90

// Member is one standup participant
type Member struct {
	ID               uuid.UUID `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	TimeLimitSeconds int       `json:"time_limit_seconds" yaml:"time_limit_seconds"`
}

// NewMember creates a member with a fresh identifier
func NewMember(name string, timeLimitSeconds int) Member {
	if timeLimitSeconds <= 0 {
		timeLimitSeconds = DefaultTimeLimitSeconds
	}
	return Member{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(name),
		TimeLimitSeconds: timeLimitSeconds,
	}
}

// TimeLimit returns the hard speaking limit as a duration
func (m Member) TimeLimit() time.Duration {
	return time.Duration(m.TimeLimitSeconds) * time.Second
}

// Roster is the ordered member list of a team
type Roster struct {
	TeamID    string    `json:"team_id" yaml:"team"`
	Members   []Member  `json:"members" yaml:"members"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Validate checks names, limits and uniqueness
func (r Roster) Validate() error {
	if len(r.Members) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[string]struct{}, len(r.Members))
	for i, m := range r.Members {
		name := strings.ToLower(strings.TrimSpace(m.Name))
		if name == "" {
			return fmt.Errorf("member %d: %w", i, ErrInvalidName)
		}
		if m.TimeLimitSeconds <= 0 {
			return fmt.Errorf("member %q: %w", m.Name, ErrInvalidTimeLimit)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("member %q: %w", m.Name, ErrDuplicateName)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Normalize assigns missing IDs and default limits in place
func (r *Roster) Normalize() {
	for i := range r.Members {
		r.Members[i].Name = strings.TrimSpace(r.Members[i].Name)
		if r.Members[i].ID == uuid.Nil {
			r.Members[i].ID = uuid.New()
		}
		if r.Members[i].TimeLimitSeconds == 0 {
			r.Members[i].TimeLimitSeconds = DefaultTimeLimitSeconds
		}
	}
}

// Freeze returns a copy of the member list that later roster edits cannot touch
func (r Roster) Freeze() []Member {
	frozen := make([]Member, len(r.Members))
	copy(frozen, r.Members)
	return frozen
}

// Question is a standup prompt with a stable key
type Question struct {
	Key    string `json:"key"`
	Prompt string `json:"prompt"`
}

// DefaultQuestion is the single update question asked of every member
var DefaultQuestion = Question{Key: "update", Prompt: "give your update"}
