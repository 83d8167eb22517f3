package roster

import "time"

// MemberResponse is one roster member
type MemberResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
}

// RosterResponse is a team roster
type RosterResponse struct {
	TeamID    string           `json:"team_id"`
	Members   []MemberResponse `json:"members"`
	UpdatedAt time.Time        `json:"updated_at"`
	Frozen    bool             `json:"frozen"`
}
