package roster

// PutRosterRequest replaces a team roster
type PutRosterRequest struct {
	Members []MemberRequest `json:"members" validate:"required,min=1,max=50,dive"`
}

// MemberRequest is one roster entry. A zero limit takes the default.
type MemberRequest struct {
	Name             string `json:"name" validate:"required,notblank,max=100"`
	TimeLimitSeconds int    `json:"time_limit_seconds,omitempty" validate:"omitempty,min=1,max=3600"`
}
