package entities

import "errors"

// Domain errors
var (
	// Roster errors
	ErrEmptyRoster      = errors.New("roster has no members")
	ErrInvalidName      = errors.New("member name is required")
	ErrDuplicateName    = errors.New("member name appears twice")
	ErrInvalidTimeLimit = errors.New("time limit must be positive")
	ErrRosterNotFound   = errors.New("roster not found")

	// Standup errors
	ErrStandupNotFound = errors.New("standup not found")
	ErrUnknownMember   = errors.New("member is not part of this standup")
)
