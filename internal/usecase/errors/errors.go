package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
)

// Standup errors
var (
	ErrSessionInProgress = errors.New("standup already in progress")
	ErrNoActiveSession   = errors.New("no active standup")
	ErrInvalidTransition = errors.New("command not valid in current phase")
	ErrStaleToken        = errors.New("turn token is stale")
	ErrEmptyRoster       = errors.New("roster has no members")
	ErrControllerStopped = errors.New("standup controller stopped")
	ErrManualOnly        = errors.New("speech channel has no recognition")
)

// Roster errors
var (
	ErrRosterNotFound  = errors.New("roster not found")
	ErrRosterFrozen    = errors.New("roster is frozen during a standup")
	ErrDuplicateMember = errors.New("duplicate member name")
	ErrInvalidLimit    = errors.New("time limit must be positive")
)

// Archive errors
var (
	ErrStandupNotFound = errors.New("standup not found")
)

// Delivery errors
var (
	ErrChannelDisabled = errors.New("notification channel not configured")
	ErrDeliveryFailed  = errors.New("notification delivery failed")
	ErrUnknownFormat   = errors.New("unknown summary format")
)

// Transcription errors
var (
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// Backing store errors
var (
	ErrRosterStore  = errors.New("roster store unavailable")
	ErrArchiveStore = errors.New("standup archive unavailable")
	ErrLiveKit      = errors.New("livekit request failed")
)
