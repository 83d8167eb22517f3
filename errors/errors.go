package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the error type surfaced to HTTP clients
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error to errors.Is
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal server error",
		Timestamp: time.Now(),
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_NOT_FOUND,
		Message:   fmt.Sprintf("%s not found", resource),
		Timestamp: time.Now(),
	}
}

func ErrInvalidPayload(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_PAYLOAD,
		Message:   "Invalid payload",
		Timestamp: time.Now(),
	}
}

// Standup Errors
func ErrStandupInProgress(teamID string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_STANDUP_IN_PROGRESS,
		Message:   "A standup is already running for this team",
		Timestamp: time.Now(),
	}.WithDetail("team_id", teamID)
}

func ErrStandupNotActive(teamID string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_STANDUP_NOT_ACTIVE,
		Message:   "No standup is running for this team",
		Timestamp: time.Now(),
	}.WithDetail("team_id", teamID)
}

func ErrStandupInvalidState(teamID, phase string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_STANDUP_INVALID_STATE,
		Message:   "Command not allowed in current phase",
		Timestamp: time.Now(),
	}.WithDetail("team_id", teamID).
		WithDetail("phase", phase)
}

func ErrStandupNotFound(standupID string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_STANDUP_NOT_FOUND,
		Message:   "Standup not found",
		Timestamp: time.Now(),
	}.WithDetail("standup_id", standupID)
}

func ErrSpeechRequired(teamID string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_STANDUP_SPEECH_REQUIRED,
		Message:   "Team is configured for manual input",
		Timestamp: time.Now(),
	}.WithDetail("team_id", teamID)
}

// Roster Errors
func ErrRosterEmpty(teamID string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_ROSTER_EMPTY,
		Message:   "Roster has no members",
		Timestamp: time.Now(),
	}.WithDetail("team_id", teamID)
}

func ErrRosterInvalid(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_ROSTER_INVALID,
		Message:   "Roster is invalid",
		Timestamp: time.Now(),
	}
}

func ErrRosterFrozen(teamID string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_ROSTER_FROZEN,
		Message:   "Roster cannot change while a standup is running",
		Timestamp: time.Now(),
	}.WithDetail("team_id", teamID)
}

func ErrRosterNotFound(teamID string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_ROSTER_NOT_FOUND,
		Message:   "Roster not found",
		Timestamp: time.Now(),
	}.WithDetail("team_id", teamID)
}

// Summary and delivery Errors
func ErrSummaryFormatUnknown(format string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_SUMMARY_FORMAT_UNKNOWN,
		Message:   "Unknown summary format",
		Timestamp: time.Now(),
	}.WithDetail("format", format)
}

func ErrDeliveryFailed(channel string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_NOTIFY_DELIVERY_FAILED,
		Message:   "Notification delivery failed",
		Timestamp: time.Now(),
	}.WithDetail("channel", channel)
}

func ErrChannelDisabled(channel string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_NOTIFY_CHANNEL_DISABLED,
		Message:   "Notification channel is not configured",
		Timestamp: time.Now(),
	}.WithDetail("channel", channel)
}

func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_TRANSCRIPTION_FAILED,
		Message:   "Audio transcription failed",
		Timestamp: time.Now(),
	}
}

// Integration Errors
func ErrLiveKitFailed(operation string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTEGRATION_LIVEKIT_FAILED,
		Message:   fmt.Sprintf("LiveKit operation failed: %s", operation),
		Timestamp: time.Now(),
	}
}

func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTEGRATION_CACHE_FAILED,
		Message:   fmt.Sprintf("Cache operation failed: %s", operation),
		Timestamp: time.Now(),
	}
}

// Database Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_DB_QUERY_FAILED,
		Message:   "Database query failed",
		Timestamp: time.Now(),
	}.WithDetail("query", query)
}
