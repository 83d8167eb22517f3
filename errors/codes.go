package errors

// ErrorCode is the machine readable code returned in error bodies
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004
	ErrorCode_CONFLICT         ErrorCode = 1005

	// Standup session
	ErrorCode_STANDUP_IN_PROGRESS     ErrorCode = 2000
	ErrorCode_STANDUP_NOT_ACTIVE      ErrorCode = 2001
	ErrorCode_STANDUP_INVALID_STATE   ErrorCode = 2002
	ErrorCode_STANDUP_NOT_FOUND       ErrorCode = 2003
	ErrorCode_STANDUP_SPEECH_REQUIRED ErrorCode = 2005
	ErrorCode_ROSTER_EMPTY            ErrorCode = 2100
	ErrorCode_ROSTER_INVALID          ErrorCode = 2101
	ErrorCode_ROSTER_FROZEN           ErrorCode = 2102
	ErrorCode_ROSTER_NOT_FOUND        ErrorCode = 2103
	ErrorCode_SUMMARY_FORMAT_UNKNOWN  ErrorCode = 2200
	ErrorCode_NOTIFY_DELIVERY_FAILED  ErrorCode = 2300
	ErrorCode_NOTIFY_CHANNEL_DISABLED ErrorCode = 2301
	ErrorCode_TRANSCRIPTION_FAILED    ErrorCode = 2400

	// Integrations
	ErrorCode_INTEGRATION_LIVEKIT_FAILED ErrorCode = 3000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 3002

	// Database
	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 4000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 4001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_CONFLICT:                   "CONFLICT",
	ErrorCode_STANDUP_IN_PROGRESS:        "STANDUP_IN_PROGRESS",
	ErrorCode_STANDUP_NOT_ACTIVE:         "STANDUP_NOT_ACTIVE",
	ErrorCode_STANDUP_INVALID_STATE:      "STANDUP_INVALID_STATE",
	ErrorCode_STANDUP_NOT_FOUND:          "STANDUP_NOT_FOUND",
	ErrorCode_STANDUP_SPEECH_REQUIRED:    "STANDUP_SPEECH_REQUIRED",
	ErrorCode_ROSTER_EMPTY:               "ROSTER_EMPTY",
	ErrorCode_ROSTER_INVALID:             "ROSTER_INVALID",
	ErrorCode_ROSTER_FROZEN:              "ROSTER_FROZEN",
	ErrorCode_ROSTER_NOT_FOUND:           "ROSTER_NOT_FOUND",
	ErrorCode_SUMMARY_FORMAT_UNKNOWN:     "SUMMARY_FORMAT_UNKNOWN",
	ErrorCode_NOTIFY_DELIVERY_FAILED:     "NOTIFY_DELIVERY_FAILED",
	ErrorCode_NOTIFY_CHANNEL_DISABLED:    "NOTIFY_CHANNEL_DISABLED",
	ErrorCode_TRANSCRIPTION_FAILED:       "TRANSCRIPTION_FAILED",
	ErrorCode_INTEGRATION_LIVEKIT_FAILED: "INTEGRATION_LIVEKIT_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:       "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
