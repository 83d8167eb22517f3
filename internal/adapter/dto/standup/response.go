package standup

import "time"

// MemberView is the member currently holding the turn
type MemberView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
}

// SnapshotResponse is the live state of a team standup
type SnapshotResponse struct {
	TeamID           string      `json:"team_id"`
	SessionID        string      `json:"session_id,omitempty"`
	Phase            string      `json:"phase"`
	Token            uint64      `json:"token"`
	Manual           bool        `json:"manual"`
	ActiveMember     *MemberView `json:"active_member,omitempty"`
	Buffer           string      `json:"buffer"`
	TimerStarted     bool        `json:"timer_started"`
	RemainingSeconds int         `json:"remaining_seconds"`
	Turns            int         `json:"turns"`
	Completed        int         `json:"completed"`
	Members          int         `json:"members"`
	LastSpoken       string      `json:"last_spoken,omitempty"`
	StartedAt        *time.Time  `json:"started_at,omitempty"`
	FinishedAt       *time.Time  `json:"finished_at,omitempty"`
}

// TokenResponse carries LiveKit credentials
type TokenResponse struct {
	URL      string `json:"url"`
	Room     string `json:"room"`
	Identity string `json:"identity"`
	Token    string `json:"token"`
}

// AudioResponse is the transcript of an uploaded answer
type AudioResponse struct {
	Text string `json:"text"`
}

// NotifyResponse reports a delivery attempt
type NotifyResponse struct {
	Channel   string `json:"channel"`
	Delivered bool   `json:"delivered"`
}

// TextSummaryResponse is a rendered text or chat summary
type TextSummaryResponse struct {
	Format string `json:"format"`
	Text   string `json:"text"`
}

// RecordResponse is an archived standup
type RecordResponse struct {
	ID               string      `json:"id"`
	TeamID           string      `json:"team_id"`
	StartedAt        time.Time   `json:"started_at"`
	FinishedAt       time.Time   `json:"finished_at"`
	ParticipantCount int         `json:"participant_count"`
	ActionCount      int         `json:"action_count"`
	BlockerCount     int         `json:"blocker_count"`
	Export           interface{} `json:"export,omitempty"`
	Report           string      `json:"report,omitempty"`
	DownloadURL      string      `json:"download_url,omitempty"`
}
