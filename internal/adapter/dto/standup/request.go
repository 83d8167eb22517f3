package standup

// DoneRequest finalizes the active answer. Text, when set, is appended first.
type DoneRequest struct {
	Text string `json:"text,omitempty" validate:"max=4000"`
}

// FragmentRequest pushes recognized text into the listening turn
type FragmentRequest struct {
	Text  string `json:"text" validate:"required,notblank,max=4000"`
	Final bool   `json:"final"`
}

// SpeechAckRequest confirms a prompt finished playing on the client
type SpeechAckRequest struct {
	SpeechID string `json:"speech_id" validate:"required"`
}

// NotifyRequest sends the summary to one delivery channel
type NotifyRequest struct {
	Channel string `json:"channel" validate:"required,oneof=chat email"`
}

// TokenRequest asks for a LiveKit join token
type TokenRequest struct {
	Identity string `json:"identity" validate:"required,notblank,max=100"`
	Name     string `json:"name,omitempty" validate:"max=100"`
}

// SummaryQuery selects the summary rendering
type SummaryQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=json text chat"`
}

// ListQuery pages archived standups
type ListQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}
