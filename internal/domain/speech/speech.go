package speech

import "context"

// Capabilities describes what a channel can do. A channel without ASR is
// driven by typed input and explicit finalize.
type Capabilities struct {
	ASR bool `json:"asr"`
	TTS bool `json:"tts"`
}

// Fragment is a piece of recognized or typed text
type Fragment struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// FragmentFunc receives fragments while a listen handle is open
type FragmentFunc func(Fragment)

// StopFunc closes a listen handle. Calling it twice is safe.
type StopFunc func()

// Channel is the speech capability consumed by the standup controller
type Channel interface {
	// Speak plays text and returns once playback finished or ctx was cancelled
	Speak(ctx context.Context, text string) error

	// Listen opens the exclusive listening handle. Opening a new one stops the previous.
	Listen(ctx context.Context, onFragment FragmentFunc) (StopFunc, error)

	Capabilities() Capabilities
}

// Feeder is a channel that accepts fragments pushed from outside, such as
// typed text or transcripts posted over HTTP
type Feeder interface {
	// Deliver hands a fragment to the open listen handle; false when none is open
	Deliver(f Fragment) bool
}

// Acknowledger is a channel whose playback completion is reported by a remote client
type Acknowledger interface {
	Ack(speechID string) bool
}
