package standup

import (
	"time"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

// Purpose tells what a spoken line was for
type Purpose string

const (
	PurposePrompt  Purpose = "prompt"
	PurposeClarify Purpose = "clarify"
	PurposeAck     Purpose = "ack"
	PurposeClosing Purpose = "closing"
)

// Event is anything the machine reacts to
type Event interface {
	isEvent()
}

// Start begins a session over a frozen roster
type Start struct {
	TeamID   string
	Members  []entities.Member
	Question entities.Question
}

// Done is the operator saying the current answer is finished
type Done struct{}

// End stops the session early
type End struct{}

// FragmentReceived carries recognized or typed text for the listening turn
type FragmentReceived struct {
	Token uint64
	Text  string
	Final bool
}

// SpeechCompleted reports that a Speak effect finished playing
type SpeechCompleted struct {
	Token   uint64
	Purpose Purpose
}

// Tick is the periodic clock pulse
type Tick struct{}

// GraceElapsed fires after the grace period that follows the hard limit
type GraceElapsed struct {
	Token uint64
}

func (Start) isEvent()            {}
func (Done) isEvent()             {}
func (End) isEvent()              {}
func (FragmentReceived) isEvent() {}
func (SpeechCompleted) isEvent()  {}
func (Tick) isEvent()             {}
func (GraceElapsed) isEvent()     {}

// Effect is work the runtime performs on the machine's behalf
type Effect interface {
	isEffect()
}

// Speak plays text; completion comes back as SpeechCompleted with the same token
type Speak struct {
	Token   uint64
	Text    string
	Purpose Purpose
}

// OpenListen opens the exclusive listening handle for a turn
type OpenListen struct {
	Token  uint64
	Manual bool
}

// CloseListen stops the listening handle
type CloseListen struct{}

// CancelSpeech aborts in-flight and queued speech
type CancelSpeech struct{}

// ScheduleGrace arms a one-shot timer that posts GraceElapsed
type ScheduleGrace struct {
	Token uint64
	After time.Duration
}

// CancelGrace disarms a pending grace timer
type CancelGrace struct{}

// SessionFinished hands a copy of the closed session to the runtime
type SessionFinished struct {
	Session *entities.StandupSession
}

func (Speak) isEffect()           {}
func (OpenListen) isEffect()      {}
func (CloseListen) isEffect()     {}
func (CancelSpeech) isEffect()    {}
func (ScheduleGrace) isEffect()   {}
func (CancelGrace) isEffect()     {}
func (SessionFinished) isEffect() {}
