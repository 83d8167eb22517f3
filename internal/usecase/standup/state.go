package standup

import "github.com/johnquangdev/standup-assistant/internal/domain/entities"

// Phase names exposed in snapshots
const (
	PhaseIdle       = "idle"
	PhasePrompting  = "prompting"
	PhaseListening  = "listening"
	PhaseFinalizing = "finalizing"
	PhaseAdvancing  = "advancing"
	PhaseCompleted  = "completed"
)

// State is the tagged union of controller states
type State interface {
	Phase() string
	isState()
}

// Idle means no session has run yet
type Idle struct{}

// Prompting waits for the prompt naming Member to finish playing
type Prompting struct{ Member entities.Member }

// Listening accumulates Member's answer
type Listening struct{ Member entities.Member }

// Finalizing waits for the acknowledgment of Member's answer to finish playing
type Finalizing struct{ Member entities.Member }

// Advancing is the transient step that picks the next member
type Advancing struct{}

// Completed holds a finished session until the next start
type Completed struct{}

func (Idle) Phase() string       { return PhaseIdle }
func (Prompting) Phase() string  { return PhasePrompting }
func (Listening) Phase() string  { return PhaseListening }
func (Finalizing) Phase() string { return PhaseFinalizing }
func (Advancing) Phase() string  { return PhaseAdvancing }
func (Completed) Phase() string  { return PhaseCompleted }

func (Idle) isState()       {}
func (Prompting) isState()  {}
func (Listening) isState()  {}
func (Finalizing) isState() {}
func (Advancing) isState()  {}
func (Completed) isState()  {}

// activeMember returns the member a state is about, if any
func activeMember(s State) (entities.Member, bool) {
	switch st := s.(type) {
	case Prompting:
		return st.Member, true
	case Listening:
		return st.Member, true
	case Finalizing:
		return st.Member, true
	}
	return entities.Member{}, false
}

// isActive reports whether a session is running
func isActive(s State) bool {
	switch s.(type) {
	case Idle, Completed:
		return false
	}
	return true
}
