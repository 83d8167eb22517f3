package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NoResponseAnswer is recorded when a turn times out with nothing captured
const NoResponseAnswer = "No response"

// TranscriptLine is one timestamped utterance of a member
type TranscriptLine struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// String renders the line as it appears in exports
func (l TranscriptLine) String() string {
	return fmt.Sprintf("[%s] %s", l.At.Format("15:04:05"), l.Text)
}

// ResponseRecord holds what one member said during their turn
type ResponseRecord struct {
	MemberID       uuid.UUID        `json:"member_id"`
	AnswerText     string           `json:"answer_text"`
	Transcript     []TranscriptLine `json:"transcript"`
	ElapsedSeconds int              `json:"elapsed_seconds"`
}

// StandupSession is one run of the round-robin over a frozen roster
type StandupSession struct {
	ID         uuid.UUID                     `json:"id"`
	TeamID     string                        `json:"team_id"`
	Question   Question                      `json:"question"`
	StartedAt  time.Time                     `json:"started_at"`
	FinishedAt *time.Time                    `json:"finished_at,omitempty"`
	Members    []Member                      `json:"members"`
	Responses  map[uuid.UUID]*ResponseRecord `json:"responses"`
	Completed  []uuid.UUID                   `json:"completed"`
}

// NewStandupSession creates a session with an empty record for every member
func NewStandupSession(teamID string, members []Member, question Question, now time.Time) *StandupSession {
	frozen := make([]Member, len(members))
	copy(frozen, members)

	responses := make(map[uuid.UUID]*ResponseRecord, len(frozen))
	for _, m := range frozen {
		responses[m.ID] = &ResponseRecord{MemberID: m.ID}
	}

	return &StandupSession{
		ID:        uuid.New(),
		TeamID:    teamID,
		Question:  question,
		StartedAt: now,
		Members:   frozen,
		Responses: responses,
		Completed: make([]uuid.UUID, 0, len(frozen)),
	}
}

// Response returns the record of a member
func (s *StandupSession) Response(memberID uuid.UUID) (*ResponseRecord, error) {
	rec, ok := s.Responses[memberID]
	if !ok {
		return nil, ErrUnknownMember
	}
	return rec, nil
}

// IsCompleted reports whether the member already had their turn
func (s *StandupSession) IsCompleted(memberID uuid.UUID) bool {
	for _, id := range s.Completed {
		if id == memberID {
			return true
		}
	}
	return false
}

// MarkCompleted adds a member to the completed set. The set only grows.
func (s *StandupSession) MarkCompleted(memberID uuid.UUID) {
	if s.IsCompleted(memberID) {
		return
	}
	s.Completed = append(s.Completed, memberID)
}

// NextPending returns the first member in roster order that has not answered
func (s *StandupSession) NextPending() (Member, bool) {
	for _, m := range s.Members {
		if !s.IsCompleted(m.ID) {
			return m, true
		}
	}
	return Member{}, false
}

// Finish stamps finishedAt once
func (s *StandupSession) Finish(now time.Time) {
	if s.FinishedAt != nil {
		return
	}
	s.FinishedAt = &now
}

// IsFinished reports whether the session has been closed
func (s *StandupSession) IsFinished() bool {
	return s.FinishedAt != nil
}

// Clone returns a deep copy safe to read outside the owning goroutine
func (s *StandupSession) Clone() *StandupSession {
	if s == nil {
		return nil
	}
	out := *s
	out.Members = append([]Member(nil), s.Members...)
	out.Completed = append([]uuid.UUID(nil), s.Completed...)
	if s.FinishedAt != nil {
		f := *s.FinishedAt
		out.FinishedAt = &f
	}
	out.Responses = make(map[uuid.UUID]*ResponseRecord, len(s.Responses))
	for id, rec := range s.Responses {
		cp := *rec
		cp.Transcript = append([]TranscriptLine(nil), rec.Transcript...)
		out.Responses[id] = &cp
	}
	return &out
}
