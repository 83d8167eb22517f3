package summary

import (
	"time"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/usecase/insight"
)

// Export is the canonical session record
type Export struct {
	ID           string             `json:"id"`
	TeamID       string             `json:"teamId,omitempty"`
	StartedAt    time.Time          `json:"startedAt"`
	FinishedAt   *time.Time         `json:"finishedAt"`
	Participants []Participant      `json:"participants"`
	Actions      []entities.Task    `json:"actions"`
	Blockers     []entities.Blocker `json:"blockers"`
}

// Participant is one member's section of the export
type Participant struct {
	Name       string             `json:"name"`
	ElapsedSec int                `json:"elapsedSec"`
	Answers    map[string]string  `json:"answers"`
	Transcript []string           `json:"transcript"`
	Actions    []entities.Task    `json:"actions"`
	Blockers   []entities.Blocker `json:"blockers"`
	Notes      []string           `json:"notes"`
}

// Finished reports whether the session had ended when the export was built
func (e Export) Finished() bool { return e.FinishedAt != nil }

// Builder folds a session into an Export. Insights are recomputed from the
// stored answers on every call.
type Builder struct {
	extractor *insight.Extractor
}

// NewBuilder creates a builder. A nil extractor uses the regex classifier.
func NewBuilder(extractor *insight.Extractor) *Builder {
	if extractor == nil {
		extractor = insight.NewExtractor(nil)
	}
	return &Builder{extractor: extractor}
}

// Build produces the export. It does not modify the session and is safe to
// call mid-session; members without a turn yet have empty answers.
func (b *Builder) Build(session *entities.StandupSession) Export {
	exp := Export{
		Participants: make([]Participant, 0),
		Actions:      make([]entities.Task, 0),
		Blockers:     make([]entities.Blocker, 0),
	}
	if session == nil {
		return exp
	}

	exp.ID = session.ID.String()
	exp.TeamID = session.TeamID
	exp.StartedAt = session.StartedAt
	if session.FinishedAt != nil {
		finished := *session.FinishedAt
		exp.FinishedAt = &finished
	}

	key := session.Question.Key
	if key == "" {
		key = entities.DefaultQuestion.Key
	}

	for _, m := range session.Members {
		p := Participant{
			Name:       m.Name,
			Answers:    map[string]string{key: ""},
			Transcript: make([]string, 0),
			Actions:    make([]entities.Task, 0),
			Blockers:   make([]entities.Blocker, 0),
			Notes:      make([]string, 0),
		}

		if rec, ok := session.Responses[m.ID]; ok && rec != nil {
			p.ElapsedSec = rec.ElapsedSeconds
			p.Answers[key] = rec.AnswerText
			for _, line := range rec.Transcript {
				p.Transcript = append(p.Transcript, line.String())
			}

			ins := b.extractor.Extract(rec.AnswerText, m.Name)
			p.Actions = append(p.Actions, ins.Tasks...)
			p.Blockers = append(p.Blockers, ins.Blockers...)
			p.Notes = append(p.Notes, ins.NoteTexts()...)
		}

		exp.Actions = append(exp.Actions, p.Actions...)
		exp.Blockers = append(exp.Blockers, p.Blockers...)
		exp.Participants = append(exp.Participants, p)
	}
	return exp
}
