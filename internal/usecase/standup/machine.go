package standup

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
	"github.com/johnquangdev/standup-assistant/internal/usecase/insight"
)

// Settings tunes the turn-taking policy
type Settings struct {
	SilenceWindow time.Duration
	GracePeriod   time.Duration
	// ManualTimerFromFragment gates the clock of typed turns on the first
	// submitted text, as for spoken turns. By default a typed turn is timed
	// from the moment its prompt completes.
	ManualTimerFromFragment bool
}

// DefaultSettings are the stock silence window and grace period
func DefaultSettings() Settings {
	return Settings{
		SilenceWindow: DefaultSilenceWindow,
		GracePeriod:   time.Second,
	}
}

type finalizeCause int

const (
	causeOperator finalizeCause = iota
	causeSilence
	causeTimeLimit
)

func (c finalizeCause) String() string {
	switch c {
	case causeSilence:
		return "silence"
	case causeTimeLimit:
		return "time_limit"
	default:
		return "operator"
	}
}

// answerBuffer holds finalized fragments plus the latest interim fragment
type answerBuffer struct {
	finals  []string
	partial string
}

func (b *answerBuffer) add(text string, final bool) {
	text = strings.TrimSpace(text)
	if !final {
		b.partial = text
		return
	}
	if text != "" {
		b.finals = append(b.finals, text)
	}
	b.partial = ""
}

func (b *answerBuffer) text() string {
	parts := b.finals
	if b.partial != "" {
		parts = append(parts[:len(parts):len(parts)], b.partial)
	}
	return strings.Join(parts, " ")
}

func (b *answerBuffer) nonEmpty() bool {
	return strings.TrimSpace(b.text()) != ""
}

func (b *answerBuffer) reset() {
	b.finals = nil
	b.partial = ""
}

// Machine is the standup state machine. Handle is the only way state changes;
// it never blocks and returns the effects the runtime must carry out.
type Machine struct {
	settings  Settings
	extractor *insight.Extractor
	manual    bool

	state      State
	token      uint64
	session    *entities.StandupSession
	buf        answerBuffer
	timer      TurnTimer
	silence    SilenceMonitor
	graceArmed bool
	turns      int
	lastSpoken string
}

// NewMachine creates an idle machine. manual disables the silence trigger.
func NewMachine(settings Settings, extractor *insight.Extractor, manual bool) *Machine {
	if extractor == nil {
		extractor = insight.NewExtractor(nil)
	}
	return &Machine{
		settings:  settings,
		extractor: extractor,
		manual:    manual,
		state:     Idle{},
		silence:   NewSilenceMonitor(settings.SilenceWindow),
	}
}

// State returns the current state value
func (m *Machine) State() State { return m.state }

// Token returns the current turn token
func (m *Machine) Token() uint64 { return m.token }

// Manual reports whether the machine runs on typed input
func (m *Machine) Manual() bool { return m.manual }

// Handle applies one event
func (m *Machine) Handle(now time.Time, ev Event) ([]Effect, error) {
	switch e := ev.(type) {
	case Start:
		return m.start(now, e)
	case Done:
		return m.done(now)
	case End:
		return m.end(now)
	case FragmentReceived:
		return m.fragment(now, e)
	case SpeechCompleted:
		return m.speechCompleted(now, e)
	case Tick:
		return m.tick(now), nil
	case GraceElapsed:
		return m.graceElapsed(now, e)
	}
	return nil, fmt.Errorf("unknown event %T", ev)
}

func (m *Machine) start(now time.Time, e Start) ([]Effect, error) {
	if isActive(m.state) {
		return nil, usecaseErrors.ErrSessionInProgress
	}
	if len(e.Members) == 0 {
		return nil, usecaseErrors.ErrEmptyRoster
	}
	question := e.Question
	if question.Key == "" {
		question = entities.DefaultQuestion
	}

	m.session = entities.NewStandupSession(e.TeamID, e.Members, question, now)
	m.turns = 0
	m.state = Advancing{}
	return m.advance(now), nil
}

func (m *Machine) done(now time.Time) ([]Effect, error) {
	if !isActive(m.state) {
		return nil, usecaseErrors.ErrNoActiveSession
	}
	if _, ok := m.state.(Listening); !ok {
		return nil, usecaseErrors.ErrInvalidTransition
	}
	return m.finalize(now, causeOperator), nil
}

func (m *Machine) end(now time.Time) ([]Effect, error) {
	if !isActive(m.state) {
		return nil, usecaseErrors.ErrNoActiveSession
	}
	effects := []Effect{CloseListen{}, CancelSpeech{}, CancelGrace{}}
	return append(effects, m.complete(now)...), nil
}

func (m *Machine) fragment(now time.Time, e FragmentReceived) ([]Effect, error) {
	if e.Token != m.token {
		return nil, usecaseErrors.ErrStaleToken
	}
	if _, ok := m.state.(Listening); !ok {
		return nil, usecaseErrors.ErrStaleToken
	}

	m.buf.add(e.Text, e.Final)
	if strings.TrimSpace(e.Text) != "" {
		m.silence.Observe(now)
		m.timer.Start(now)
	}
	return nil, nil
}

func (m *Machine) speechCompleted(now time.Time, e SpeechCompleted) ([]Effect, error) {
	if e.Token != m.token {
		return nil, usecaseErrors.ErrStaleToken
	}

	switch st := m.state.(type) {
	case Prompting:
		if e.Purpose != PurposePrompt {
			return nil, nil
		}
		m.state = Listening{Member: st.Member}
		m.buf.reset()
		m.silence.Arm(now, m.manual)
		m.timer.Arm(now, st.Member.TimeLimit())
		if m.manual && !m.settings.ManualTimerFromFragment {
			m.timer.Start(now)
		}
		return []Effect{OpenListen{Token: m.token, Manual: m.manual}}, nil

	case Finalizing:
		if e.Purpose != PurposeAck {
			return nil, nil
		}
		m.state = Advancing{}
		return m.advance(now), nil
	}

	// clarification inside Listening and the closing remark need no transition
	return nil, nil
}

func (m *Machine) tick(now time.Time) []Effect {
	if _, ok := m.state.(Listening); !ok {
		return nil
	}
	if m.silence.Tick(now, m.buf.nonEmpty()) {
		return m.finalize(now, causeSilence)
	}
	if m.timer.Tick(now) {
		m.graceArmed = true
		return []Effect{ScheduleGrace{Token: m.token, After: m.settings.GracePeriod}}
	}
	return nil
}

func (m *Machine) graceElapsed(now time.Time, e GraceElapsed) ([]Effect, error) {
	if e.Token != m.token || !m.graceArmed {
		return nil, usecaseErrors.ErrStaleToken
	}
	if _, ok := m.state.(Listening); !ok {
		return nil, usecaseErrors.ErrStaleToken
	}
	return m.finalize(now, causeTimeLimit), nil
}

// finalize freezes the active answer, or asks again when nothing was heard
func (m *Machine) finalize(now time.Time, cause finalizeCause) []Effect {
	l := m.state.(Listening)
	text := strings.TrimSpace(m.buf.text())

	if text == "" && cause != causeTimeLimit {
		return []Effect{m.speak(clarifyText(l.Member), PurposeClarify)}
	}

	answer := text
	if answer == "" {
		answer = entities.NoResponseAnswer
	}

	rec, err := m.session.Response(l.Member.ID)
	if err == nil {
		rec.AnswerText = answer
		rec.Transcript = append(rec.Transcript, entities.TranscriptLine{At: now, Text: answer})
		rec.ElapsedSeconds = wholeSeconds(m.timer.Elapsed(now))
	}
	insights := m.extractor.Extract(answer, l.Member.Name)

	m.session.MarkCompleted(l.Member.ID)
	m.turns++
	m.token++
	m.resetTurn()
	m.state = Finalizing{Member: l.Member}

	return []Effect{CloseListen{}, CancelGrace{}, m.speak(ackText(l.Member, insights), PurposeAck)}
}

// advance prompts the next pending member in roster order, or completes
func (m *Machine) advance(now time.Time) []Effect {
	next, ok := m.session.NextPending()
	if !ok {
		return m.complete(now)
	}
	return m.askCurrent(next)
}

// askCurrent prompts member. Asking the member already being prompted is a no-op.
func (m *Machine) askCurrent(member entities.Member) []Effect {
	if p, ok := m.state.(Prompting); ok && p.Member.ID == member.ID {
		return nil
	}
	m.token++
	m.resetTurn()
	m.state = Prompting{Member: member}
	return []Effect{m.speak(promptText(member, m.session.Question), PurposePrompt)}
}

func (m *Machine) complete(now time.Time) []Effect {
	m.token++
	m.resetTurn()
	m.session.Finish(now)
	m.state = Completed{}
	return []Effect{
		m.speak(closingText(m.session), PurposeClosing),
		SessionFinished{Session: m.session.Clone()},
	}
}

func (m *Machine) speak(text string, purpose Purpose) Speak {
	m.lastSpoken = text
	return Speak{Token: m.token, Text: text, Purpose: purpose}
}

func (m *Machine) resetTurn() {
	m.buf.reset()
	m.timer.Reset()
	m.silence.Reset()
	m.graceArmed = false
}

// Snapshot is a read-only view of the machine
type Snapshot struct {
	Phase        string
	Token        uint64
	Manual       bool
	Member       *entities.Member
	Buffer       string
	TimerStarted bool
	Remaining    time.Duration
	Turns        int
	LastSpoken   string
	Session      *entities.StandupSession
}

// Snapshot captures the current state. Session is a deep copy.
func (m *Machine) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Phase:      m.state.Phase(),
		Token:      m.token,
		Manual:     m.manual,
		Buffer:     m.buf.text(),
		Turns:      m.turns,
		LastSpoken: m.lastSpoken,
		Session:    m.session.Clone(),
	}
	if member, ok := activeMember(m.state); ok {
		snap.Member = &member
	}
	if _, ok := m.state.(Listening); ok {
		snap.TimerStarted = m.timer.Started()
		snap.Remaining = m.timer.Remaining(now)
	}
	return snap
}

func wholeSeconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}
