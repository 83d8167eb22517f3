package standup

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

// harness drives a Machine the way the controller does, with speech that
// completes instantly unless holdSpeech is set.
type harness struct {
	t          *testing.T
	m          *Machine
	now        time.Time
	holdSpeech bool

	spoken      []Speak
	listenToken uint64
	listening   bool
	grace       *ScheduleGrace
	cancels     int
	finished    *entities.StandupSession
}

func newHarness(t *testing.T, manual bool, settings Settings) *harness {
	return &harness{
		t:   t,
		m:   NewMachine(settings, nil, manual),
		now: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
}

func (h *harness) send(ev Event) error {
	effects, err := h.m.Handle(h.now, ev)
	if err != nil {
		return err
	}
	h.apply(effects)
	return nil
}

func (h *harness) mustSend(ev Event) {
	h.t.Helper()
	if err := h.send(ev); err != nil {
		h.t.Fatalf("Handle(%T) error = %v", ev, err)
	}
}

func (h *harness) apply(effects []Effect) {
	for _, e := range effects {
		switch x := e.(type) {
		case Speak:
			h.spoken = append(h.spoken, x)
			if !h.holdSpeech {
				h.mustSend(SpeechCompleted{Token: x.Token, Purpose: x.Purpose})
			}
		case OpenListen:
			h.listenToken = x.Token
			h.listening = true
		case CloseListen:
			h.listening = false
		case CancelSpeech:
			h.cancels++
		case ScheduleGrace:
			g := x
			h.grace = &g
		case CancelGrace:
			h.grace = nil
		case SessionFinished:
			h.finished = x.Session
		}
	}
}

func (h *harness) say(text string) {
	h.t.Helper()
	h.mustSend(FragmentReceived{Token: h.listenToken, Text: text, Final: true})
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

// tickUntilGrace advances one second at a time until the grace timer is armed
func (h *harness) tickUntilGrace(max time.Duration) time.Duration {
	h.t.Helper()
	var waited time.Duration
	for waited < max {
		h.advance(time.Second)
		waited += time.Second
		h.mustSend(Tick{})
		if h.grace != nil {
			return waited
		}
	}
	h.t.Fatalf("grace never scheduled within %v", max)
	return waited
}

func (h *harness) phase() string { return h.m.State().Phase() }

func (h *harness) lastSpoken(p Purpose) Speak {
	for i := len(h.spoken) - 1; i >= 0; i-- {
		if h.spoken[i].Purpose == p {
			return h.spoken[i]
		}
	}
	h.t.Fatalf("nothing spoken with purpose %s", p)
	return Speak{}
}

func roster(limit int, names ...string) []entities.Member {
	members := make([]entities.Member, 0, len(names))
	for _, n := range names {
		members = append(members, entities.NewMember(n, limit))
	}
	return members
}

func TestMachine_ManualSessionTakesOneTurnPerMember(t *testing.T) {
	h := newHarness(t, true, DefaultSettings())
	members := roster(60, "Alice", "Bob", "Cara")
	h.mustSend(Start{TeamID: "core", Members: members})

	for i, m := range members {
		if h.phase() != PhaseListening {
			t.Fatalf("turn %d: phase = %s, want listening", i, h.phase())
		}
		if got := h.lastSpoken(PurposePrompt).Text; !strings.HasPrefix(got, m.Name) {
			t.Fatalf("turn %d: prompt %q does not name %s", i, got, m.Name)
		}
		h.advance(3 * time.Second)
		h.say("Shipped the thing.")
		h.mustSend(Done{})
	}

	if h.phase() != PhaseCompleted {
		t.Fatalf("phase = %s, want completed", h.phase())
	}
	snap := h.m.Snapshot(h.now)
	if snap.Turns != len(members) {
		t.Fatalf("turns = %d, want %d", snap.Turns, len(members))
	}
	if len(snap.Session.Completed) != len(members) {
		t.Fatalf("completed = %d, want %d", len(snap.Session.Completed), len(members))
	}
	if h.finished == nil || h.finished.FinishedAt == nil {
		t.Fatalf("session not finished")
	}
	if h.lastSpoken(PurposeClosing).Text == "" {
		t.Fatalf("no closing remark spoken")
	}
}

func TestMachine_TimeoutRecordsSentinelWithinBound(t *testing.T) {
	settings := DefaultSettings()
	h := newHarness(t, false, settings)
	members := roster(5, "Alice", "Bob")
	h.mustSend(Start{TeamID: "core", Members: members})

	limit := members[0].TimeLimit()
	waited := h.tickUntilGrace(time.Minute)
	h.advance(h.grace.After)
	waited += h.grace.After
	h.mustSend(GraceElapsed{Token: h.grace.Token})

	// one tick of slack on top of limit and grace
	if bound := limit + settings.GracePeriod + time.Second; waited > bound {
		t.Fatalf("waited %v, bound %v", waited, bound)
	}

	rec := h.finishedOrSnapshot().Responses[members[0].ID]
	if rec.AnswerText != entities.NoResponseAnswer {
		t.Fatalf("answer = %q, want sentinel", rec.AnswerText)
	}
	if len(rec.Transcript) != 1 {
		t.Fatalf("transcript lines = %d, want 1", len(rec.Transcript))
	}
	if m, ok := activeMember(h.m.State()); !ok || m.ID != members[1].ID {
		t.Fatalf("did not advance to Bob, state = %s", h.phase())
	}
}

func (h *harness) finishedOrSnapshot() *entities.StandupSession {
	if h.finished != nil {
		return h.finished
	}
	return h.m.Snapshot(h.now).Session
}

func TestMachine_TimerCountsFromFirstFragment(t *testing.T) {
	h := newHarness(t, false, DefaultSettings())
	h.mustSend(Start{TeamID: "core", Members: roster(10, "Alice")})

	h.advance(4 * time.Second)
	h.mustSend(FragmentReceived{Token: h.listenToken, Text: "so", Final: false})

	// keep talking so silence does not end the turn
	for i := 0; i < 6; i++ {
		h.advance(time.Second)
		h.mustSend(FragmentReceived{Token: h.listenToken, Text: "so yesterday I", Final: false})
		h.mustSend(Tick{})
	}
	if h.grace != nil {
		t.Fatalf("limit fired 10s after prompt although speech began at 4s")
	}

	for i := 0; i < 4; i++ {
		h.advance(time.Second)
		h.mustSend(FragmentReceived{Token: h.listenToken, Text: "so yesterday I fixed", Final: false})
		h.mustSend(Tick{})
	}
	if h.grace == nil {
		t.Fatalf("limit did not fire 10s after first fragment")
	}

	h.advance(time.Second)
	h.mustSend(GraceElapsed{Token: h.grace.Token})
	rec := h.finished.Responses[h.finished.Members[0].ID]
	if rec.AnswerText != "so yesterday I fixed" {
		t.Fatalf("answer = %q", rec.AnswerText)
	}
	if rec.ElapsedSeconds != 11 {
		t.Fatalf("elapsed = %d, want 11", rec.ElapsedSeconds)
	}
}

func TestMachine_SilenceFinalizesSpokenAnswer(t *testing.T) {
	h := newHarness(t, false, DefaultSettings())
	members := roster(120, "Alice", "Bob")
	h.mustSend(Start{TeamID: "core", Members: members})

	h.advance(time.Second)
	h.say("I will push the login fix by Friday.")

	h.advance(4 * time.Second)
	h.mustSend(Tick{})
	if h.phase() != PhaseListening {
		t.Fatalf("silence fired at exactly the window")
	}

	h.advance(time.Second)
	h.mustSend(Tick{})
	if m, _ := activeMember(h.m.State()); m.ID != members[1].ID {
		t.Fatalf("expected Bob after silence, phase = %s", h.phase())
	}
	if ack := h.lastSpoken(PurposeAck).Text; !strings.Contains(ack, "due FRIDAY") {
		t.Fatalf("ack %q does not surface the task", ack)
	}
}

func TestMachine_SilenceNeverFiresInManualMode(t *testing.T) {
	h := newHarness(t, true, DefaultSettings())
	h.mustSend(Start{TeamID: "core", Members: roster(3600, "Alice")})
	h.say("typed answer")

	for i := 0; i < 300; i++ {
		h.advance(time.Second)
		h.mustSend(Tick{})
	}
	if h.phase() != PhaseListening {
		t.Fatalf("manual turn ended without operator, phase = %s", h.phase())
	}
}

func TestMachine_EmptyDoneAsksForClarification(t *testing.T) {
	h := newHarness(t, true, DefaultSettings())
	h.mustSend(Start{TeamID: "core", Members: roster(60, "Alice", "Bob")})
	token := h.m.Token()

	h.mustSend(Done{})

	if h.phase() != PhaseListening {
		t.Fatalf("phase = %s, want listening", h.phase())
	}
	if h.m.Token() != token {
		t.Fatalf("clarification changed the turn token")
	}
	if !strings.Contains(h.lastSpoken(PurposeClarify).Text, "Alice") {
		t.Fatalf("clarification does not address Alice")
	}
	if h.m.Snapshot(h.now).Turns != 0 {
		t.Fatalf("clarification counted as a turn")
	}

	h.say("Now I have something.")
	h.mustSend(Done{})
	if m, _ := activeMember(h.m.State()); m.Name != "Bob" {
		t.Fatalf("expected Bob, got %s", m.Name)
	}
}

func TestMachine_AckPrefersBlocker(t *testing.T) {
	h := newHarness(t, true, DefaultSettings())
	h.mustSend(Start{TeamID: "core", Members: roster(60, "Alice")})
	h.say("I will fix auth. Blocked on VPN access.")
	h.mustSend(Done{})

	if ack := h.lastSpoken(PurposeAck).Text; !strings.Contains(ack, "Noted blocker: Blocked on VPN access") {
		t.Fatalf("ack = %q", ack)
	}
}

func TestMachine_EndMidTurn(t *testing.T) {
	h := newHarness(t, false, DefaultSettings())
	members := roster(60, "Alice", "Bob", "Cara")
	h.mustSend(Start{TeamID: "core", Members: members})

	h.advance(2 * time.Second)
	h.say("Released v2.")
	h.mustSend(Done{})
	before := h.m.Snapshot(h.now).Session.Responses[members[0].ID]

	h.advance(time.Second)
	h.mustSend(FragmentReceived{Token: h.listenToken, Text: "half a thought", Final: false})
	h.advance(time.Second)
	endAt := h.now
	h.mustSend(End{})

	if h.phase() != PhaseCompleted {
		t.Fatalf("phase = %s, want completed", h.phase())
	}
	if h.listening {
		t.Fatalf("listening handle left open")
	}
	if h.cancels != 1 {
		t.Fatalf("speech not cancelled")
	}
	s := h.finished
	if s == nil || s.FinishedAt == nil || !s.FinishedAt.Equal(endAt) {
		t.Fatalf("finishedAt not stamped at end: %+v", s)
	}

	alice := s.Responses[members[0].ID]
	if alice.AnswerText != before.AnswerText || len(alice.Transcript) != len(before.Transcript) || alice.ElapsedSeconds != before.ElapsedSeconds {
		t.Fatalf("completed member record changed: %+v vs %+v", alice, before)
	}
	bob := s.Responses[members[1].ID]
	if bob.AnswerText != "" || len(bob.Transcript) != 0 || bob.ElapsedSeconds != 0 {
		t.Fatalf("interrupted member record modified: %+v", bob)
	}
	if len(s.Completed) != 1 {
		t.Fatalf("completed = %d, want 1", len(s.Completed))
	}
}

func TestMachine_StaleCallbacksDiscarded(t *testing.T) {
	h := newHarness(t, false, DefaultSettings())
	members := roster(2, "Alice")
	h.mustSend(Start{TeamID: "core", Members: members})
	oldListen := h.listenToken

	h.tickUntilGrace(time.Minute)
	staleGrace := *h.grace

	h.mustSend(End{})
	h.mustSend(Start{TeamID: "core", Members: roster(60, "Bob")})

	if err := h.send(staleGrace.toEvent()); !errors.Is(err, usecaseErrors.ErrStaleToken) {
		t.Fatalf("stale grace error = %v, want ErrStaleToken", err)
	}
	if err := h.send(FragmentReceived{Token: oldListen, Text: "ghost", Final: true}); !errors.Is(err, usecaseErrors.ErrStaleToken) {
		t.Fatalf("stale fragment error = %v, want ErrStaleToken", err)
	}

	snap := h.m.Snapshot(h.now)
	if snap.Phase != PhaseListening || snap.Member.Name != "Bob" || snap.Buffer != "" {
		t.Fatalf("new session disturbed by stale callbacks: %+v", snap)
	}
}

func (g ScheduleGrace) toEvent() GraceElapsed { return GraceElapsed{Token: g.Token} }

func TestMachine_CommandErrors(t *testing.T) {
	h := newHarness(t, true, DefaultSettings())
	h.holdSpeech = true

	if err := h.send(End{}); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Fatalf("End on idle = %v", err)
	}
	if err := h.send(Done{}); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Fatalf("Done on idle = %v", err)
	}
	if err := h.send(Start{TeamID: "core"}); !errors.Is(err, usecaseErrors.ErrEmptyRoster) {
		t.Fatalf("Start with empty roster = %v", err)
	}

	h.mustSend(Start{TeamID: "core", Members: roster(60, "Alice")})
	if h.phase() != PhasePrompting {
		t.Fatalf("phase = %s, want prompting while prompt plays", h.phase())
	}
	if err := h.send(Done{}); !errors.Is(err, usecaseErrors.ErrInvalidTransition) {
		t.Fatalf("Done while prompting = %v", err)
	}
	if err := h.send(Start{TeamID: "core", Members: roster(60, "Bob")}); !errors.Is(err, usecaseErrors.ErrSessionInProgress) {
		t.Fatalf("Start while active = %v", err)
	}
}

func TestMachine_AskCurrentIsIdempotent(t *testing.T) {
	h := newHarness(t, true, DefaultSettings())
	h.holdSpeech = true
	members := roster(60, "Alice")
	h.mustSend(Start{TeamID: "core", Members: members})

	token := h.m.Token()
	if effects := h.m.askCurrent(members[0]); effects != nil {
		t.Fatalf("re-entrant prompt produced effects: %v", effects)
	}
	if h.m.Token() != token {
		t.Fatalf("re-entrant prompt bumped the token")
	}
}

func TestMachine_ManualTurnTimedFromPrompt(t *testing.T) {
	h := newHarness(t, true, DefaultSettings())
	members := roster(60, "Alice", "Bob")
	h.mustSend(Start{TeamID: "core", Members: members})

	if !h.m.Snapshot(h.now).TimerStarted {
		t.Fatalf("typed turn timer should start when the prompt completes")
	}
	h.advance(10 * time.Second)
	if got := h.m.Snapshot(h.now).Remaining; got != 50*time.Second {
		t.Fatalf("remaining = %v, want 50s", got)
	}

	h.advance(20 * time.Second)
	h.say("I will ship by Friday.")
	h.mustSend(Done{})

	rec := h.m.Snapshot(h.now).Session.Responses[members[0].ID]
	if rec.ElapsedSeconds != 30 {
		t.Fatalf("elapsed = %d, want 30", rec.ElapsedSeconds)
	}
}

func TestMachine_ManualTimerFromFragment(t *testing.T) {
	settings := DefaultSettings()
	settings.ManualTimerFromFragment = true
	h := newHarness(t, true, settings)
	members := roster(60, "Alice")
	h.mustSend(Start{TeamID: "core", Members: members})

	if h.m.Snapshot(h.now).TimerStarted {
		t.Fatalf("gated timer started before any text arrived")
	}
	h.advance(30 * time.Second)
	h.say("typed at once")
	h.mustSend(Done{})

	if rec := h.finished.Responses[members[0].ID]; rec.ElapsedSeconds != 0 {
		t.Fatalf("elapsed = %d, want 0", rec.ElapsedSeconds)
	}
}

func TestMachine_NewSessionAfterCompletion(t *testing.T) {
	h := newHarness(t, true, DefaultSettings())
	h.mustSend(Start{TeamID: "core", Members: roster(60, "Alice")})
	h.say("done")
	h.mustSend(Done{})
	first := h.finished.ID

	h.mustSend(Start{TeamID: "core", Members: roster(60, "Alice")})
	snap := h.m.Snapshot(h.now)
	if snap.Session.ID == first {
		t.Fatalf("restart reused the previous session")
	}
	if len(snap.Session.Completed) != 0 || snap.Turns != 0 {
		t.Fatalf("completed set not reset on start")
	}
}
