package standup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/speech"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

// fakeVoice is a recognizing channel whose speech completes at once unless block is set
type fakeVoice struct {
	mu        sync.Mutex
	block     bool
	spoken    []string
	cancelled int
	onFrag    speech.FragmentFunc
}

func (v *fakeVoice) Speak(ctx context.Context, text string) error {
	v.mu.Lock()
	v.spoken = append(v.spoken, text)
	block := v.block
	v.mu.Unlock()

	if !block {
		return nil
	}
	<-ctx.Done()
	v.mu.Lock()
	v.cancelled++
	v.mu.Unlock()
	return ctx.Err()
}

func (v *fakeVoice) Listen(_ context.Context, fn speech.FragmentFunc) (speech.StopFunc, error) {
	v.mu.Lock()
	v.onFrag = fn
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		v.onFrag = nil
		v.mu.Unlock()
	}, nil
}

func (v *fakeVoice) Deliver(f speech.Fragment) bool {
	v.mu.Lock()
	fn := v.onFrag
	v.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(f)
	return true
}

func (v *fakeVoice) Capabilities() speech.Capabilities {
	return speech.Capabilities{ASR: true, TTS: true}
}

func (v *fakeVoice) cancels() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cancelled
}

// typedChannel accepts typed answers and has no recognition
type typedChannel struct{ fakeVoice }

func (c *typedChannel) Capabilities() speech.Capabilities { return speech.Capabilities{} }

type controllerFixture struct {
	t        *testing.T
	c        *Controller
	clock    *clock.Mock
	finished chan *entities.StandupSession
}

func newControllerFixture(t *testing.T, ch speech.Channel, settings Settings) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		t:        t,
		clock:    clock.NewMock(),
		finished: make(chan *entities.StandupSession, 1),
	}
	f.clock.Set(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC))
	f.c = NewController(ch, ControllerOptions{
		TeamID:     "core",
		Settings:   settings,
		Clock:      f.clock,
		Logger:     zap.NewNop(),
		OnFinished: func(s *entities.StandupSession) { f.finished <- s },
	})
	f.c.Run(context.Background())
	t.Cleanup(f.c.Stop)
	return f
}

// waitFor polls snapshots until cond holds
func (f *controllerFixture) waitFor(desc string, cond func(Snapshot) bool) Snapshot {
	f.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := f.c.Snapshot()
		if err != nil {
			f.t.Fatalf("Snapshot() error = %v", err)
		}
		if cond(snap) {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	f.t.Fatalf("timed out waiting for %s", desc)
	return Snapshot{}
}

// stepUntil advances the mock clock a second at a time until cond holds
func (f *controllerFixture) stepUntil(desc string, max int, cond func(Snapshot) bool) {
	f.t.Helper()
	for i := 0; i < max; i++ {
		f.clock.Add(time.Second)
		snap, err := f.c.Snapshot()
		if err != nil {
			f.t.Fatalf("Snapshot() error = %v", err)
		}
		if cond(snap) {
			return
		}
	}
	f.t.Fatalf("%s did not happen within %d steps", desc, max)
}

func (f *controllerFixture) waitFinished() *entities.StandupSession {
	f.t.Helper()
	select {
	case s := <-f.finished:
		return s
	case <-time.After(2 * time.Second):
		f.t.Fatalf("session never finished")
		return nil
	}
}

func listeningTo(name string) func(Snapshot) bool {
	return func(s Snapshot) bool {
		return s.Phase == PhaseListening && s.Member != nil && s.Member.Name == name
	}
}

func TestController_TypedSession(t *testing.T) {
	f := newControllerFixture(t, &typedChannel{}, DefaultSettings())
	members := roster(60, "Alice", "Bob")

	if err := f.c.Start(members, entities.DefaultQuestion); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !f.c.Active() {
		t.Fatalf("controller not active after start")
	}

	f.waitFor("Alice listening", listeningTo("Alice"))
	if err := f.c.Done("I will ship the API by Friday."); err != nil {
		t.Fatalf("Done() error = %v", err)
	}

	f.waitFor("Bob listening", listeningTo("Bob"))
	if err := f.c.Done("Blocked on review."); err != nil {
		t.Fatalf("Done() error = %v", err)
	}

	session := f.waitFinished()
	if got := session.Responses[members[0].ID].AnswerText; got != "I will ship the API by Friday." {
		t.Fatalf("Alice answer = %q", got)
	}
	if got := session.Responses[members[1].ID].AnswerText; got != "Blocked on review." {
		t.Fatalf("Bob answer = %q", got)
	}
	f.waitFor("completed", func(s Snapshot) bool { return s.Phase == PhaseCompleted })
	if f.c.Active() {
		t.Fatalf("controller still active after completion")
	}
}

func TestController_DoneWithoutSession(t *testing.T) {
	f := newControllerFixture(t, &typedChannel{}, DefaultSettings())

	if err := f.c.Done("hello"); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Fatalf("Done() error = %v, want ErrNoActiveSession", err)
	}
	if err := f.c.End(); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Fatalf("End() error = %v, want ErrNoActiveSession", err)
	}
	if err := f.c.Start(nil, entities.DefaultQuestion); !errors.Is(err, usecaseErrors.ErrEmptyRoster) {
		t.Fatalf("Start() error = %v, want ErrEmptyRoster", err)
	}
}

func TestController_SilenceFinalizesSpokenAnswer(t *testing.T) {
	voice := &fakeVoice{}
	f := newControllerFixture(t, voice, DefaultSettings())
	members := roster(60, "Alice")

	if err := f.c.Start(members, entities.DefaultQuestion); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.waitFor("Alice listening", listeningTo("Alice"))

	if !f.c.Deliver(speech.Fragment{Text: "Working on the parser.", Final: true}) {
		t.Fatalf("Deliver() found no open listen handle")
	}
	f.stepUntil("silence finalize", 10, func(s Snapshot) bool { return s.Turns == 1 })

	session := f.waitFinished()
	if got := session.Responses[members[0].ID].AnswerText; got != "Working on the parser." {
		t.Fatalf("answer = %q", got)
	}
}

func TestController_TimeLimitRecordsNoResponse(t *testing.T) {
	voice := &fakeVoice{}
	f := newControllerFixture(t, voice, DefaultSettings())
	members := roster(2, "Alice")

	if err := f.c.Start(members, entities.DefaultQuestion); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.waitFor("Alice listening", listeningTo("Alice"))
	f.stepUntil("time limit", 15, func(s Snapshot) bool { return s.Turns == 1 })

	session := f.waitFinished()
	if got := session.Responses[members[0].ID].AnswerText; got != entities.NoResponseAnswer {
		t.Fatalf("answer = %q, want %q", got, entities.NoResponseAnswer)
	}
}

func TestController_EndCancelsInFlightSpeech(t *testing.T) {
	voice := &fakeVoice{block: true}
	f := newControllerFixture(t, voice, DefaultSettings())

	if err := f.c.Start(roster(60, "Alice", "Bob"), entities.DefaultQuestion); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.waitFor("prompting", func(s Snapshot) bool { return s.Phase == PhasePrompting })

	if err := f.c.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	session := f.waitFinished()
	if len(session.Completed) != 0 {
		t.Fatalf("completed = %d, want 0", len(session.Completed))
	}

	deadline := time.Now().Add(2 * time.Second)
	for voice.cancels() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if voice.cancels() == 0 {
		t.Fatalf("in-flight prompt was not cancelled")
	}
}

func TestController_StoppedRejectsCommands(t *testing.T) {
	f := newControllerFixture(t, &typedChannel{}, DefaultSettings())
	f.c.Stop()

	if err := f.c.Start(roster(60, "Alice"), entities.DefaultQuestion); !errors.Is(err, usecaseErrors.ErrControllerStopped) {
		t.Fatalf("Start() error = %v, want ErrControllerStopped", err)
	}
	if _, err := f.c.Snapshot(); !errors.Is(err, usecaseErrors.ErrControllerStopped) {
		t.Fatalf("Snapshot() error = %v, want ErrControllerStopped", err)
	}
}

func TestSpeechQueue_CancelAllDropsQueued(t *testing.T) {
	q := newSpeechQueue()
	q.push(speakJob{token: 1, text: "a"})
	q.push(speakJob{token: 1, text: "b"})

	job, ctx, ok := q.next(context.Background())
	if !ok || job.text != "a" {
		t.Fatalf("next() = %+v, %v", job, ok)
	}
	if n := q.cancelAll(); n != 1 {
		t.Fatalf("cancelAll() dropped %d, want 1", n)
	}
	if ctx.Err() == nil {
		t.Fatalf("playing job was not cancelled")
	}
	if _, _, ok := q.next(context.Background()); ok {
		t.Fatalf("queue not empty after cancelAll")
	}
}
