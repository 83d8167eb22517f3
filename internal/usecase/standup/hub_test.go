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

type stubRosters struct {
	mu      sync.Mutex
	rosters map[string]*entities.Roster
}

func (s *stubRosters) Load(_ context.Context, teamID string) (*entities.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rosters[teamID]
	if !ok {
		return nil, entities.ErrRosterNotFound
	}
	copied := *r
	copied.Members = r.Freeze()
	return &copied, nil
}

func (s *stubRosters) Save(_ context.Context, r *entities.Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosters[r.TeamID] = r
	return nil
}

type archiveFunc func(context.Context, *entities.StandupSession) error

func (f archiveFunc) Archive(ctx context.Context, s *entities.StandupSession) error { return f(ctx, s) }

func newTestHub(t *testing.T, rosters map[string]*entities.Roster) (*Hub, chan *entities.StandupSession) {
	t.Helper()
	archived := make(chan *entities.StandupSession, 4)
	hub := NewHub(
		&stubRosters{rosters: rosters},
		func(context.Context, string) (speech.Channel, error) { return &typedChannel{}, nil },
		archiveFunc(func(_ context.Context, s *entities.StandupSession) error {
			archived <- s
			return nil
		}),
		HubOptions{Settings: DefaultSettings(), Clock: clock.NewMock(), Logger: zap.NewNop()},
	)
	t.Cleanup(hub.Close)
	return hub, archived
}

func waitListening(t *testing.T, hub *Hub, team, name string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := hub.Snapshot(team)
		if err != nil {
			t.Fatalf("Snapshot() error = %v", err)
		}
		if listeningTo(name)(snap) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("%s never reached listening", name)
}

func TestHub_RunsStandupAndArchives(t *testing.T) {
	hub, archived := newTestHub(t, map[string]*entities.Roster{
		"core": {TeamID: "core", Members: roster(60, "Alice")},
	})

	if _, err := hub.Start(context.Background(), "core"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !hub.IsActive("core") {
		t.Fatalf("team not active after start")
	}
	if _, err := hub.Start(context.Background(), "core"); !errors.Is(err, usecaseErrors.ErrSessionInProgress) {
		t.Fatalf("second Start() error = %v, want ErrSessionInProgress", err)
	}

	waitListening(t, hub, "core", "Alice")
	if _, err := hub.Done("core", "Shipped the release."); err != nil {
		t.Fatalf("Done() error = %v", err)
	}

	select {
	case s := <-archived:
		if s.TeamID != "core" || !s.IsFinished() {
			t.Fatalf("archived session = %+v", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("session not archived")
	}

	session, err := hub.Session("core")
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if got := session.Responses[session.Members[0].ID].AnswerText; got != "Shipped the release." {
		t.Fatalf("answer = %q", got)
	}
}

func TestHub_Errors(t *testing.T) {
	hub, _ := newTestHub(t, map[string]*entities.Roster{
		"empty": {TeamID: "empty"},
	})

	if _, err := hub.Start(context.Background(), "ghost"); !errors.Is(err, entities.ErrRosterNotFound) {
		t.Fatalf("Start(ghost) error = %v", err)
	}
	if _, err := hub.Start(context.Background(), "empty"); !errors.Is(err, usecaseErrors.ErrEmptyRoster) {
		t.Fatalf("Start(empty) error = %v", err)
	}
	if _, err := hub.Snapshot("ghost"); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Fatalf("Snapshot(ghost) error = %v", err)
	}
	if _, err := hub.End("ghost"); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Fatalf("End(ghost) error = %v", err)
	}
	if err := hub.AckSpeech("ghost", "x"); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Fatalf("AckSpeech(ghost) error = %v", err)
	}
	if hub.IsActive("ghost") {
		t.Fatalf("unknown team reported active")
	}
}

func TestHub_DeliverNeedsListeningTurn(t *testing.T) {
	hub, _ := newTestHub(t, map[string]*entities.Roster{
		"core": {TeamID: "core", Members: roster(60, "Alice", "Bob")},
	})

	if _, err := hub.Start(context.Background(), "core"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitListening(t, hub, "core", "Alice")

	if err := hub.Deliver("core", speech.Fragment{Text: "Fixed the flaky test.", Final: true}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	snap, err := hub.Done("core", "")
	if err != nil {
		t.Fatalf("Done() error = %v", err)
	}
	if snap.Turns != 1 {
		t.Fatalf("turns = %d, want 1", snap.Turns)
	}

	snap, err = hub.End("core")
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if snap.Phase != PhaseCompleted {
		t.Fatalf("phase = %s, want completed", snap.Phase)
	}
	if err := hub.Deliver("core", speech.Fragment{Text: "late"}); !errors.Is(err, usecaseErrors.ErrInvalidTransition) {
		t.Fatalf("Deliver() after end error = %v", err)
	}
}
