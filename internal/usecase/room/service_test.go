package room

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/johnquangdev/standup-assistant/internal/infrastructure/external/livekit"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

func TestService_ManualChannel(t *testing.T) {
	svc := NewService(nil, Options{Mode: ModeManual}, nil)

	ch, err := svc.Channel(context.Background(), "core")
	if err != nil {
		t.Fatalf("Channel() error = %v", err)
	}
	if ch.Capabilities().ASR {
		t.Fatalf("manual mode returned a recognizing channel")
	}
	if _, err := svc.Join(context.Background(), "core", "alice", "Alice"); !errors.Is(err, usecaseErrors.ErrManualOnly) {
		t.Fatalf("Join() error = %v, want ErrManualOnly", err)
	}
}

func TestService_LiveChannel(t *testing.T) {
	lk := livekit.NewMockClient("devkey", "secret-secret-secret-secret-secret")
	svc := NewService(lk, Options{Mode: ModeLiveKit, LiveKitURL: "ws://lk:7880", SpeakTimeout: time.Second}, nil)

	ch, err := svc.Channel(context.Background(), "Core")
	if err != nil {
		t.Fatalf("Channel() error = %v", err)
	}
	if caps := ch.Capabilities(); !caps.ASR || !caps.TTS {
		t.Fatalf("capabilities = %+v", caps)
	}

	join, err := svc.Join(context.Background(), "Core", "alice", "Alice")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if join.Room != "standup-core" || join.Token == "" || join.URL != "ws://lk:7880" {
		t.Fatalf("join = %+v", join)
	}
	if _, err := svc.Join(context.Background(), "Core", " ", ""); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Fatalf("Join() with blank identity error = %v", err)
	}
}

func TestService_TeamForRoom(t *testing.T) {
	s := NewService(nil, Options{Mode: ModeManual}, nil)

	tests := []struct {
		name, room, meta, want string
		ok                     bool
	}{
		{"metadata wins", "standup-core", `{"team":"Core"}`, "Core", true},
		{"name fallback", "standup-infra", "", "infra", true},
		{"bad metadata", "standup-infra", "{", "infra", true},
		{"foreign room", "townhall", "", "", false},
		{"bare prefix", "standup-", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.TeamForRoom(tt.room, tt.meta)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("TeamForRoom() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

type downLiveKit struct {
	livekit.Client
}

func (downLiveKit) EnsureRoom(context.Context, string, *livekit.RoomOptions) (*livekit.RoomInfo, error) {
	return nil, errors.New("twirp error unavailable")
}

func TestService_LiveKitUnavailable(t *testing.T) {
	svc := NewService(downLiveKit{}, Options{Mode: ModeLiveKit}, nil)

	if _, err := svc.Channel(context.Background(), "core"); !errors.Is(err, usecaseErrors.ErrLiveKit) {
		t.Fatalf("Channel() error = %v, want ErrLiveKit", err)
	}
	if _, err := svc.Join(context.Background(), "core", "alice", "Alice"); !errors.Is(err, usecaseErrors.ErrLiveKit) {
		t.Fatalf("Join() error = %v, want ErrLiveKit", err)
	}
}
