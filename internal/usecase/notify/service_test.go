package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

type recorder struct {
	subject, body string
	calls         int
	err           error
}

func (r *recorder) Send(_ context.Context, subject, body string) error {
	r.calls++
	r.subject, r.body = subject, body
	return r.err
}

func session() *entities.StandupSession {
	s := entities.NewStandupSession("core", []entities.Member{entities.NewMember("Alice", 60)},
		entities.DefaultQuestion, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC))
	s.Responses[s.Members[0].ID].AnswerText = "I'll cut the release."
	return s
}

func TestService_Deliver(t *testing.T) {
	chat, mail := &recorder{}, &recorder{}
	svc := NewService(chat, mail, nil, nil)

	if err := svc.Deliver(context.Background(), ChannelChat, session()); err != nil {
		t.Fatalf("Deliver(chat) error = %v", err)
	}
	if !strings.Contains(chat.body, "*Actions*") {
		t.Fatalf("chat body = %q", chat.body)
	}

	if err := svc.Deliver(context.Background(), ChannelEmail, session()); err != nil {
		t.Fatalf("Deliver(email) error = %v", err)
	}
	if mail.subject != "Standup summary: core (2026-03-02)" || !strings.Contains(mail.body, "== Alice") {
		t.Fatalf("email = %q / %q", mail.subject, mail.body)
	}
}

func TestService_DeliverErrors(t *testing.T) {
	failing := &recorder{err: errors.New("timeout")}
	svc := NewService(failing, nil, nil, nil)

	tests := []struct {
		channel string
		want    error
	}{
		{ChannelChat, usecaseErrors.ErrDeliveryFailed},
		{ChannelEmail, usecaseErrors.ErrChannelDisabled},
		{"fax", usecaseErrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			if err := svc.Deliver(context.Background(), tt.channel, session()); !errors.Is(err, tt.want) {
				t.Fatalf("Deliver() error = %v, want %v", err, tt.want)
			}
		})
	}
	if failing.calls != 1 {
		t.Fatalf("sender called %d times, want exactly 1 (no retry)", failing.calls)
	}
}
