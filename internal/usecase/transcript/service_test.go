package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/johnquangdev/standup-assistant/internal/domain/speech"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f fakeTranscriber) Transcribe(context.Context, string, []byte, string) (string, error) {
	return f.text, f.err
}

type sinkFunc func(string, speech.Fragment) error

func (f sinkFunc) Deliver(team string, fr speech.Fragment) error { return f(team, fr) }

func TestService_SubmitAudio(t *testing.T) {
	var delivered speech.Fragment
	sink := sinkFunc(func(_ string, f speech.Fragment) error {
		delivered = f
		return nil
	})
	svc := NewService(fakeTranscriber{text: "I will fix the build."}, sink)

	text, err := svc.SubmitAudio(context.Background(), "core", []byte("RIFF"), "audio/wav")
	if err != nil {
		t.Fatalf("SubmitAudio() error = %v", err)
	}
	if text != "I will fix the build." || !delivered.Final || delivered.Text != text {
		t.Fatalf("delivered = %+v, text = %q", delivered, text)
	}
}

func TestService_SubmitAudioErrors(t *testing.T) {
	ok := sinkFunc(func(string, speech.Fragment) error { return nil })
	tests := []struct {
		name string
		svc  *Service
		data []byte
		want error
	}{
		{"disabled", NewService(nil, ok), []byte("x"), usecaseErrors.ErrChannelDisabled},
		{"empty", NewService(fakeTranscriber{text: "x"}, ok), nil, usecaseErrors.ErrInvalidInput},
		{"asr failure", NewService(fakeTranscriber{err: errors.New("boom")}, ok), []byte("x"), usecaseErrors.ErrTranscriptionFailed},
		{"not listening", NewService(fakeTranscriber{text: "x"}, sinkFunc(func(string, speech.Fragment) error {
			return usecaseErrors.ErrInvalidTransition
		})), []byte("x"), usecaseErrors.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.SubmitAudio(context.Background(), "core", tt.data, "audio/wav"); !errors.Is(err, tt.want) {
				t.Fatalf("SubmitAudio() error = %v, want %v", err, tt.want)
			}
		})
	}
}
