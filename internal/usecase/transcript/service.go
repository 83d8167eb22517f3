package transcript

import (
	"context"
	"fmt"

	"github.com/johnquangdev/standup-assistant/internal/domain/speech"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

// MaxAudioBytes bounds one recorded answer
const MaxAudioBytes = 25 << 20

// Transcriber converts recorded audio to text
type Transcriber interface {
	Transcribe(ctx context.Context, teamID string, audio []byte, contentType string) (string, error)
}

// FragmentSink receives recognized text for a team's listening turn
type FragmentSink interface {
	Deliver(teamID string, f speech.Fragment) error
}

// Service feeds transcribed audio answers into running standups
type Service struct {
	transcriber Transcriber
	sink        FragmentSink
}

// NewService creates the service. A nil transcriber disables audio answers.
func NewService(transcriber Transcriber, sink FragmentSink) *Service {
	return &Service{transcriber: transcriber, sink: sink}
}

// Enabled reports whether audio answers are accepted
func (s *Service) Enabled() bool { return s.transcriber != nil }

// SubmitAudio transcribes audio and delivers it as a final fragment
func (s *Service) SubmitAudio(ctx context.Context, teamID string, audio []byte, contentType string) (string, error) {
	if s.transcriber == nil {
		return "", usecaseErrors.ErrChannelDisabled
	}
	if len(audio) == 0 || len(audio) > MaxAudioBytes {
		return "", fmt.Errorf("%w: audio size %d", usecaseErrors.ErrInvalidInput, len(audio))
	}

	text, err := s.transcriber.Transcribe(ctx, teamID, audio, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecaseErrors.ErrTranscriptionFailed, err)
	}
	if err := s.sink.Deliver(teamID, speech.Fragment{Text: text, Final: true}); err != nil {
		return text, err
	}
	return text, nil
}
