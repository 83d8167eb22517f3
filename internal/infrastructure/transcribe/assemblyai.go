package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyTranscript is returned when the audio contained no recognizable speech
var ErrEmptyTranscript = errors.New("transcript is empty")

// AudioStore keeps uploaded answers so AssemblyAI can fetch them by URL
type AudioStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// AssemblyAI turns recorded answers into text
type AssemblyAI struct {
	client   *aai.Client
	language string
	store    AudioStore
	logger   *zap.Logger
}

// NewAssemblyAI creates a transcriber. Without a store, audio is sent through
// AssemblyAI's own upload endpoint.
func NewAssemblyAI(apiKey, language string, store AudioStore, logger *zap.Logger) *AssemblyAI {
	return &AssemblyAI{
		client:   aai.NewClient(apiKey),
		language: language,
		store:    store,
		logger:   logger,
	}
}

// Transcribe blocks until the transcript is ready
func (a *AssemblyAI) Transcribe(ctx context.Context, teamID string, audio []byte, contentType string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(a.language),
	}

	var (
		transcript aai.Transcript
		err        error
	)
	if a.store != nil {
		var url string
		url, err = a.stage(ctx, teamID, audio, contentType)
		if err != nil {
			return "", err
		}
		transcript, err = a.client.Transcripts.TranscribeFromURL(ctx, url, params)
	} else {
		transcript, err = a.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), params)
	}
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai error: %s", msg)
	}

	text := ""
	if transcript.Text != nil {
		text = strings.TrimSpace(*transcript.Text)
	}
	if text == "" {
		return "", ErrEmptyTranscript
	}

	if a.logger != nil {
		id := ""
		if transcript.ID != nil {
			id = *transcript.ID
		}
		a.logger.Info("🎙️ Answer transcribed",
			zap.String("team_id", teamID),
			zap.String("transcript_id", id),
			zap.Int("chars", len(text)),
		)
	}
	return text, nil
}

func (a *AssemblyAI) stage(ctx context.Context, teamID string, audio []byte, contentType string) (string, error) {
	name := path.Join("audio", teamID, time.Now().UTC().Format("20060102"), uuid.NewString()+extension(contentType))
	if err := a.store.UploadBytes(ctx, name, audio, contentType); err != nil {
		return "", fmt.Errorf("failed to stage audio: %w", err)
	}
	url, err := a.store.PresignedURL(ctx, name, time.Hour)
	if err != nil {
		return "", fmt.Errorf("failed to sign audio url: %w", err)
	}
	return url, nil
}

func extension(contentType string) string {
	switch {
	case strings.Contains(contentType, "wav"):
		return ".wav"
	case strings.Contains(contentType, "mpeg"), strings.Contains(contentType, "mp3"):
		return ".mp3"
	case strings.Contains(contentType, "ogg"):
		return ".ogg"
	case strings.Contains(contentType, "webm"):
		return ".webm"
	}
	return ".bin"
}
