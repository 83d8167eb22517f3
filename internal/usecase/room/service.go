package room

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	domainspeech "github.com/johnquangdev/standup-assistant/internal/domain/speech"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/standup-assistant/internal/infrastructure/speech"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

// Speech modes
const (
	ModeManual  = "manual"
	ModeLiveKit = "livekit"
)

// JoinInfo is what a browser client needs to join a standup room
type JoinInfo struct {
	URL      string
	Room     string
	Identity string
	Token    string
}

// Options configures the room service
type Options struct {
	Mode         string
	LiveKitURL   string
	RoomPrefix   string
	SpeakTimeout time.Duration
	// ManualOutput receives rendered prompts in manual mode; may be nil
	ManualOutput io.Writer
}

// Service maps teams to speech channels and LiveKit rooms
type Service struct {
	lk     livekit.Client
	opts   Options
	logger *zap.Logger
}

// NewService creates a room service. lk may be nil in manual mode.
func NewService(lk livekit.Client, opts Options, logger *zap.Logger) *Service {
	if opts.RoomPrefix == "" {
		opts.RoomPrefix = "standup-"
	}
	return &Service{lk: lk, opts: opts, logger: logger}
}

// RoomName returns the LiveKit room of a team
func (s *Service) RoomName(teamID string) string {
	return s.opts.RoomPrefix + strings.ToLower(teamID)
}

// Channel opens the speech channel for a team according to the configured mode
func (s *Service) Channel(ctx context.Context, teamID string) (domainspeech.Channel, error) {
	if s.opts.Mode != ModeLiveKit {
		return speech.NewManualChannel(s.opts.ManualOutput, s.logger), nil
	}
	if s.lk == nil {
		return nil, usecaseErrors.ErrManualOnly
	}

	room, err := s.lk.EnsureRoom(ctx, s.RoomName(teamID), &livekit.RoomOptions{
		MaxParticipants:  50,
		EmptyTimeout:     600,
		DepartureTimeout: 60,
		Metadata:         roomMetadata(teamID),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ensure room: %v", usecaseErrors.ErrLiveKit, err)
	}

	if s.logger != nil {
		s.logger.Info("🔊 Live speech room ready",
			zap.String("team_id", teamID),
			zap.String("room", room.Name),
			zap.String("sid", room.SID),
		)
	}
	return speech.NewLiveChannel(s.lk, room.Name, s.opts.SpeakTimeout, s.logger), nil
}

// Join issues a participant token for the team room
func (s *Service) Join(ctx context.Context, teamID, identity, name string) (*JoinInfo, error) {
	if s.opts.Mode != ModeLiveKit || s.lk == nil {
		return nil, usecaseErrors.ErrManualOnly
	}
	if strings.TrimSpace(identity) == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}

	roomName := s.RoomName(teamID)
	if _, err := s.lk.EnsureRoom(ctx, roomName, nil); err != nil {
		return nil, fmt.Errorf("%w: ensure room: %v", usecaseErrors.ErrLiveKit, err)
	}

	token, err := s.lk.GenerateToken(identity, roomName, name, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: generate token: %v", usecaseErrors.ErrLiveKit, err)
	}
	return &JoinInfo{
		URL:      s.opts.LiveKitURL,
		Room:     roomName,
		Identity: identity,
		Token:    token,
	}, nil
}

type metadata struct {
	Team string `json:"team"`
}

func roomMetadata(teamID string) string {
	data, _ := json.Marshal(metadata{Team: teamID})
	return string(data)
}

// TeamForRoom resolves the team of a standup room from its metadata, falling
// back to the room name. ok is false for rooms this service did not create.
func (s *Service) TeamForRoom(roomName, roomMeta string) (string, bool) {
	var md metadata
	if roomMeta != "" && json.Unmarshal([]byte(roomMeta), &md) == nil && md.Team != "" {
		return md.Team, true
	}
	if !strings.HasPrefix(roomName, s.opts.RoomPrefix) {
		return "", false
	}
	team := strings.TrimPrefix(roomName, s.opts.RoomPrefix)
	return team, team != ""
}
