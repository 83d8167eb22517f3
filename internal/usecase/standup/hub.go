package standup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/repositories"
	"github.com/johnquangdev/standup-assistant/internal/domain/speech"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
	"github.com/johnquangdev/standup-assistant/internal/usecase/insight"
	"github.com/johnquangdev/standup-assistant/pkg/jobcontext"
)

// ChannelFactory opens the speech channel a team's standups run on
type ChannelFactory func(ctx context.Context, teamID string) (speech.Channel, error)

// Archiver stores finished sessions. Retryable failures are retried, so
// Archive must tolerate being called again for the same session.
type Archiver interface {
	Archive(ctx context.Context, session *entities.StandupSession) error
}

// HubOptions configures every controller the hub creates
type HubOptions struct {
	Settings       Settings
	TickInterval   time.Duration
	Question       entities.Question
	Clock          clock.Clock
	Extractor      *insight.Extractor
	ArchiveTimeout time.Duration
	Logger         *zap.Logger
}

// Hub runs one controller per team
type Hub struct {
	rosters  repositories.RosterRepository
	channels ChannelFactory
	archiver Archiver
	opts     HubOptions
	logger   *zap.Logger

	mu          sync.Mutex
	controllers map[string]*Controller
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a hub. archiver may be nil.
func NewHub(rosters repositories.RosterRepository, channels ChannelFactory, archiver Archiver, opts HubOptions) *Hub {
	if opts.Question.Key == "" {
		opts.Question = entities.DefaultQuestion
	}
	if opts.ArchiveTimeout <= 0 {
		opts.ArchiveTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		rosters:     rosters,
		channels:    channels,
		archiver:    archiver,
		opts:        opts,
		logger:      opts.Logger,
		controllers: make(map[string]*Controller),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start freezes the team roster and begins a standup
func (h *Hub) Start(ctx context.Context, teamID string) (Snapshot, error) {
	if h.IsActive(teamID) {
		return Snapshot{}, usecaseErrors.ErrSessionInProgress
	}

	roster, err := h.rosters.Load(ctx, teamID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := roster.Validate(); err != nil {
		if errors.Is(err, entities.ErrEmptyRoster) {
			return Snapshot{}, usecaseErrors.ErrEmptyRoster
		}
		return Snapshot{}, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}

	c, err := h.controller(ctx, teamID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := c.Start(roster.Freeze(), h.opts.Question); err != nil {
		return Snapshot{}, err
	}

	if h.logger != nil {
		h.logger.Info("🎙️ Standup started",
			zap.String("team_id", teamID),
			zap.Int("members", len(roster.Members)),
			zap.Bool("manual", !c.Channel().Capabilities().ASR),
		)
	}
	return c.Snapshot()
}

// Done finalizes the active answer, appending text first when given
func (h *Hub) Done(teamID, text string) (Snapshot, error) {
	c, err := h.existing(teamID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := c.Done(text); err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot()
}

// End stops the team's standup early
func (h *Hub) End(teamID string) (Snapshot, error) {
	c, err := h.existing(teamID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := c.End(); err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot()
}

// Snapshot returns the team's current standup state
func (h *Hub) Snapshot(teamID string) (Snapshot, error) {
	c, err := h.existing(teamID)
	if err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot()
}

// Session returns a copy of the team's latest session
func (h *Hub) Session(teamID string) (*entities.StandupSession, error) {
	snap, err := h.Snapshot(teamID)
	if err != nil {
		return nil, err
	}
	if snap.Session == nil {
		return nil, usecaseErrors.ErrNoActiveSession
	}
	return snap.Session, nil
}

// Deliver feeds a recognized or typed fragment into the listening turn
func (h *Hub) Deliver(teamID string, f speech.Fragment) error {
	c, err := h.existing(teamID)
	if err != nil {
		return err
	}
	if !c.Deliver(f) {
		return usecaseErrors.ErrInvalidTransition
	}
	return nil
}

// AckSpeech confirms playback of a broadcast prompt
func (h *Hub) AckSpeech(teamID, speechID string) error {
	c, err := h.existing(teamID)
	if err != nil {
		return err
	}
	if !c.AckSpeech(speechID) {
		return usecaseErrors.ErrNotFound
	}
	return nil
}

// IsActive reports whether the team has a running standup
func (h *Hub) IsActive(teamID string) bool {
	h.mu.Lock()
	c, ok := h.controllers[teamID]
	h.mu.Unlock()
	return ok && c.Active()
}

// Close stops every controller
func (h *Hub) Close() {
	h.mu.Lock()
	controllers := make([]*Controller, 0, len(h.controllers))
	for _, c := range h.controllers {
		controllers = append(controllers, c)
	}
	h.controllers = make(map[string]*Controller)
	h.mu.Unlock()

	h.cancel()
	for _, c := range controllers {
		c.Stop()
	}
}

func (h *Hub) existing(teamID string) (*Controller, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.controllers[teamID]
	if !ok {
		return nil, usecaseErrors.ErrNoActiveSession
	}
	return c, nil
}

// controller returns the team's controller, creating and running it on first use
func (h *Hub) controller(ctx context.Context, teamID string) (*Controller, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.controllers[teamID]; ok {
		return c, nil
	}

	channel, err := h.channels(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to open speech channel: %w", err)
	}

	c := NewController(channel, ControllerOptions{
		TeamID:       teamID,
		Settings:     h.opts.Settings,
		TickInterval: h.opts.TickInterval,
		Clock:        h.opts.Clock,
		Extractor:    h.opts.Extractor,
		Logger:       h.logger,
		OnFinished:   h.archive,
	})
	c.Run(h.ctx)
	h.controllers[teamID] = c
	return c, nil
}

func (h *Hub) archive(session *entities.StandupSession) {
	if h.archiver == nil {
		return
	}
	ctx, cancel := jobcontext.JobBegin(context.Background(), session.ID, "archive", session.TeamID, h.opts.ArchiveTimeout)
	defer cancel()

	err := jobcontext.JobEnd(ctx, func(ctx context.Context) error {
		return h.archiver.Archive(ctx, session)
	})
	if err != nil && h.logger != nil {
		h.logger.Error("❌ Failed to archive standup", append(jobcontext.Fields(ctx), zap.Error(err))...)
	}
}
