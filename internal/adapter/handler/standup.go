package handler

import (
	"context"
	stdErrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/errors"
	dto "github.com/johnquangdev/standup-assistant/internal/adapter/dto/standup"
	"github.com/johnquangdev/standup-assistant/internal/adapter/presenter"
	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/speech"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
	"github.com/johnquangdev/standup-assistant/internal/usecase/standup"
	"github.com/johnquangdev/standup-assistant/internal/usecase/summary"
	"github.com/johnquangdev/standup-assistant/internal/usecase/transcript"
)

// StandupRunner runs team standups
type StandupRunner interface {
	Start(ctx context.Context, teamID string) (standup.Snapshot, error)
	Done(teamID, text string) (standup.Snapshot, error)
	End(teamID string) (standup.Snapshot, error)
	Snapshot(teamID string) (standup.Snapshot, error)
	Session(teamID string) (*entities.StandupSession, error)
	Deliver(teamID string, f speech.Fragment) error
	AckSpeech(teamID, speechID string) error
	IsActive(teamID string) bool
}

// Notifier sends a session summary to one channel
type Notifier interface {
	Deliver(ctx context.Context, channel string, session *entities.StandupSession) error
}

// AudioSubmitter transcribes recorded answers into the listening turn
type AudioSubmitter interface {
	SubmitAudio(ctx context.Context, teamID string, audio []byte, contentType string) (string, error)
}

// Standup handles standup commands and summaries
type Standup struct {
	runner   StandupRunner
	notifier Notifier
	audio    AudioSubmitter
	builder  *summary.Builder
	logger   *zap.Logger
}

// NewStandupHandler creates a standup handler. notifier and audio may be nil.
func NewStandupHandler(runner StandupRunner, notifier Notifier, audio AudioSubmitter, builder *summary.Builder, logger *zap.Logger) *Standup {
	if builder == nil {
		builder = summary.NewBuilder(nil)
	}
	return &Standup{
		runner:   runner,
		notifier: notifier,
		audio:    audio,
		builder:  builder,
		logger:   logger,
	}
}

// Start handles POST /teams/:team/standup/start
// @Summary      Start a standup
// @Description  Freezes the team roster and prompts the first member
// @Tags         Standup
// @Produce      json
// @Param        team  path      string  true  "Team ID"
// @Success      201   {object}  standup.SnapshotResponse
// @Failure      400   {object}  common.ErrorResponse  "Empty roster"
// @Failure      404   {object}  common.ErrorResponse  "Roster not found"
// @Failure      409   {object}  common.ErrorResponse  "Standup already running"
// @Router       /teams/{team}/standup/start [post]
func (h *Standup) Start(c echo.Context) error {
	team := c.Param("team")
	snap, err := h.runner.Start(c.Request().Context(), team)
	if err != nil {
		return h.fail(c, team, err)
	}
	return HandleCreated(h.logger, c, presenter.ToSnapshotResponse(team, snap))
}

// Done handles POST /teams/:team/standup/done
// @Summary      Finalize the current answer
// @Description  Optional text is appended as a final fragment before the answer is finalized
// @Tags         Standup
// @Accept       json
// @Produce      json
// @Param        team     path      string               true   "Team ID"
// @Param        request  body      standup.DoneRequest  false  "Typed answer"
// @Success      200      {object}  standup.SnapshotResponse
// @Failure      409      {object}  common.ErrorResponse  "Not listening"
// @Router       /teams/{team}/standup/done [post]
func (h *Standup) Done(c echo.Context) error {
	team := c.Param("team")

	var req dto.DoneRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return HandleError(h.logger, c, err)
		}
	}

	snap, err := h.runner.Done(team, req.Text)
	if err != nil {
		return h.fail(c, team, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSnapshotResponse(team, snap))
}

// End handles POST /teams/:team/standup/end
// @Summary      End the standup early
// @Tags         Standup
// @Produce      json
// @Param        team  path      string  true  "Team ID"
// @Success      200   {object}  standup.SnapshotResponse
// @Failure      409   {object}  common.ErrorResponse  "No standup running"
// @Router       /teams/{team}/standup/end [post]
func (h *Standup) End(c echo.Context) error {
	team := c.Param("team")
	snap, err := h.runner.End(team)
	if err != nil {
		return h.fail(c, team, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSnapshotResponse(team, snap))
}

// Snapshot handles GET /teams/:team/standup
// @Summary      Current standup state
// @Tags         Standup
// @Produce      json
// @Param        team  path      string  true  "Team ID"
// @Success      200   {object}  standup.SnapshotResponse
// @Failure      409   {object}  common.ErrorResponse  "No standup for team"
// @Router       /teams/{team}/standup [get]
func (h *Standup) Snapshot(c echo.Context) error {
	team := c.Param("team")
	snap, err := h.runner.Snapshot(team)
	if err != nil {
		return h.fail(c, team, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSnapshotResponse(team, snap))
}

// Fragment handles POST /teams/:team/standup/fragments
// @Summary      Push recognized speech
// @Description  Used by live clients doing speech recognition in the browser
// @Tags         Standup
// @Accept       json
// @Produce      json
// @Param        team     path      string                   true  "Team ID"
// @Param        request  body      standup.FragmentRequest  true  "Fragment"
// @Success      202      {object}  common.SuccessResponse
// @Failure      409      {object}  common.ErrorResponse  "No listening turn"
// @Router       /teams/{team}/standup/fragments [post]
func (h *Standup) Fragment(c echo.Context) error {
	team := c.Param("team")

	var req dto.FragmentRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.runner.Deliver(team, speech.Fragment{Text: req.Text, Final: req.Final}); err != nil {
		return h.fail(c, team, err)
	}
	return c.NoContent(http.StatusAccepted)
}

// SpeechAck handles POST /teams/:team/standup/speech-ack
// @Summary      Confirm prompt playback
// @Tags         Standup
// @Accept       json
// @Param        team     path  string                    true  "Team ID"
// @Param        request  body  standup.SpeechAckRequest  true  "Speech ID"
// @Success      204
// @Failure      404      {object}  common.ErrorResponse  "Unknown speech ID"
// @Router       /teams/{team}/standup/speech-ack [post]
func (h *Standup) SpeechAck(c echo.Context) error {
	team := c.Param("team")

	var req dto.SpeechAckRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.runner.AckSpeech(team, req.SpeechID); err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrNotFound) {
			return HandleError(h.logger, c, errors.ErrNotFound("speech "+req.SpeechID))
		}
		return h.fail(c, team, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Audio handles POST /teams/:team/standup/audio
// @Summary      Upload a recorded answer
// @Description  The raw request body is transcribed and fed to the listening turn as a final fragment
// @Tags         Standup
// @Accept       audio/wav
// @Produce      json
// @Param        team  path      string  true  "Team ID"
// @Success      200   {object}  standup.AudioResponse
// @Failure      400   {object}  common.ErrorResponse  "Transcription disabled or bad audio"
// @Failure      502   {object}  common.ErrorResponse  "Transcription failed"
// @Router       /teams/{team}/standup/audio [post]
func (h *Standup) Audio(c echo.Context) error {
	team := c.Param("team")
	if h.audio == nil {
		return HandleError(h.logger, c, errors.ErrChannelDisabled("audio"))
	}
	if !h.runner.IsActive(team) {
		return HandleError(h.logger, c, errors.ErrStandupNotActive(team))
	}

	body := http.MaxBytesReader(c.Response(), c.Request().Body, transcript.MaxAudioBytes+1)
	audio, err := io.ReadAll(body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}

	text, err := h.audio.SubmitAudio(c.Request().Context(), team, audio, c.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrChannelDisabled) {
			return HandleError(h.logger, c, errors.ErrChannelDisabled("audio"))
		}
		return h.fail(c, team, err)
	}
	return HandleSuccess(h.logger, c, dto.AudioResponse{Text: text})
}

// Summary handles GET /teams/:team/standup/summary
// @Summary      Summary of the latest session
// @Description  Well defined mid-session; members without a turn have empty answers
// @Tags         Standup
// @Produce      json
// @Param        team    path      string  true   "Team ID"
// @Param        format  query     string  false  "json, text or chat"
// @Success      200     {object}  common.SuccessResponse
// @Failure      400     {object}  common.ErrorResponse  "Unknown format"
// @Router       /teams/{team}/standup/summary [get]
func (h *Standup) Summary(c echo.Context) error {
	team := c.Param("team")

	var q dto.SummaryQuery
	if err := bind(c, &q); err != nil {
		return HandleError(h.logger, c, errors.ErrSummaryFormatUnknown(c.QueryParam("format")))
	}

	session, err := h.runner.Session(team)
	if err != nil {
		return h.fail(c, team, err)
	}
	exp := h.builder.Build(session)

	format := strings.ToLower(q.Format)
	if format == "" || format == summary.FormatJSON {
		return HandleSuccess(h.logger, c, exp)
	}
	text, err := summary.Render(exp, format)
	if err != nil {
		return HandleError(h.logger, c, toAppError(format, err))
	}
	return HandleSuccess(h.logger, c, dto.TextSummaryResponse{Format: format, Text: text})
}

// Notify handles POST /teams/:team/standup/notify
// @Summary      Send the summary
// @Description  One delivery attempt; failures are reported and not retried
// @Tags         Standup
// @Accept       json
// @Produce      json
// @Param        team     path      string                 true  "Team ID"
// @Param        request  body      standup.NotifyRequest  true  "Channel"
// @Success      200      {object}  standup.NotifyResponse
// @Failure      400      {object}  common.ErrorResponse  "Channel not configured"
// @Failure      502      {object}  common.ErrorResponse  "Delivery failed"
// @Router       /teams/{team}/standup/notify [post]
func (h *Standup) Notify(c echo.Context) error {
	team := c.Param("team")

	var req dto.NotifyRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if h.notifier == nil {
		return HandleError(h.logger, c, errors.ErrChannelDisabled(req.Channel))
	}

	session, err := h.runner.Session(team)
	if err != nil {
		return h.fail(c, team, err)
	}

	if err := h.notifier.Deliver(c.Request().Context(), req.Channel, session); err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrChannelDisabled):
			return HandleError(h.logger, c, errors.ErrChannelDisabled(req.Channel))
		case stdErrors.Is(err, usecaseErrors.ErrDeliveryFailed):
			return HandleError(h.logger, c, errors.ErrDeliveryFailed(req.Channel, err))
		}
		return h.fail(c, team, err)
	}
	return HandleSuccess(h.logger, c, dto.NotifyResponse{Channel: req.Channel, Delivered: true})
}

// fail maps err and responds. Phase conflicts carry the current phase.
func (h *Standup) fail(c echo.Context, team string, err error) error {
	if stdErrors.Is(err, usecaseErrors.ErrInvalidTransition) || stdErrors.Is(err, usecaseErrors.ErrStaleToken) {
		phase := ""
		if snap, serr := h.runner.Snapshot(team); serr == nil {
			phase = snap.Phase
		}
		return HandleError(h.logger, c, errors.ErrStandupInvalidState(team, phase))
	}
	return HandleError(h.logger, c, toAppError(team, err))
}
