package handler

import (
	stdErrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	"github.com/livekit/protocol/webhook"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/johnquangdev/standup-assistant/errors"
	usecaseErrors "github.com/johnquangdev/standup-assistant/internal/usecase/errors"
)

// RoomResolver maps LiveKit rooms back to teams
type RoomResolver interface {
	TeamForRoom(roomName, metadata string) (string, bool)
}

// WebhookHandler handles LiveKit webhook events. A finished room ends the
// standup that was using it.
type WebhookHandler struct {
	rooms         RoomResolver
	end           func(teamID string) error
	keys          auth.KeyProvider
	allowUnsigned bool
	logger        *zap.Logger
}

// NewWebhookHandler creates a new webhook handler. allowUnsigned accepts
// plain JSON events without an Authorization header, for the mock LiveKit setup.
func NewWebhookHandler(rooms RoomResolver, runner StandupRunner, apiKey, apiSecret string, allowUnsigned bool, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		rooms: rooms,
		end: func(teamID string) error {
			_, err := runner.End(teamID)
			return err
		},
		keys:          auth.NewSimpleKeyProvider(apiKey, apiSecret),
		allowUnsigned: allowUnsigned,
		logger:        logger,
	}
}

// HandleLiveKitWebhook handles POST /webhooks/livekit
// @Summary      LiveKit Webhook
// @Description  Receives webhook events from LiveKit server with JWT signature validation
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  common.SuccessResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /webhooks/livekit [post]
func (h *WebhookHandler) HandleLiveKitWebhook(c echo.Context) error {
	event, err := h.receive(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	switch event.Event {
	case "participant_joined", "participant_left":
		if event.Participant != nil && event.Room != nil && h.logger != nil {
			h.logger.Info("👤 Room participant changed",
				zap.String("event", event.Event),
				zap.String("room", event.Room.Name),
				zap.String("identity", event.Participant.Identity),
			)
		}
	case "room_finished":
		return h.handleRoomFinished(c, event)
	default:
		if h.logger != nil {
			h.logger.Debug("unhandled webhook event", zap.String("event", event.Event))
		}
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok", "event": event.Event})
}

func (h *WebhookHandler) receive(c echo.Context) (*livekit.WebhookEvent, error) {
	req := c.Request()
	if req.Header.Get("Authorization") != "" {
		event, err := webhook.ReceiveWebhookEvent(req, h.keys)
		if err != nil {
			return nil, errors.AppError{
				Raw:      err,
				HTTPCode: http.StatusUnauthorized,
				Code:     errors.ErrorCode_INVALID_ARGUMENT,
				Message:  "Invalid webhook signature",
			}
		}
		return event, nil
	}

	if !h.allowUnsigned {
		return nil, errors.AppError{
			HTTPCode: http.StatusUnauthorized,
			Code:     errors.ErrorCode_INVALID_ARGUMENT,
			Message:  "Missing webhook signature",
		}
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, errors.ErrInvalidPayload(err)
	}
	var event livekit.WebhookEvent
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(body, &event); err != nil {
		return nil, errors.ErrInvalidPayload(err)
	}
	return &event, nil
}

func (h *WebhookHandler) handleRoomFinished(c echo.Context, event *livekit.WebhookEvent) error {
	if event.Room == nil {
		return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok"})
	}

	team, ok := h.rooms.TeamForRoom(event.Room.Name, event.Room.Metadata)
	if !ok || strings.TrimSpace(team) == "" {
		return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ignored"})
	}

	if err := h.end(team); err != nil && !stdErrors.Is(err, usecaseErrors.ErrNoActiveSession) {
		if h.logger != nil {
			h.logger.Error("❌ Failed to end standup for finished room",
				zap.String("team_id", team),
				zap.String("room", event.Room.Name),
				zap.Error(err),
			)
		}
	} else if h.logger != nil {
		h.logger.Info("🏁 Room finished", zap.String("team_id", team), zap.String("room", event.Room.Name))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok", "event": event.Event, "team_id": team})
}
