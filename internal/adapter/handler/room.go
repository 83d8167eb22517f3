package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/standup-assistant/internal/adapter/dto/standup"
	"github.com/johnquangdev/standup-assistant/internal/adapter/presenter"
	roomUsecase "github.com/johnquangdev/standup-assistant/internal/usecase/room"
)

// RoomJoiner issues LiveKit credentials for team rooms
type RoomJoiner interface {
	Join(ctx context.Context, teamID, identity, name string) (*roomUsecase.JoinInfo, error)
}

// Room handles live room requests
type Room struct {
	rooms  RoomJoiner
	logger *zap.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomJoiner, logger *zap.Logger) *Room {
	return &Room{rooms: rooms, logger: logger}
}

// Token handles POST /teams/:team/standup/livekit-token
// @Summary      Join the team's live room
// @Description  Issues a LiveKit access token; only available in livekit speech mode
// @Tags         Rooms
// @Accept       json
// @Produce      json
// @Param        team     path      string                true  "Team ID"
// @Param        request  body      standup.TokenRequest  true  "Participant identity"
// @Success      200      {object}  standup.TokenResponse
// @Failure      400      {object}  common.ErrorResponse  "Manual speech mode"
// @Failure      500      {object}  common.ErrorResponse  "LiveKit failure"
// @Router       /teams/{team}/standup/livekit-token [post]
func (h *Room) Token(c echo.Context) error {
	team := c.Param("team")

	var req dto.TokenRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	info, err := h.rooms.Join(c.Request().Context(), team, req.Identity, req.Name)
	if err != nil {
		return HandleError(h.logger, c, toAppError(team, err))
	}

	if h.logger != nil {
		h.logger.Info("🎫 LiveKit token issued",
			zap.String("team_id", team),
			zap.String("room", info.Room),
			zap.String("identity", info.Identity),
		)
	}
	return HandleSuccess(h.logger, c, presenter.ToTokenResponse(info))
}
