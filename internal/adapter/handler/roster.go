package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/standup-assistant/internal/adapter/dto/roster"
	"github.com/johnquangdev/standup-assistant/internal/adapter/presenter"
	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	rosterUsecase "github.com/johnquangdev/standup-assistant/internal/usecase/roster"
)

// RosterEditor reads and replaces team rosters
type RosterEditor interface {
	Get(ctx context.Context, teamID string) (*entities.Roster, error)
	Put(ctx context.Context, teamID string, members []rosterUsecase.MemberInput) (*entities.Roster, error)
}

// ActivityChecker reports running standups
type ActivityChecker interface {
	IsActive(teamID string) bool
}

// Roster handles roster requests
type Roster struct {
	rosters RosterEditor
	active  ActivityChecker
	logger  *zap.Logger
}

// NewRosterHandler creates a roster handler. active may be nil.
func NewRosterHandler(rosters RosterEditor, active ActivityChecker, logger *zap.Logger) *Roster {
	return &Roster{rosters: rosters, active: active, logger: logger}
}

// Get handles GET /teams/:team/roster
// @Summary      Get a team roster
// @Tags         Roster
// @Produce      json
// @Param        team  path      string  true  "Team ID"
// @Success      200   {object}  roster.RosterResponse
// @Failure      404   {object}  common.ErrorResponse  "Roster not found"
// @Router       /teams/{team}/roster [get]
func (h *Roster) Get(c echo.Context) error {
	team := c.Param("team")
	r, err := h.rosters.Get(c.Request().Context(), team)
	if err != nil {
		return HandleError(h.logger, c, toAppError(team, err))
	}
	return HandleSuccess(h.logger, c, presenter.ToRosterResponse(r, h.frozen(team)))
}

// Put handles PUT /teams/:team/roster
// @Summary      Replace a team roster
// @Description  Rejected while the team has a standup running
// @Tags         Roster
// @Accept       json
// @Produce      json
// @Param        team     path      string                   true  "Team ID"
// @Param        request  body      roster.PutRosterRequest  true  "Members in speaking order"
// @Success      200      {object}  roster.RosterResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid roster"
// @Failure      409      {object}  common.ErrorResponse  "Roster frozen"
// @Router       /teams/{team}/roster [put]
func (h *Roster) Put(c echo.Context) error {
	team := c.Param("team")

	var req dto.PutRosterRequest
	if err := bind(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	inputs := make([]rosterUsecase.MemberInput, len(req.Members))
	for i, m := range req.Members {
		inputs[i] = rosterUsecase.MemberInput{Name: m.Name, TimeLimitSeconds: m.TimeLimitSeconds}
	}

	r, err := h.rosters.Put(c.Request().Context(), team, inputs)
	if err != nil {
		return HandleError(h.logger, c, toAppError(team, err))
	}
	return HandleSuccess(h.logger, c, presenter.ToRosterResponse(r, false))
}

func (h *Roster) frozen(team string) bool {
	return h.active != nil && h.active.IsActive(team)
}
